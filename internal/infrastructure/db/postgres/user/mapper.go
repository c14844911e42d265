package user

import (
	domain "users-service/internal/domain/user"
)

func fromDBModel(model *User) *domain.User {
	var u = &domain.User{
		ID:            domain.ID(model.ID),
		Username:      model.Username,
		Email:         model.Email,
		RecoveryEmail: model.RecoveryEmail,
		PasswordHash:  model.PasswordHash,
		Role:          domain.Role(model.Role),
		Online:        model.Online,

		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,

		DeletedAt: model.DeletedAt,
	}

	return u
}

func fromDBModels(models *Users) domain.Users {
	us := make(domain.Users, len(*models))
	for idx, u := range *models {
		us[idx] = fromDBModel(u)
	}

	return us
}

package user

import (
	"users-service/internal/domain/user"
)

func ToResponseUser(uDomain user.User) User {
	var u = User{
		ID:            int64(uDomain.ID),
		Username:      uDomain.Username,
		Email:         uDomain.Email,
		RecoveryEmail: uDomain.RecoveryEmail,
		Role:          string(uDomain.Role),
		Online:        uDomain.Online,
		CreatedAt:     uDomain.CreatedAt,
		UpdatedAt:     uDomain.UpdatedAt,
		DeletedAt:     uDomain.DeletedAt,
	}

	return u
}

func ToResponseUsers(usDomain user.Users) Users {
	us := make(Users, len(usDomain))
	for idx, u := range usDomain {
		us[idx] = ToResponseUser(*u)
	}

	return us
}

func ToDomainDraft(req CreateRequest) user.Draft {
	return user.Draft{
		Username:      req.Username,
		Email:         req.Email,
		RecoveryEmail: req.RecoveryEmail,
		Password:      req.Password,
	}
}

func ToDomainPatch(req UpdateRequest) user.Patch {
	p := user.Patch{
		Username:      req.Username,
		Email:         req.Email,
		RecoveryEmail: req.RecoveryEmail,
		Password:      req.Password,
		Online:        req.Online,
	}
	if req.Role != nil {
		role := user.Role(*req.Role)
		p.Role = &role
	}

	return p
}

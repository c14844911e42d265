package user

import (
	"time"
)

type (
	User struct {
		ID            int64
		Username      string
		Email         string
		RecoveryEmail string
		PasswordHash  *string
		Role          string
		Online        bool

		CreatedAt time.Time
		UpdatedAt time.Time

		DeletedAt *time.Time
	}
	Users []*User
)

package user

import (
	"time"
)

// User is the wire shape of a user. There is deliberately no password
// field here; nothing read from storage ever serializes the hash.
type (
	User struct {
		ID            int64      `json:"id"`
		Username      string     `json:"username"`
		Email         string     `json:"email"`
		RecoveryEmail string     `json:"email_recuperacion"`
		Role          string     `json:"rol"`
		Online        bool       `json:"online"`
		CreatedAt     time.Time  `json:"created_at"`
		UpdatedAt     time.Time  `json:"updated_at"`
		DeletedAt     *time.Time `json:"deleted_at,omitempty"`
	}
	Users        []User
	ResponseData struct {
		Data  Users `json:"data"`
		Total int64 `json:"total,omitempty"`
	}
)

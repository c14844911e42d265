package user

import (
	"time"
)

type (
	ID   int64
	Role string

	// User is the single entity of the service. Username carries the
	// national ID number and is immutable after creation by convention.
	User struct {
		ID            ID
		Username      string
		Email         string
		RecoveryEmail string
		PasswordHash  *string
		Role          Role
		Online        bool

		CreatedAt time.Time
		UpdatedAt time.Time

		DeletedAt *time.Time
	}
	Users []*User

	// Draft is what the creation path accepts. Role and presence are
	// server-assigned and deliberately absent.
	Draft struct {
		Username      string
		Email         string
		RecoveryEmail string
		Password      string
	}

	// Patch carries a partial update; nil fields are left untouched.
	Patch struct {
		Username      *string
		Email         *string
		RecoveryEmail *string
		Password      *string
		Role          *Role
		Online        *bool
	}
)

const (
	RoleSudo   Role = "sudo"
	RoleAdmin  Role = "admin"
	RoleInvite Role = "invite"
)

func (r Role) Valid() bool {
	switch r {
	case RoleSudo, RoleAdmin, RoleInvite:
		return true
	}
	return false
}

// Deleted reports whether the user is soft-deleted.
func (u *User) Deleted() bool { return u.DeletedAt != nil }

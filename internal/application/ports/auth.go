package ports

import (
	"users-service/internal/domain/user"
)

// Auth issues access tokens and tracks the session store entries tied
// to them. Sessions are independent from the online flag on the entity.
type Auth interface {
	IssueToken(u *user.User) (string, error)
	Logout(token string) bool
}

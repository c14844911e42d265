package ports

import (
	"users-service/internal/infrastructure/session"
)

type SessionStore interface {
	Set(token string, identity session.Identity)
	Get(token string) (session.Identity, bool)
	Remove(token string)
}

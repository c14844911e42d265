package services

import (
	"errors"
	"time"

	"users-service/internal/application/ports"
	"users-service/internal/domain/user"
	"users-service/internal/infrastructure/jwt"
	"users-service/internal/infrastructure/session"
)

var ErrFailedToGenerateToken = errors.New("failed to generate token")

const tokenTTL = time.Hour

type AuthService struct {
	jwtService *jwt.Service
	sessions   ports.SessionStore
}

func NewAuthService(
	jwtService *jwt.Service,
	sessions ports.SessionStore,
) ports.Auth {
	return &AuthService{
		jwtService: jwtService,
		sessions:   sessions,
	}
}

// IssueToken signs an access token for u and registers a session entry
// under it. The session map and the online flag on the entity are
// separate presence signals and stay that way.
func (as *AuthService) IssueToken(u *user.User) (string, error) {
	token, err := as.jwtService.GenerateJWT(u.ID, u.Username, u.Role, tokenTTL)
	if err != nil {
		return "", ErrFailedToGenerateToken
	}

	as.sessions.Set(token, session.Identity{ID: u.ID, Name: u.Username})

	return token, nil
}

func (as *AuthService) Logout(token string) bool {
	if _, ok := as.sessions.Get(token); !ok {
		return false
	}
	as.sessions.Remove(token)

	return true
}

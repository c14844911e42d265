package ports

import (
	"context"

	"users-service/internal/domain/user"
)

// UserService owns the user lifecycle: creation, authentication,
// presence, partial update, listing and soft deletion. Every failure is
// a *fault.Fault; raw storage errors never cross this boundary.
type UserService interface {
	CreateUser(ctx context.Context, draft user.Draft) error
	// Authenticate is the only path allowed to read the password hash;
	// the returned user has it stripped.
	Authenticate(ctx context.Context, username, password string) (*user.User, error)
	// ToggleOnline negates the presence flag. Not idempotent: two calls
	// return the user to the original state. Legacy login behavior;
	// prefer SetOnline for new callers.
	ToggleOnline(ctx context.Context, u *user.User) (*user.User, error)
	SetOnline(ctx context.Context, u *user.User, online bool) (*user.User, error)
	UpdateUser(ctx context.Context, id user.ID, patch user.Patch) (bool, error)
	FindPage(ctx context.Context, skip, limit int, order user.Order) (user.Users, int64, error)
	FindSortedByDate(ctx context.Context, skip, limit int, order user.Order, field user.DateField) (user.Users, error)
	FindByRole(ctx context.Context, role user.Role) (user.Users, error)
	FindOnline(ctx context.Context) (user.Users, error)
	DeleteUser(ctx context.Context, id user.ID) error
}

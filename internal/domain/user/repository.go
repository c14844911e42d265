package user

import (
	"context"
	"errors"
)

// ErrDuplicate is returned by CreateUser/UpdateUser when a unique
// constraint on username or email is violated.
var ErrDuplicate = errors.New("duplicate username or email")

type (
	// Order is the sort direction of list queries.
	Order string

	// Field names a column the repository may look a user up by.
	Field string

	// DateField selects the lifecycle timestamp list queries sort by.
	DateField string
)

const (
	OrderAsc  Order = "ASC"
	OrderDesc Order = "DESC"

	FieldUsername      Field = "username"
	FieldEmail         Field = "email"
	FieldRecoveryEmail Field = "email_recuperacion"

	DateCreated DateField = "created"
	DateUpdated DateField = "updated"
	DateDeleted DateField = "deleted"
)

func (o Order) Valid() bool { return o == OrderAsc || o == OrderDesc }

func (f Field) Valid() bool {
	switch f {
	case FieldUsername, FieldEmail, FieldRecoveryEmail:
		return true
	}
	return false
}

// Repository is the persistence contract consumed by the lifecycle
// service. Reads exclude soft-deleted rows unless stated otherwise;
// lookups that match nothing return (nil, nil).
type Repository interface {
	FetchUserByID(ctx context.Context, id ID) (*User, error)
	// FetchUserByField looks a user up by one of the whitelisted unique
	// columns. The password hash is included; callers strip it.
	FetchUserByField(ctx context.Context, field Field, value string) (*User, error)
	// FetchUsersPage returns one page of active users ordered by id plus
	// the total count of active users. The projection excludes the
	// password hash.
	FetchUsersPage(ctx context.Context, skip, limit int, order Order) (Users, int64, error)
	// FetchUsersSortedByDate sorts by the given lifecycle timestamp.
	// Soft-deleted rows are included when includeDeleted is set.
	FetchUsersSortedByDate(ctx context.Context, skip, limit int, order Order, field DateField, includeDeleted bool) (Users, error)
	FetchUsersByRole(ctx context.Context, role Role) (Users, error)
	FetchOnlineUsers(ctx context.Context) (Users, error)
	CreateUser(ctx context.Context, req User) (*User, error)
	UpdateUser(ctx context.Context, req User) (*User, error)
	SetUserOnline(ctx context.Context, id ID, online bool) (*User, error)
	// SoftDeleteUser stamps deleted_at on a live row. Both delete paths
	// of the service end up here; rows are never physically erased.
	SoftDeleteUser(ctx context.Context, id ID) (*User, error)
}

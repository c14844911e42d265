package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"users-service/internal/domain/user"
	"users-service/internal/infrastructure/db/postgres"
)

var selectByField = map[user.Field]string{
	user.FieldUsername:      SelectUserByUsername,
	user.FieldEmail:         SelectUserByEmail,
	user.FieldRecoveryEmail: SelectUserByRecoveryEmail,
}

var dateColumns = map[user.DateField]string{
	user.DateCreated: "created_at",
	user.DateUpdated: "updated_at",
	user.DateDeleted: "deleted_at",
}

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) user.Repository {
	return &Repository{db: db}
}

func (r *Repository) scanFull(row pgx.Row) (*User, error) {
	u := new(User)
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.RecoveryEmail,
		&u.PasswordHash,
		&u.Role,
		&u.Online,

		&u.CreatedAt,
		&u.UpdatedAt,

		&u.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *Repository) FetchUserByID(ctx context.Context, id user.ID) (*user.User, error) {
	u, err := r.scanFull(r.db.QueryRow(ctx, SelectUserByID, int64(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(u), nil
}

func (r *Repository) FetchUserByField(ctx context.Context, field user.Field, value string) (*user.User, error) {
	q, ok := selectByField[field]
	if !ok {
		return nil, fmt.Errorf("unsupported lookup field %q", field)
	}

	u, err := r.scanFull(r.db.QueryRow(ctx, q, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(u), nil
}

func (r *Repository) FetchUsersPage(ctx context.Context, skip, limit int, order user.Order) (user.Users, int64, error) {
	q := SelectUsersPageAsc
	if order == user.OrderDesc {
		q = SelectUsersPageDesc
	}

	rows, err := r.db.Query(ctx, q, limit, skip)
	if err != nil {
		return nil, 0, err
	}
	us, err := collectProjected(rows, false)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err = r.db.QueryRow(ctx, CountActiveUsers).Scan(&total); err != nil {
		return nil, 0, err
	}

	return fromDBModels(&us), total, nil
}

func (r *Repository) FetchUsersSortedByDate(ctx context.Context, skip, limit int, order user.Order, field user.DateField, includeDeleted bool) (user.Users, error) {
	col, ok := dateColumns[field]
	if !ok {
		return nil, fmt.Errorf("unsupported date field %q", field)
	}
	if !order.Valid() {
		return nil, fmt.Errorf("unsupported order %q", order)
	}
	where := activeOnlyClause
	if includeDeleted {
		where = ""
	}

	rows, err := r.db.Query(ctx, fmt.Sprintf(selectUsersSortedTpl, where, col, string(order)), limit, skip)
	if err != nil {
		return nil, err
	}
	us, err := collectProjected(rows, true)
	if err != nil {
		return nil, err
	}

	return fromDBModels(&us), nil
}

func (r *Repository) FetchUsersByRole(ctx context.Context, role user.Role) (user.Users, error) {
	rows, err := r.db.Query(ctx, SelectUsersByRole, string(role))
	if err != nil {
		return nil, err
	}
	us, err := collectProjected(rows, false)
	if err != nil {
		return nil, err
	}

	return fromDBModels(&us), nil
}

func (r *Repository) FetchOnlineUsers(ctx context.Context) (user.Users, error) {
	rows, err := r.db.Query(ctx, SelectOnlineUsers)
	if err != nil {
		return nil, err
	}
	us, err := collectProjected(rows, false)
	if err != nil {
		return nil, err
	}

	return fromDBModels(&us), nil
}

func (r *Repository) CreateUser(ctx context.Context, req user.User) (*user.User, error) {
	u, err := r.scanFull(r.db.QueryRow(
		ctx,
		InsertUser,
		req.Username, req.Email, req.RecoveryEmail, req.PasswordHash, string(req.Role), req.Online,
	))
	if err != nil {
		if postgres.IsPgUniqueViolation(err) {
			return nil, user.ErrDuplicate
		}
		return nil, err
	}

	return fromDBModel(u), nil
}

func (r *Repository) UpdateUser(ctx context.Context, req user.User) (*user.User, error) {
	u, err := r.scanFull(r.db.QueryRow(ctx, UpdateUserByID,
		req.Username, req.Email, req.RecoveryEmail, req.PasswordHash, string(req.Role), req.Online, int64(req.ID),
	))
	if err != nil {
		if postgres.IsPgUniqueViolation(err) {
			return nil, user.ErrDuplicate
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(u), nil
}

func (r *Repository) SetUserOnline(ctx context.Context, id user.ID, online bool) (*user.User, error) {
	u, err := r.scanFull(r.db.QueryRow(ctx, SetUserOnlineByID, online, int64(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(u), nil
}

func (r *Repository) SoftDeleteUser(ctx context.Context, id user.ID) (*user.User, error) {
	u, err := r.scanFull(r.db.QueryRow(ctx, SoftDeleteUserByID, int64(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(u), nil
}

// collectProjected drains rows selected with projectedColumns; the
// password hash is never part of these result sets.
func collectProjected(rows pgx.Rows, withDeletedAt bool) (Users, error) {
	defer rows.Close()

	var us Users
	for rows.Next() {
		u := new(User)

		dest := []any{
			&u.ID,
			&u.Username,
			&u.Email,
			&u.RecoveryEmail,
			&u.Role,
			&u.Online,

			&u.CreatedAt,
			&u.UpdatedAt,
		}
		if withDeletedAt {
			dest = append(dest, &u.DeletedAt)
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		us = append(us, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return us, nil
}

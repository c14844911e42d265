package services

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"users-service/internal/application/ports"
	"users-service/internal/domain/fault"
	domain "users-service/internal/domain/user"
	"users-service/internal/infrastructure/mq"
	"users-service/internal/interface/api/rest/dto/user"
)

const (
	minPasswordLen  = 8
	defaultPageSize = 10
)

type UserService struct {
	userRepository domain.Repository
	hasher         ports.Hasher
	mq             ports.RabbitMQ
	mCounter       *prometheus.CounterVec
}

func NewUserService(
	userRepository domain.Repository,
	hasher ports.Hasher,
	mq ports.RabbitMQ,
	mCounter *prometheus.CounterVec,
) ports.UserService {
	return &UserService{
		userRepository: userRepository,
		hasher:         hasher,
		mq:             mq,
		mCounter:       mCounter,
	}
}

func (us *UserService) CreateUser(ctx context.Context, draft domain.Draft) error {
	// the entry layer validates the draft; the length floor is
	// re-asserted here because hashing a too-short password must never
	// happen regardless of the caller
	if utf8.RuneCountInString(draft.Password) < minPasswordLen {
		return fault.BadRequest("password must be at least 8 characters")
	}

	recovery := draft.RecoveryEmail
	if recovery == "" {
		recovery = draft.Email
	}

	digest, err := us.hasher.Hash(draft.Password)
	if err != nil {
		return fault.Internal("failed to hash password", err)
	}

	created, err := us.userRepository.CreateUser(ctx, domain.User{
		Username:      draft.Username,
		Email:         draft.Email,
		RecoveryEmail: recovery,
		PasswordHash:  &digest,
		Role:          domain.RoleInvite,
		Online:        false,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return fault.Conflict("the user already exists, please use another data")
		}
		return fault.Internal("failed to create a user", err)
	}

	us.publish(mq.ActionCreated, created)
	us.mCounter.WithLabelValues("user_created_total").Inc()

	return nil
}

func (us *UserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	u, err := us.userRepository.FetchUserByField(ctx, domain.FieldUsername, username)
	if err != nil {
		return nil, fault.Internal("failed to get a user", err)
	}
	if u == nil {
		return nil, fault.NotFound("the user does not exist")
	}
	if u.PasswordHash == nil {
		return nil, fault.Unauthorized("invalid credentials")
	}

	// same response whether the digest is unreadable or the password is
	// wrong; the caller must not learn which part failed
	ok, err := us.hasher.Verify(*u.PasswordHash, password)
	if err != nil || !ok {
		return nil, fault.Unauthorized("invalid credentials")
	}

	u.PasswordHash = nil

	return u, nil
}

func (us *UserService) ToggleOnline(ctx context.Context, u *domain.User) (*domain.User, error) {
	if u == nil {
		return nil, fault.NotFound("the user does not exist")
	}
	return us.setPresence(ctx, u.ID, !u.Online)
}

func (us *UserService) SetOnline(ctx context.Context, u *domain.User, online bool) (*domain.User, error) {
	if u == nil {
		return nil, fault.NotFound("the user does not exist")
	}
	return us.setPresence(ctx, u.ID, online)
}

func (us *UserService) setPresence(ctx context.Context, id domain.ID, online bool) (*domain.User, error) {
	updated, err := us.userRepository.SetUserOnline(ctx, id, online)
	if err != nil {
		return nil, fault.Internal("failed to update presence", err)
	}
	if updated == nil {
		return nil, fault.NotFound("the user does not exist")
	}

	updated.PasswordHash = nil
	us.mCounter.WithLabelValues("user_presence_total").Inc()

	return updated, nil
}

func (us *UserService) UpdateUser(ctx context.Context, id domain.ID, patch domain.Patch) (bool, error) {
	if id == 0 {
		return false, fault.BadRequest("id is required")
	}

	u, err := us.userRepository.FetchUserByID(ctx, id)
	if err != nil {
		return false, fault.Internal("failed to get a user", err)
	}
	if u == nil {
		return false, fault.NotFound("the user does not exist")
	}

	if patch.Username != nil {
		u.Username = *patch.Username
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.RecoveryEmail != nil {
		u.RecoveryEmail = *patch.RecoveryEmail
	}
	if patch.Password != nil {
		if utf8.RuneCountInString(*patch.Password) < minPasswordLen {
			return false, fault.BadRequest("password must be at least 8 characters")
		}
		digest, herr := us.hasher.Hash(*patch.Password)
		if herr != nil {
			return false, fault.Internal("failed to hash password", herr)
		}
		u.PasswordHash = &digest
	}
	if patch.Role != nil {
		if !patch.Role.Valid() {
			return false, fault.BadRequest("rol must be one of: sudo, admin, invite")
		}
		u.Role = *patch.Role
	}
	if patch.Online != nil {
		u.Online = *patch.Online
	}

	updated, err := us.userRepository.UpdateUser(ctx, *u)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return false, fault.Conflict("the user already exists, please use another data")
		}
		return false, fault.Internal("failed to update a user", err)
	}
	if updated == nil {
		return false, fault.NotFound("the user does not exist")
	}

	us.publish(mq.ActionUpdated, updated)
	us.mCounter.WithLabelValues("user_updated_total").Inc()

	return true, nil
}

func (us *UserService) FindPage(ctx context.Context, skip, limit int, order domain.Order) (domain.Users, int64, error) {
	if !order.Valid() {
		return nil, 0, fault.BadRequest("order must be ASC or DESC")
	}
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultPageSize
	}

	users, total, err := us.userRepository.FetchUsersPage(ctx, skip, limit, order)
	if err != nil {
		return nil, 0, fault.Internal("failed to get users", err)
	}
	// an empty result set is a fault, not an empty page
	if total == 0 {
		return nil, 0, fault.NotFound("users not found")
	}

	return users, total, nil
}

func (us *UserService) FindSortedByDate(ctx context.Context, skip, limit int, order domain.Order, field domain.DateField) (domain.Users, error) {
	if !order.Valid() {
		return nil, fault.BadRequest("order must be ASC or DESC")
	}
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultPageSize
	}

	var includeDeleted bool
	switch field {
	case domain.DateCreated, domain.DateDeleted:
		// sorting by deletion or creation time is only meaningful when
		// soft-deleted rows are part of the result
		includeDeleted = true
	case domain.DateUpdated:
		includeDeleted = false
	default:
		return nil, fault.BadRequest("date must be one of: created, updated, deleted")
	}

	users, err := us.userRepository.FetchUsersSortedByDate(ctx, skip, limit, order, field, includeDeleted)
	if err != nil {
		return nil, fault.Internal("failed to get users", err)
	}
	if len(users) == 0 {
		return nil, fault.NotFound("users not found")
	}

	return users, nil
}

func (us *UserService) FindByRole(ctx context.Context, role domain.Role) (domain.Users, error) {
	if !role.Valid() {
		return nil, fault.BadRequest("rol must be one of: sudo, admin, invite")
	}

	users, err := us.userRepository.FetchUsersByRole(ctx, role)
	if err != nil {
		return nil, fault.Internal("failed to get users", err)
	}
	if len(users) == 0 {
		return nil, fault.NotFound(fmt.Sprintf("no users found with rol %q", role))
	}

	return users, nil
}

func (us *UserService) FindOnline(ctx context.Context) (domain.Users, error) {
	users, err := us.userRepository.FetchOnlineUsers(ctx)
	if err != nil {
		return nil, fault.Internal("failed to get users", err)
	}
	if len(users) == 0 {
		return nil, fault.NotFound("no online users")
	}

	return users, nil
}

func (us *UserService) DeleteUser(ctx context.Context, id domain.ID) error {
	if id == 0 {
		return fault.BadRequest("id is required")
	}

	deleted, err := us.userRepository.SoftDeleteUser(ctx, id)
	if err != nil {
		return fault.Internal("failed to delete user", err)
	}
	if deleted == nil {
		return fault.NotFound("the user does not exist")
	}

	us.publish(mq.ActionDeleted, deleted)
	us.mCounter.WithLabelValues("user_deleted_total").Inc()

	return nil
}

func (us *UserService) publish(action string, u *domain.User) {
	if u == nil {
		return
	}
	u.PasswordHash = nil

	us.mq.GetInputChan() <- mq.Event{
		Id:      uuid.New(),
		TS:      time.Now(),
		Action:  action,
		UserID:  int64(u.ID),
		Payload: user.ToResponseUser(*u),
	}
}

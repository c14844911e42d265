package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"users-service/internal/domain/fault"
	domain "users-service/internal/domain/user"
	"users-service/internal/infrastructure/mq"
)

type fakeRepo struct {
	fetchByID     func(ctx context.Context, id domain.ID) (*domain.User, error)
	fetchByField  func(ctx context.Context, field domain.Field, value string) (*domain.User, error)
	fetchPage     func(ctx context.Context, skip, limit int, order domain.Order) (domain.Users, int64, error)
	fetchSorted   func(ctx context.Context, skip, limit int, order domain.Order, field domain.DateField, includeDeleted bool) (domain.Users, error)
	fetchByRole   func(ctx context.Context, role domain.Role) (domain.Users, error)
	fetchOnline   func(ctx context.Context) (domain.Users, error)
	createUser    func(ctx context.Context, req domain.User) (*domain.User, error)
	updateUser    func(ctx context.Context, req domain.User) (*domain.User, error)
	setUserOnline func(ctx context.Context, id domain.ID, online bool) (*domain.User, error)
	softDelete    func(ctx context.Context, id domain.ID) (*domain.User, error)
}

var errNotUsed = errors.New("not used")

func (f *fakeRepo) FetchUserByID(ctx context.Context, id domain.ID) (*domain.User, error) {
	if f.fetchByID == nil {
		return nil, errNotUsed
	}
	return f.fetchByID(ctx, id)
}
func (f *fakeRepo) FetchUserByField(ctx context.Context, field domain.Field, value string) (*domain.User, error) {
	if f.fetchByField == nil {
		return nil, errNotUsed
	}
	return f.fetchByField(ctx, field, value)
}
func (f *fakeRepo) FetchUsersPage(ctx context.Context, skip, limit int, order domain.Order) (domain.Users, int64, error) {
	if f.fetchPage == nil {
		return nil, 0, errNotUsed
	}
	return f.fetchPage(ctx, skip, limit, order)
}
func (f *fakeRepo) FetchUsersSortedByDate(ctx context.Context, skip, limit int, order domain.Order, field domain.DateField, includeDeleted bool) (domain.Users, error) {
	if f.fetchSorted == nil {
		return nil, errNotUsed
	}
	return f.fetchSorted(ctx, skip, limit, order, field, includeDeleted)
}
func (f *fakeRepo) FetchUsersByRole(ctx context.Context, role domain.Role) (domain.Users, error) {
	if f.fetchByRole == nil {
		return nil, errNotUsed
	}
	return f.fetchByRole(ctx, role)
}
func (f *fakeRepo) FetchOnlineUsers(ctx context.Context) (domain.Users, error) {
	if f.fetchOnline == nil {
		return nil, errNotUsed
	}
	return f.fetchOnline(ctx)
}
func (f *fakeRepo) CreateUser(ctx context.Context, req domain.User) (*domain.User, error) {
	if f.createUser == nil {
		return nil, errNotUsed
	}
	return f.createUser(ctx, req)
}
func (f *fakeRepo) UpdateUser(ctx context.Context, req domain.User) (*domain.User, error) {
	if f.updateUser == nil {
		return nil, errNotUsed
	}
	return f.updateUser(ctx, req)
}
func (f *fakeRepo) SetUserOnline(ctx context.Context, id domain.ID, online bool) (*domain.User, error) {
	if f.setUserOnline == nil {
		return nil, errNotUsed
	}
	return f.setUserOnline(ctx, id, online)
}
func (f *fakeRepo) SoftDeleteUser(ctx context.Context, id domain.ID) (*domain.User, error) {
	if f.softDelete == nil {
		return nil, errNotUsed
	}
	return f.softDelete(ctx, id)
}

type fakeHasher struct{}

func (fakeHasher) Hash(plaintext string) (string, error) { return "digest:" + plaintext, nil }
func (fakeHasher) Verify(digest, plaintext string) (bool, error) {
	return digest == "digest:"+plaintext, nil
}

type fakeMQ struct {
	in chan mq.Event
}

func newFakeMQ() *fakeMQ { return &fakeMQ{in: make(chan mq.Event, 16)} }

func (f *fakeMQ) Connect(ctx context.Context, dsn string) error { return nil }
func (f *fakeMQ) Init() error                                   { return nil }
func (f *fakeMQ) PublisherWorker(ctx context.Context)           {}
func (f *fakeMQ) GetInputChan() chan mq.Event                   { return f.in }
func (f *fakeMQ) GetConn() *amqp091.Connection                  { return nil }

func newTestCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "usersvc_test", Name: "general_counters"},
		[]string{"result"})
}

func newService(repo *fakeRepo) (*UserService, *fakeMQ) {
	q := newFakeMQ()
	return NewUserService(repo, fakeHasher{}, q, newTestCounter()).(*UserService), q
}

func requireFault(t *testing.T, err error, code int) *fault.Fault {
	t.Helper()
	require.Error(t, err)
	f, ok := fault.As(err)
	require.True(t, ok, "expected *fault.Fault, got %T", err)
	require.Equal(t, code, f.StatusCode)
	return f
}

func TestCreateUser_Defaults(t *testing.T) {
	var inserted domain.User
	repo := &fakeRepo{
		createUser: func(ctx context.Context, req domain.User) (*domain.User, error) {
			inserted = req
			created := req
			created.ID = 1
			return &created, nil
		},
	}
	svc, q := newService(repo)

	err := svc.CreateUser(context.Background(), domain.Draft{
		Username: "0102030405",
		Email:    "a@b.com",
		Password: "password1",
	})
	require.NoError(t, err)

	// server-assigned defaults, never caller-controlled
	assert.Equal(t, domain.RoleInvite, inserted.Role)
	assert.False(t, inserted.Online)
	// recovery email derived from email when absent
	assert.Equal(t, "a@b.com", inserted.RecoveryEmail)
	// password stored hashed
	require.NotNil(t, inserted.PasswordHash)
	assert.Equal(t, "digest:password1", *inserted.PasswordHash)

	e := <-q.in
	assert.Equal(t, mq.ActionCreated, e.Action)
	assert.Equal(t, int64(1), e.UserID)
}

func TestCreateUser_KeepsExplicitRecoveryEmail(t *testing.T) {
	var inserted domain.User
	repo := &fakeRepo{
		createUser: func(ctx context.Context, req domain.User) (*domain.User, error) {
			inserted = req
			return &req, nil
		},
	}
	svc, _ := newService(repo)

	err := svc.CreateUser(context.Background(), domain.Draft{
		Username:      "0102030405",
		Email:         "a@b.com",
		RecoveryEmail: "backup@b.com",
		Password:      "password1",
	})
	require.NoError(t, err)
	assert.Equal(t, "backup@b.com", inserted.RecoveryEmail)
}

func TestCreateUser_ShortPassword(t *testing.T) {
	called := false
	repo := &fakeRepo{
		createUser: func(ctx context.Context, req domain.User) (*domain.User, error) {
			called = true
			return &req, nil
		},
	}
	svc, _ := newService(repo)

	err := svc.CreateUser(context.Background(), domain.Draft{
		Username: "0102030405",
		Email:    "a@b.com",
		Password: "short",
	})
	requireFault(t, err, http.StatusBadRequest)
	assert.False(t, called, "storage must not be touched")
}

func TestCreateUser_Duplicate(t *testing.T) {
	repo := &fakeRepo{
		createUser: func(ctx context.Context, req domain.User) (*domain.User, error) {
			return nil, domain.ErrDuplicate
		},
	}
	svc, _ := newService(repo)

	err := svc.CreateUser(context.Background(), domain.Draft{
		Username: "0102030405",
		Email:    "a@b.com",
		Password: "password1",
	})
	f := requireFault(t, err, http.StatusConflict)
	assert.Contains(t, f.Message, "already exists")
}

func TestAuthenticate(t *testing.T) {
	digest := "digest:password1"
	stored := &domain.User{
		ID:           1,
		Username:     "0102030405",
		Email:        "a@b.com",
		PasswordHash: &digest,
		Role:         domain.RoleInvite,
	}

	tests := []struct {
		name     string
		username string
		password string
		found    *domain.User
		wantCode int
	}{
		{"success", "0102030405", "password1", stored, 0},
		{"wrong password", "0102030405", "wrong", stored, http.StatusUnauthorized},
		{"unknown user", "9999999999", "password1", nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := digest
			var found *domain.User
			if tt.found != nil {
				cp := *tt.found
				cp.PasswordHash = &d
				found = &cp
			}
			repo := &fakeRepo{
				fetchByField: func(ctx context.Context, field domain.Field, value string) (*domain.User, error) {
					assert.Equal(t, domain.FieldUsername, field)
					if found != nil && value == found.Username {
						return found, nil
					}
					return nil, nil
				},
			}
			svc, _ := newService(repo)

			u, err := svc.Authenticate(context.Background(), tt.username, tt.password)
			if tt.wantCode != 0 {
				requireFault(t, err, tt.wantCode)
				assert.Nil(t, u)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, u)
			// password opacity: the hash never leaves the service
			assert.Nil(t, u.PasswordHash)
			assert.Equal(t, "0102030405", u.Username)
		})
	}
}

func TestToggleOnline_Involution(t *testing.T) {
	current := &domain.User{ID: 1, Username: "0102030405", Online: false}
	repo := &fakeRepo{
		setUserOnline: func(ctx context.Context, id domain.ID, online bool) (*domain.User, error) {
			current.Online = online
			cp := *current
			return &cp, nil
		},
	}
	svc, _ := newService(repo)

	once, err := svc.ToggleOnline(context.Background(), current)
	require.NoError(t, err)
	assert.True(t, once.Online)

	twice, err := svc.ToggleOnline(context.Background(), once)
	require.NoError(t, err)
	// two toggles land back on the original state
	assert.False(t, twice.Online)
}

func TestToggleOnline_NoUser(t *testing.T) {
	svc, _ := newService(&fakeRepo{})

	_, err := svc.ToggleOnline(context.Background(), nil)
	requireFault(t, err, http.StatusNotFound)
}

func TestSetOnline_Explicit(t *testing.T) {
	var gotOnline bool
	repo := &fakeRepo{
		setUserOnline: func(ctx context.Context, id domain.ID, online bool) (*domain.User, error) {
			gotOnline = online
			return &domain.User{ID: id, Online: online}, nil
		},
	}
	svc, _ := newService(repo)

	u := &domain.User{ID: 1, Online: true}
	got, err := svc.SetOnline(context.Background(), u, true)
	require.NoError(t, err)
	// idempotent: setting the current value keeps it
	assert.True(t, gotOnline)
	assert.True(t, got.Online)
}

func TestUpdateUser_Partial(t *testing.T) {
	digest := "digest:password1"
	stored := domain.User{
		ID:            1,
		Username:      "0102030405",
		Email:         "a@b.com",
		RecoveryEmail: "a@b.com",
		PasswordHash:  &digest,
		Role:          domain.RoleInvite,
		Online:        true,
	}

	var saved domain.User
	repo := &fakeRepo{
		fetchByID: func(ctx context.Context, id domain.ID) (*domain.User, error) {
			cp := stored
			return &cp, nil
		},
		updateUser: func(ctx context.Context, req domain.User) (*domain.User, error) {
			saved = req
			return &req, nil
		},
	}
	svc, _ := newService(repo)

	email := "x@y.com"
	ok, err := svc.UpdateUser(context.Background(), 1, domain.Patch{Email: &email})
	require.NoError(t, err)
	assert.True(t, ok)

	// only the supplied field changed
	assert.Equal(t, "x@y.com", saved.Email)
	assert.Equal(t, stored.Username, saved.Username)
	assert.Equal(t, stored.RecoveryEmail, saved.RecoveryEmail)
	assert.Equal(t, stored.Role, saved.Role)
	assert.Equal(t, stored.Online, saved.Online)
	require.NotNil(t, saved.PasswordHash)
	assert.Equal(t, digest, *saved.PasswordHash)
}

func TestUpdateUser_RehashesPassword(t *testing.T) {
	old := "digest:old-password"
	var saved domain.User
	repo := &fakeRepo{
		fetchByID: func(ctx context.Context, id domain.ID) (*domain.User, error) {
			return &domain.User{ID: id, Username: "0102030405", PasswordHash: &old, Role: domain.RoleInvite}, nil
		},
		updateUser: func(ctx context.Context, req domain.User) (*domain.User, error) {
			saved = req
			return &req, nil
		},
	}
	svc, _ := newService(repo)

	pw := "new-password"
	ok, err := svc.UpdateUser(context.Background(), 1, domain.Patch{Password: &pw})
	require.NoError(t, err)
	assert.True(t, ok)
	require.NotNil(t, saved.PasswordHash)
	assert.Equal(t, "digest:new-password", *saved.PasswordHash)
}

func TestUpdateUser_MissingID(t *testing.T) {
	touched := false
	repo := &fakeRepo{
		fetchByID: func(ctx context.Context, id domain.ID) (*domain.User, error) {
			touched = true
			return nil, nil
		},
	}
	svc, _ := newService(repo)

	email := "x@y.com"
	ok, err := svc.UpdateUser(context.Background(), 0, domain.Patch{Email: &email})
	requireFault(t, err, http.StatusBadRequest)
	assert.False(t, ok)
	assert.False(t, touched, "storage must not be touched")
}

func TestUpdateUser_UnknownRole(t *testing.T) {
	repo := &fakeRepo{
		fetchByID: func(ctx context.Context, id domain.ID) (*domain.User, error) {
			return &domain.User{ID: id, Role: domain.RoleInvite}, nil
		},
	}
	svc, _ := newService(repo)

	role := domain.Role("root")
	ok, err := svc.UpdateUser(context.Background(), 1, domain.Patch{Role: &role})
	requireFault(t, err, http.StatusBadRequest)
	assert.False(t, ok)
}

func TestUpdateUser_Gone(t *testing.T) {
	repo := &fakeRepo{
		fetchByID: func(ctx context.Context, id domain.ID) (*domain.User, error) {
			return nil, nil
		},
	}
	svc, _ := newService(repo)

	email := "x@y.com"
	ok, err := svc.UpdateUser(context.Background(), 42, domain.Patch{Email: &email})
	requireFault(t, err, http.StatusNotFound)
	assert.False(t, ok)
}

func TestFindPage(t *testing.T) {
	active := domain.Users{
		{ID: 1, Username: "0102030405"},
		{ID: 2, Username: "0605040302"},
	}

	tests := []struct {
		name     string
		order    domain.Order
		users    domain.Users
		total    int64
		wantCode int
	}{
		{"ok", domain.OrderAsc, active, 2, 0},
		{"empty set is a fault", domain.OrderAsc, nil, 0, http.StatusNotFound},
		{"bad order", domain.Order("sideways"), nil, 0, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{
				fetchPage: func(ctx context.Context, skip, limit int, order domain.Order) (domain.Users, int64, error) {
					return tt.users, tt.total, nil
				},
			}
			svc, _ := newService(repo)

			us, total, err := svc.FindPage(context.Background(), 0, 10, tt.order)
			if tt.wantCode != 0 {
				requireFault(t, err, tt.wantCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.total, total)
			assert.Len(t, us, len(tt.users))
		})
	}
}

func TestFindSortedByDate_DeletedVisibility(t *testing.T) {
	tests := []struct {
		name        string
		field       domain.DateField
		wantDeleted bool
	}{
		{"created includes deleted", domain.DateCreated, true},
		{"deleted includes deleted", domain.DateDeleted, true},
		{"updated is active-only", domain.DateUpdated, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotInclude bool
			repo := &fakeRepo{
				fetchSorted: func(ctx context.Context, skip, limit int, order domain.Order, field domain.DateField, includeDeleted bool) (domain.Users, error) {
					gotInclude = includeDeleted
					return domain.Users{{ID: 1}}, nil
				},
			}
			svc, _ := newService(repo)

			_, err := svc.FindSortedByDate(context.Background(), 0, 10, domain.OrderAsc, tt.field)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDeleted, gotInclude)
		})
	}
}

func TestFindSortedByDate_UnknownField(t *testing.T) {
	svc, _ := newService(&fakeRepo{})

	_, err := svc.FindSortedByDate(context.Background(), 0, 10, domain.OrderAsc, domain.DateField("birthday"))
	requireFault(t, err, http.StatusBadRequest)
}

func TestFindByRole(t *testing.T) {
	repo := &fakeRepo{
		fetchByRole: func(ctx context.Context, role domain.Role) (domain.Users, error) {
			if role == domain.RoleAdmin {
				return domain.Users{{ID: 1, Role: domain.RoleAdmin}}, nil
			}
			return nil, nil
		},
	}
	svc, _ := newService(repo)

	us, err := svc.FindByRole(context.Background(), domain.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, us, 1)

	_, err = svc.FindByRole(context.Background(), domain.RoleSudo)
	requireFault(t, err, http.StatusNotFound)

	_, err = svc.FindByRole(context.Background(), domain.Role("root"))
	requireFault(t, err, http.StatusBadRequest)
}

func TestFindOnline_Empty(t *testing.T) {
	repo := &fakeRepo{
		fetchOnline: func(ctx context.Context) (domain.Users, error) { return nil, nil },
	}
	svc, _ := newService(repo)

	_, err := svc.FindOnline(context.Background())
	requireFault(t, err, http.StatusNotFound)
}

func TestDeleteUser(t *testing.T) {
	now := domain.User{ID: 7, Username: "0102030405"}
	repo := &fakeRepo{
		softDelete: func(ctx context.Context, id domain.ID) (*domain.User, error) {
			if id == 7 {
				cp := now
				return &cp, nil
			}
			return nil, nil
		},
	}
	svc, q := newService(repo)

	require.NoError(t, svc.DeleteUser(context.Background(), 7))
	e := <-q.in
	assert.Equal(t, mq.ActionDeleted, e.Action)

	err := svc.DeleteUser(context.Background(), 8)
	requireFault(t, err, http.StatusNotFound)

	err = svc.DeleteUser(context.Background(), 0)
	requireFault(t, err, http.StatusBadRequest)
}

func TestInternalErrorsAreWrapped(t *testing.T) {
	boom := errors.New("connection reset")
	repo := &fakeRepo{
		fetchByField: func(ctx context.Context, field domain.Field, value string) (*domain.User, error) {
			return nil, boom
		},
	}
	svc, _ := newService(repo)

	_, err := svc.Authenticate(context.Background(), "0102030405", "password1")
	f := requireFault(t, err, http.StatusInternalServerError)
	// cause stays attached for logs, message stays generic
	assert.ErrorIs(t, f, boom)
	assert.NotContains(t, f.Message, "connection reset")
}

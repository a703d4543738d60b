package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"parcel/internal/domain"
	"parcel/internal/repository"
	"parcel/internal/repository/memory"
	"parcel/internal/service"
	"parcel/internal/tests"
)

func newUserService(store *memory.Store) *service.UserService {
	return service.NewUserService(store.Users(), nil, nil, zap.NewNop())
}

func TestCreateUser_DefaultsRoleAndTimestamps(t *testing.T) {
	store := memory.NewStore()
	svc := newUserService(store)

	result, err := svc.CreateUser(context.Background(), &domain.User{Email: "a@x.com", Name: "A"})
	require.NoError(t, err)
	require.NotEmpty(t, result.InsertedID)

	user, err := store.Users().GetByID(context.Background(), result.InsertedID)
	require.NoError(t, err)
	assert.Equal(t, domain.UserRoleUser, user.Role)
	assert.False(t, user.CreatedAt.IsZero())
	assert.False(t, user.LastLogin.IsZero())
}

func TestCreateUser_RejectsDuplicateEmail(t *testing.T) {
	store := memory.NewStore()
	svc := newUserService(store)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, &domain.User{Email: "a@x.com"})
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, &domain.User{Email: "a@x.com", Name: "Again"})
	assert.ErrorIs(t, err, service.ErrUserExists)
	assert.Equal(t, int32(1), store.Users().CreateCallCount, "duplicate must not reach the store")
}

func TestCreateUser_MapsUniqueIndexViolation(t *testing.T) {
	store := memory.NewStore()
	store.Users().CreateError = repository.ErrDuplicate
	svc := newUserService(store)

	_, err := svc.CreateUser(context.Background(), &domain.User{Email: "a@x.com"})
	assert.ErrorIs(t, err, service.ErrUserExists)
}

func TestCreateUser_RequiresEmail(t *testing.T) {
	svc := newUserService(memory.NewStore())

	_, err := svc.CreateUser(context.Background(), &domain.User{Name: "nobody"})
	assert.ErrorIs(t, err, service.ErrMissingEmail)
}

func TestCreateUser_RejectsUnknownRole(t *testing.T) {
	svc := newUserService(memory.NewStore())

	_, err := svc.CreateUser(context.Background(), &domain.User{Email: "a@x.com", Role: "superuser"})
	assert.ErrorIs(t, err, service.ErrInvalidRole)
}

func TestCreateUser_RegistrationLock(t *testing.T) {
	t.Run("held lock reports conflict", func(t *testing.T) {
		store := memory.NewStore()
		locks := tests.NewMockLockStore()
		locks.ForceAcquireFailure = true
		svc := service.NewUserService(store.Users(), nil, locks, zap.NewNop())

		_, err := svc.CreateUser(context.Background(), &domain.User{Email: "a@x.com"})
		assert.ErrorIs(t, err, service.ErrUserExists)
		assert.Equal(t, int32(0), store.Users().CreateCallCount)
	})

	t.Run("lock released after create", func(t *testing.T) {
		locks := tests.NewMockLockStore()
		svc := service.NewUserService(memory.NewStore().Users(), nil, locks, zap.NewNop())

		_, err := svc.CreateUser(context.Background(), &domain.User{Email: "a@x.com"})
		require.NoError(t, err)
		assert.False(t, locks.IsLocked("a@x.com"))
		assert.Equal(t, int32(1), locks.ReleaseCallCount)
	})

	t.Run("lock outage does not block registration", func(t *testing.T) {
		locks := tests.NewMockLockStore()
		locks.AcquireError = tests.ErrMockStore
		svc := service.NewUserService(memory.NewStore().Users(), nil, locks, zap.NewNop())

		_, err := svc.CreateUser(context.Background(), &domain.User{Email: "a@x.com"})
		assert.NoError(t, err)
	})
}

func TestSearchUsersByEmail(t *testing.T) {
	store := memory.NewStore()
	svc := newUserService(store)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		_, err := svc.CreateUser(ctx, &domain.User{Email: fmt.Sprintf("rider%02d@Example.com", i)})
		require.NoError(t, err)
	}
	_, err := svc.CreateUser(ctx, &domain.User{Email: "axb@other.com"})
	require.NoError(t, err)

	t.Run("case-insensitive and limited", func(t *testing.T) {
		users, err := svc.SearchUsersByEmail(ctx, "EXAMPLE")
		require.NoError(t, err)
		assert.Len(t, users, service.SearchLimit)
	})

	t.Run("metacharacters match literally", func(t *testing.T) {
		users, err := svc.SearchUsersByEmail(ctx, "a.b")
		require.NoError(t, err)
		assert.Empty(t, users)
	})

	t.Run("missing query", func(t *testing.T) {
		_, err := svc.SearchUsersByEmail(ctx, "")
		assert.ErrorIs(t, err, service.ErrMissingEmailQuery)
	})
}

func TestGetUserRole(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	// Stored without a role, as older clients did.
	_, err := store.Users().Create(ctx, &domain.User{Email: "legacy@x.com"})
	require.NoError(t, err)
	_, err = store.Users().Create(ctx, &domain.User{Email: "admin@x.com", Role: domain.UserRoleAdmin})
	require.NoError(t, err)

	svc := newUserService(store)

	role, err := svc.GetUserRole(ctx, "legacy@x.com")
	require.NoError(t, err)
	assert.Equal(t, domain.UserRoleUser, role)

	role, err = svc.GetUserRole(ctx, "admin@x.com")
	require.NoError(t, err)
	assert.Equal(t, domain.UserRoleAdmin, role)

	_, err = svc.GetUserRole(ctx, "ghost@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGetUserRole_CacheAside(t *testing.T) {
	store := memory.NewStore()
	cache := tests.NewMockRoleCache()
	ctx := context.Background()

	_, err := store.Users().Create(ctx, &domain.User{Email: "a@x.com", Role: domain.UserRoleRider})
	require.NoError(t, err)

	svc := service.NewUserService(store.Users(), cache, nil, zap.NewNop())

	role, err := svc.GetUserRole(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, domain.UserRoleRider, role)

	cached, ok := cache.Cached("a@x.com")
	require.True(t, ok)
	assert.Equal(t, domain.UserRoleRider, cached)

	// A cache outage falls back to the store.
	cache.GetError = tests.ErrMockStore
	role, err = svc.GetUserRole(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, domain.UserRoleRider, role)
}

func TestUpdateUserRole_AllowList(t *testing.T) {
	store := memory.NewStore()
	svc := newUserService(store)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, &domain.User{Email: "a@x.com"})
	require.NoError(t, err)

	testCases := []struct {
		role    domain.UserRole
		wantErr error
	}{
		{domain.UserRoleAdmin, nil},
		{domain.UserRoleUser, nil},
		{domain.UserRoleRider, nil},
		{domain.UserRoleSuspended, nil},
		{"superuser", service.ErrInvalidRole},
		{"", service.ErrInvalidRole},
		{"Admin", service.ErrInvalidRole},
	}

	for _, tc := range testCases {
		t.Run(string(tc.role), func(t *testing.T) {
			_, err := svc.UpdateUserRole(ctx, created.InsertedID, tc.role)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)

			user, err := store.Users().GetByID(ctx, created.InsertedID)
			require.NoError(t, err)
			assert.Equal(t, tc.role, user.Role)
		})
	}
}

func TestUpdateUserRole_ReportsModifiedCount(t *testing.T) {
	store := memory.NewStore()
	svc := newUserService(store)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, &domain.User{Email: "a@x.com"})
	require.NoError(t, err)

	result, err := svc.UpdateUserRole(ctx, created.InsertedID, domain.UserRoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.ModifiedCount)

	result, err = svc.UpdateUserRole(ctx, created.InsertedID, domain.UserRoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.MatchedCount)
	assert.Equal(t, int64(0), result.ModifiedCount)

	result, err = svc.UpdateUserRole(ctx, "missing", domain.UserRoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.ModifiedCount)
}

func TestUpdateUserRole_InvalidatesCache(t *testing.T) {
	store := memory.NewStore()
	cache := tests.NewMockRoleCache()
	svc := service.NewUserService(store.Users(), cache, nil, zap.NewNop())
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, &domain.User{Email: "a@x.com"})
	require.NoError(t, err)

	_, err = svc.GetUserRole(ctx, "a@x.com")
	require.NoError(t, err)

	_, err = svc.UpdateUserRole(ctx, created.InsertedID, domain.UserRoleAdmin)
	require.NoError(t, err)

	_, ok := cache.Cached("a@x.com")
	assert.False(t, ok)

	role, err := svc.GetUserRole(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, domain.UserRoleAdmin, role)
}

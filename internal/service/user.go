package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"parcel/internal/domain"
	"parcel/internal/metrics"
	"parcel/internal/redis"
	"parcel/internal/repository"
)

// SearchLimit caps the number of users returned by an email search.
const SearchLimit = 10

// registrationLockTTL bounds how long a crashed registration can block an email.
const registrationLockTTL = 10 * time.Second

// UserService handles user operations.
type UserService struct {
	userRepo  repository.UserRepository
	roleCache redis.RoleCacheInterface
	lockStore redis.LockStoreInterface
	logger    *zap.Logger
}

// NewUserService creates a new UserService. roleCache and lockStore may be nil.
func NewUserService(
	userRepo repository.UserRepository,
	roleCache redis.RoleCacheInterface,
	lockStore redis.LockStoreInterface,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:  userRepo,
		roleCache: roleCache,
		lockStore: lockStore,
		logger:    logger,
	}
}

// CreateUser registers a user unless one with the same email exists.
func (s *UserService) CreateUser(ctx context.Context, user *domain.User) (repository.InsertResult, error) {
	if user.Email == "" {
		return repository.InsertResult{}, ErrMissingEmail
	}

	if user.Role == "" {
		user.Role = domain.UserRoleUser
	}
	if !user.Role.Valid() {
		return repository.InsertResult{}, ErrInvalidRole
	}

	// Serialise concurrent registrations of the same email across instances.
	if s.lockStore != nil {
		token, acquired, err := s.lockStore.AcquireEmailLock(ctx, user.Email, registrationLockTTL)
		if err != nil {
			s.logger.Warn("registration lock unavailable", zap.String("email", user.Email), zap.Error(err))
		} else if !acquired {
			return repository.InsertResult{}, ErrUserExists
		} else {
			defer func() {
				_ = s.lockStore.ReleaseEmailLock(context.WithoutCancel(ctx), user.Email, token)
			}()
		}
	}

	existing, err := s.userRepo.GetByEmail(ctx, user.Email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return repository.InsertResult{}, err
	}
	if existing != nil {
		return repository.InsertResult{}, ErrUserExists
	}

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.LastLogin.IsZero() {
		user.LastLogin = now
	}

	result, err := s.userRepo.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicate) {
		return repository.InsertResult{}, ErrUserExists
	}
	return result, err
}

// SearchUsersByEmail returns up to SearchLimit users whose email contains query.
func (s *UserService) SearchUsersByEmail(ctx context.Context, query string) ([]*domain.User, error) {
	if query == "" {
		return nil, ErrMissingEmailQuery
	}
	return s.userRepo.SearchByEmail(ctx, query, SearchLimit)
}

// GetUserRole returns the role of the user with the given email, defaulting
// to user when none is stored.
func (s *UserService) GetUserRole(ctx context.Context, email string) (domain.UserRole, error) {
	if email == "" {
		return "", ErrMissingEmail
	}

	if s.roleCache != nil {
		role, ok, err := s.roleCache.GetRole(ctx, email)
		if err != nil {
			s.logger.Warn("role cache read failed", zap.String("email", email), zap.Error(err))
		} else if ok {
			return role, nil
		}
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	role := user.EffectiveRole()
	if s.roleCache != nil {
		if err := s.roleCache.SetRole(ctx, email, role); err != nil {
			s.logger.Warn("role cache write failed", zap.String("email", email), zap.Error(err))
		}
	}
	return role, nil
}

// UpdateUserRole sets the role of the user with the given ID.
func (s *UserService) UpdateUserRole(ctx context.Context, id string, role domain.UserRole) (repository.UpdateResult, error) {
	if !role.Valid() {
		return repository.UpdateResult{}, ErrInvalidRole
	}
	if id == "" {
		return repository.UpdateResult{}, ErrInvalidUserID
	}

	result, err := s.userRepo.UpdateRole(ctx, id, role)
	if err != nil {
		return repository.UpdateResult{}, err
	}
	metrics.UserRoleChanges.WithLabelValues(string(role)).Inc()

	if s.roleCache != nil && result.MatchedCount > 0 {
		user, err := s.userRepo.GetByID(ctx, id)
		if err == nil {
			s.invalidateRole(ctx, user.Email)
		}
	}
	return result, nil
}

func (s *UserService) invalidateRole(ctx context.Context, email string) {
	if s.roleCache == nil || email == "" {
		return
	}
	if err := s.roleCache.InvalidateRole(ctx, email); err != nil {
		s.logger.Warn("role cache invalidation failed", zap.String("email", email), zap.Error(err))
	}
}

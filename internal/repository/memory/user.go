package memory

import (
	"context"
	"sync/atomic"

	"parcel/internal/domain"
	"parcel/internal/repository"
)

// UserRepository is an in-memory implementation of repository.UserRepository.
// Email uniqueness is enforced the way a unique index would.
type UserRepository struct {
	s *Store

	// Counters for verification
	CreateCallCount     int32
	UpdateRoleCallCount int32

	// Error injection
	CreateError     error
	UpdateRoleError error
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (repository.InsertResult, error) {
	atomic.AddInt32(&r.CreateCallCount, 1)
	if r.CreateError != nil {
		return repository.InsertResult{}, r.CreateError
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.users {
		if e.value.Email == user.Email {
			return repository.InsertResult{}, repository.ErrDuplicate
		}
	}

	user.ID = newID()
	track(ctx, r.s.users, user.ID)
	r.s.users[user.ID] = entry[domain.User]{seq: r.s.nextSeq(), value: *user}
	return repository.InsertResult{InsertedID: user.ID}, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	user := e.value
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, e := range r.s.users {
		if e.value.Email == email {
			user := e.value
			return &user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) SearchByEmail(ctx context.Context, fragment string, limit int) ([]*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*domain.User, 0)
	for _, u := range sortedValues(r.s.users, nil) {
		if len(result) == limit {
			break
		}
		if containsFold(u.Email, fragment) {
			user := u
			result = append(result, &user)
		}
	}
	return result, nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, id string, role domain.UserRole) (repository.UpdateResult, error) {
	return r.setRole(ctx, func(u domain.User) bool { return u.ID == id }, role)
}

func (r *UserRepository) UpdateRoleByEmail(ctx context.Context, email string, role domain.UserRole) (repository.UpdateResult, error) {
	return r.setRole(ctx, func(u domain.User) bool { return u.Email == email }, role)
}

// setRole updates the first user matching match, like UpdateOne.
func (r *UserRepository) setRole(ctx context.Context, match func(domain.User) bool, role domain.UserRole) (repository.UpdateResult, error) {
	atomic.AddInt32(&r.UpdateRoleCallCount, 1)
	if r.UpdateRoleError != nil {
		return repository.UpdateResult{}, r.UpdateRoleError
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, e := range r.s.users {
		if !match(e.value) {
			continue
		}
		if e.value.Role == role {
			return repository.UpdateResult{MatchedCount: 1}, nil
		}
		e.value.Role = role
		track(ctx, r.s.users, id)
		r.s.users[id] = e
		return repository.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
	}
	return repository.UpdateResult{}, nil
}

package memory

import (
	"context"
	"sync/atomic"

	"parcel/internal/domain"
	"parcel/internal/repository"
)

// RiderRepository is an in-memory implementation of repository.RiderRepository.
type RiderRepository struct {
	s *Store

	// Counters for verification
	UpdateStatusCallCount int32

	// Error injection
	UpdateStatusError error
}

func (r *RiderRepository) Create(ctx context.Context, rider *domain.Rider) (repository.InsertResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rider.ID = newID()
	track(ctx, r.s.riders, rider.ID)
	r.s.riders[rider.ID] = entry[domain.Rider]{seq: r.s.nextSeq(), value: *rider}
	return repository.InsertResult{InsertedID: rider.ID}, nil
}

func (r *RiderRepository) GetByID(ctx context.Context, id string) (*domain.Rider, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.riders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	rider := e.value
	return &rider, nil
}

func (r *RiderRepository) List(ctx context.Context, status domain.RiderStatus) ([]*domain.Rider, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*domain.Rider, 0)
	for _, rd := range sortedValues(r.s.riders, nil) {
		if status != "" && rd.Status != status {
			continue
		}
		rider := rd
		result = append(result, &rider)
	}
	return result, nil
}

func (r *RiderRepository) UpdateStatus(ctx context.Context, id string, status domain.RiderStatus) (repository.UpdateResult, error) {
	atomic.AddInt32(&r.UpdateStatusCallCount, 1)
	if r.UpdateStatusError != nil {
		return repository.UpdateResult{}, r.UpdateStatusError
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.riders[id]
	if !ok {
		return repository.UpdateResult{}, nil
	}
	if e.value.Status == status {
		return repository.UpdateResult{MatchedCount: 1}, nil
	}
	e.value.Status = status
	track(ctx, r.s.riders, id)
	r.s.riders[id] = e
	return repository.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

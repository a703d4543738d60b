package memory

import (
	"context"
	"sync/atomic"

	"parcel/internal/domain"
	"parcel/internal/repository"
)

// ParcelRepository is an in-memory implementation of repository.ParcelRepository.
type ParcelRepository struct {
	s *Store

	// Counters for verification
	MarkPaidCallCount int32

	// Error injection
	CreateError   error
	MarkPaidError error
}

func (r *ParcelRepository) Create(ctx context.Context, parcel *domain.Parcel) (repository.InsertResult, error) {
	if r.CreateError != nil {
		return repository.InsertResult{}, r.CreateError
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	parcel.ID = newID()
	track(ctx, r.s.parcels, parcel.ID)
	r.s.parcels[parcel.ID] = entry[domain.Parcel]{seq: r.s.nextSeq(), value: *parcel}
	return repository.InsertResult{InsertedID: parcel.ID}, nil
}

func (r *ParcelRepository) GetByID(ctx context.Context, id string) (*domain.Parcel, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.parcels[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	parcel := e.value
	return &parcel, nil
}

func (r *ParcelRepository) List(ctx context.Context, createdBy string) ([]*domain.Parcel, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	newestFirst := func(a, b domain.Parcel) bool { return a.CreatedAt.After(b.CreatedAt) }
	result := make([]*domain.Parcel, 0)
	for _, p := range sortedValues(r.s.parcels, newestFirst) {
		if createdBy != "" && p.CreatedBy != createdBy {
			continue
		}
		parcel := p
		result = append(result, &parcel)
	}
	return result, nil
}

func (r *ParcelRepository) MarkPaid(ctx context.Context, id, transactionID string) (repository.UpdateResult, error) {
	atomic.AddInt32(&r.MarkPaidCallCount, 1)
	if r.MarkPaidError != nil {
		return repository.UpdateResult{}, r.MarkPaidError
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.parcels[id]
	if !ok || e.value.PaymentStatus == domain.PaymentStatusPaid {
		return repository.UpdateResult{}, nil
	}
	e.value.PaymentStatus = domain.PaymentStatusPaid
	e.value.TransactionID = transactionID
	track(ctx, r.s.parcels, id)
	r.s.parcels[id] = e
	return repository.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (r *ParcelRepository) Delete(ctx context.Context, id string) (repository.DeleteResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.parcels[id]; !ok {
		return repository.DeleteResult{}, nil
	}
	track(ctx, r.s.parcels, id)
	delete(r.s.parcels, id)
	return repository.DeleteResult{DeletedCount: 1}, nil
}

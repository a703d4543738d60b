package memory

import (
	"context"
	"sync/atomic"

	"parcel/internal/domain"
	"parcel/internal/repository"
)

// PaymentRepository is an in-memory implementation of repository.PaymentRepository.
type PaymentRepository struct {
	s *Store

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) (repository.InsertResult, error) {
	atomic.AddInt32(&r.CreateCallCount, 1)
	if r.CreateError != nil {
		return repository.InsertResult{}, r.CreateError
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	payment.ID = newID()
	track(ctx, r.s.payments, payment.ID)
	r.s.payments[payment.ID] = entry[domain.Payment]{seq: r.s.nextSeq(), value: *payment}
	return repository.InsertResult{InsertedID: payment.ID}, nil
}

func (r *PaymentRepository) List(ctx context.Context, email string) ([]*domain.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	newestFirst := func(a, b domain.Payment) bool { return a.CreatedAt.After(b.CreatedAt) }
	result := make([]*domain.Payment, 0)
	for _, p := range sortedValues(r.s.payments, newestFirst) {
		if email != "" && p.Email != email {
			continue
		}
		payment := p
		result = append(result, &payment)
	}
	return result, nil
}

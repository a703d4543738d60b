package repository

import (
	"context"

	"parcel/internal/domain"
)

// PaymentRepository defines the persistence operations for the payment ledger.
// Entries are never updated or deleted.
type PaymentRepository interface {
	// Create appends a new payment.
	Create(ctx context.Context, payment *domain.Payment) (InsertResult, error)

	// List retrieves payments newest first. An empty email returns every payment.
	List(ctx context.Context, email string) ([]*domain.Payment, error)
}

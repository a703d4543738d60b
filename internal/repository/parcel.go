package repository

import (
	"context"

	"parcel/internal/domain"
)

// ParcelRepository defines the persistence operations for parcels.
type ParcelRepository interface {
	// Create persists a new parcel.
	Create(ctx context.Context, parcel *domain.Parcel) (InsertResult, error)

	// GetByID retrieves a parcel by ID.
	GetByID(ctx context.Context, id string) (*domain.Parcel, error)

	// List retrieves parcels newest first. An empty createdBy returns every parcel.
	List(ctx context.Context, createdBy string) ([]*domain.Parcel, error)

	// MarkPaid sets payment_status to paid and records the transaction ID.
	// Only unpaid parcels are matched.
	MarkPaid(ctx context.Context, id, transactionID string) (UpdateResult, error)

	// Delete removes a parcel by ID.
	Delete(ctx context.Context, id string) (DeleteResult, error)
}

package repository

import (
	"context"

	"parcel/internal/domain"
)

// RiderRepository defines the persistence operations for rider applications.
type RiderRepository interface {
	// Create adds a new rider application.
	Create(ctx context.Context, rider *domain.Rider) (InsertResult, error)

	// GetByID retrieves a rider by ID.
	GetByID(ctx context.Context, id string) (*domain.Rider, error)

	// List retrieves riders. An empty status returns every rider.
	List(ctx context.Context, status domain.RiderStatus) ([]*domain.Rider, error)

	// UpdateStatus sets the status of a rider.
	UpdateStatus(ctx context.Context, id string, status domain.RiderStatus) (UpdateResult, error)
}

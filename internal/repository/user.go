package repository

import (
	"context"

	"parcel/internal/domain"
)

// UserRepository defines the persistence operations for users.
type UserRepository interface {
	// Create adds a new user. Returns ErrDuplicate if the store rejects the email.
	Create(ctx context.Context, user *domain.User) (InsertResult, error)

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by exact email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// SearchByEmail returns up to limit users whose email contains fragment, ignoring case.
	SearchByEmail(ctx context.Context, fragment string, limit int) ([]*domain.User, error)

	// UpdateRole sets the role of the user with the given ID.
	UpdateRole(ctx context.Context, id string, role domain.UserRole) (UpdateResult, error)

	// UpdateRoleByEmail sets the role of the user with the given email.
	UpdateRoleByEmail(ctx context.Context, email string, role domain.UserRole) (UpdateResult, error)
}

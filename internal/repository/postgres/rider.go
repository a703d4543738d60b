package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"parcel/internal/domain"
	"parcel/internal/repository"
)

// RiderRepository is a PostgreSQL implementation of repository.RiderRepository.
type RiderRepository struct {
	q Querier
}

// NewRiderRepository creates a new PostgreSQL rider repository.
func NewRiderRepository(db *sql.DB) *RiderRepository {
	return &RiderRepository{q: db}
}

// NewRiderRepositoryWithTx creates a rider repository using a transaction.
func NewRiderRepositoryWithTx(tx *sql.Tx) *RiderRepository {
	return &RiderRepository{q: tx}
}

// Create adds a new rider application.
func (r *RiderRepository) Create(ctx context.Context, rider *domain.Rider) (repository.InsertResult, error) {
	doc, err := json.Marshal(rider)
	if err != nil {
		return repository.InsertResult{}, err
	}

	id := uuid.New().String()
	query := `INSERT INTO riders (id, doc, created_at) VALUES ($1, $2, $3)`
	if _, err := r.q.ExecContext(ctx, query, id, doc, rider.CreatedAt); err != nil {
		return repository.InsertResult{}, err
	}

	rider.ID = id
	return repository.InsertResult{InsertedID: id}, nil
}

// GetByID retrieves a rider by ID.
func (r *RiderRepository) GetByID(ctx context.Context, id string) (*domain.Rider, error) {
	var doc []byte
	err := r.q.QueryRowContext(ctx, `SELECT doc FROM riders WHERE id = $1`, id).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	var rider domain.Rider
	if err := json.Unmarshal(doc, &rider); err != nil {
		return nil, err
	}
	rider.ID = id
	return &rider, nil
}

// List retrieves riders, optionally filtered by status.
func (r *RiderRepository) List(ctx context.Context, status domain.RiderStatus) ([]*domain.Rider, error) {
	query := `SELECT id, doc FROM riders WHERE $1::text = '' OR doc->>'status' = $1 ORDER BY created_at`
	rows, err := r.q.QueryContext(ctx, query, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	riders := make([]*domain.Rider, 0)
	for rows.Next() {
		var id string
		var doc []byte
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, err
		}
		var rider domain.Rider
		if err := json.Unmarshal(doc, &rider); err != nil {
			return nil, err
		}
		rider.ID = id
		riders = append(riders, &rider)
	}
	return riders, rows.Err()
}

// UpdateStatus sets the status of a rider.
func (r *RiderRepository) UpdateStatus(ctx context.Context, id string, status domain.RiderStatus) (repository.UpdateResult, error) {
	return setField(ctx, r.q, "riders", "status", "id", id, string(status))
}

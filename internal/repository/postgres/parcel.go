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

// ParcelRepository is a PostgreSQL implementation of repository.ParcelRepository.
type ParcelRepository struct {
	q Querier
}

// NewParcelRepository creates a new PostgreSQL parcel repository.
func NewParcelRepository(db *sql.DB) *ParcelRepository {
	return &ParcelRepository{q: db}
}

// NewParcelRepositoryWithTx creates a parcel repository using a transaction.
func NewParcelRepositoryWithTx(tx *sql.Tx) *ParcelRepository {
	return &ParcelRepository{q: tx}
}

// Create persists a new parcel.
func (r *ParcelRepository) Create(ctx context.Context, parcel *domain.Parcel) (repository.InsertResult, error) {
	doc, err := json.Marshal(parcel)
	if err != nil {
		return repository.InsertResult{}, err
	}

	id := uuid.New().String()
	query := `INSERT INTO parcels (id, doc, created_at) VALUES ($1, $2, $3)`
	if _, err := r.q.ExecContext(ctx, query, id, doc, parcel.CreatedAt); err != nil {
		return repository.InsertResult{}, err
	}

	parcel.ID = id
	return repository.InsertResult{InsertedID: id}, nil
}

// GetByID retrieves a parcel by ID.
func (r *ParcelRepository) GetByID(ctx context.Context, id string) (*domain.Parcel, error) {
	var doc []byte
	err := r.q.QueryRowContext(ctx, `SELECT doc FROM parcels WHERE id = $1`, id).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	var parcel domain.Parcel
	if err := json.Unmarshal(doc, &parcel); err != nil {
		return nil, err
	}
	parcel.ID = id
	return &parcel, nil
}

// List retrieves parcels newest first.
func (r *ParcelRepository) List(ctx context.Context, createdBy string) ([]*domain.Parcel, error) {
	query := `
		SELECT id, doc FROM parcels
		WHERE $1::text = '' OR doc->>'created_by' = $1
		ORDER BY created_at DESC
	`
	rows, err := r.q.QueryContext(ctx, query, createdBy)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	parcels := make([]*domain.Parcel, 0)
	for rows.Next() {
		var id string
		var doc []byte
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, err
		}
		var parcel domain.Parcel
		if err := json.Unmarshal(doc, &parcel); err != nil {
			return nil, err
		}
		parcel.ID = id
		parcels = append(parcels, &parcel)
	}
	return parcels, rows.Err()
}

// MarkPaid sets payment_status to paid on an unpaid parcel.
func (r *ParcelRepository) MarkPaid(ctx context.Context, id, transactionID string) (repository.UpdateResult, error) {
	query := `
		UPDATE parcels
		SET doc = doc || jsonb_build_object('payment_status', $1::text, 'transactionId', $2::text)
		WHERE id = $3 AND doc->>'payment_status' IS DISTINCT FROM $1::text
	`
	res, err := r.q.ExecContext(ctx, query, string(domain.PaymentStatusPaid), transactionID, id)
	if err != nil {
		return repository.UpdateResult{}, err
	}
	return updateResult(res)
}

// Delete removes a parcel by ID.
func (r *ParcelRepository) Delete(ctx context.Context, id string) (repository.DeleteResult, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM parcels WHERE id = $1`, id)
	if err != nil {
		return repository.DeleteResult{}, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return repository.DeleteResult{}, err
	}
	return repository.DeleteResult{DeletedCount: n}, nil
}

package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	"parcel/internal/domain"
	"parcel/internal/repository"
)

// PaymentRepository is a PostgreSQL implementation of repository.PaymentRepository.
type PaymentRepository struct {
	q Querier
}

// NewPaymentRepository creates a new PostgreSQL payment repository.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{q: db}
}

// NewPaymentRepositoryWithTx creates a payment repository using a transaction.
func NewPaymentRepositoryWithTx(tx *sql.Tx) *PaymentRepository {
	return &PaymentRepository{q: tx}
}

// Create appends a new payment.
func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) (repository.InsertResult, error) {
	doc, err := json.Marshal(payment)
	if err != nil {
		return repository.InsertResult{}, err
	}

	id := uuid.New().String()
	query := `
		INSERT INTO payments (id, doc, created_at)
		VALUES ($1, $2, $3)
	`
	if _, err := r.q.ExecContext(ctx, query, id, doc, payment.CreatedAt); err != nil {
		return repository.InsertResult{}, err
	}

	payment.ID = id
	return repository.InsertResult{InsertedID: id}, nil
}

// List retrieves payments newest first.
func (r *PaymentRepository) List(ctx context.Context, email string) ([]*domain.Payment, error) {
	query := `
		SELECT id, doc FROM payments
		WHERE $1::text = '' OR doc->>'email' = $1
		ORDER BY created_at DESC
	`
	rows, err := r.q.QueryContext(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make([]*domain.Payment, 0)
	for rows.Next() {
		var id string
		var doc []byte
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, err
		}
		var payment domain.Payment
		if err := json.Unmarshal(doc, &payment); err != nil {
			return nil, err
		}
		payment.ID = id
		payments = append(payments, &payment)
	}
	return payments, rows.Err()
}

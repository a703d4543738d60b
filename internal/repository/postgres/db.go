package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"parcel/internal/repository"
)

// Querier is an interface satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Ensure interfaces are satisfied.
var (
	_ Querier             = (*sql.DB)(nil)
	_ Querier             = (*sql.Tx)(nil)
	_ repository.TxRunner = (*Store)(nil)
)

// Each collection is a table of JSONB documents keyed by id. created_at is
// lifted out of the document so listings can be ordered by an index.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id         TEXT PRIMARY KEY,
	doc        JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE UNIQUE INDEX IF NOT EXISTS users_email_unique ON users ((doc->>'email'));

CREATE TABLE IF NOT EXISTS parcels (
	id         TEXT PRIMARY KEY,
	doc        JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS parcels_created_by ON parcels ((doc->>'created_by'), created_at DESC);

CREATE TABLE IF NOT EXISTS payments (
	id         TEXT PRIMARY KEY,
	doc        JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS payments_email ON payments ((doc->>'email'), created_at DESC);

CREATE TABLE IF NOT EXISTS riders (
	id         TEXT PRIMARY KEY,
	doc        JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS riders_status ON riders ((doc->>'status'));
`

// uniqueViolation is the PostgreSQL error code for unique_violation.
const uniqueViolation = "23505"

// Store builds repositories over a PostgreSQL database.
type Store struct {
	db *sql.DB
}

// NewStore creates a new Store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the tables and indexes if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Stores returns repositories that run each statement on its own.
func (s *Store) Stores() repository.Stores {
	return repository.Stores{
		Users:    NewUserRepository(s.db),
		Parcels:  NewParcelRepository(s.db),
		Payments: NewPaymentRepository(s.db),
		Riders:   NewRiderRepository(s.db),
	}
}

// RunInTx runs fn with repositories bound to a single transaction.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, stores repository.Stores) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stores := repository.Stores{
		Users:    NewUserRepositoryWithTx(tx),
		Parcels:  NewParcelRepositoryWithTx(tx),
		Payments: NewPaymentRepositoryWithTx(tx),
		Riders:   NewRiderRepositoryWithTx(tx),
	}
	if err = fn(ctx, stores); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// escapeLike escapes the LIKE metacharacters in s so it matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// updateResult converts an UPDATE result whose WHERE clause already excludes
// unchanged rows, so matched and modified counts are the same.
func updateResult(res sql.Result) (repository.UpdateResult, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return repository.UpdateResult{}, err
	}
	return repository.UpdateResult{MatchedCount: n, ModifiedCount: n}, nil
}

// setFieldQuery updates one string field of the first document matching the
// key and counts matched and modified rows separately.
const setFieldQuery = `
	WITH target AS (
		SELECT id, doc->>'%[2]s' AS current FROM %[1]s WHERE %[3]s = $2 LIMIT 1 FOR UPDATE
	), updated AS (
		UPDATE %[1]s SET doc = jsonb_set(%[1]s.doc, '{%[2]s}', to_jsonb($1::text))
		FROM target
		WHERE %[1]s.id = target.id AND target.current IS DISTINCT FROM $1::text
		RETURNING %[1]s.id
	)
	SELECT (SELECT count(*) FROM target), (SELECT count(*) FROM updated)
`

// setField sets doc.field to value on the first row of table where keyExpr
// equals key. table, field and keyExpr are fixed by the callers.
func setField(ctx context.Context, q Querier, table, field, keyExpr, key, value string) (repository.UpdateResult, error) {
	query := fmt.Sprintf(setFieldQuery, table, field, keyExpr)

	var result repository.UpdateResult
	if err := q.QueryRowContext(ctx, query, value, key).Scan(&result.MatchedCount, &result.ModifiedCount); err != nil {
		return repository.UpdateResult{}, err
	}
	return result, nil
}

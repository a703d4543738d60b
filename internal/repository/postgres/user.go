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

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	q Querier
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{q: db}
}

// NewUserRepositoryWithTx creates a user repository using a transaction.
func NewUserRepositoryWithTx(tx *sql.Tx) *UserRepository {
	return &UserRepository{q: tx}
}

// Create adds a new user.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (repository.InsertResult, error) {
	doc, err := json.Marshal(user)
	if err != nil {
		return repository.InsertResult{}, err
	}

	id := uuid.New().String()
	query := `INSERT INTO users (id, doc, created_at) VALUES ($1, $2, $3)`
	if _, err := r.q.ExecContext(ctx, query, id, doc, user.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.InsertResult{}, repository.ErrDuplicate
		}
		return repository.InsertResult{}, err
	}

	user.ID = id
	return repository.InsertResult{InsertedID: id}, nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT id, doc FROM users WHERE id = $1`, id)
}

// GetByEmail retrieves a user by exact email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT id, doc FROM users WHERE doc->>'email' = $1`, email)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg string) (*domain.User, error) {
	var id string
	var doc []byte
	err := r.q.QueryRowContext(ctx, query, arg).Scan(&id, &doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var user domain.User
	if err := json.Unmarshal(doc, &user); err != nil {
		return nil, err
	}
	user.ID = id
	return &user, nil
}

// SearchByEmail returns up to limit users whose email contains fragment, ignoring case.
func (r *UserRepository) SearchByEmail(ctx context.Context, fragment string, limit int) ([]*domain.User, error) {
	query := `
		SELECT id, doc FROM users
		WHERE doc->>'email' ILIKE '%' || $1::text || '%' ESCAPE '\'
		LIMIT $2
	`
	rows, err := r.q.QueryContext(ctx, query, escapeLike(fragment), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		var id string
		var doc []byte
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, err
		}
		var user domain.User
		if err := json.Unmarshal(doc, &user); err != nil {
			return nil, err
		}
		user.ID = id
		users = append(users, &user)
	}
	return users, rows.Err()
}

// UpdateRole sets the role of the user with the given ID.
func (r *UserRepository) UpdateRole(ctx context.Context, id string, role domain.UserRole) (repository.UpdateResult, error) {
	return setField(ctx, r.q, "users", "role", "id", id, string(role))
}

// UpdateRoleByEmail sets the role of the user with the given email.
func (r *UserRepository) UpdateRoleByEmail(ctx context.Context, email string, role domain.UserRole) (repository.UpdateResult, error) {
	return setField(ctx, r.q, "users", "role", "doc->>'email'", email, string(role))
}

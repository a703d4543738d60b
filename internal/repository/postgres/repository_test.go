package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parcel/internal/domain"
	"parcel/internal/repository"
)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewStore(db), mock
}

func TestParcelRepository_MarkPaid(t *testing.T) {
	testCases := []struct {
		name     string
		affected int64
		want     repository.UpdateResult
	}{
		{"unpaid parcel", 1, repository.UpdateResult{MatchedCount: 1, ModifiedCount: 1}},
		{"already paid or missing", 0, repository.UpdateResult{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store, mock := newMock(t)
			mock.ExpectExec(`(?s)UPDATE parcels.+WHERE id = \$3 AND doc->>'payment_status' IS DISTINCT FROM \$1::text`).
				WithArgs("paid", "pi_123", "p1").
				WillReturnResult(sqlmock.NewResult(0, tc.affected))

			got, err := store.Stores().Parcels.MarkPaid(context.Background(), "p1", "pi_123")
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParcelRepository_List(t *testing.T) {
	store, mock := newMock(t)
	rows := sqlmock.NewRows([]string{"id", "doc"}).
		AddRow("p2", []byte(`{"created_by":"a@example.com","title":"Books","payment_status":"paid"}`)).
		AddRow("p1", []byte(`{"created_by":"a@example.com","title":"Shoes","payment_status":"unpaid"}`))
	mock.ExpectQuery(`(?s)SELECT id, doc FROM parcels.+doc->>'created_by' = \$1.+ORDER BY created_at DESC`).
		WithArgs("a@example.com").
		WillReturnRows(rows)

	parcels, err := store.Stores().Parcels.List(context.Background(), "a@example.com")
	require.NoError(t, err)
	require.Len(t, parcels, 2)
	assert.Equal(t, "p2", parcels[0].ID)
	assert.Equal(t, "Books", parcels[0].Title)
	assert.Equal(t, domain.PaymentStatusPaid, parcels[0].PaymentStatus)
	assert.Equal(t, "p1", parcels[1].ID)
}

func TestUserRepository_SearchByEmailEscapesPattern(t *testing.T) {
	store, mock := newMock(t)
	mock.ExpectQuery(`(?s)SELECT id, doc FROM users.+ILIKE.+ESCAPE.+LIMIT \$2`).
		WithArgs(`100\%\_off`, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "doc"}).
			AddRow("u1", []byte(`{"email":"100%_off@example.com","role":"user"}`)))

	users, err := store.Stores().Users.SearchByEmail(context.Background(), "100%_off", 10)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "u1", users[0].ID)
	assert.Equal(t, "100%_off@example.com", users[0].Email)
}

func TestUserRepository_UpdateRoleCounts(t *testing.T) {
	testCases := []struct {
		name     string
		matched  int64
		modified int64
	}{
		{"role changed", 1, 1},
		{"role unchanged", 1, 0},
		{"no such user", 0, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store, mock := newMock(t)
			mock.ExpectQuery(`(?s)WITH target AS.+FROM users WHERE id = \$2.+IS DISTINCT FROM \$1::text`).
				WithArgs("admin", "u1").
				WillReturnRows(sqlmock.NewRows([]string{"matched", "modified"}).AddRow(tc.matched, tc.modified))

			got, err := store.Stores().Users.UpdateRole(context.Background(), "u1", domain.UserRoleAdmin)
			require.NoError(t, err)
			assert.Equal(t, repository.UpdateResult{MatchedCount: tc.matched, ModifiedCount: tc.modified}, got)
		})
	}
}

func TestUserRepository_UpdateRoleByEmail(t *testing.T) {
	store, mock := newMock(t)
	mock.ExpectQuery(`(?s)WITH target AS.+FROM users WHERE doc->>'email' = \$2`).
		WithArgs("rider", "r@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"matched", "modified"}).AddRow(1, 1))

	got, err := store.Stores().Users.UpdateRoleByEmail(context.Background(), "r@example.com", domain.UserRoleRider)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ModifiedCount)
}

func TestUserRepository_CreateDuplicate(t *testing.T) {
	store, mock := newMock(t)
	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: uniqueViolation})

	_, err := store.Stores().Users.Create(context.Background(), &domain.User{Email: "a@example.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestRiderRepository_GetByIDNotFound(t *testing.T) {
	store, mock := newMock(t)
	mock.ExpectQuery(`SELECT doc FROM riders WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"doc"}))

	_, err := store.Stores().Riders.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStore_RunInTx(t *testing.T) {
	t.Run("commits both steps", func(t *testing.T) {
		store, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE parcels`).
			WithArgs("paid", "pi_123", "p1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO payments`).
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := store.RunInTx(context.Background(), func(ctx context.Context, stores repository.Stores) error {
			if _, err := stores.Parcels.MarkPaid(ctx, "p1", "pi_123"); err != nil {
				return err
			}
			_, err := stores.Payments.Create(ctx, &domain.Payment{ParcelID: "p1", TransactionID: "pi_123"})
			return err
		})
		require.NoError(t, err)
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		store, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE parcels`).
			WithArgs("paid", "pi_123", "p1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO payments`).
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		err := store.RunInTx(context.Background(), func(ctx context.Context, stores repository.Stores) error {
			if _, err := stores.Parcels.MarkPaid(ctx, "p1", "pi_123"); err != nil {
				return err
			}
			_, err := stores.Payments.Create(ctx, &domain.Payment{ParcelID: "p1", TransactionID: "pi_123"})
			return err
		})
		assert.EqualError(t, err, "disk full")
	})
}

// Package memory provides in-process implementations of the repositories.
// It backs STORE_DRIVER=memory and serves as the store in tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"parcel/internal/domain"
	"parcel/internal/repository"
)

type entry[T any] struct {
	seq   int64
	value T
}

// Store keeps every collection in maps guarded by a single RWMutex.
type Store struct {
	mu       sync.RWMutex
	txMu     sync.Mutex
	seq      int64
	users    map[string]entry[domain.User]
	parcels  map[string]entry[domain.Parcel]
	payments map[string]entry[domain.Payment]
	riders   map[string]entry[domain.Rider]

	userRepo    *UserRepository
	parcelRepo  *ParcelRepository
	paymentRepo *PaymentRepository
	riderRepo   *RiderRepository
}

// NewStore creates an empty Store.
func NewStore() *Store {
	s := &Store{
		users:    make(map[string]entry[domain.User]),
		parcels:  make(map[string]entry[domain.Parcel]),
		payments: make(map[string]entry[domain.Payment]),
		riders:   make(map[string]entry[domain.Rider]),
	}
	s.userRepo = &UserRepository{s: s}
	s.parcelRepo = &ParcelRepository{s: s}
	s.paymentRepo = &PaymentRepository{s: s}
	s.riderRepo = &RiderRepository{s: s}
	return s
}

// Stores returns the repositories backed by this Store.
func (s *Store) Stores() repository.Stores {
	return repository.Stores{
		Users:    s.userRepo,
		Parcels:  s.parcelRepo,
		Payments: s.paymentRepo,
		Riders:   s.riderRepo,
	}
}

// Users returns the user repository, for error injection in tests.
func (s *Store) Users() *UserRepository { return s.userRepo }

// Parcels returns the parcel repository.
func (s *Store) Parcels() *ParcelRepository { return s.parcelRepo }

// Payments returns the payment repository.
func (s *Store) Payments() *PaymentRepository { return s.paymentRepo }

// Riders returns the rider repository.
func (s *Store) Riders() *RiderRepository { return s.riderRepo }

// RunInTx serialises fn against other transactions. When fn fails the writes
// it made are undone in reverse order; writes from outside the transaction
// are left in place.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, stores repository.Stores) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	undo := &undoLog{}
	if err := fn(context.WithValue(ctx, undoLogKey{}, undo), s.Stores()); err != nil {
		s.mu.Lock()
		undo.rollback()
		s.mu.Unlock()
		return err
	}
	return nil
}

type undoLogKey struct{}

// undoLog holds the steps that revert one transaction's writes.
type undoLog struct {
	steps []func()
}

// rollback must be called with mu held for writing.
func (l *undoLog) rollback() {
	for i := len(l.steps) - 1; i >= 0; i-- {
		l.steps[i]()
	}
	l.steps = nil
}

// track records the current state of m[id] when ctx belongs to a
// transaction. It must be called with mu held for writing, before m[id]
// changes.
func track[T any](ctx context.Context, m map[string]entry[T], id string) {
	undo, ok := ctx.Value(undoLogKey{}).(*undoLog)
	if !ok {
		return
	}
	prev, existed := m[id]
	undo.steps = append(undo.steps, func() {
		if existed {
			m[id] = prev
		} else {
			delete(m, id)
		}
	})
}

// nextSeq must be called with mu held for writing.
func (s *Store) nextSeq() int64 {
	s.seq++
	return s.seq
}

func newID() string {
	return uuid.New().String()
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// sortedValues returns the map values ordered by less, falling back to
// insertion order.
func sortedValues[T any](m map[string]entry[T], less func(a, b T) bool) []T {
	entries := make([]entry[T], 0, len(m))
	for _, e := range m {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if less != nil {
			if less(a.value, b.value) {
				return true
			}
			if less(b.value, a.value) {
				return false
			}
		}
		return a.seq < b.seq
	})

	values := make([]T, 0, len(entries))
	for _, e := range entries {
		values = append(values, e.value)
	}
	return values
}

// Ensure interfaces are satisfied.
var (
	_ repository.TxRunner          = (*Store)(nil)
	_ repository.UserRepository    = (*UserRepository)(nil)
	_ repository.ParcelRepository  = (*ParcelRepository)(nil)
	_ repository.PaymentRepository = (*PaymentRepository)(nil)
	_ repository.RiderRepository   = (*RiderRepository)(nil)
)

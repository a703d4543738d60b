package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"parcel/internal/repository"
)

// Collection names.
const (
	usersCollection    = "users"
	parcelsCollection  = "parcels"
	paymentsCollection = "payments"
	ridersCollection   = "riders"
)

// Store holds the parcel database and builds repositories over its collections.
type Store struct {
	client       *mongo.Client
	db           *mongo.Database
	transactions bool
}

// NewStore creates a Store for the named database. When transactions is true
// RunInTx wraps its callback in a session transaction, which requires a
// replica set or sharded cluster.
func NewStore(client *mongo.Client, database string, transactions bool) *Store {
	return &Store{
		client:       client,
		db:           client.Database(database),
		transactions: transactions,
	}
}

// Stores returns the repositories backed by this database.
func (s *Store) Stores() repository.Stores {
	return repository.Stores{
		Users:    NewUserRepository(s.db),
		Parcels:  NewParcelRepository(s.db),
		Payments: NewPaymentRepository(s.db),
		Riders:   NewRiderRepository(s.db),
	}
}

// EnsureIndexes creates the indexes the repositories rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("users_email_unique"),
	})
	if err != nil {
		return fmt.Errorf("failed to create users email index: %w", err)
	}

	for _, name := range []string{parcelsCollection, paymentsCollection} {
		_, err := s.db.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "createdAt", Value: -1}},
		})
		if err != nil {
			return fmt.Errorf("failed to create %s createdAt index: %w", name, err)
		}
	}

	_, err = s.db.Collection(ridersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "status", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create riders status index: %w", err)
	}

	return nil
}

// RunInTx implements repository.TxRunner.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, stores repository.Stores) error) error {
	if !s.transactions {
		return fn(ctx, s.Stores())
	}

	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc, s.Stores())
	})
	return err
}

// idFilter matches a document by its native ObjectID, falling back to a raw
// string _id for documents written by other clients.
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": bson.M{"$in": bson.A{oid, id}}}
	}
	return bson.M{"_id": id}
}

// hexID renders a decoded _id as a string.
func hexID(v any) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	case nil:
		return ""
	default:
		return fmt.Sprint(id)
	}
}

// Ensure interfaces are satisfied.
var _ repository.TxRunner = (*Store)(nil)

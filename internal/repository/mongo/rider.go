package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"parcel/internal/domain"
	"parcel/internal/repository"
)

type riderDocument struct {
	ID           any `bson:"_id,omitempty"`
	domain.Rider `bson:",inline"`
}

func (d *riderDocument) toDomain() *domain.Rider {
	rider := d.Rider
	rider.ID = hexID(d.ID)
	return &rider
}

// RiderRepository implements repository.RiderRepository using MongoDB.
type RiderRepository struct {
	coll *mongo.Collection
}

// NewRiderRepository creates a new RiderRepository.
func NewRiderRepository(db *mongo.Database) *RiderRepository {
	return &RiderRepository{coll: db.Collection(ridersCollection)}
}

// Create adds a new rider application.
func (r *RiderRepository) Create(ctx context.Context, rider *domain.Rider) (repository.InsertResult, error) {
	id := primitive.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, riderDocument{ID: id, Rider: *rider}); err != nil {
		return repository.InsertResult{}, err
	}
	rider.ID = id.Hex()
	return repository.InsertResult{InsertedID: rider.ID}, nil
}

// GetByID retrieves a rider by ID.
func (r *RiderRepository) GetByID(ctx context.Context, id string) (*domain.Rider, error) {
	var doc riderDocument
	err := r.coll.FindOne(ctx, idFilter(id)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

// List retrieves riders, optionally filtered by status.
func (r *RiderRepository) List(ctx context.Context, status domain.RiderStatus) ([]*domain.Rider, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	var docs []riderDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	riders := make([]*domain.Rider, 0, len(docs))
	for i := range docs {
		riders = append(riders, docs[i].toDomain())
	}
	return riders, nil
}

// UpdateStatus sets the status of a rider.
func (r *RiderRepository) UpdateStatus(ctx context.Context, id string, status domain.RiderStatus) (repository.UpdateResult, error) {
	res, err := r.coll.UpdateOne(ctx, idFilter(id), bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return repository.UpdateResult{}, err
	}
	return repository.UpdateResult{MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}, nil
}

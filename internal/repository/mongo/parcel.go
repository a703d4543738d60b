package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"parcel/internal/domain"
	"parcel/internal/repository"
)

type parcelDocument struct {
	ID            any `bson:"_id,omitempty"`
	domain.Parcel `bson:",inline"`
}

func (d *parcelDocument) toDomain() *domain.Parcel {
	parcel := d.Parcel
	parcel.ID = hexID(d.ID)
	return &parcel
}

// ParcelRepository implements repository.ParcelRepository using MongoDB.
type ParcelRepository struct {
	coll *mongo.Collection
}

// NewParcelRepository creates a new ParcelRepository.
func NewParcelRepository(db *mongo.Database) *ParcelRepository {
	return &ParcelRepository{coll: db.Collection(parcelsCollection)}
}

// Create persists a new parcel.
func (r *ParcelRepository) Create(ctx context.Context, parcel *domain.Parcel) (repository.InsertResult, error) {
	id := primitive.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, parcelDocument{ID: id, Parcel: *parcel}); err != nil {
		return repository.InsertResult{}, err
	}
	parcel.ID = id.Hex()
	return repository.InsertResult{InsertedID: parcel.ID}, nil
}

// GetByID retrieves a parcel by ID.
func (r *ParcelRepository) GetByID(ctx context.Context, id string) (*domain.Parcel, error) {
	var doc parcelDocument
	err := r.coll.FindOne(ctx, idFilter(id)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

// List retrieves parcels newest first.
func (r *ParcelRepository) List(ctx context.Context, createdBy string) ([]*domain.Parcel, error) {
	filter := bson.M{}
	if createdBy != "" {
		filter["created_by"] = createdBy
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var docs []parcelDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	parcels := make([]*domain.Parcel, 0, len(docs))
	for i := range docs {
		parcels = append(parcels, docs[i].toDomain())
	}
	return parcels, nil
}

// MarkPaid sets payment_status to paid on an unpaid parcel.
func (r *ParcelRepository) MarkPaid(ctx context.Context, id, transactionID string) (repository.UpdateResult, error) {
	filter := idFilter(id)
	filter["payment_status"] = bson.M{"$ne": domain.PaymentStatusPaid}

	update := bson.M{"$set": bson.M{
		"payment_status": domain.PaymentStatusPaid,
		"transactionId":  transactionID,
	}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return repository.UpdateResult{}, err
	}
	return repository.UpdateResult{MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}, nil
}

// Delete removes a parcel by ID.
func (r *ParcelRepository) Delete(ctx context.Context, id string) (repository.DeleteResult, error) {
	res, err := r.coll.DeleteOne(ctx, idFilter(id))
	if err != nil {
		return repository.DeleteResult{}, err
	}
	return repository.DeleteResult{DeletedCount: res.DeletedCount}, nil
}

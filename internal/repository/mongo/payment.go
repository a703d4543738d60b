package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"parcel/internal/domain"
	"parcel/internal/repository"
)

type paymentDocument struct {
	ID             any `bson:"_id,omitempty"`
	domain.Payment `bson:",inline"`
}

// PaymentRepository implements repository.PaymentRepository using MongoDB.
type PaymentRepository struct {
	coll *mongo.Collection
}

// NewPaymentRepository creates a new PaymentRepository.
func NewPaymentRepository(db *mongo.Database) *PaymentRepository {
	return &PaymentRepository{coll: db.Collection(paymentsCollection)}
}

// Create appends a new payment.
func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) (repository.InsertResult, error) {
	id := primitive.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, paymentDocument{ID: id, Payment: *payment}); err != nil {
		return repository.InsertResult{}, err
	}
	payment.ID = id.Hex()
	return repository.InsertResult{InsertedID: payment.ID}, nil
}

// List retrieves payments newest first.
func (r *PaymentRepository) List(ctx context.Context, email string) ([]*domain.Payment, error) {
	filter := bson.M{}
	if email != "" {
		filter["email"] = email
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var docs []paymentDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	payments := make([]*domain.Payment, 0, len(docs))
	for _, d := range docs {
		payment := d.Payment
		payment.ID = hexID(d.ID)
		payments = append(payments, &payment)
	}
	return payments, nil
}

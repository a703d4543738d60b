package mongo

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"parcel/internal/domain"
	"parcel/internal/repository"
)

type userDocument struct {
	ID          any `bson:"_id,omitempty"`
	domain.User `bson:",inline"`
}

func (d *userDocument) toDomain() *domain.User {
	user := d.User
	user.ID = hexID(d.ID)
	return &user
}

// UserRepository implements repository.UserRepository using MongoDB.
type UserRepository struct {
	coll *mongo.Collection
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

// Create adds a new user.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (repository.InsertResult, error) {
	id := primitive.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, userDocument{ID: id, User: *user}); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.InsertResult{}, repository.ErrDuplicate
		}
		return repository.InsertResult{}, err
	}
	user.ID = id.Hex()
	return repository.InsertResult{InsertedID: user.ID}, nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, idFilter(id))
}

// GetByEmail retrieves a user by exact email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDocument
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

// SearchByEmail returns up to limit users whose email contains fragment, ignoring case.
func (r *UserRepository) SearchByEmail(ctx context.Context, fragment string, limit int) ([]*domain.User, error) {
	filter := bson.M{"email": primitive.Regex{Pattern: regexp.QuoteMeta(fragment), Options: "i"}}
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetLimit(int64(limit)))
	if err != nil {
		return nil, err
	}

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	users := make([]*domain.User, 0, len(docs))
	for i := range docs {
		users = append(users, docs[i].toDomain())
	}
	return users, nil
}

// UpdateRole sets the role of the user with the given ID.
func (r *UserRepository) UpdateRole(ctx context.Context, id string, role domain.UserRole) (repository.UpdateResult, error) {
	return r.setRole(ctx, idFilter(id), role)
}

// UpdateRoleByEmail sets the role of the user with the given email.
func (r *UserRepository) UpdateRoleByEmail(ctx context.Context, email string, role domain.UserRole) (repository.UpdateResult, error) {
	return r.setRole(ctx, bson.M{"email": email}, role)
}

func (r *UserRepository) setRole(ctx context.Context, filter bson.M, role domain.UserRole) (repository.UpdateResult, error) {
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return repository.UpdateResult{}, err
	}
	return repository.UpdateResult{MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}, nil
}

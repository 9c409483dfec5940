package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fridayblog/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateEmail is returned when an insert hits the unique email index
var ErrDuplicateEmail = errors.New("user with this email already registered")

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUsers(ctx context.Context) ([]models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, id string, req *models.UpdateUserRequest) (*models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) (*models.User, error)
	UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) (*models.User, error)
	DeleteUser(ctx context.Context, id string) (*models.User, error)
}

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection("users")}
}

// EnsureIndexes creates the unique index on email
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// CreateUser creates a new user in MongoDB. Returns ErrDuplicateEmail when
// the unique email index rejects the insert.
func (r *MongoUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, user)
	if err == nil {
		return nil
	}
	var we mongo.WriteException
	if errors.As(err, &we) && len(we.WriteErrors) > 0 && we.WriteErrors[0].Code == 11000 {
		return ErrDuplicateEmail
	}
	return err
}

// GetUsers retrieves all users from MongoDB
func (r *MongoUserRepository) GetUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	cursor, err := r.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// GetUserByID retrieves a user by ID, (nil, nil) on a miss
func (r *MongoUserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format: %w", err)
	}

	var user models.User
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email, (nil, nil) on a miss
func (r *MongoUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// UpdateUser applies a partial-field merge to a user's profile and returns
// the updated document, (nil, nil) when the user does not exist
func (r *MongoUserRepository) UpdateUser(ctx context.Context, id string, req *models.UpdateUserRequest) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format: %w", err)
	}

	set := bson.M{"updated_at": time.Now()}
	if req.FullName != "" {
		set["full_name"] = req.FullName
	}
	if req.Email != "" {
		set["email"] = req.Email
	}
	if req.PhoneNumber != "" {
		set["phone_number"] = req.PhoneNumber
	}
	if req.PreferredHashtags != nil {
		set["preferred_hashtags"] = req.PreferredHashtags
	}
	if req.Preferences != nil {
		set["preferences"] = req.Preferences
	}

	return r.findOneAndSet(ctx, bson.M{"_id": objID}, set)
}

// UpdatePassword replaces a user's password hash by ID
func (r *MongoUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format: %w", err)
	}
	return r.findOneAndSet(ctx, bson.M{"_id": objID}, bson.M{
		"password":   passwordHash,
		"updated_at": time.Now(),
	})
}

// UpdatePasswordByEmail replaces a user's password hash by email, used for
// password resets where no session exists
func (r *MongoUserRepository) UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) (*models.User, error) {
	return r.findOneAndSet(ctx, bson.M{"email": email}, bson.M{
		"password":   passwordHash,
		"updated_at": time.Now(),
	})
}

// DeleteUser removes a user and returns the deleted document, (nil, nil)
// when the user does not exist
func (r *MongoUserRepository) DeleteUser(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format: %w", err)
	}

	var user models.User
	err = r.collection.FindOneAndDelete(ctx, bson.M{"_id": objID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *MongoUserRepository) findOneAndSet(ctx context.Context, filter, set bson.M) (*models.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user models.User
	err := r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

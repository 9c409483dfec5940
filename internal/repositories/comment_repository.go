package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/fridayblog/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetComments(ctx context.Context) ([]models.Comment, error)
	GetCommentByID(ctx context.Context, id string) (*models.Comment, error)
	UpdateComment(ctx context.Context, id string, req *models.UpdateCommentRequest) (*models.Comment, error)
	DeleteComment(ctx context.Context, id string) (*models.Comment, error)

	GetCommentsByBlog(ctx context.Context, blogID string) ([]models.Comment, error)
	DeleteCommentsByBlog(ctx context.Context, blogID string) (int64, error)
	DeleteCommentsByAuthor(ctx context.Context, userID string) (int64, error)
}

// MongoCommentRepository implements CommentRepository for MongoDB
type MongoCommentRepository struct {
	collection *mongo.Collection
}

// NewMongoCommentRepository creates a new MongoCommentRepository
func NewMongoCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{collection: db.Collection("comments")}
}

// CreateComment creates a new comment in MongoDB
func (r *MongoCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, comment)
	return err
}

// GetComments retrieves all comments from MongoDB
func (r *MongoCommentRepository) GetComments(ctx context.Context) ([]models.Comment, error) {
	return r.find(ctx, bson.D{})
}

// GetCommentByID retrieves a comment by ID, (nil, nil) on a miss
func (r *MongoCommentRepository) GetCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid comment ID format: %w", err)
	}

	var comment models.Comment
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&comment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

// UpdateComment updates a comment's content and returns the updated document,
// (nil, nil) when the comment does not exist
func (r *MongoCommentRepository) UpdateComment(ctx context.Context, id string, req *models.UpdateCommentRequest) (*models.Comment, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid comment ID format: %w", err)
	}

	update := bson.M{"$set": bson.M{
		"content":    req.Content,
		"updated_at": time.Now(),
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var comment models.Comment
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, update, opts).Decode(&comment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

// DeleteComment removes a comment and returns the deleted document,
// (nil, nil) when the comment does not exist
func (r *MongoCommentRepository) DeleteComment(ctx context.Context, id string) (*models.Comment, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid comment ID format: %w", err)
	}

	var comment models.Comment
	err = r.collection.FindOneAndDelete(ctx, bson.M{"_id": objID}).Decode(&comment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByBlog retrieves all comments on a blog
func (r *MongoCommentRepository) GetCommentsByBlog(ctx context.Context, blogID string) ([]models.Comment, error) {
	objID, err := primitive.ObjectIDFromHex(blogID)
	if err != nil {
		return nil, fmt.Errorf("invalid blog ID format: %w", err)
	}
	return r.find(ctx, bson.D{{Key: "blog_id", Value: objID}})
}

// DeleteCommentsByBlog removes every comment on a blog. Idempotent.
func (r *MongoCommentRepository) DeleteCommentsByBlog(ctx context.Context, blogID string) (int64, error) {
	objID, err := primitive.ObjectIDFromHex(blogID)
	if err != nil {
		return 0, fmt.Errorf("invalid blog ID format: %w", err)
	}
	res, err := r.collection.DeleteMany(ctx, bson.M{"blog_id": objID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteCommentsByAuthor removes every comment written by a user. Idempotent.
func (r *MongoCommentRepository) DeleteCommentsByAuthor(ctx context.Context, userID string) (int64, error) {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return 0, fmt.Errorf("invalid user ID format: %w", err)
	}
	res, err := r.collection.DeleteMany(ctx, bson.M{"user_id": objID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *MongoCommentRepository) find(ctx context.Context, filter interface{}) ([]models.Comment, error) {
	var comments []models.Comment
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return comments, nil
}

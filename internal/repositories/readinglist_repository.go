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

// ReadingListRepository defines the interface for reading list data operations
type ReadingListRepository interface {
	CreateReadingList(ctx context.Context, list *models.ReadingList) error
	GetReadingLists(ctx context.Context) ([]models.ReadingList, error)
	GetReadingListByID(ctx context.Context, id string) (*models.ReadingList, error)
	UpdateReadingList(ctx context.Context, id string, req *models.UpdateReadingListRequest) (*models.ReadingList, error)
	DeleteReadingList(ctx context.Context, id string) (*models.ReadingList, error)

	AddBlog(ctx context.Context, listID, blogID string) (*models.ReadingList, bool, error)
	RemoveBlog(ctx context.Context, listID, blogID string) (*models.ReadingList, bool, error)
	GetReadingListsContainingBlog(ctx context.Context, blogID string) ([]models.ReadingList, error)
	RemoveBlogFromAll(ctx context.Context, blogID string) (int64, error)
	DeleteReadingListsByOwner(ctx context.Context, userID string) (int64, error)
}

// MongoReadingListRepository implements ReadingListRepository for MongoDB
type MongoReadingListRepository struct {
	collection *mongo.Collection
}

// NewMongoReadingListRepository creates a new MongoReadingListRepository
func NewMongoReadingListRepository(db *mongo.Database) *MongoReadingListRepository {
	return &MongoReadingListRepository{collection: db.Collection("readinglists")}
}

// CreateReadingList creates a new reading list in MongoDB
func (r *MongoReadingListRepository) CreateReadingList(ctx context.Context, list *models.ReadingList) error {
	list.ID = primitive.NewObjectID()
	if list.Blogs == nil {
		list.Blogs = []models.ReadingListBlog{}
	}
	list.CreatedAt = time.Now()
	list.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, list)
	return err
}

// GetReadingLists retrieves all reading lists from MongoDB
func (r *MongoReadingListRepository) GetReadingLists(ctx context.Context) ([]models.ReadingList, error) {
	return r.find(ctx, bson.D{})
}

// GetReadingListByID retrieves a reading list by ID, (nil, nil) on a miss
func (r *MongoReadingListRepository) GetReadingListByID(ctx context.Context, id string) (*models.ReadingList, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid reading list ID format: %w", err)
	}

	var list models.ReadingList
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&list)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &list, nil
}

// UpdateReadingList renames a reading list and returns the updated document,
// (nil, nil) when the list does not exist
func (r *MongoReadingListRepository) UpdateReadingList(ctx context.Context, id string, req *models.UpdateReadingListRequest) (*models.ReadingList, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid reading list ID format: %w", err)
	}

	update := bson.M{"$set": bson.M{
		"name":       req.Name,
		"updated_at": time.Now(),
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var list models.ReadingList
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, update, opts).Decode(&list)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &list, nil
}

// DeleteReadingList removes a reading list and returns the deleted document,
// (nil, nil) when the list does not exist
func (r *MongoReadingListRepository) DeleteReadingList(ctx context.Context, id string) (*models.ReadingList, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid reading list ID format: %w", err)
	}

	var list models.ReadingList
	err = r.collection.FindOneAndDelete(ctx, bson.M{"_id": objID}).Decode(&list)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &list, nil
}

// AddBlog adds a blog reference to a reading list in one conditional update,
// so a blog can never appear twice even under concurrent adds. Returns
// (list, true) when the blog was already in the list and (nil, false) when
// the list does not exist.
func (r *MongoReadingListRepository) AddBlog(ctx context.Context, listID, blogID string) (*models.ReadingList, bool, error) {
	listObjID, err := primitive.ObjectIDFromHex(listID)
	if err != nil {
		return nil, false, fmt.Errorf("invalid reading list ID format: %w", err)
	}
	blogObjID, err := primitive.ObjectIDFromHex(blogID)
	if err != nil {
		return nil, false, fmt.Errorf("invalid blog ID format: %w", err)
	}

	filter := bson.M{
		"_id":           listObjID,
		"blogs.blog_id": bson.M{"$ne": blogObjID},
	}
	update := bson.M{
		"$addToSet": bson.M{"blogs": models.ReadingListBlog{BlogID: blogObjID}},
		"$set":      bson.M{"updated_at": time.Now()},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var list models.ReadingList
	err = r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&list)
	if err == nil {
		return &list, false, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, false, err
	}

	existing, err := r.GetReadingListByID(ctx, listID)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, nil
	}
	return existing, true, nil
}

// RemoveBlog removes a blog reference from a reading list. Returns
// (list, true) when the blog was not in the list; removing a non-member is
// a no-op, not an error.
func (r *MongoReadingListRepository) RemoveBlog(ctx context.Context, listID, blogID string) (*models.ReadingList, bool, error) {
	listObjID, err := primitive.ObjectIDFromHex(listID)
	if err != nil {
		return nil, false, fmt.Errorf("invalid reading list ID format: %w", err)
	}
	blogObjID, err := primitive.ObjectIDFromHex(blogID)
	if err != nil {
		return nil, false, fmt.Errorf("invalid blog ID format: %w", err)
	}

	filter := bson.M{
		"_id":           listObjID,
		"blogs.blog_id": blogObjID,
	}
	update := bson.M{
		"$pull": bson.M{"blogs": bson.M{"blog_id": blogObjID}},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var list models.ReadingList
	err = r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&list)
	if err == nil {
		return &list, false, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, false, err
	}

	existing, err := r.GetReadingListByID(ctx, listID)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, nil
	}
	return existing, true, nil
}

// GetReadingListsContainingBlog retrieves every reading list that holds a
// reference to the given blog
func (r *MongoReadingListRepository) GetReadingListsContainingBlog(ctx context.Context, blogID string) ([]models.ReadingList, error) {
	objID, err := primitive.ObjectIDFromHex(blogID)
	if err != nil {
		return nil, fmt.Errorf("invalid blog ID format: %w", err)
	}
	return r.find(ctx, bson.D{{Key: "blogs.blog_id", Value: objID}})
}

// RemoveBlogFromAll strips a blog reference out of every reading list that
// contains it and returns the number of lists touched. Idempotent.
func (r *MongoReadingListRepository) RemoveBlogFromAll(ctx context.Context, blogID string) (int64, error) {
	objID, err := primitive.ObjectIDFromHex(blogID)
	if err != nil {
		return 0, fmt.Errorf("invalid blog ID format: %w", err)
	}
	res, err := r.collection.UpdateMany(ctx,
		bson.M{"blogs.blog_id": objID},
		bson.M{"$pull": bson.M{"blogs": bson.M{"blog_id": objID}}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// DeleteReadingListsByOwner removes every reading list owned by a user.
// Idempotent.
func (r *MongoReadingListRepository) DeleteReadingListsByOwner(ctx context.Context, userID string) (int64, error) {
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

func (r *MongoReadingListRepository) find(ctx context.Context, filter interface{}) ([]models.ReadingList, error) {
	var lists []models.ReadingList
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &lists); err != nil {
		return nil, err
	}
	if lists == nil {
		lists = []models.ReadingList{}
	}
	return lists, nil
}

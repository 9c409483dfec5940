package repositories

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/fridayblog/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BlogRepository defines the interface for blog data operations
type BlogRepository interface {
	CreateBlog(ctx context.Context, blog *models.Blog) error
	GetBlogs(ctx context.Context) ([]models.Blog, error)
	GetBlogByID(ctx context.Context, id string) (*models.Blog, error)
	UpdateBlog(ctx context.Context, id string, req *models.UpdateBlogRequest) (*models.Blog, error)
	DeleteBlog(ctx context.Context, id string) (*models.Blog, error)

	GetPopularBlogs(ctx context.Context) ([]models.Blog, error)
	GetPopularBlogsByCategory(ctx context.Context, category string) ([]models.Blog, error)
	GetRecommendedBlogs(ctx context.Context, hashtags []string) ([]models.Blog, error)
	SearchBlogsByKeywords(ctx context.Context, keywords string) ([]models.Blog, error)

	AddLike(ctx context.Context, blogID, userID string) (*models.Blog, bool, error)
	RemoveLike(ctx context.Context, blogID, userID string) (*models.Blog, bool, error)

	GetBlogsByAuthor(ctx context.Context, userID string) ([]models.Blog, error)
	DeleteBlogsByAuthor(ctx context.Context, userID string) (int64, error)
	RemoveUserLikes(ctx context.Context, userID string) (int64, error)
}

// MongoBlogRepository implements BlogRepository for MongoDB
type MongoBlogRepository struct {
	collection *mongo.Collection
}

// NewMongoBlogRepository creates a new MongoBlogRepository
func NewMongoBlogRepository(db *mongo.Database) *MongoBlogRepository {
	return &MongoBlogRepository{collection: db.Collection("blogs")}
}

// CreateBlog creates a new blog in MongoDB
func (r *MongoBlogRepository) CreateBlog(ctx context.Context, blog *models.Blog) error {
	blog.ID = primitive.NewObjectID()
	if blog.LikedByUsers == nil {
		blog.LikedByUsers = []models.LikedByUser{}
	}
	blog.CreatedAt = time.Now()
	blog.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, blog)
	return err
}

// GetBlogs retrieves all blogs from MongoDB
func (r *MongoBlogRepository) GetBlogs(ctx context.Context) ([]models.Blog, error) {
	return r.find(ctx, bson.D{}, nil)
}

// GetBlogByID retrieves a blog by ID. A missing blog is (nil, nil), not an
// error; callers branch on it explicitly.
func (r *MongoBlogRepository) GetBlogByID(ctx context.Context, id string) (*models.Blog, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid blog ID format: %w", err)
	}

	var blog models.Blog
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&blog)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &blog, nil
}

// UpdateBlog applies a partial-field merge to an existing blog and returns
// the updated document, or (nil, nil) when the blog does not exist.
func (r *MongoBlogRepository) UpdateBlog(ctx context.Context, id string, req *models.UpdateBlogRequest) (*models.Blog, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid blog ID format: %w", err)
	}

	set := bson.M{"updated_at": time.Now()}
	if req.Title != "" {
		set["title"] = req.Title
	}
	if req.Content != "" {
		set["content"] = req.Content
	}
	if req.Category != "" {
		set["category"] = req.Category
	}
	if req.Hashtags != nil {
		set["hashtags"] = req.Hashtags
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var blog models.Blog
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": set}, opts).Decode(&blog)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &blog, nil
}

// DeleteBlog removes a blog and returns the deleted document, or (nil, nil)
// when the blog does not exist.
func (r *MongoBlogRepository) DeleteBlog(ctx context.Context, id string) (*models.Blog, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid blog ID format: %w", err)
	}

	var blog models.Blog
	err = r.collection.FindOneAndDelete(ctx, bson.M{"_id": objID}).Decode(&blog)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &blog, nil
}

// GetPopularBlogs retrieves all blogs sorted by like count, descending.
// Blogs with equal like counts order by _id ascending so the ranking is
// deterministic.
func (r *MongoBlogRepository) GetPopularBlogs(ctx context.Context) ([]models.Blog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "likes_count", Value: -1}, {Key: "_id", Value: 1}})
	return r.find(ctx, bson.D{}, opts)
}

// GetPopularBlogsByCategory retrieves blogs in a category sorted by like count
func (r *MongoBlogRepository) GetPopularBlogsByCategory(ctx context.Context, category string) ([]models.Blog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "likes_count", Value: -1}, {Key: "_id", Value: 1}})
	return r.find(ctx, bson.D{{Key: "category", Value: category}}, opts)
}

// GetRecommendedBlogs retrieves blogs whose hashtags intersect the given set
func (r *MongoBlogRepository) GetRecommendedBlogs(ctx context.Context, hashtags []string) ([]models.Blog, error) {
	if len(hashtags) == 0 {
		return []models.Blog{}, nil
	}
	return r.find(ctx, bson.D{{Key: "hashtags", Value: bson.M{"$in": hashtags}}}, nil)
}

// SearchBlogsByKeywords splits keywords on whitespace and matches each word
// as a case-insensitive substring against title, content, author and category.
// Words are OR-combined.
func (r *MongoBlogRepository) SearchBlogsByKeywords(ctx context.Context, keywords string) ([]models.Blog, error) {
	words := strings.Fields(keywords)
	if len(words) == 0 {
		return []models.Blog{}, nil
	}

	var clauses bson.A
	for _, word := range words {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(word), Options: "i"}
		for _, field := range []string{"title", "content", "author", "category"} {
			clauses = append(clauses, bson.M{field: pattern})
		}
	}
	return r.find(ctx, bson.D{{Key: "$or", Value: clauses}}, nil)
}

// AddLike adds a user to a blog's likedByUsers and increments the like
// counter in one conditional update, closing the read-modify-write race.
// Returns (blog, false) on success, (blog, true) when the user had already
// liked the blog, and (nil, false) when the blog does not exist.
func (r *MongoBlogRepository) AddLike(ctx context.Context, blogID, userID string) (*models.Blog, bool, error) {
	blogObjID, err := primitive.ObjectIDFromHex(blogID)
	if err != nil {
		return nil, false, fmt.Errorf("invalid blog ID format: %w", err)
	}
	userObjID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, false, fmt.Errorf("invalid user ID format: %w", err)
	}

	filter := bson.M{
		"_id":                  blogObjID,
		"likedByUsers.user_id": bson.M{"$ne": userObjID},
	}
	update := bson.M{
		"$addToSet": bson.M{"likedByUsers": models.LikedByUser{UserID: userObjID}},
		"$inc":      bson.M{"likes_count": 1},
		"$set":      bson.M{"updated_at": time.Now()},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var blog models.Blog
	err = r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&blog)
	if err == nil {
		return &blog, false, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, false, err
	}

	// No match: either the blog is gone or the user already liked it.
	existing, err := r.GetBlogByID(ctx, blogID)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, nil
	}
	return existing, true, nil
}

// RemoveLike removes a user from a blog's likedByUsers and decrements the
// like counter in one conditional update. The decrement only fires when the
// membership matched, so the counter cannot go negative. Returns (blog, true)
// when the user had not liked the blog.
func (r *MongoBlogRepository) RemoveLike(ctx context.Context, blogID, userID string) (*models.Blog, bool, error) {
	blogObjID, err := primitive.ObjectIDFromHex(blogID)
	if err != nil {
		return nil, false, fmt.Errorf("invalid blog ID format: %w", err)
	}
	userObjID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, false, fmt.Errorf("invalid user ID format: %w", err)
	}

	filter := bson.M{
		"_id":                  blogObjID,
		"likedByUsers.user_id": userObjID,
	}
	update := bson.M{
		"$pull": bson.M{"likedByUsers": bson.M{"user_id": userObjID}},
		"$inc":  bson.M{"likes_count": -1},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var blog models.Blog
	err = r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&blog)
	if err == nil {
		return &blog, false, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, false, err
	}

	existing, err := r.GetBlogByID(ctx, blogID)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, nil
	}
	return existing, true, nil
}

// GetBlogsByAuthor retrieves all blogs written by a user
func (r *MongoBlogRepository) GetBlogsByAuthor(ctx context.Context, userID string) ([]models.Blog, error) {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format: %w", err)
	}
	return r.find(ctx, bson.D{{Key: "user_id", Value: objID}}, nil)
}

// DeleteBlogsByAuthor removes every blog written by a user and returns the
// number deleted. Idempotent: a retry deletes nothing and succeeds.
func (r *MongoBlogRepository) DeleteBlogsByAuthor(ctx context.Context, userID string) (int64, error) {
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

// RemoveUserLikes strips a user from every blog's likedByUsers, decrementing
// each blog's like counter in the same update. The filter guarantees
// membership and a user appears at most once per blog, so -1 per matched
// document keeps the counter equal to the array length.
func (r *MongoBlogRepository) RemoveUserLikes(ctx context.Context, userID string) (int64, error) {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return 0, fmt.Errorf("invalid user ID format: %w", err)
	}
	res, err := r.collection.UpdateMany(ctx,
		bson.M{"likedByUsers.user_id": objID},
		bson.M{
			"$pull": bson.M{"likedByUsers": bson.M{"user_id": objID}},
			"$inc":  bson.M{"likes_count": -1},
		},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *MongoBlogRepository) find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]models.Blog, error) {
	var blogs []models.Blog
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = r.collection.Find(ctx, filter, opts)
	} else {
		cursor, err = r.collection.Find(ctx, filter)
	}
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &blogs); err != nil {
		return nil, err
	}
	if blogs == nil {
		blogs = []models.Blog{}
	}
	return blogs, nil
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LikedByUser records a single user's like on a blog. A user appears at
// most once in a blog's likedByUsers array.
type LikedByUser struct {
	UserID primitive.ObjectID `json:"user_id" bson:"user_id"`
}

// Blog represents a blog post stored in MongoDB
type Blog struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID       primitive.ObjectID `json:"user_id" bson:"user_id"`
	Author       string             `json:"author" bson:"author"` // denormalized full name of the posting user
	Title        string             `json:"title" bson:"title"`
	Content      string             `json:"content" bson:"content"`
	Category     string             `json:"category" bson:"category"`
	Hashtags     []string           `json:"hashtags,omitempty" bson:"hashtags,omitempty"`
	LikedByUsers []LikedByUser      `json:"likedByUsers" bson:"likedByUsers"`
	// LikesCount must always equal len(LikedByUsers); every like mutation
	// adjusts both in a single update.
	LikesCount int       `json:"likes_count" bson:"likes_count"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
}

// CreateBlogRequest defines the request body for creating a new blog
type CreateBlogRequest struct {
	Title    string   `json:"title" validate:"required,min=3,max=150"`
	Content  string   `json:"content" validate:"required,min=1"`
	Category string   `json:"category" validate:"required,min=2,max=50"`
	Hashtags []string `json:"hashtags,omitempty" validate:"omitempty,dive,min=1"`
}

// UpdateBlogRequest defines the request body for updating an existing blog
type UpdateBlogRequest struct {
	Title    string   `json:"title,omitempty" validate:"omitempty,min=3,max=150"`
	Content  string   `json:"content,omitempty" validate:"omitempty,min=1"`
	Category string   `json:"category,omitempty" validate:"omitempty,min=2,max=50"`
	Hashtags []string `json:"hashtags,omitempty" validate:"omitempty,dive,min=1"`
}

// LikeFlagRequest carries the like/unlike toggle for a blog
type LikeFlagRequest struct {
	Liked *bool `json:"liked" validate:"required"`
}

// SearchBlogsRequest defines the request body for keyword search
type SearchBlogsRequest struct {
	Keywords string `json:"keywords"`
}

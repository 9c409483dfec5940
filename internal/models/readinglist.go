package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReadingListBlog is a single blog reference inside a reading list
type ReadingListBlog struct {
	BlogID primitive.ObjectID `json:"blog_id" bson:"blog_id"`
}

// ReadingList represents a user-owned ordered collection of blog references.
// A blog appears at most once per list.
type ReadingList struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"user_id" bson:"user_id"`
	Name      string             `json:"name" bson:"name"`
	Blogs     []ReadingListBlog  `json:"blogs" bson:"blogs"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreateReadingListRequest defines the request body for creating a reading list
type CreateReadingListRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// UpdateReadingListRequest defines the request body for renaming a reading list
type UpdateReadingListRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

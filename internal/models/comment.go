package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment represents a comment on a blog
type Comment struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	BlogID    primitive.ObjectID `json:"blog_id" bson:"blog_id"`
	UserID    primitive.ObjectID `json:"user_id" bson:"user_id"`
	Author    string             `json:"author" bson:"author"` // denormalized full name of the commenting user
	Content   string             `json:"content" bson:"content"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	BlogID  string `json:"blog_id" validate:"required,len=24,hexadecimal"`
	Content string `json:"content" validate:"required,min=1,max=500"`
}

// UpdateCommentRequest defines the request body for updating an existing comment
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}

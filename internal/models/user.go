package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Preferences holds a user's notification channel flags
type Preferences struct {
	SendEmail bool `json:"sendEmail" bson:"sendEmail"`
	SendSMS   bool `json:"sendSMS" bson:"sendSMS"`
}

// User represents a registered user stored in MongoDB
type User struct {
	ID                primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	FullName          string             `json:"full_name" bson:"full_name"`
	Email             string             `json:"email" bson:"email"` // unique index
	Password          string             `json:"-" bson:"password"`  // bcrypt hash, never serialized
	PhoneNumber       string             `json:"phone_number,omitempty" bson:"phone_number,omitempty"`
	PreferredHashtags []string           `json:"preferred_hashtags,omitempty" bson:"preferred_hashtags,omitempty"`
	Preferences       Preferences        `json:"preferences" bson:"preferences"`
	CreatedAt         time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreateUserRequest defines the request body for registering a new user
type CreateUserRequest struct {
	FullName          string       `json:"full_name" validate:"required,min=2,max=100"`
	Email             string       `json:"email" validate:"required,email"`
	Password          string       `json:"password" validate:"required,min=8"`
	PhoneNumber       string       `json:"phone_number,omitempty" validate:"omitempty,e164"`
	PreferredHashtags []string     `json:"preferred_hashtags,omitempty" validate:"omitempty,dive,min=1"`
	Preferences       *Preferences `json:"preferences,omitempty"`
}

// UpdateUserRequest defines the request body for updating the current user's profile
type UpdateUserRequest struct {
	FullName          string       `json:"full_name,omitempty" validate:"omitempty,min=2,max=100"`
	Email             string       `json:"email,omitempty" validate:"omitempty,email"`
	PhoneNumber       string       `json:"phone_number,omitempty" validate:"omitempty,e164"`
	PreferredHashtags []string     `json:"preferred_hashtags,omitempty" validate:"omitempty,dive,min=1"`
	Preferences       *Preferences `json:"preferences,omitempty"`
}

// LoginRequest defines the request body for user login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ResetPasswordRequest defines the request body for a password reset
type ResetPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ChangePasswordRequest defines the request body for changing the current user's password
type ChangePasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

// Tokens wraps the access token returned on login
type Tokens struct {
	AccessToken string `json:"access_token"`
}

// AuthenticatedUser is the login response: the user plus issued tokens
type AuthenticatedUser struct {
	User
	Tokens Tokens `json:"tokens"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims.
// They carry everything identity-dependent handlers need so no extra user
// lookup happens per request.
type JwtCustomClaims struct {
	UserID            string      `json:"user_id"`
	Email             string      `json:"email"`
	FullName          string      `json:"full_name"`
	PhoneNumber       string      `json:"phone_number,omitempty"`
	PreferredHashtags []string    `json:"preferred_hashtags,omitempty"`
	Preferences       Preferences `json:"preferences"`
	jwt.RegisteredClaims
}

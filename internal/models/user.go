package models

import "time"

// User is a credential record. The same shape is stored as a MongoDB
// document or a PostgreSQL row depending on the configured backend.
type User struct {
	ID           string    `json:"id"         bson:"_id"`
	Username     string    `json:"username"   bson:"username"`
	Email        string    `json:"email"      bson:"email,omitempty"`
	PasswordHash string    `json:"-"          bson:"password"` // never serialize
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// SignupForm is the POST /signupSubmit payload. Email is optional but must
// parse as an address when given.
type SignupForm struct {
	Username string `form:"username" validate:"required,alphanum,max=20"`
	Password string `form:"password" validate:"required,max=20"`
	Email    string `form:"email"    validate:"omitempty,email"`
}

// LoginForm is the POST /loggingIn payload.
type LoginForm struct {
	Email    string `form:"email"    validate:"required,email"`
	Password string `form:"password" validate:"required,max=20"`
}

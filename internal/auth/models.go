package auth

import "time"

// Credentials are the values submitted on the login form. They live only for
// the duration of one login attempt.
type Credentials struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

// Identity is what a Verifier vouches for once credentials are accepted
type Identity struct {
	UserID string
	Email  string
}

// User represents a registered account
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RegisterRequest is the payload of the registration form
type RegisterRequest struct {
	Email           string `form:"email" binding:"required,email,max=254"`
	Password        string `form:"password" binding:"required,min=8,max=128"`
	ConfirmPassword string `form:"confirm_password" binding:"required,eqfield=Password"`
}

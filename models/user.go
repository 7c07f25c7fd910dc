package models

import "time"

// User represents an account entity used for authentication and authorization.
// Sensitive fields must never be exposed outside trusted boundaries.
type User struct {
	// UserID is the internal unique identifier of the user.
	// It is not exposed via JSON and is used only at the persistence layer.
	UserID int64 `json:"-"`

	// Login is the unique user login identifier.
	Login string `json:"login"`

	// Password is the plaintext password sent by the client on register and
	// login. It is never persisted.
	Password string `json:"password,omitempty"`

	// PasswordHash is the encoded argon2id hash stored by the server.
	// It is never exposed via JSON.
	PasswordHash string `json:"-"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

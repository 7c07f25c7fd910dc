package models

// Identity is the signed-in user as seen by the client.
type Identity struct {
	// UserID is the server-assigned user identifier parsed from the token.
	UserID int64 `json:"user_id"`

	// Login is the login the user signed in with.
	Login string `json:"login"`

	// Token is the bearer token attached to every remote call.
	Token string `json:"token"`
}

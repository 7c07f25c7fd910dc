package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/password_hasher_mock.go -package=mock

// PasswordHasher turns account passwords into self-describing hashes and
// checks passwords against them. The server never stores a password.
type PasswordHasher interface {
	// Hash derives a new encoded hash of password with a random salt.
	Hash(password string) (string, error)

	// Verify reports whether password matches encoded. A malformed encoded
	// value is an error, a wrong password is not.
	Verify(password, encoded string) (bool, error)
}

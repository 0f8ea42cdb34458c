package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword will generate a password hash. The output embeds algorithm,
// cost and salt, so verification needs nothing beyond the hash itself.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost())
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext password
// matches the hashed password. bcrypt owns the timing-safe compare; a
// malformed hash reports a mismatch rather than an error so callers can
// treat both identically.
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrMismatchedHashAndPassword
	}
	return nil
}

func passwordHashCost() int {
	return 14
}

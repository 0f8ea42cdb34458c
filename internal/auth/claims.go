package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClaims is the claim set carried by access tokens: the subject is
// the user id in string form plus expiry and issued-at timestamps.
type TokenClaims struct {
	jwt.RegisteredClaims
}

// SubjectID parses the subject claim back into a user id.
func (c *TokenClaims) SubjectID() (uuid.UUID, error) {
	return uuid.Parse(c.RegisteredClaims.Subject)
}

// Expires returns the expiration time.
func (c *TokenClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time.
func (c *TokenClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

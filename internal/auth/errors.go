package auth

import (
	"github.com/goliatone/go-errors"
)

// Text codes surfaced alongside error messages so API clients can branch
// without string matching.
const (
	TextCodeInvalidCreds   = "INVALID_CREDENTIALS"
	TextCodeInactiveUser   = "INACTIVE_USER"
	TextCodeEmailTaken     = "EMAIL_TAKEN"
	TextCodeTokenExpired   = "TOKEN_EXPIRED"
	TextCodeTokenMalformed = "TOKEN_MALFORMED"
	TextCodeUnauthorized   = "UNAUTHENTICATED"
	TextCodeEmptyPassword  = "EMPTY_PASSWORD"
)

// ErrMismatchedHashAndPassword is the internal credential-compare failure.
// Login collapses it with "user not found" into ErrInvalidCredentials so
// the response never reveals which check failed.
var ErrMismatchedHashAndPassword = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeBadRequest)

// ErrInvalidCredentials covers unknown email and wrong password alike.
var ErrInvalidCredentials = errors.New("Incorrect email or password", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeBadRequest)

// ErrInactiveUser is returned when credentials verify but the account is
// deactivated. Checked at login only; token verification never re-checks.
var ErrInactiveUser = errors.New("Inactive user", errors.CategoryAuth).
	WithTextCode(TextCodeInactiveUser).
	WithCode(errors.CodeBadRequest)

// ErrEmailTaken is the signup conflict, also used when the store unique
// constraint trips in the read-then-write race window.
var ErrEmailTaken = errors.New("The user with this email already exists in the system", errors.CategoryConflict).
	WithTextCode(TextCodeEmailTaken).
	WithCode(errors.CodeBadRequest)

// ErrTokenExpired keeps a distinct internal value for tests and logs; the
// HTTP surface is the same as any other invalid token.
var ErrTokenExpired = errors.New("Could not validate credentials", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed covers bad encoding, wrong signature, and missing
// claims.
var ErrTokenMalformed = errors.New("Could not validate credentials", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrIdentityNotFound is returned when a verified token points at a user
// that no longer exists. Fails closed as unauthenticated.
var ErrIdentityNotFound = errors.New("Could not validate credentials", errors.CategoryAuth).
	WithTextCode(TextCodeUnauthorized).
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString rejects empty passwords before they reach bcrypt.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeBadRequest)

// Package auth implements the authentication core: password hashing,
// access-token issue/verify, login, signup, and identity resolution.
package auth

import (
	"context"
	"time"

	repository "github.com/goliatone/go-repository-bun"

	"github.com/Mik3y-F/nitty/internal/store"
	"github.com/goliatone/go-errors"
)

// Authenticator owns the login, signup, and token-resolution flows.
type Authenticator struct {
	users        store.Users
	tokenService TokenService
	tokenTTL     time.Duration
	logger       Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(users store.Users, tokenService TokenService, tokenTTL time.Duration) *Authenticator {
	return &Authenticator{
		users:        users,
		tokenService: tokenService,
		tokenTTL:     tokenTTL,
		logger:       defLogger{},
	}
}

func (a *Authenticator) WithLogger(logger Logger) *Authenticator {
	if logger != nil {
		a.logger = logger
	}
	return a
}

// TokenService returns the TokenService instance used by this Authenticator
func (a *Authenticator) TokenService() TokenService {
	return a.tokenService
}

// Login verifies credentials and mints an access token. Unknown email and
// wrong password return the same error; the logs keep the distinction at
// debug level only.
func (a *Authenticator) Login(ctx context.Context, email, password string) (string, error) {
	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			a.logger.Debug("Login identity not found: %s", email)
			return "", ErrInvalidCredentials
		}
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during login")
	}

	if err := ComparePasswordAndHash(password, user.HashedPassword); err != nil {
		a.logger.Debug("Login password verification failed for user %s", user.ID)
		return "", ErrInvalidCredentials
	}

	if !user.IsActive {
		a.logger.Info("Login blocked for inactive user %s", user.ID)
		return "", ErrInactiveUser
	}

	return a.tokenService.Generate(user.ID, a.tokenTTL)
}

// Register creates a new identity. The uniqueness pre-check leaves a
// narrow race window; a constraint violation from the concurrent write
// surfaces as the same conflict error.
func (a *Authenticator) Register(ctx context.Context, email, password, fullName string) (*store.User, error) {
	if _, err := a.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !repository.IsRecordNotFound(err) {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to check email uniqueness")
	}

	hash, err := HashPassword(password)
	if err != nil {
		var richErr *errors.Error
		if errors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}

	user := &store.User{
		Email:          email,
		HashedPassword: hash,
		FullName:       fullName,
		IsActive:       true,
	}

	created, err := a.users.Create(ctx, user)
	if err != nil {
		if store.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "could not create user")
	}

	return created, nil
}

// ResolveIdentity verifies the raw token and loads the user it names.
// The active flag is deliberately not checked here: deactivation does not
// cut short already-issued tokens, and login is the only gate for it.
func (a *Authenticator) ResolveIdentity(ctx context.Context, rawToken string) (*store.User, error) {
	claims, err := a.tokenService.Validate(rawToken)
	if err != nil {
		return nil, err
	}

	subject, err := claims.SubjectID()
	if err != nil {
		return nil, ErrTokenMalformed
	}

	user, err := a.users.GetByID(ctx, subject.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load identity")
	}

	return user, nil
}

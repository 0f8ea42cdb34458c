package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Mik3y-F/nitty/internal/store"
)

const currentUserKey = "current_user"

const authScheme = "Bearer"

// RequireUser extracts the bearer token, verifies it, and loads the user
// it names into the request locals. Missing header, invalid or expired
// token, and vanished users all fail closed before the handler runs.
// The active flag is not consulted here; login is the only gate for it.
func (s *Server) RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := extractBearerToken(c)
		if err != nil {
			return err
		}

		user, err := s.auther.ResolveIdentity(c.UserContext(), raw)
		if err != nil {
			return err
		}

		c.Locals(currentUserKey, user)
		return c.Next()
	}
}

func extractBearerToken(c *fiber.Ctx) (string, error) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", ErrNotAuthenticated
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], authScheme) || parts[1] == "" {
		return "", ErrNotAuthenticated
	}

	return parts[1], nil
}

// currentUser returns the identity stashed by RequireUser.
func currentUser(c *fiber.Ctx) *store.User {
	user, _ := c.Locals(currentUserKey).(*store.User)
	return user
}

package server

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Mik3y-F/nitty/internal/store"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

// parsePage reads skip/limit query params with the shared bounds:
// skip >= 0, 1 <= limit <= 1000. Non-numeric values are rejected rather
// than silently replaced with the defaults.
func parsePage(c *fiber.Ctx) (store.Page, error) {
	skip, err := queryInt(c, "skip", 0)
	if err != nil {
		return store.Page{}, err
	}
	if skip < 0 {
		return store.Page{}, invalidInput("skip must be non-negative")
	}

	limit, err := queryInt(c, "limit", defaultListLimit)
	if err != nil {
		return store.Page{}, err
	}
	if limit < 1 || limit > maxListLimit {
		return store.Page{}, invalidInput("limit must be between 1 and 1000")
	}

	return store.Page{Skip: skip, Limit: limit}, nil
}

func queryInt(c *fiber.Ctx, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidInput(name + " must be an integer")
	}
	return value, nil
}

// queryBool returns nil when the parameter is absent, so absent and false
// stay distinguishable for tri-state filters.
func queryBool(c *fiber.Ctx, name string) (*bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, invalidInput(name + " must be a boolean")
	}
	return &value, nil
}

func queryUUID(c *fiber.Ctx, name string) (*uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, invalidInput(name + " must be a valid UUID")
	}
	return &id, nil
}

func queryTime(c *fiber.Ctx, name string) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, invalidInput(name + " is required")
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, invalidInput(name + " must be an RFC 3339 timestamp")
	}
	return t, nil
}

// parseUUIDValue parses a UUID carried inside a request body.
func parseUUIDValue(raw, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, invalidInput(name + " must be a valid UUID")
	}
	return id, nil
}

// paramUUID parses a path parameter as a UUID.
func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, invalidInput(name + " must be a valid UUID")
	}
	return id, nil
}

// searchQuery enforces the 1..100 rune bound on the q parameter.
func searchQuery(c *fiber.Ctx) (string, error) {
	q := c.Query("q")
	if q == "" {
		return "", invalidInput("q is required")
	}
	if len([]rune(q)) > 100 {
		return "", invalidInput("q must be at most 100 characters")
	}
	return q, nil
}

package server

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// HealthCheck is the liveness probe. It never touches the database.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"service": "nitty",
	})
}

// DetailedHealthCheck also probes the database with a trivial query, so
// load balancers can tell a wedged store apart from a live process.
func (s *Server) DetailedHealthCheck(c *fiber.Ctx) error {
	ctx := c.UserContext()

	dbStatus := "healthy"
	status := "healthy"
	code := http.StatusOK

	if _, err := s.repo.DB().NewRaw("SELECT 1").Exec(ctx); err != nil {
		s.logger.WithError(err).Error("database health probe failed")
		dbStatus = "unhealthy"
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	return c.Status(code).JSON(fiber.Map{
		"status":   status,
		"service":  "nitty",
		"database": dbStatus,
	})
}

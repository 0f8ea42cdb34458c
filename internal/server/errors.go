package server

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/Mik3y-F/nitty/internal/store"
)

// ErrNotAuthenticated is returned when the Authorization header is
// missing or not a bearer token.
var ErrNotAuthenticated = errors.New("Not authenticated", errors.CategoryAuth).
	WithTextCode("NOT_AUTHENTICATED").
	WithCode(errors.CodeUnauthorized)

// ErrNotOwner gates every mutation: only the recorded creator may touch
// the resource. There is no role hierarchy and no shared ownership.
var ErrNotOwner = errors.New("Not enough permissions", errors.CategoryAuthz).
	WithTextCode("NOT_RESOURCE_OWNER").
	WithCode(errors.CodeForbidden)

// errorHandler renders every error as {"detail": message}, keeping the
// wire shape stable across the whole API.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		status := richErr.Code
		if status == 0 {
			status = statusFromCategory(richErr)
		}
		if status >= http.StatusInternalServerError {
			s.logger.WithError(err).Error("request failed")
		}
		return c.Status(status).JSON(fiber.Map{"detail": richErr.Message})
	}

	var vErrs validation.Errors
	if errors.As(err, &vErrs) {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"detail": vErrs.Error()})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"detail": fiberErr.Message})
	}

	s.logger.WithError(err).Error("unhandled error")
	return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"detail": "Internal server error"})
}

func statusFromCategory(richErr *errors.Error) int {
	switch richErr.Category {
	case errors.CategoryAuth:
		return http.StatusUnauthorized
	case errors.CategoryAuthz:
		return http.StatusForbidden
	case errors.CategoryNotFound:
		return http.StatusNotFound
	case errors.CategoryConflict:
		return http.StatusConflict
	case errors.CategoryValidation, errors.CategoryBadInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// notFound builds the per-resource 404 with the message clients key on.
func notFound(resource string) *errors.Error {
	return errors.New(resource+" not found", errors.CategoryNotFound).
		WithTextCode("NOT_FOUND").
		WithCode(errors.CodeNotFound)
}

// invalidInput wraps ozzo validation failures and malformed params.
func invalidInput(msg string) *errors.Error {
	return errors.New(msg, errors.CategoryValidation).
		WithTextCode("VALIDATION_ERROR").
		WithCode(errors.CodeBadRequest)
}

// requireOwner is the ownership guard: a pure equality check between the
// acting identity and the resource creator.
func requireOwner(actor *store.User, createdBy uuid.UUID) error {
	if actor == nil || actor.ID != createdBy {
		return ErrNotOwner
	}
	return nil
}

package server

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"

	"github.com/Mik3y-F/nitty/internal/store"
)

// CommunityCreateRequest is the creation payload. Missing booleans take
// their defaults; both flags start true.
type CommunityCreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    *bool  `json:"is_public"`
	IsActive    *bool  `json:"is_active"`
}

// Validate will run validation rules
func (r CommunityCreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Name,
			validation.Required,
			validation.Length(1, 100),
		),
		validation.Field(
			&r.Description,
			validation.Length(0, 500),
		),
	)
}

// CommunityUpdateRequest carries partial updates. Absent fields are left
// untouched, which is why every field is a pointer.
type CommunityUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"is_public"`
	IsActive    *bool   `json:"is_active"`
}

// Validate will run validation rules
func (r CommunityUpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Name,
			validation.Length(1, 100),
		),
		validation.Field(
			&r.Description,
			validation.Length(0, 500),
		),
	)
}

// CreateCommunity records a new community owned by the caller.
func (s *Server) CreateCommunity(c *fiber.Ctx) error {
	payload := new(CommunityCreateRequest)
	if err := c.BodyParser(payload); err != nil {
		return invalidInput("invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	record := &store.Community{
		Name:        payload.Name,
		Description: payload.Description,
		IsPublic:    true,
		IsActive:    true,
		CreatedBy:   currentUser(c).ID,
	}
	if payload.IsPublic != nil {
		record.IsPublic = *payload.IsPublic
	}
	if payload.IsActive != nil {
		record.IsActive = *payload.IsActive
	}

	created, err := s.repo.Communities().Create(c.UserContext(), record)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "could not create community")
	}

	return c.JSON(created)
}

// ListCommunities is the public listing with optional is_public/is_active
// filters and skip/limit pagination.
func (s *Server) ListCommunities(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return err
	}

	isPublic, err := queryBool(c, "is_public")
	if err != nil {
		return err
	}
	isActive, err := queryBool(c, "is_active")
	if err != nil {
		return err
	}

	records, err := s.repo.Communities().List(c.UserContext(), store.CommunityFilter{
		IsPublic: isPublic,
		IsActive: isActive,
		Page:     page,
	})
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "could not list communities")
	}

	return c.JSON(records)
}

// SearchCommunities matches the q term against name and description.
func (s *Server) SearchCommunities(c *fiber.Ctx) error {
	q, err := searchQuery(c)
	if err != nil {
		return err
	}

	page, err := parsePage(c)
	if err != nil {
		return err
	}

	records, err := s.repo.Communities().Search(c.UserContext(), q, page)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "could not search communities")
	}

	return c.JSON(records)
}

// MyCommunities lists the communities the caller created, active or not.
func (s *Server) MyCommunities(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return err
	}

	records, err := s.repo.Communities().ListByCreator(c.UserContext(), currentUser(c).ID, page)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "could not list communities")
	}

	return c.JSON(records)
}

// GetCommunity returns one community by id, soft-deleted rows included.
func (s *Server) GetCommunity(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	record, err := s.repo.Communities().GetByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound("Community")
		}
		return errors.Wrap(err, errors.CategoryInternal, "could not load community")
	}

	return c.JSON(record)
}

// UpdateCommunity applies a partial update, owner only.
func (s *Server) UpdateCommunity(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	payload := new(CommunityUpdateRequest)
	if err := c.BodyParser(payload); err != nil {
		return invalidInput("invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	record, err := s.repo.Communities().GetByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound("Community")
		}
		return errors.Wrap(err, errors.CategoryInternal, "could not load community")
	}

	if err := requireOwner(currentUser(c), record.CreatedBy); err != nil {
		return err
	}

	updated, err := s.repo.Communities().Update(c.UserContext(), record, store.CommunityPatch{
		Name:        payload.Name,
		Description: payload.Description,
		IsPublic:    payload.IsPublic,
		IsActive:    payload.IsActive,
	})
	if err != nil {
		// The row can vanish between the load and the write.
		if errors.Is(err, store.ErrNotFound) {
			return notFound("Community")
		}
		return errors.Wrap(err, errors.CategoryInternal, "could not update community")
	}

	return c.JSON(updated)
}

// DeleteCommunity soft deletes: the row stays, is_active flips to false.
func (s *Server) DeleteCommunity(c *fiber.Ctx) error {
	record, err := s.ownedCommunity(c)
	if err != nil {
		return err
	}

	if err := s.repo.Communities().SoftDelete(c.UserContext(), record.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound("Community")
		}
		return errors.Wrap(err, errors.CategoryInternal, "could not delete community")
	}

	return c.JSON(fiber.Map{"message": "Community deleted successfully"})
}

// PermanentlyDeleteCommunity removes the row for good.
func (s *Server) PermanentlyDeleteCommunity(c *fiber.Ctx) error {
	record, err := s.ownedCommunity(c)
	if err != nil {
		return err
	}

	if err := s.repo.Communities().HardDelete(c.UserContext(), record.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound("Community")
		}
		return errors.Wrap(err, errors.CategoryInternal, "could not delete community")
	}

	return c.JSON(fiber.Map{"message": "Community permanently deleted"})
}

// ownedCommunity loads the :id community and checks the caller owns it.
func (s *Server) ownedCommunity(c *fiber.Ctx) (*store.Community, error) {
	id, err := paramUUID(c, "id")
	if err != nil {
		return nil, err
	}

	record, err := s.repo.Communities().GetByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("Community")
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "could not load community")
	}

	if err := requireOwner(currentUser(c), record.CreatedBy); err != nil {
		return nil, err
	}

	return record, nil
}

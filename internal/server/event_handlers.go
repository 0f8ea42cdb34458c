package server

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"

	"github.com/Mik3y-F/nitty/internal/store"
)

// ErrNotCommunityOwner blocks scheduling events inside someone else's
// community.
var ErrNotCommunityOwner = errors.New(
	"Not enough permissions to create events in this community",
	errors.CategoryAuthz,
).
	WithTextCode("NOT_RESOURCE_OWNER").
	WithCode(errors.CodeForbidden)

// EventCreateRequest is the creation payload. The community must exist
// and belong to the caller.
type EventCreateRequest struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	StartTime    time.Time  `json:"start_time"`
	EndTime      *time.Time `json:"end_time"`
	Location     string     `json:"location"`
	IsOnline     *bool      `json:"is_online"`
	MaxAttendees *int       `json:"max_attendees"`
	IsActive     *bool      `json:"is_active"`
	IsPublic     *bool      `json:"is_public"`
	CommunityID  string     `json:"community_id"`
}

// Validate will run validation rules
func (r EventCreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Title,
			validation.Required,
			validation.Length(1, 200),
		),
		validation.Field(
			&r.Description,
			validation.Length(0, 1000),
		),
		validation.Field(
			&r.StartTime,
			validation.Required,
		),
		validation.Field(
			&r.Location,
			validation.Length(0, 200),
		),
		validation.Field(
			&r.MaxAttendees,
			validation.Min(1),
		),
		validation.Field(
			&r.CommunityID,
			validation.Required,
		),
	)
}

// EventUpdateRequest carries partial updates; absent fields stay put.
// The community binding is immutable, so there is no community_id here.
type EventUpdateRequest struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	StartTime    *time.Time `json:"start_time"`
	EndTime      *time.Time `json:"end_time"`
	Location     *string    `json:"location"`
	IsOnline     *bool      `json:"is_online"`
	MaxAttendees *int       `json:"max_attendees"`
	IsActive     *bool      `json:"is_active"`
	IsPublic     *bool      `json:"is_public"`
}

// Validate will run validation rules
func (r EventUpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Title,
			validation.Length(1, 200),
		),
		validation.Field(
			&r.Description,
			validation.Length(0, 1000),
		),
		validation.Field(
			&r.Location,
			validation.Length(0, 200),
		),
		validation.Field(
			&r.MaxAttendees,
			validation.Min(1),
		),
	)
}

// CreateEvent schedules an event in a community the caller owns.
func (s *Server) CreateEvent(c *fiber.Ctx) error {
	payload := new(EventCreateRequest)
	if err := c.BodyParser(payload); err != nil {
		return invalidInput("invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	communityID, err := parseUUIDValue(payload.CommunityID, "community_id")
	if err != nil {
		return err
	}

	community, err := s.repo.Communities().GetByID(c.UserContext(), communityID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound("Community")
		}
		return errors.Wrap(err, errors.CategoryInternal, "could not load community")
	}

	if actor := currentUser(c); actor == nil || actor.ID != community.CreatedBy {
		return ErrNotCommunityOwner
	}

	record := &store.Event{
		Title:        payload.Title,
		Description:  payload.Description,
		StartTime:    payload.StartTime,
		EndTime:      payload.EndTime,
		Location:     payload.Location,
		IsOnline:     false,
		MaxAttendees: payload.MaxAttendees,
		IsActive:     true,
		IsPublic:     true,
		CreatedBy:    currentUser(c).ID,
		CommunityID:  community.ID,
	}
	if payload.IsOnline != nil {
		record.IsOnline = *payload.IsOnline
	}
	if payload.IsActive != nil {
		record.IsActive = *payload.IsActive
	}
	if payload.IsPublic != nil {
		record.IsPublic = *payload.IsPublic
	}

	created, err := s.repo.Events().Create(c.UserContext(), record)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "could not create event")
	}

	return c.JSON(created)
}

// ListEvents is the public listing with community/flag filters and an
// upcoming_only switch, ordered by start time.
func (s *Server) ListEvents(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return err
	}

	communityID, err := queryUUID(c, "community_id")
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
	upcomingOnly, err := queryBool(c, "upcoming_only")
	if err != nil {
		return err
	}

	filter := store.EventFilter{
		CommunityID: communityID,
		IsPublic:    isPublic,
		IsActive:    isActive,
		Page:        page,
	}
	if upcomingOnly != nil {
		filter.UpcomingOnly = *upcomingOnly
	}

	records, err := s.repo.Events().List(c.UserContext(), filter)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "could not list events")
	}

	return c.JSON(records)
}

// SearchEvents matches q against title, description, and location.
func (s *Server) SearchEvents(c *fiber.Ctx) error {
	q, err := searchQuery(c)
	if err != nil {
		return err
	}

	page, err := parsePage(c)
	if err != nil {
		return err
	}

	records, err := s.repo.Events().Search(c.UserContext(), q, page)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "could not search events")
	}

	return c.JSON(records)
}

// MyEvents lists the events the caller created.
func (s *Server) MyEvents(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return err
	}

	records, err := s.repo.Events().ListByCreator(c.UserContext(), currentUser(c).ID, page)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "could not list events")
	}

	return c.JSON(records)
}

// UpcomingEvents lists events starting at or after now.
func (s *Server) UpcomingEvents(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return err
	}

	records, err := s.repo.Events().ListUpcoming(c.UserContext(), page)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "could not list events")
	}

	return c.JSON(records)
}

// EventsByDateRange lists events whose start falls inside [start, end].
func (s *Server) EventsByDateRange(c *fiber.Ctx) error {
	start, err := queryTime(c, "start_date")
	if err != nil {
		return err
	}
	end, err := queryTime(c, "end_date")
	if err != nil {
		return err
	}
	if end.Before(start) {
		return invalidInput("end_date must not be before start_date")
	}

	page, err := parsePage(c)
	if err != nil {
		return err
	}

	records, err := s.repo.Events().ListByDateRange(c.UserContext(), start, end, page)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "could not list events")
	}

	return c.JSON(records)
}

// EventsByCommunity lists the events of one community.
func (s *Server) EventsByCommunity(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	if _, err := s.repo.Communities().GetByID(c.UserContext(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound("Community")
		}
		return errors.Wrap(err, errors.CategoryInternal, "could not load community")
	}

	page, err := parsePage(c)
	if err != nil {
		return err
	}

	records, err := s.repo.Events().ListByCommunity(c.UserContext(), id, page)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "could not list events")
	}

	return c.JSON(records)
}

// GetEvent returns one event by id, soft-deleted rows included.
func (s *Server) GetEvent(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	record, err := s.repo.Events().GetByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound("Event")
		}
		return errors.Wrap(err, errors.CategoryInternal, "could not load event")
	}

	return c.JSON(record)
}

// UpdateEvent applies a partial update, owner only.
func (s *Server) UpdateEvent(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	payload := new(EventUpdateRequest)
	if err := c.BodyParser(payload); err != nil {
		return invalidInput("invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	record, err := s.repo.Events().GetByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound("Event")
		}
		return errors.Wrap(err, errors.CategoryInternal, "could not load event")
	}

	if err := requireOwner(currentUser(c), record.CreatedBy); err != nil {
		return err
	}

	updated, err := s.repo.Events().Update(c.UserContext(), record, store.EventPatch{
		Title:        payload.Title,
		Description:  payload.Description,
		StartTime:    payload.StartTime,
		EndTime:      payload.EndTime,
		Location:     payload.Location,
		IsOnline:     payload.IsOnline,
		MaxAttendees: payload.MaxAttendees,
		IsActive:     payload.IsActive,
		IsPublic:     payload.IsPublic,
	})
	if err != nil {
		// The row can vanish between the load and the write.
		if errors.Is(err, store.ErrNotFound) {
			return notFound("Event")
		}
		return errors.Wrap(err, errors.CategoryInternal, "could not update event")
	}

	return c.JSON(updated)
}

// DeleteEvent soft deletes the event.
func (s *Server) DeleteEvent(c *fiber.Ctx) error {
	record, err := s.ownedEvent(c)
	if err != nil {
		return err
	}

	if err := s.repo.Events().SoftDelete(c.UserContext(), record.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound("Event")
		}
		return errors.Wrap(err, errors.CategoryInternal, "could not delete event")
	}

	return c.JSON(fiber.Map{"message": "Event deleted successfully"})
}

// PermanentlyDeleteEvent removes the row for good.
func (s *Server) PermanentlyDeleteEvent(c *fiber.Ctx) error {
	record, err := s.ownedEvent(c)
	if err != nil {
		return err
	}

	if err := s.repo.Events().HardDelete(c.UserContext(), record.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound("Event")
		}
		return errors.Wrap(err, errors.CategoryInternal, "could not delete event")
	}

	return c.JSON(fiber.Map{"message": "Event permanently deleted"})
}

// ownedEvent loads the :id event and checks the caller owns it.
func (s *Server) ownedEvent(c *fiber.Ctx) (*store.Event, error) {
	id, err := paramUUID(c, "id")
	if err != nil {
		return nil, err
	}

	record, err := s.repo.Events().GetByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("Event")
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "could not load event")
	}

	if err := requireOwner(currentUser(c), record.CreatedBy); err != nil {
		return nil, err
	}

	return record, nil
}

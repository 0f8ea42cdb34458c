package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Event is an owned resource scheduled inside a community.
type Event struct {
	bun.BaseModel `bun:"table:events,alias:evt"`

	ID           uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id"`
	Title        string     `bun:"title,notnull" json:"title"`
	Description  string     `bun:"description" json:"description,omitempty"`
	StartTime    time.Time  `bun:"start_time,notnull" json:"start_time"`
	EndTime      *time.Time `bun:"end_time" json:"end_time,omitempty"`
	Location     string     `bun:"location" json:"location,omitempty"`
	IsOnline     bool       `bun:"is_online,notnull" json:"is_online"`
	MaxAttendees *int       `bun:"max_attendees" json:"max_attendees,omitempty"`
	IsActive     bool       `bun:"is_active,notnull" json:"is_active"`
	IsPublic     bool       `bun:"is_public,notnull" json:"is_public"`
	CreatedAt    time.Time  `bun:"created_at,nullzero" json:"created_at"`
	UpdatedAt    time.Time  `bun:"updated_at,nullzero" json:"updated_at"`
	CreatedBy    uuid.UUID  `bun:"created_by,notnull,type:uuid" json:"created_by"`
	CommunityID  uuid.UUID  `bun:"community_id,notnull,type:uuid" json:"community_id"`
}

// EventPatch carries partial updates, nil fields untouched.
type EventPatch struct {
	Title        *string
	Description  *string
	StartTime    *time.Time
	EndTime      *time.Time
	Location     *string
	IsOnline     *bool
	MaxAttendees *int
	IsActive     *bool
	IsPublic     *bool
}

// EventFilter narrows List results. Nil filters are not applied;
// UpcomingOnly keeps events starting at or after now.
type EventFilter struct {
	CommunityID  *uuid.UUID
	IsPublic     *bool
	IsActive     *bool
	UpcomingOnly bool
	Page
}

// Events is the event store. Every listing is ordered by start time.
type Events interface {
	Create(ctx context.Context, record *Event) (*Event, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	List(ctx context.Context, filter EventFilter) ([]*Event, error)
	ListByCreator(ctx context.Context, createdBy uuid.UUID, page Page) ([]*Event, error)
	ListByCommunity(ctx context.Context, communityID uuid.UUID, page Page) ([]*Event, error)
	ListUpcoming(ctx context.Context, page Page) ([]*Event, error)
	ListByDateRange(ctx context.Context, start, end time.Time, page Page) ([]*Event, error)
	Search(ctx context.Context, query string, page Page) ([]*Event, error)
	Update(ctx context.Context, record *Event, patch EventPatch) (*Event, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	HardDelete(ctx context.Context, id uuid.UUID) error
}

type events struct {
	db *bun.DB
}

var _ Events = (*events)(nil)

// NewEvents creates the bun-backed event repository.
func NewEvents(db *bun.DB) Events {
	return &events{db: db}
}

func (r *events) Create(ctx context.Context, record *Event) (*Event, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	now := time.Now()
	record.CreatedAt = now
	record.UpdatedAt = now

	if _, err := r.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, err
	}
	return record, nil
}

// GetByID returns the row regardless of its active flag, mirroring the
// community store asymmetry.
func (r *events) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	record := &Event{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return record, nil
}

func (r *events) List(ctx context.Context, filter EventFilter) ([]*Event, error) {
	var records []*Event

	q := r.db.NewSelect().Model(&records)
	if filter.CommunityID != nil {
		q = q.Where("?TableAlias.community_id = ?", *filter.CommunityID)
	}
	if filter.IsPublic != nil {
		q = q.Where("?TableAlias.is_public = ?", *filter.IsPublic)
	}
	if filter.IsActive != nil {
		q = q.Where("?TableAlias.is_active = ?", *filter.IsActive)
	}
	if filter.UpcomingOnly {
		q = q.Where("?TableAlias.start_time >= ?", time.Now())
	}

	err := q.Order("start_time ASC").
		Offset(filter.Skip).
		Limit(filter.limit()).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *events) ListByCreator(ctx context.Context, createdBy uuid.UUID, page Page) ([]*Event, error) {
	var records []*Event
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.created_by = ?", createdBy).
		Order("start_time ASC").
		Offset(page.Skip).
		Limit(page.limit()).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *events) ListByCommunity(ctx context.Context, communityID uuid.UUID, page Page) ([]*Event, error) {
	var records []*Event
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.community_id = ?", communityID).
		Order("start_time ASC").
		Offset(page.Skip).
		Limit(page.limit()).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *events) ListUpcoming(ctx context.Context, page Page) ([]*Event, error) {
	var records []*Event
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.start_time >= ?", time.Now()).
		Order("start_time ASC").
		Offset(page.Skip).
		Limit(page.limit()).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *events) ListByDateRange(ctx context.Context, start, end time.Time, page Page) ([]*Event, error) {
	var records []*Event
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.start_time >= ?", start).
		Where("?TableAlias.start_time <= ?", end).
		Order("start_time ASC").
		Offset(page.Skip).
		Limit(page.limit()).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *events) Search(ctx context.Context, query string, page Page) ([]*Event, error) {
	pattern := likePattern(query)

	var records []*Event
	err := r.db.NewSelect().
		Model(&records).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("LOWER(?TableAlias.title) LIKE ?", pattern).
				WhereOr("LOWER(?TableAlias.description) LIKE ?", pattern).
				WhereOr("LOWER(?TableAlias.location) LIKE ?", pattern)
		}).
		Order("start_time ASC").
		Offset(page.Skip).
		Limit(page.limit()).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *events) Update(ctx context.Context, record *Event, patch EventPatch) (*Event, error) {
	if patch.Title != nil {
		record.Title = *patch.Title
	}
	if patch.Description != nil {
		record.Description = *patch.Description
	}
	if patch.StartTime != nil {
		record.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		record.EndTime = patch.EndTime
	}
	if patch.Location != nil {
		record.Location = *patch.Location
	}
	if patch.IsOnline != nil {
		record.IsOnline = *patch.IsOnline
	}
	if patch.MaxAttendees != nil {
		record.MaxAttendees = patch.MaxAttendees
	}
	if patch.IsActive != nil {
		record.IsActive = *patch.IsActive
	}
	if patch.IsPublic != nil {
		record.IsPublic = *patch.IsPublic
	}
	record.UpdatedAt = time.Now()

	res, err := r.db.NewUpdate().Model(record).WherePK().Exec(ctx)
	if err != nil {
		return nil, err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, ErrNotFound
	}
	return record, nil
}

func (r *events) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewUpdate().
		Model((*Event)(nil)).
		Set("is_active = ?", false).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *events) HardDelete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*Event)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Community is an owned resource. CreatedBy is set once at creation and
// never changes. IsActive is the soft-delete marker: soft deletes flip it
// to false, hard deletes remove the row.
type Community struct {
	bun.BaseModel `bun:"table:communities,alias:com"`

	ID          uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id"`
	Name        string    `bun:"name,notnull" json:"name"`
	Description string    `bun:"description" json:"description,omitempty"`
	IsPublic    bool      `bun:"is_public,notnull" json:"is_public"`
	IsActive    bool      `bun:"is_active,notnull" json:"is_active"`
	CreatedAt   time.Time `bun:"created_at,nullzero" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero" json:"updated_at"`
	CreatedBy   uuid.UUID `bun:"created_by,notnull,type:uuid" json:"created_by"`
}

// CommunityPatch carries partial updates. Only non-nil fields are applied,
// everything else keeps its stored value.
type CommunityPatch struct {
	Name        *string
	Description *string
	IsPublic    *bool
	IsActive    *bool
}

// CommunityFilter narrows List results. Nil filters are not applied.
type CommunityFilter struct {
	IsPublic *bool
	IsActive *bool
	Page
}

// Page is offset pagination shared by all listing queries.
type Page struct {
	Skip  int
	Limit int
}

func (p Page) limit() int {
	if p.Limit <= 0 {
		return 100
	}
	return p.Limit
}

// ErrNotFound marks a missing row. Callers translate it to their own
// not-found surface.
var ErrNotFound = errors.New("record not found")

// Communities is the community store.
type Communities interface {
	Create(ctx context.Context, record *Community) (*Community, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Community, error)
	List(ctx context.Context, filter CommunityFilter) ([]*Community, error)
	ListByCreator(ctx context.Context, createdBy uuid.UUID, page Page) ([]*Community, error)
	Search(ctx context.Context, query string, page Page) ([]*Community, error)
	Update(ctx context.Context, record *Community, patch CommunityPatch) (*Community, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	HardDelete(ctx context.Context, id uuid.UUID) error
}

type communities struct {
	db *bun.DB
}

var _ Communities = (*communities)(nil)

// NewCommunities creates the bun-backed community repository.
func NewCommunities(db *bun.DB) Communities {
	return &communities{db: db}
}

func (r *communities) Create(ctx context.Context, record *Community) (*Community, error) {
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

// GetByID returns the row regardless of its active flag. Soft-deleted
// communities stay fetchable by id; only listings filter them out.
func (r *communities) GetByID(ctx context.Context, id uuid.UUID) (*Community, error) {
	record := &Community{}
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

func (r *communities) List(ctx context.Context, filter CommunityFilter) ([]*Community, error) {
	var records []*Community

	q := r.db.NewSelect().Model(&records)
	if filter.IsPublic != nil {
		q = q.Where("?TableAlias.is_public = ?", *filter.IsPublic)
	}
	if filter.IsActive != nil {
		q = q.Where("?TableAlias.is_active = ?", *filter.IsActive)
	}

	err := q.Offset(filter.Skip).Limit(filter.limit()).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *communities) ListByCreator(ctx context.Context, createdBy uuid.UUID, page Page) ([]*Community, error) {
	var records []*Community
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.created_by = ?", createdBy).
		Offset(page.Skip).
		Limit(page.limit()).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *communities) Search(ctx context.Context, query string, page Page) ([]*Community, error) {
	pattern := likePattern(query)

	var records []*Community
	err := r.db.NewSelect().
		Model(&records).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("LOWER(?TableAlias.name) LIKE ?", pattern).
				WhereOr("LOWER(?TableAlias.description) LIKE ?", pattern)
		}).
		Offset(page.Skip).
		Limit(page.limit()).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *communities) Update(ctx context.Context, record *Community, patch CommunityPatch) (*Community, error) {
	if patch.Name != nil {
		record.Name = *patch.Name
	}
	if patch.Description != nil {
		record.Description = *patch.Description
	}
	if patch.IsPublic != nil {
		record.IsPublic = *patch.IsPublic
	}
	if patch.IsActive != nil {
		record.IsActive = *patch.IsActive
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

func (r *communities) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewUpdate().
		Model((*Community)(nil)).
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

func (r *communities) HardDelete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*Community)(nil)).
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

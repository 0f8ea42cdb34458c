// Package store holds the bun models and repositories for users,
// communities and events.
package store

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strings"

	"github.com/uptrace/bun"
)

// Manager exposes all repositories and the shared transaction runner.
type Manager interface {
	Users() Users
	Communities() Communities
	Events() Events

	RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error
	Validate() error
	MustValidate()
	DB() *bun.DB
}

type mngr struct {
	db          *bun.DB
	users       Users
	communities Communities
	events      Events
}

// NewManager wires every repository against the given DB handle.
func NewManager(db *bun.DB) Manager {
	return &mngr{
		db:          db,
		users:       NewUsers(db),
		communities: NewCommunities(db),
		events:      NewEvents(db),
	}
}

func (m mngr) Validate() error {
	if m.users == nil {
		return errors.New("repository users should be initialized")
	}

	if m.communities == nil {
		return errors.New("repository communities should be initialized")
	}

	if m.events == nil {
		return errors.New("repository events should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Users() Users {
	return m.users
}

func (m mngr) Communities() Communities {
	return m.communities
}

func (m mngr) Events() Events {
	return m.events
}

func (m mngr) DB() *bun.DB {
	return m.db
}

// likePattern lowers and wraps a search term for a case-insensitive
// substring match that behaves the same on postgres and sqlite.
func likePattern(query string) string {
	return "%" + strings.ToLower(query) + "%"
}

// ResetModels creates the tables for all registered models, dropping any
// existing ones first. Schema lifecycle is otherwise out of scope, so this
// is only wired into local bootstrap and tests.
func ResetModels(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*User)(nil),
		(*Community)(nil),
		(*Event)(nil),
	}

	for _, model := range models {
		if _, err := db.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().Model(model).Exec(ctx); err != nil {
			return err
		}
	}

	return nil
}

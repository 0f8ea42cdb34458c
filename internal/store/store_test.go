package store_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/Mik3y-F/nitty/internal/store"
)

func setupManager(t *testing.T) store.Manager {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	require.NoError(t, store.ResetModels(context.Background(), db))

	repo := store.NewManager(db)
	repo.MustValidate()
	return repo
}

func boolPtr(v bool) *bool { return &v }

func strPtr(v string) *string { return &v }

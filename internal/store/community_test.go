package store_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mik3y-F/nitty/internal/store"
)

func createCommunity(t *testing.T, repo store.Manager, name string, owner uuid.UUID) *store.Community {
	t.Helper()
	record, err := repo.Communities().Create(context.Background(), &store.Community{
		Name:      name,
		IsPublic:  true,
		IsActive:  true,
		CreatedBy: owner,
	})
	require.NoError(t, err)
	return record
}

func TestCommunities_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := setupManager(t)
	owner := uuid.New()

	created := createCommunity(t, repo, "Gophers", owner)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, owner, created.CreatedBy)

	got, err := repo.Communities().GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Gophers", got.Name)
}

func TestCommunities_GetByID_NotFound(t *testing.T) {
	repo := setupManager(t)

	_, err := repo.Communities().GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCommunities_List_Filters(t *testing.T) {
	ctx := context.Background()
	repo := setupManager(t)
	owner := uuid.New()

	pub := createCommunity(t, repo, "Public club", owner)

	private, err := repo.Communities().Create(ctx, &store.Community{
		Name:      "Private club",
		IsPublic:  false,
		IsActive:  true,
		CreatedBy: owner,
	})
	require.NoError(t, err)

	all, err := repo.Communities().List(ctx, store.CommunityFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	publicOnly, err := repo.Communities().List(ctx, store.CommunityFilter{IsPublic: boolPtr(true)})
	require.NoError(t, err)
	require.Len(t, publicOnly, 1)
	assert.Equal(t, pub.ID, publicOnly[0].ID)

	privateOnly, err := repo.Communities().List(ctx, store.CommunityFilter{IsPublic: boolPtr(false)})
	require.NoError(t, err)
	require.Len(t, privateOnly, 1)
	assert.Equal(t, private.ID, privateOnly[0].ID)
}

func TestCommunities_List_Pagination(t *testing.T) {
	ctx := context.Background()
	repo := setupManager(t)
	owner := uuid.New()

	for _, name := range []string{"one", "two", "three"} {
		createCommunity(t, repo, name, owner)
	}

	page, err := repo.Communities().List(ctx, store.CommunityFilter{
		Page: store.Page{Skip: 1, Limit: 1},
	})
	require.NoError(t, err)
	assert.Len(t, page, 1)

	rest, err := repo.Communities().List(ctx, store.CommunityFilter{
		Page: store.Page{Skip: 2, Limit: 100},
	})
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}

func TestCommunities_ListByCreator(t *testing.T) {
	ctx := context.Background()
	repo := setupManager(t)
	alice := uuid.New()
	bob := uuid.New()

	mine := createCommunity(t, repo, "Alice's place", alice)
	createCommunity(t, repo, "Bob's place", bob)

	records, err := repo.Communities().ListByCreator(ctx, alice, store.Page{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, mine.ID, records[0].ID)
}

func TestCommunities_Search(t *testing.T) {
	ctx := context.Background()
	repo := setupManager(t)
	owner := uuid.New()

	createCommunity(t, repo, "Go Meetup Nairobi", owner)

	_, err := repo.Communities().Create(ctx, &store.Community{
		Name:        "Chess club",
		Description: "We also talk about Go sometimes",
		IsPublic:    true,
		IsActive:    true,
		CreatedBy:   owner,
	})
	require.NoError(t, err)

	createCommunity(t, repo, "Knitting circle", owner)

	records, err := repo.Communities().Search(ctx, "GO", store.Page{})
	require.NoError(t, err)
	assert.Len(t, records, 2)

	none, err := repo.Communities().Search(ctx, "rust", store.Page{})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCommunities_Update_Patch(t *testing.T) {
	ctx := context.Background()
	repo := setupManager(t)
	owner := uuid.New()

	created := createCommunity(t, repo, "Before", owner)

	updated, err := repo.Communities().Update(ctx, created, store.CommunityPatch{
		Name: strPtr("After"),
	})
	require.NoError(t, err)
	assert.Equal(t, "After", updated.Name)
	assert.True(t, updated.IsPublic, "untouched fields keep their value")

	got, err := repo.Communities().GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "After", got.Name)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt) || got.UpdatedAt.Equal(got.CreatedAt))
}

func TestCommunities_SoftDelete(t *testing.T) {
	ctx := context.Background()
	repo := setupManager(t)
	owner := uuid.New()

	created := createCommunity(t, repo, "Doomed", owner)

	require.NoError(t, repo.Communities().SoftDelete(ctx, created.ID))

	// The row stays fetchable by id, only the active flag flips.
	got, err := repo.Communities().GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	active, err := repo.Communities().List(ctx, store.CommunityFilter{IsActive: boolPtr(true)})
	require.NoError(t, err)
	assert.Empty(t, active)

	assert.ErrorIs(t, repo.Communities().SoftDelete(ctx, uuid.New()), store.ErrNotFound)
}

func TestCommunities_HardDelete(t *testing.T) {
	ctx := context.Background()
	repo := setupManager(t)
	owner := uuid.New()

	created := createCommunity(t, repo, "Gone", owner)

	require.NoError(t, repo.Communities().HardDelete(ctx, created.ID))

	_, err := repo.Communities().GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, repo.Communities().HardDelete(ctx, created.ID), store.ErrNotFound)
}

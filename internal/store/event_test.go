package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mik3y-F/nitty/internal/store"
)

func createEvent(t *testing.T, repo store.Manager, title string, start time.Time, owner, community uuid.UUID) *store.Event {
	t.Helper()
	record, err := repo.Events().Create(context.Background(), &store.Event{
		Title:       title,
		StartTime:   start,
		IsActive:    true,
		IsPublic:    true,
		CreatedBy:   owner,
		CommunityID: community,
	})
	require.NoError(t, err)
	return record
}

func TestEvents_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := setupManager(t)
	owner := uuid.New()
	community := uuid.New()

	start := time.Now().Add(24 * time.Hour)
	created := createEvent(t, repo, "Launch party", start, owner, community)
	assert.NotEqual(t, uuid.Nil, created.ID)

	got, err := repo.Events().GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Launch party", got.Title)
	assert.Equal(t, community, got.CommunityID)
	assert.WithinDuration(t, start, got.StartTime, time.Second)
}

func TestEvents_List_OrderedByStartTime(t *testing.T) {
	ctx := context.Background()
	repo := setupManager(t)
	owner := uuid.New()
	community := uuid.New()

	now := time.Now()
	late := createEvent(t, repo, "Late", now.Add(48*time.Hour), owner, community)
	early := createEvent(t, repo, "Early", now.Add(1*time.Hour), owner, community)
	mid := createEvent(t, repo, "Mid", now.Add(24*time.Hour), owner, community)

	records, err := repo.Events().List(ctx, store.EventFilter{})
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, early.ID, records[0].ID)
	assert.Equal(t, mid.ID, records[1].ID)
	assert.Equal(t, late.ID, records[2].ID)
}

func TestEvents_List_Filters(t *testing.T) {
	ctx := context.Background()
	repo := setupManager(t)
	owner := uuid.New()
	comA := uuid.New()
	comB := uuid.New()

	now := time.Now()
	inA := createEvent(t, repo, "In A", now.Add(time.Hour), owner, comA)
	createEvent(t, repo, "In B", now.Add(time.Hour), owner, comB)
	past := createEvent(t, repo, "Already happened", now.Add(-time.Hour), owner, comA)

	byCommunity, err := repo.Events().List(ctx, store.EventFilter{CommunityID: &comA})
	require.NoError(t, err)
	require.Len(t, byCommunity, 2)
	assert.Equal(t, past.ID, byCommunity[0].ID)
	assert.Equal(t, inA.ID, byCommunity[1].ID)

	upcoming, err := repo.Events().List(ctx, store.EventFilter{UpcomingOnly: true})
	require.NoError(t, err)
	assert.Len(t, upcoming, 2)
	for _, record := range upcoming {
		assert.NotEqual(t, past.ID, record.ID)
	}
}

func TestEvents_ListUpcoming(t *testing.T) {
	ctx := context.Background()
	repo := setupManager(t)
	owner := uuid.New()
	community := uuid.New()

	now := time.Now()
	createEvent(t, repo, "Yesterday", now.Add(-24*time.Hour), owner, community)
	future := createEvent(t, repo, "Tomorrow", now.Add(24*time.Hour), owner, community)

	records, err := repo.Events().ListUpcoming(ctx, store.Page{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, future.ID, records[0].ID)
}

func TestEvents_ListByDateRange(t *testing.T) {
	ctx := context.Background()
	repo := setupManager(t)
	owner := uuid.New()
	community := uuid.New()

	base := time.Now()
	createEvent(t, repo, "Too early", base.Add(-48*time.Hour), owner, community)
	inside := createEvent(t, repo, "Inside", base.Add(24*time.Hour), owner, community)
	createEvent(t, repo, "Too late", base.Add(96*time.Hour), owner, community)

	records, err := repo.Events().ListByDateRange(ctx, base, base.Add(48*time.Hour), store.Page{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, inside.ID, records[0].ID)
}

func TestEvents_Search(t *testing.T) {
	ctx := context.Background()
	repo := setupManager(t)
	owner := uuid.New()
	community := uuid.New()

	now := time.Now()
	createEvent(t, repo, "GopherCon Africa", now, owner, community)

	_, err := repo.Events().Create(ctx, &store.Event{
		Title:       "Monthly meetup",
		Location:    "Gopher House",
		StartTime:   now,
		IsActive:    true,
		IsPublic:    true,
		CreatedBy:   owner,
		CommunityID: community,
	})
	require.NoError(t, err)

	createEvent(t, repo, "Quiet dinner", now, owner, community)

	records, err := repo.Events().Search(ctx, "gopher", store.Page{})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestEvents_Update_Patch(t *testing.T) {
	ctx := context.Background()
	repo := setupManager(t)
	owner := uuid.New()
	community := uuid.New()

	created := createEvent(t, repo, "Draft", time.Now().Add(time.Hour), owner, community)

	capacity := 50
	updated, err := repo.Events().Update(ctx, created, store.EventPatch{
		Title:        strPtr("Final"),
		MaxAttendees: &capacity,
	})
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)
	require.NotNil(t, updated.MaxAttendees)
	assert.Equal(t, 50, *updated.MaxAttendees)
	assert.True(t, updated.IsPublic, "untouched fields keep their value")
}

func TestEvents_SoftDelete(t *testing.T) {
	ctx := context.Background()
	repo := setupManager(t)
	owner := uuid.New()
	community := uuid.New()

	created := createEvent(t, repo, "Doomed", time.Now(), owner, community)

	require.NoError(t, repo.Events().SoftDelete(ctx, created.ID))

	got, err := repo.Events().GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	active, err := repo.Events().List(ctx, store.EventFilter{IsActive: boolPtr(true)})
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestEvents_HardDelete(t *testing.T) {
	ctx := context.Background()
	repo := setupManager(t)
	owner := uuid.New()
	community := uuid.New()

	created := createEvent(t, repo, "Gone", time.Now(), owner, community)

	require.NoError(t, repo.Events().HardDelete(ctx, created.ID))

	_, err := repo.Events().GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

package record_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/mauv0809/cricket-hub/internal/apperr"
	"github.com/mauv0809/cricket-hub/internal/database"
	"github.com/mauv0809/cricket-hub/internal/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	record.Meta
	OwnerID string   `json:"owner_id"`
	Name    string   `json:"name"`
	Tags    []string `json:"tags"`
}

func setupTestDB(t *testing.T) (*record.Store[widget, *widget], *sql.DB) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(teardown)

	return record.New[widget](db, "widgets"), db
}

func TestInsert_AssignsMeta(t *testing.T) {
	store, _ := setupTestDB(t)
	ctx := context.Background()

	a, err := store.Insert(ctx, &widget{Name: "a"})
	require.NoError(t, err)
	b, err := store.Insert(ctx, &widget{Name: "b"})
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 1, a.Version)
	assert.False(t, a.CreatedAt.IsZero())
	assert.Equal(t, a.CreatedAt, a.UpdatedAt)
}

func TestInsert_IgnoresCallerMeta(t *testing.T) {
	store, _ := setupTestDB(t)

	in := &widget{Meta: record.Meta{ID: "mine", Version: 7}, Name: "a"}
	out, err := store.Insert(context.Background(), in)
	require.NoError(t, err)

	assert.NotEqual(t, "mine", out.ID)
	assert.Equal(t, 1, out.Version)
	assert.Equal(t, "mine", in.ID, "input must not be mutated")
}

func TestGetAndRequire(t *testing.T) {
	store, _ := setupTestDB(t)
	ctx := context.Background()

	got, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = store.Require(ctx, "missing")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	w, err := store.Insert(ctx, &widget{Name: "a", Tags: []string{"x"}})
	require.NoError(t, err)
	got, err = store.Require(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, w, got)
}

func TestList_FiltersByFieldInInsertionOrder(t *testing.T) {
	store, _ := setupTestDB(t)
	ctx := context.Background()

	for _, w := range []widget{
		{OwnerID: "o1", Name: "first"},
		{OwnerID: "o2", Name: "other"},
		{OwnerID: "o1", Name: "second"},
	} {
		_, err := store.Insert(ctx, &w)
		require.NoError(t, err)
	}

	got, err := store.List(ctx, "owner_id", "o1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Name)
	assert.Equal(t, "second", got[1].Name)

	none, err := store.List(ctx, "owner_id", "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = store.List(ctx, "owner_id') OR 1=1 --", "x")
	assert.Error(t, err)
}

func TestCollectionsAreIsolated(t *testing.T) {
	store, db := setupTestDB(t)
	ctx := context.Background()
	other := record.New[widget](db, "gadgets")

	_, err := store.Insert(ctx, &widget{Name: "a"})
	require.NoError(t, err)

	n, err := other.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUpdate_BumpsVersionAndKeepsCreatedAt(t *testing.T) {
	store, _ := setupTestDB(t)
	ctx := context.Background()

	clock := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	store.WithClock(func() time.Time { return clock })

	w, err := store.Insert(ctx, &widget{Name: "a"})
	require.NoError(t, err)

	clock = clock.Add(time.Hour)
	updated, err := store.Update(ctx, w.ID, func(w *widget) error {
		w.Name = "renamed"
		w.CreatedAt = time.Time{}
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, 2, updated.Version)
	assert.Equal(t, w.CreatedAt, updated.CreatedAt)
	assert.Equal(t, clock, updated.UpdatedAt)
}

func TestUpdate_ApplyErrorLeavesRecordUntouched(t *testing.T) {
	store, _ := setupTestDB(t)
	ctx := context.Background()

	w, err := store.Insert(ctx, &widget{Name: "a"})
	require.NoError(t, err)

	boom := apperr.InvalidState("nope")
	_, err = store.Update(ctx, w.ID, func(w *widget) error {
		w.Name = "changed"
		return boom
	})
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	got, err := store.Require(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Name)
	assert.Equal(t, 1, got.Version)
}

func TestUpdate_MissingRecord(t *testing.T) {
	store, _ := setupTestDB(t)

	_, err := store.Update(context.Background(), "missing", func(*widget) error { return nil })
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateVersion_RejectsStaleVersion(t *testing.T) {
	store, _ := setupTestDB(t)
	ctx := context.Background()

	w, err := store.Insert(ctx, &widget{Name: "a"})
	require.NoError(t, err)

	_, err = store.UpdateVersion(ctx, w.ID, 1, func(w *widget) error { w.Name = "b"; return nil })
	require.NoError(t, err)

	_, err = store.UpdateVersion(ctx, w.ID, 1, func(w *widget) error { w.Name = "c"; return nil })
	assert.ErrorIs(t, err, apperr.ErrConflict)

	got, err := store.Require(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "b", got.Name)
}

func TestFilter(t *testing.T) {
	store, _ := setupTestDB(t)
	ctx := context.Background()

	for _, name := range []string{"alpha", "beta", "alphabet"} {
		_, err := store.Insert(ctx, &widget{Name: name})
		require.NoError(t, err)
	}

	got, err := store.Filter(ctx, func(w *widget) bool { return len(w.Name) > 4 })
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "alpha", got[0].Name)
	assert.Equal(t, "alphabet", got[1].Name)
}

func TestDelete(t *testing.T) {
	store, _ := setupTestDB(t)
	ctx := context.Background()

	a, err := store.Insert(ctx, &widget{Name: "a"})
	require.NoError(t, err)
	_, err = store.Insert(ctx, &widget{Name: "b"})
	require.NoError(t, err)

	removed, err := store.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	got, err := store.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	removed, err = store.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

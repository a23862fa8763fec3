package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestAppendAndRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, Event{
		Species: "test", Release: "v1", Action: ActionGenerate, Outcome: "success",
	}))
	require.NoError(t, store.Append(ctx, Event{
		Species: "test", Release: "v2", Action: ActionGenerate, Outcome: "success",
	}))
	require.NoError(t, store.Append(ctx, Event{
		Species: "catalog", Release: "v1", Action: ActionRender, Outcome: "failure", Detail: "boom",
	}))

	events, err := store.Recent(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, events, 3)

	// Most recent first.
	require.Equal(t, "catalog", events[0].Species)
	require.Equal(t, ActionRender, events[0].Action)
	require.Equal(t, "boom", events[0].Detail)
	require.Equal(t, "v2", events[1].Release)
	require.Equal(t, "v1", events[2].Release)
}

func TestRecent_FiltersBySpecies(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, Event{Species: "test", Release: "v1", Action: ActionGenerate, Outcome: "success"}))
	require.NoError(t, store.Append(ctx, Event{Species: "catalog", Release: "v1", Action: ActionGenerate, Outcome: "success"}))

	events, err := store.Recent(ctx, "test", 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "test", events[0].Species)
}

func TestRecent_HonorsLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append(ctx, Event{Species: "test", Release: "v1", Action: ActionGenerate, Outcome: "success"}))
	}

	events, err := store.Recent(ctx, "", 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
}

func TestAppend_DefaultsTimestamp(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	before := time.Now().Add(-time.Second)
	require.NoError(t, store.Append(ctx, Event{Species: "test", Release: "v1", Action: ActionGenerate, Outcome: "success"}))

	events, err := store.Recent(ctx, "", 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.False(t, events[0].Timestamp.Before(before))
}

func TestOpen_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "history.db")
	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/shellbox/internal/domain"
)

func newSession(id, container string) domain.Session {
	now := time.Date(2020, 3, 1, 10, 0, 0, 0, time.UTC)
	return domain.Session{
		ContainerName: container,
		CreatedAt:     now,
		ID:            id,
		LastActiveAt:  now,
		RepoURL:       "https://github.com/acme/" + id,
	}
}

func TestSessionStore_EmptyWhenMissing(t *testing.T) {
	store, err := NewSessionStore(filepath.Join(t.TempDir(), "sessions.json"))
	require.NoError(t, err)

	sessions, err := store.List(context.Background())

	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestSessionStore_AddGetDelete(t *testing.T) {
	ctx := context.Background()
	store, err := NewSessionStore(filepath.Join(t.TempDir(), "sessions.json"))
	require.NoError(t, err)

	require.NoError(t, store.Add(ctx, newSession("a", "shellbox-aaaa")))
	require.NoError(t, store.Add(ctx, newSession("b", "shellbox-bbbb")))

	got, err := store.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "shellbox-bbbb", got.ContainerName)

	byContainer, err := store.Get(ctx, "shellbox-aaaa")
	require.NoError(t, err)
	assert.Equal(t, "a", byContainer.ID)

	require.NoError(t, store.Delete(ctx, "a"))
	sessions, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "b", sessions[0].ID)

	_, err = store.Get(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionStore_RejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	store, err := NewSessionStore(filepath.Join(t.TempDir(), "sessions.json"))
	require.NoError(t, err)

	require.NoError(t, store.Add(ctx, newSession("a", "shellbox-aaaa")))
	err = store.Add(ctx, newSession("other", "shellbox-aaaa"))

	assert.ErrorIs(t, err, domain.ErrSessionExists)
}

func TestSessionStore_DeleteUnknown(t *testing.T) {
	store, err := NewSessionStore(filepath.Join(t.TempDir(), "sessions.json"))
	require.NoError(t, err)

	err = store.Delete(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionStore_WritesJSONArrayWithISODates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.json")
	store, err := NewSessionStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Add(context.Background(), newSession("a", "shellbox-aaaa")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)
	assert.Equal(t, "a", raw[0]["id"])
	assert.Equal(t, "https://github.com/acme/a", raw[0]["repoURL"])
	assert.Equal(t, "shellbox-aaaa", raw[0]["containerName"])
	assert.Equal(t, "2020-03-01T10:00:00Z", raw[0]["createdAt"])
	assert.Contains(t, raw[0], "lastActiveAt")
}

func TestSessionStore_TouchUpdatesLastActive(t *testing.T) {
	ctx := context.Background()
	store, err := NewSessionStore(filepath.Join(t.TempDir(), "sessions.json"))
	require.NoError(t, err)
	require.NoError(t, store.Add(ctx, newSession("a", "shellbox-aaaa")))

	require.NoError(t, store.Touch(ctx, "a"))

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, got.LastActiveAt.After(got.CreatedAt))
}

func TestSessionStore_ConcurrentAddsAreNotLost(t *testing.T) {
	ctx := context.Background()
	store, err := NewSessionStore(filepath.Join(t.TempDir(), "sessions.json"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			assert.NoError(t, store.Add(ctx, newSession(id, "shellbox-"+id)))
		}(id)
	}
	wg.Wait()

	sessions, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 6)
}

func TestSessionStore_CorruptFileIsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))
	store, err := NewSessionStore(path)
	require.NoError(t, err)

	_, err = store.List(context.Background())

	assert.Error(t, err)
}

func TestTelemetryRepository_RecordAndList(t *testing.T) {
	ctx := context.Background()
	repo, err := NewTelemetryRepository(filepath.Join(t.TempDir(), "telemetry.db"))
	require.NoError(t, err)
	defer repo.Close()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Record(ctx, domain.RunRecord{
		CreatedAt: base,
		Duration:  1500 * time.Millisecond,
		Success:   true,
	}))
	require.NoError(t, repo.Record(ctx, domain.RunRecord{
		CreatedAt: base.Add(time.Minute),
		Duration:  200 * time.Millisecond,
		ErrorCode: domain.ErrorCodeSetupFailed,
	}))

	runs, err := repo.List(ctx)

	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.True(t, runs[0].Success)
	assert.Equal(t, domain.ErrorCodeNone, runs[0].ErrorCode)
	assert.Equal(t, 1500*time.Millisecond, runs[0].Duration)
	assert.Equal(t, domain.ErrorCodeSetupFailed, runs[1].ErrorCode)
	assert.False(t, runs[1].Success)
}

package logging

import (
	"bytes"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_KeepsInsertionOrder(t *testing.T) {
	store := NewStore(5)

	for i := 0; i < 3; i++ {
		store.Record("git", fmt.Sprintf("failure %d", i), "")
	}

	entries := store.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "failure 0", entries[0].Message)
	assert.Equal(t, "failure 2", entries[2].Message)
	assert.Equal(t, 3, store.Len())
}

func TestStore_DropsOldestWhenFull(t *testing.T) {
	store := NewStore(3)

	for i := 0; i < 7; i++ {
		store.Record("exec", fmt.Sprintf("failure %d", i), "")
	}

	entries := store.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "failure 4", entries[0].Message)
	assert.Equal(t, "failure 5", entries[1].Message)
	assert.Equal(t, "failure 6", entries[2].Message)
}

func TestStore_DefaultCapacity(t *testing.T) {
	store := NewStore(0)

	for i := 0; i < DefaultStoreCapacity+10; i++ {
		store.Record("exec", "x", "")
	}

	assert.Equal(t, DefaultStoreCapacity, store.Len())
}

func TestStore_Clear(t *testing.T) {
	store := NewStore(2)
	store.Record("git", "a", "")
	store.Record("git", "b", "")
	store.Record("git", "c", "")

	store.Clear()

	assert.Equal(t, 0, store.Len())
	assert.Empty(t, store.Entries())

	store.Record("git", "d", "")
	assert.Equal(t, "d", store.Entries()[0].Message)
}

func TestEntry_StringIndentsDetail(t *testing.T) {
	entry := Entry{Category: "git", Message: "push failed", Detail: "line1\nline2\n", Level: slog.LevelError}

	out := entry.String()

	assert.Contains(t, out, "[ERROR] git: push failed")
	assert.Contains(t, out, "\n    line1\n    line2")
}

func TestStoreHandler_RetainsWarningsOnly(t *testing.T) {
	store := NewStore(10)
	var buf bytes.Buffer
	logger := slog.New(NewStoreHandler(store, slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	logger.Debug("noise")
	logger.Info("still noise")
	logger.Warn("clone failed", "category", "session", "container", "shellbox-1")

	entries := store.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "clone failed", entries[0].Message)
	assert.Equal(t, "session", entries[0].Category)
	assert.Contains(t, entries[0].Detail, "container=shellbox-1")
	assert.Contains(t, buf.String(), "noise")
}

func TestStoreHandler_WithAttrs(t *testing.T) {
	store := NewStore(10)
	logger := slog.New(NewStoreHandler(store, slog.NewTextHandler(&bytes.Buffer{}, nil))).With("category", "exec")

	logger.Error("run failed")

	require.Equal(t, 1, store.Len())
	assert.Equal(t, "exec", store.Entries()[0].Category)
}

package logging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// DefaultStoreCapacity is how many entries the app log store keeps
const DefaultStoreCapacity = 300

// Entry is one retained app log record
type Entry struct {
	Category string
	Detail   string
	Level    slog.Level
	Message  string
	Time     time.Time
}

// String renders the entry as a single export line followed by its detail
func (e Entry) String() string {
	line := fmt.Sprintf("%s [%s] %s: %s", e.Time.Format(time.RFC3339), e.Level, e.Category, e.Message)
	if e.Detail != "" {
		line += "\n    " + strings.ReplaceAll(strings.TrimRight(e.Detail, "\n"), "\n", "\n    ")
	}
	return line
}

// Store is an append-only ring buffer of the most recent entries.
// Create one per process and inject it where failures are recorded.
type Store struct {
	capacity int
	entries  []Entry
	mu       sync.Mutex
	next     int
	full     bool
}

// NewStore creates a Store holding at most capacity entries
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultStoreCapacity
	}
	return &Store{
		capacity: capacity,
		entries:  make([]Entry, capacity),
	}
}

// Append adds an entry, overwriting the oldest one when full
func (s *Store) Append(entry Entry) {
	if entry.Time.IsZero() {
		entry.Time = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[s.next] = entry
	s.next = (s.next + 1) % s.capacity
	if s.next == 0 {
		s.full = true
	}
}

// Record is a shorthand for appending an error-level entry
func (s *Store) Record(category, message, detail string) {
	s.Append(Entry{
		Category: category,
		Detail:   detail,
		Level:    slog.LevelError,
		Message:  message,
	})
}

// Entries returns a copy of the retained entries, oldest first
func (s *Store) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.full {
		out := make([]Entry, s.next)
		copy(out, s.entries[:s.next])
		return out
	}

	out := make([]Entry, 0, s.capacity)
	out = append(out, s.entries[s.next:]...)
	out = append(out, s.entries[:s.next]...)
	return out
}

// Len returns the number of retained entries
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.full {
		return s.capacity
	}
	return s.next
}

// Clear drops every entry
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make([]Entry, s.capacity)
	s.next = 0
	s.full = false
}

// StoreHandler forwards records to next and keeps warnings and errors in a Store
type StoreHandler struct {
	attrs []slog.Attr
	next  slog.Handler
	store *Store
}

// NewStoreHandler wraps next so that Warn+ records are also appended to store
func NewStoreHandler(store *Store, next slog.Handler) *StoreHandler {
	return &StoreHandler{next: next, store: store}
}

// Enabled implements slog.Handler
func (h *StoreHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= slog.LevelWarn || h.next.Enabled(ctx, level)
}

// Handle implements slog.Handler
func (h *StoreHandler) Handle(ctx context.Context, record slog.Record) error {
	if record.Level >= slog.LevelWarn {
		var detail strings.Builder
		category := "app"
		collect := func(a slog.Attr) bool {
			if a.Key == "category" {
				category = a.Value.String()
				return true
			}
			fmt.Fprintf(&detail, "%s=%v ", a.Key, a.Value.Any())
			return true
		}
		for _, a := range h.attrs {
			collect(a)
		}
		record.Attrs(collect)

		h.store.Append(Entry{
			Category: category,
			Detail:   strings.TrimSpace(detail.String()),
			Level:    record.Level,
			Message:  record.Message,
			Time:     record.Time,
		})
	}

	if h.next.Enabled(ctx, record.Level) {
		return h.next.Handle(ctx, record)
	}
	return nil
}

// WithAttrs implements slog.Handler
func (h *StoreHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &StoreHandler{attrs: merged, next: h.next.WithAttrs(attrs), store: h.store}
}

// WithGroup implements slog.Handler
func (h *StoreHandler) WithGroup(name string) slog.Handler {
	return &StoreHandler{attrs: h.attrs, next: h.next.WithGroup(name), store: h.store}
}

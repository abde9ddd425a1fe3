package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/renato0307/shellbox/internal/domain"
	"github.com/renato0307/shellbox/internal/logging"
	"github.com/renato0307/shellbox/internal/ports"
)

// sessionRecord is the on-disk form of domain.Session
type sessionRecord struct {
	ContainerName string    `json:"containerName"`
	CreatedAt     time.Time `json:"createdAt"`
	ID            string    `json:"id"`
	LastActiveAt  time.Time `json:"lastActiveAt"`
	RepoURL       string    `json:"repoURL"`
}

// SessionStore implements ports.SessionRepository on a JSON array file.
// Every mutation holds an exclusive lock on a sibling .lock file and replaces
// the data file with an atomic rename.
type SessionStore struct {
	path string
}

// Verify interface compliance at compile time
var _ ports.SessionRepository = (*SessionStore)(nil)

// NewSessionStore creates a SessionStore backed by path
func NewSessionStore(path string) (*SessionStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	return &SessionStore{path: path}, nil
}

// Get implements SessionReader.Get
func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	sessions, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		if sessions[i].ID == id || sessions[i].ContainerName == id {
			return &sessions[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
}

// List implements SessionReader.List
func (s *SessionStore) List(ctx context.Context) ([]domain.Session, error) {
	records, err := s.read()
	if err != nil {
		return nil, err
	}
	return recordsToDomain(records), nil
}

// Add implements SessionWriter.Add
func (s *SessionStore) Add(ctx context.Context, session domain.Session) error {
	return s.mutate(func(records []sessionRecord) ([]sessionRecord, error) {
		for _, r := range records {
			if r.ID == session.ID || r.ContainerName == session.ContainerName {
				return nil, fmt.Errorf("%w: %s", domain.ErrSessionExists, session.ID)
			}
		}
		return append(records, domainToRecord(session)), nil
	})
}

// Delete implements SessionWriter.Delete
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.mutate(func(records []sessionRecord) ([]sessionRecord, error) {
		for i, r := range records {
			if r.ID == id {
				return append(records[:i], records[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	})
}

// Touch implements SessionWriter.Touch
func (s *SessionStore) Touch(ctx context.Context, id string) error {
	return s.mutate(func(records []sessionRecord) ([]sessionRecord, error) {
		for i := range records {
			if records[i].ID == id {
				records[i].LastActiveAt = time.Now().UTC()
				return records, nil
			}
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	})
}

func (s *SessionStore) read() ([]sessionRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []sessionRecord{}, nil
		}
		return nil, fmt.Errorf("failed to read sessions file: %w", err)
	}

	var records []sessionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sessions: %w", err)
	}
	return records, nil
}

// mutate runs fn on the current records under the file lock and persists the result
func (s *SessionStore) mutate(fn func([]sessionRecord) ([]sessionRecord, error)) error {
	lock, err := os.OpenFile(s.path+".lock", os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("failed to open lock file: %w", err)
	}
	defer lock.Close()

	if err := lockFile(lock); err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	defer unlockFile(lock)

	records, err := s.read()
	if err != nil {
		return err
	}

	records, err = fn(records)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sessions: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".sessions-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write sessions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to replace sessions file: %w", err)
	}

	logging.Logger.Debug("Sessions saved", "path", s.path, "count", len(records))
	return nil
}

func recordsToDomain(records []sessionRecord) []domain.Session {
	sessions := make([]domain.Session, len(records))
	for i, r := range records {
		sessions[i] = domain.Session{
			ContainerName: r.ContainerName,
			CreatedAt:     r.CreatedAt,
			ID:            r.ID,
			LastActiveAt:  r.LastActiveAt,
			RepoURL:       r.RepoURL,
		}
	}
	return sessions
}

func domainToRecord(s domain.Session) sessionRecord {
	return sessionRecord{
		ContainerName: s.ContainerName,
		CreatedAt:     s.CreatedAt.UTC(),
		ID:            s.ID,
		LastActiveAt:  s.LastActiveAt.UTC(),
		RepoURL:       s.RepoURL,
	}
}

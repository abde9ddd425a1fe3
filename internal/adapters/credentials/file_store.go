// Package credentials stores opaque secrets in a user-only readable JSON file.
package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/renato0307/shellbox/internal/domain"
	"github.com/renato0307/shellbox/internal/ports"
)

// FileStore implements ports.CredentialStore
type FileStore struct {
	mu   sync.Mutex
	path string
}

var _ ports.CredentialStore = (*FileStore)(nil)

// NewFileStore creates a store backed by path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save stores secret for serviceID/accountID, replacing any previous value
func (s *FileStore) Save(secret, serviceID, accountID string) error {
	if secret == "" {
		return errors.New("secret is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	secrets, err := s.load()
	if err != nil {
		return err
	}
	secrets[key(serviceID, accountID)] = secret
	return s.write(secrets)
}

// Read returns the secret or domain.ErrCredentialNotFound
func (s *FileStore) Read(serviceID, accountID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	secrets, err := s.load()
	if err != nil {
		return "", err
	}
	secret, ok := secrets[key(serviceID, accountID)]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrCredentialNotFound, key(serviceID, accountID))
	}
	return secret, nil
}

// Delete removes the secret. Deleting a missing secret is not an error.
func (s *FileStore) Delete(serviceID, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	secrets, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := secrets[key(serviceID, accountID)]; !ok {
		return nil
	}
	delete(secrets, key(serviceID, accountID))
	return s.write(secrets)
}

func key(serviceID, accountID string) string {
	return serviceID + "/" + accountID
}

func (s *FileStore) load() (map[string]string, error) {
	secrets := make(map[string]string)
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return secrets, nil
		}
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}
	if err := json.Unmarshal(data, &secrets); err != nil {
		return nil, fmt.Errorf("invalid credentials file: %w", err)
	}
	return secrets, nil
}

func (s *FileStore) write(secrets map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}
	data, err := json.MarshalIndent(secrets, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	// WriteFile keeps the mode of an existing file
	return os.Chmod(s.path, 0600)
}

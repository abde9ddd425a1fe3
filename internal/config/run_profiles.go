package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/renato0307/shellbox/internal/ports"
)

type runProfilesRecord struct {
	CommandsByRepository map[string]string `json:"commandsByRepository"`
}

// RunProfileFile implements ports.RunProfileStore on a JSON file.
// Every mutation is a whole-file read-modify-write without a lock, so
// concurrent writers can lose updates.
type RunProfileFile struct {
	path string
}

var _ ports.RunProfileStore = (*RunProfileFile)(nil)

// NewRunProfileFile creates a store backed by path
func NewRunProfileFile(path string) *RunProfileFile {
	return &RunProfileFile{path: path}
}

// Command returns the trimmed override for repoURL, or "" when none is saved
func (f *RunProfileFile) Command(repoURL string) (string, error) {
	profiles, err := f.load()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(profiles.CommandsByRepository[repoURL]), nil
}

// SetCommand saves the override for repoURL. A blank command clears it.
func (f *RunProfileFile) SetCommand(repoURL, command string) error {
	profiles, err := f.load()
	if err != nil {
		return err
	}

	command = strings.TrimSpace(command)
	if command == "" {
		delete(profiles.CommandsByRepository, repoURL)
	} else {
		profiles.CommandsByRepository[repoURL] = command
	}

	data, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run profiles: %w", err)
	}
	return writeFile(f.path, data)
}

func (f *RunProfileFile) load() (*runProfilesRecord, error) {
	profiles := &runProfilesRecord{}

	data, err := os.ReadFile(f.path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read run profiles: %w", err)
	}
	if err == nil {
		if err := json.Unmarshal(data, profiles); err != nil {
			return nil, fmt.Errorf("invalid run profiles %s: %w", f.path, err)
		}
	}

	if profiles.CommandsByRepository == nil {
		profiles.CommandsByRepository = make(map[string]string)
	}
	return profiles, nil
}

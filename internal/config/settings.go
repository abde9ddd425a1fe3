package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	DefaultContainerEngine     = "docker"
	DefaultGenericImage        = "alpine:3.20"
	DefaultMaxLogFiles         = 1000
	DefaultNodeImage           = "node:20-alpine"
	DefaultPythonImage         = "python:3.12-alpine"
	DefaultSetupMaxAttempts    = 3
	DefaultSetupTimeoutSeconds = 20
	DefaultWorkspaceRoot       = "/workspace"
)

// ImageSettings overrides the base images picked for new sessions
type ImageSettings struct {
	Generic string `json:"generic,omitempty"`
	Node    string `json:"node,omitempty"`
	Python  string `json:"python,omitempty"`
}

// Settings represents the structure of $SHELLBOX_HOME/settings.json
type Settings struct {
	ContainerEngine     string         `json:"container_engine,omitempty"`
	Debug               *bool          `json:"debug,omitempty"`
	Images              *ImageSettings `json:"images,omitempty"`
	MaxLogFiles         *int           `json:"max_log_files,omitempty"`
	SetupMaxAttempts    *int           `json:"setup_max_attempts,omitempty"`
	SetupTimeoutSeconds *int           `json:"setup_timeout_seconds,omitempty"`
	TelemetryEnabled    *bool          `json:"telemetry_enabled,omitempty"`
	WorkspaceRoot       string         `json:"workspace_root,omitempty"`
}

// LoadSettings loads settings from $SHELLBOX_HOME/settings.json.
// Returns empty Settings if file doesn't exist (not an error)
func LoadSettings() (*Settings, error) {
	return LoadSettingsFrom(GetSettingsPath())
}

// LoadSettingsFrom loads settings from path
func LoadSettingsFrom(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("invalid settings.json: %w", err)
	}

	if root := strings.TrimSpace(settings.WorkspaceRoot); root != "" {
		settings.WorkspaceRoot = strings.TrimRight(root, "/")
		if settings.WorkspaceRoot == "" {
			return nil, fmt.Errorf("invalid settings.json: workspace_root cannot be /")
		}
	}

	return &settings, nil
}

// SaveSettings saves settings to $SHELLBOX_HOME/settings.json
func SaveSettings(settings *Settings) error {
	path := GetSettingsPath()
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}

// Engine returns the configured container engine binary
func (s *Settings) Engine() string {
	if s.ContainerEngine != "" {
		return s.ContainerEngine
	}
	return DefaultContainerEngine
}

// Root returns the in-container workspace root
func (s *Settings) Root() string {
	if s.WorkspaceRoot != "" {
		return s.WorkspaceRoot
	}
	return DefaultWorkspaceRoot
}

// TelemetryOn reports whether run telemetry is recorded
func (s *Settings) TelemetryOn() bool {
	return s.TelemetryEnabled != nil && *s.TelemetryEnabled
}

// SetupTimeout returns the per-attempt environment setup timeout
func (s *Settings) SetupTimeout() time.Duration {
	if s.SetupTimeoutSeconds != nil && *s.SetupTimeoutSeconds > 0 {
		return time.Duration(*s.SetupTimeoutSeconds) * time.Second
	}
	return DefaultSetupTimeoutSeconds * time.Second
}

// SetupAttempts returns the environment setup retry bound
func (s *Settings) SetupAttempts() int {
	if s.SetupMaxAttempts != nil && *s.SetupMaxAttempts > 0 {
		return *s.SetupMaxAttempts
	}
	return DefaultSetupMaxAttempts
}

// LogFiles returns the log rotation limit
func (s *Settings) LogFiles() int {
	if s.MaxLogFiles != nil {
		return *s.MaxLogFiles
	}
	return DefaultMaxLogFiles
}

// NodeImage returns the base image for Node repositories
func (s *Settings) NodeImage() string {
	if s.Images != nil && s.Images.Node != "" {
		return s.Images.Node
	}
	return DefaultNodeImage
}

// PythonImage returns the base image for Python repositories
func (s *Settings) PythonImage() string {
	if s.Images != nil && s.Images.Python != "" {
		return s.Images.Python
	}
	return DefaultPythonImage
}

// GenericImage returns the base image used when no language hint matches
func (s *Settings) GenericImage() string {
	if s.Images != nil && s.Images.Generic != "" {
		return s.Images.Generic
	}
	return DefaultGenericImage
}

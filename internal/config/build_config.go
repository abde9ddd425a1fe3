package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/renato0307/shellbox/internal/domain"
	"github.com/renato0307/shellbox/internal/ports"
)

// jdkRecord is the on-disk form of domain.JDKImage
type jdkRecord struct {
	Image    string `json:"image"`
	IsCustom bool   `json:"isCustom"`
	Name     string `json:"name"`
	Version  string `json:"version"`
}

// buildConfigRecord is the on-disk form of domain.BuildConfiguration
type buildConfigRecord struct {
	BuildTool   string    `json:"buildTool"`
	CustomArgs  []string  `json:"customArgs"`
	SelectedJDK jdkRecord `json:"selectedJDK"`
}

// BuildConfigFile implements ports.BuildConfigStore on a JSON file
type BuildConfigFile struct {
	path string
}

var _ ports.BuildConfigStore = (*BuildConfigFile)(nil)

// NewBuildConfigFile creates a store backed by path
func NewBuildConfigFile(path string) *BuildConfigFile {
	return &BuildConfigFile{path: path}
}

// Load returns the saved configuration. A missing file yields the default;
// a present but undecodable file is an error.
func (f *BuildConfigFile) Load() (domain.BuildConfiguration, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.DefaultBuildConfiguration(), nil
		}
		return domain.BuildConfiguration{}, fmt.Errorf("failed to read build configuration: %w", err)
	}

	var record buildConfigRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return domain.BuildConfiguration{}, fmt.Errorf("invalid build configuration %s: %w", f.path, err)
	}

	tool := domain.BuildTool(record.BuildTool)
	if !tool.Valid() {
		return domain.BuildConfiguration{}, fmt.Errorf("invalid build configuration %s: unknown build tool %q", f.path, record.BuildTool)
	}

	return domain.BuildConfiguration{
		BuildTool:  tool,
		CustomArgs: record.CustomArgs,
		SelectedJDK: domain.JDKImage{
			Image:    record.SelectedJDK.Image,
			IsCustom: record.SelectedJDK.IsCustom,
			Name:     record.SelectedJDK.Name,
			Version:  record.SelectedJDK.Version,
		},
	}, nil
}

// Save writes cfg, replacing the previous file
func (f *BuildConfigFile) Save(cfg domain.BuildConfiguration) error {
	if !cfg.BuildTool.Valid() {
		return fmt.Errorf("unknown build tool %q", cfg.BuildTool)
	}

	record := buildConfigRecord{
		BuildTool:  string(cfg.BuildTool),
		CustomArgs: cfg.CustomArgs,
		SelectedJDK: jdkRecord{
			Image:    cfg.SelectedJDK.Image,
			IsCustom: cfg.SelectedJDK.IsCustom,
			Name:     cfg.SelectedJDK.Name,
			Version:  cfg.SelectedJDK.Version,
		},
	}
	if record.CustomArgs == nil {
		record.CustomArgs = []string{}
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal build configuration: %w", err)
	}
	return writeFile(f.path, data)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

package ports

import "github.com/renato0307/shellbox/internal/domain"

// RunProfileStore keeps per-repository run command overrides
type RunProfileStore interface {
	Command(repoURL string) (string, error)
	SetCommand(repoURL, command string) error
}

// BuildConfigStore loads and saves the build configuration
type BuildConfigStore interface {
	Load() (domain.BuildConfiguration, error)
	Save(cfg domain.BuildConfiguration) error
}

package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/renato0307/shellbox/internal/adapters/credentials"
	"github.com/renato0307/shellbox/internal/adapters/docker"
	"github.com/renato0307/shellbox/internal/adapters/editor"
	"github.com/renato0307/shellbox/internal/adapters/github"
	"github.com/renato0307/shellbox/internal/adapters/process"
	"github.com/renato0307/shellbox/internal/adapters/sound"
	"github.com/renato0307/shellbox/internal/adapters/storage"
	"github.com/renato0307/shellbox/internal/config"
	"github.com/renato0307/shellbox/internal/domain"
	"github.com/renato0307/shellbox/internal/logging"
	"github.com/renato0307/shellbox/internal/ports"
	"github.com/renato0307/shellbox/internal/services"
)

// Credential coordinates of the GitHub token
const (
	credentialAccount = "default"
	credentialService = "github"
)

// Pause between environment setup attempts
const setupBackoff = 2 * time.Second

// Container holds all dependencies for the application
type Container struct {
	// Adapters
	BuildConfig       *config.BuildConfigFile
	Credentials       ports.CredentialStore
	Editor            *editor.Opener
	Profiles          *config.RunProfileFile
	Runtime           *docker.Runtime
	SessionRepository *storage.SessionStore
	Sound             *sound.Player

	// Services
	DetectionService *services.DetectionService
	ExecutionService *services.ExecutionService
	GitService       *services.GitService
	LogExportService *services.LogExportService
	SessionService   *services.SessionService
	TelemetryService *services.TelemetryService

	LogStore *logging.Store
	Settings *config.Settings

	// Internal - for cleanup only
	telemetryRepo *storage.TelemetryRepository
}

// NewContainer creates a new Container with all dependencies wired
func NewContainer(settings *config.Settings, logStore *logging.Store) (*Container, error) {
	sessionRepo, err := storage.NewSessionStore(config.GetSessionsPath())
	if err != nil {
		return nil, err
	}

	// The telemetry database is only created once the user opts in
	var telemetryRepo *storage.TelemetryRepository
	var telemetryPort ports.TelemetryRepository
	if settings.TelemetryOn() {
		telemetryRepo, err = storage.NewTelemetryRepository(config.GetTelemetryDBPath())
		if err != nil {
			return nil, err
		}
		telemetryPort = telemetryRepo
	}

	root := settings.Root()
	runtime := docker.NewRuntime(settings.Engine(), process.NewRunner(), root)
	buildConfig := config.NewBuildConfigFile(config.GetBuildConfigPath())
	profiles := config.NewRunProfileFile(config.GetRunProfilesPath())

	images := services.ImageCatalog{
		Generic: settings.GenericImage(),
		Node:    settings.NodeImage(),
		Python:  settings.PythonImage(),
	}
	policy := services.SetupPolicy{
		MaxAttempts: settings.SetupAttempts(),
		Timeout:     settings.SetupTimeout(),
		Backoff:     setupBackoff,
	}

	gitService := services.NewGitService(runtime, root)
	telemetryService := services.NewTelemetryService(telemetryPort, settings.TelemetryOn())
	detectionService := services.NewDetectionService(runtime, profiles, buildConfig, root)
	executionService := services.NewExecutionService(runtime, detectionService, telemetryService, logStore, policy, root)
	sessionService := services.NewSessionService(sessionRepo, runtime, gitService, buildConfig, images, logStore)
	logExportService := services.NewLogExportService(logStore, runtime, sessionRepo, telemetryService)

	return &Container{
		BuildConfig:       buildConfig,
		Credentials:       credentials.NewFileStore(config.GetCredentialsPath()),
		DetectionService:  detectionService,
		Editor:            editor.NewOpener(),
		ExecutionService:  executionService,
		GitService:        gitService,
		LogExportService:  logExportService,
		LogStore:          logStore,
		Profiles:          profiles,
		Runtime:           runtime,
		SessionRepository: sessionRepo,
		SessionService:    sessionService,
		Settings:          settings,
		Sound:             sound.NewPlayer(),
		TelemetryService:  telemetryService,
		telemetryRepo:     telemetryRepo,
	}, nil
}

// Workspace returns the file service bound to a session's container
func (c *Container) Workspace(session *domain.Session) *services.WorkspaceService {
	return services.NewWorkspaceService(c.Runtime, session.ContainerName, c.Settings.Root())
}

// SourceControl returns the git panel service bound to a session's container
func (c *Container) SourceControl(session *domain.Session) *services.SourceControlService {
	return services.NewSourceControlService(c.GitService, c.LogStore, session.ContainerName)
}

// Token returns the stored GitHub token, falling back to $GITHUB_TOKEN.
// An empty token with a nil error means none is configured.
func (c *Container) Token() (string, error) {
	token, err := c.Credentials.Read(credentialService, credentialAccount)
	if err == nil {
		return token, nil
	}
	if !errors.Is(err, domain.ErrCredentialNotFound) {
		return "", err
	}
	return os.Getenv("GITHUB_TOKEN"), nil
}

// GitHub returns a client authenticated with the configured token
func (c *Container) GitHub() (ports.RepositoryLister, error) {
	token, err := c.Token()
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, fmt.Errorf("not logged in: run 'shellbox auth login --token <token>' or set GITHUB_TOKEN")
	}
	return github.New(token), nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	if c.telemetryRepo != nil {
		return c.telemetryRepo.Close()
	}
	return nil
}

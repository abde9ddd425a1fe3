package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/renato0307/shellbox/internal/domain"
	"github.com/renato0307/shellbox/internal/logging"
	"github.com/renato0307/shellbox/internal/ports"
)

// ContainerPrefix starts the name of every session container
const ContainerPrefix = "shellbox-"

const pruneConcurrency = 4

const installGitScript = `command -v git >/dev/null 2>&1 && exit 0
if command -v apk >/dev/null 2>&1; then apk add --no-cache git
elif command -v apt-get >/dev/null 2>&1; then apt-get update && apt-get install -y --no-install-recommends git ca-certificates
elif command -v microdnf >/dev/null 2>&1; then microdnf install -y git
elif command -v yum >/dev/null 2>&1; then yum install -y git
else echo "no supported package manager" >&2; exit 1
fi`

var (
	javaHints   = []string{"java", "spring", "maven", "gradle"}
	nodeHints   = []string{"node", "react", "vue", "angular"}
	pythonHints = []string{"python", "django", "flask"}
)

// SessionService provisions session containers and keeps the session store in sync with them
type SessionService struct {
	buildConfig ports.BuildConfigStore
	git         *GitService
	images      ImageCatalog
	logStore    *logging.Store
	runtime     ports.ContainerRuntime
	sessions    ports.SessionRepository
}

// NewSessionService creates a new SessionService
func NewSessionService(
	sessions ports.SessionRepository,
	runtime ports.ContainerRuntime,
	git *GitService,
	buildConfig ports.BuildConfigStore,
	images ImageCatalog,
	logStore *logging.Store,
) *SessionService {
	return &SessionService{
		buildConfig: buildConfig,
		git:         git,
		images:      images,
		logStore:    logStore,
		runtime:     runtime,
		sessions:    sessions,
	}
}

// CreateSession allocates a container name, starts a container from the image matching
// the repository, installs git when possible, clones the repository and persists the session.
func (s *SessionService) CreateSession(ctx context.Context, params CreateSessionParams) (*CreateSessionResult, error) {
	if strings.TrimSpace(params.RepoURL) == "" {
		return nil, fmt.Errorf("repository URL is required")
	}

	id := uuid.NewString()
	containerName := ContainerPrefix + strings.ReplaceAll(id, "-", "")[:8]

	image, err := s.SelectImage(domain.RepoName(params.RepoURL))
	if err != nil {
		return nil, err
	}

	logging.Logger.Info("Creating session",
		"id", id,
		"container", containerName,
		"image", image,
		"repo", params.RepoURL)

	if _, err := s.runtime.RunContainer(ctx, image, containerName); err != nil {
		s.record("session", "failed to start container "+containerName, err)
		return nil, fmt.Errorf("failed to start container: %w", err)
	}

	gitInstalled := s.installGit(ctx, containerName)

	if err := s.git.Clone(ctx, params.RepoURL, params.Token, containerName); err != nil {
		s.record("session", "failed to clone "+params.RepoURL, err)
		s.discardContainer(containerName)
		return nil, fmt.Errorf("failed to clone repository: %w", err)
	}

	now := time.Now().UTC()
	session := domain.Session{
		ContainerName: containerName,
		CreatedAt:     now,
		ID:            id,
		LastActiveAt:  now,
		RepoURL:       params.RepoURL,
	}
	if err := s.sessions.Add(ctx, session); err != nil {
		s.record("session", "failed to save session "+id, err)
		s.discardContainer(containerName)
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	logging.Logger.Info("Session created", "id", id, "container", containerName)
	return &CreateSessionResult{
		GitInstalled: gitInstalled,
		Image:        image,
		Session:      &session,
	}, nil
}

// SelectImage picks the base image from language hints in the repository name
func (s *SessionService) SelectImage(repoName string) (string, error) {
	name := strings.ToLower(repoName)
	switch {
	case containsAny(name, javaHints):
		cfg, err := s.buildConfig.Load()
		if err != nil {
			return "", err
		}
		return cfg.SelectedJDK.Image, nil
	case containsAny(name, nodeHints):
		return s.images.Node, nil
	case containsAny(name, pythonHints):
		return s.images.Python, nil
	default:
		return s.images.Generic, nil
	}
}

// installGit installs git with the image's package manager. Failure is logged and ignored;
// a missing git surfaces when the clone runs.
func (s *SessionService) installGit(ctx context.Context, containerName string) bool {
	output, err := s.runtime.ExecuteShell(ctx, containerName, installGitScript)
	if err != nil {
		logging.Logger.Warn("Git installation failed, continuing with clone",
			"category", "session",
			"container", containerName,
			"error", err,
			"output", output)
		return false
	}
	return true
}

// discardContainer removes a container left behind by a failed creation
func (s *SessionService) discardContainer(containerName string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.runtime.RemoveContainer(ctx, containerName); err != nil {
		logging.Logger.Warn("Failed to remove container of failed session", "container", containerName, "error", err)
	}
}

// ListSessions returns every persisted session
func (s *SessionService) ListSessions(ctx context.Context) ([]domain.Session, error) {
	return s.sessions.List(ctx)
}

// GetSession returns a session by ID or container name
func (s *SessionService) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	return s.sessions.Get(ctx, id)
}

// StartSession starts the stopped container of a session
func (s *SessionService) StartSession(ctx context.Context, id string) (*domain.Session, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.runtime.StartContainer(ctx, session.ContainerName); err != nil {
		s.record("session", "failed to start container "+session.ContainerName, err)
		return nil, err
	}
	s.touch(ctx, session.ID)
	return session, nil
}

// StopSession stops the container of a session, keeping it for a later start
func (s *SessionService) StopSession(ctx context.Context, id string) error {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.runtime.StopContainer(ctx, session.ContainerName); err != nil {
		s.record("session", "failed to stop container "+session.ContainerName, err)
		return err
	}
	s.touch(ctx, session.ID)
	return nil
}

// DeleteSession removes the container and then the session record.
// A container error keeps the record unless force is set; a store error
// is returned after the container is already gone and can be retried.
func (s *SessionService) DeleteSession(ctx context.Context, id string, force bool) error {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.removeContainer(ctx, session.ContainerName); err != nil {
		s.record("session", "failed to remove container "+session.ContainerName, err)
		if !force {
			return fmt.Errorf("failed to remove container %s: %w", session.ContainerName, err)
		}
		logging.Logger.Info("Forcing session removal despite container error", "id", session.ID)
	}

	if err := s.sessions.Delete(ctx, session.ID); err != nil {
		s.record("session", "failed to delete session record "+session.ID, err)
		return fmt.Errorf("container removed but session record kept: %w", err)
	}

	logging.Logger.Info("Session deleted", "id", session.ID, "container", session.ContainerName)
	return nil
}

// removeContainer removes name unless it is already gone
func (s *SessionService) removeContainer(ctx context.Context, name string) error {
	exists, err := s.runtime.ContainerExists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		logging.Logger.Debug("Container already gone", "container", name)
		return nil
	}
	return s.runtime.RemoveContainer(ctx, name)
}

// TouchSession marks a session as used now
func (s *SessionService) TouchSession(ctx context.Context, id string) error {
	return s.sessions.Touch(ctx, id)
}

func (s *SessionService) touch(ctx context.Context, id string) {
	if err := s.sessions.Touch(ctx, id); err != nil {
		logging.Logger.Debug("Failed to update last active time", "id", id, "error", err)
	}
}

// PruneSessions checks every session's container concurrently and removes the records
// whose container no longer exists. It returns the removed session IDs.
func (s *SessionService) PruneSessions(ctx context.Context) ([]string, error) {
	sessions, err := s.sessions.List(ctx)
	if err != nil {
		return nil, err
	}

	var (
		mu    sync.Mutex
		stale []domain.Session
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(pruneConcurrency)
	for _, session := range sessions {
		g.Go(func() error {
			exists, err := s.runtime.ContainerExists(gctx, session.ContainerName)
			if err != nil {
				return fmt.Errorf("checking container %s: %w", session.ContainerName, err)
			}
			if !exists {
				mu.Lock()
				stale = append(stale, session)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.record("session", "session health check failed", err)
		return nil, err
	}

	removed := make([]string, 0, len(stale))
	for _, session := range stale {
		if err := s.sessions.Delete(ctx, session.ID); err != nil {
			return removed, err
		}
		logging.Logger.Info("Pruned session without container", "id", session.ID, "container", session.ContainerName)
		removed = append(removed, session.ID)
	}
	return removed, nil
}

func (s *SessionService) record(category, message string, err error) {
	if s.logStore != nil {
		s.logStore.Record(category, message+": "+err.Error(), domain.ErrorDetail(err))
	}
}

package services

import (
	"context"
	"errors"
	"strings"

	"github.com/renato0307/shellbox/internal/domain"
	"github.com/renato0307/shellbox/internal/logging"
)

// SourceControlService drives git for one session and turns failures into guidance.
// Every failure is retained in the app log store, whether or not a caller shows it.
type SourceControlService struct {
	container string
	git       *GitService
	store     *logging.Store
}

// NewSourceControlService creates a SourceControlService for container
func NewSourceControlService(git *GitService, store *logging.Store, container string) *SourceControlService {
	return &SourceControlService{
		container: container,
		git:       git,
		store:     store,
	}
}

// Status returns the current working tree status
func (s *SourceControlService) Status(ctx context.Context) (*domain.GitStatus, error) {
	status, err := s.git.Status(ctx, s.container)
	if err != nil {
		return nil, s.fail("status", err)
	}
	return status, nil
}

// Stage stages files
func (s *SourceControlService) Stage(ctx context.Context, files []string) error {
	if err := s.git.Add(ctx, s.container, files); err != nil {
		return s.fail("add", err)
	}
	return nil
}

// StageAll stages every change
func (s *SourceControlService) StageAll(ctx context.Context) error {
	if err := s.git.AddAll(ctx, s.container); err != nil {
		return s.fail("add", err)
	}
	return nil
}

// Unstage removes files from the index
func (s *SourceControlService) Unstage(ctx context.Context, files []string) error {
	if err := s.git.Unstage(ctx, s.container, files); err != nil {
		return s.fail("unstage", err)
	}
	return nil
}

// Commit commits staged changes
func (s *SourceControlService) Commit(ctx context.Context, message string) (string, error) {
	output, err := s.git.Commit(ctx, s.container, message)
	if err != nil {
		return "", s.fail("commit", err)
	}
	return output, nil
}

// Push pushes the current branch
func (s *SourceControlService) Push(ctx context.Context) (string, error) {
	output, err := s.git.Push(ctx, s.container)
	if err != nil {
		return "", s.fail("push", err)
	}
	return output, nil
}

// Pull pulls the current branch
func (s *SourceControlService) Pull(ctx context.Context) (string, error) {
	output, err := s.git.Pull(ctx, s.container)
	if err != nil {
		return "", s.fail("pull", err)
	}
	return output, nil
}

// fail classifies err and records it. Input validation errors pass through untouched.
func (s *SourceControlService) fail(operation string, err error) error {
	if errors.Is(err, domain.ErrEmptyCommitMessage) || errors.Is(err, domain.ErrNoFilesSelected) {
		return err
	}

	classified := ClassifyGitError(operation, err)
	if s.store != nil {
		s.store.Record("git", "git "+operation+" failed: "+classified.Guidance, strings.TrimSpace(domain.ErrorDetail(err)))
	}
	logging.Logger.Debug("Git operation failed", "operation", operation, "container", s.container, "error", err)
	return classified
}

package services

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/renato0307/shellbox/internal/domain"
	"github.com/renato0307/shellbox/internal/logging"
	"github.com/renato0307/shellbox/internal/ports"
)

// DefaultWorkspaceRoot is the in-container directory repositories are cloned into
const DefaultWorkspaceRoot = "/workspace"

// WorkspaceService confines file operations on one session container to the workspace root
type WorkspaceService struct {
	container string
	files     ports.ContainerFiles
	root      string
}

// NewWorkspaceService creates a WorkspaceService for container
func NewWorkspaceService(files ports.ContainerFiles, container, root string) *WorkspaceService {
	if root == "" {
		root = DefaultWorkspaceRoot
	}
	return &WorkspaceService{
		container: container,
		files:     files,
		root:      path.Clean(root),
	}
}

// Root returns the workspace root
func (s *WorkspaceService) Root() string {
	return s.root
}

// Resolve maps candidate to an absolute path inside the workspace.
// Absolute candidates are normalized as-is, relative ones are joined to the root first.
// The result must equal the root or live under it.
func (s *WorkspaceService) Resolve(candidate string) (string, error) {
	if strings.TrimSpace(candidate) == "" {
		return "", fmt.Errorf("%w: empty path", domain.ErrPathEscapesWorkspace)
	}

	var resolved string
	if path.IsAbs(candidate) {
		resolved = path.Clean(candidate)
	} else {
		resolved = path.Clean(s.root + "/" + candidate)
	}

	if resolved != s.root && !strings.HasPrefix(resolved, s.root+"/") {
		logging.Logger.Warn("Rejected path outside workspace", "path", candidate, "resolved", resolved)
		return "", fmt.Errorf("%w: %s", domain.ErrPathEscapesWorkspace, candidate)
	}
	return resolved, nil
}

// ListDirectory lists dir, or the root when dir is empty
func (s *WorkspaceService) ListDirectory(ctx context.Context, dir string) ([]domain.FileItem, error) {
	if dir == "" {
		dir = s.root
	}
	resolved, err := s.Resolve(dir)
	if err != nil {
		return nil, err
	}

	output, err := s.files.ListFiles(ctx, s.container, resolved)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", resolved, err)
	}
	return ParseDirectoryListing(output, resolved), nil
}

// ReadFile returns the content of p
func (s *WorkspaceService) ReadFile(ctx context.Context, p string) (string, error) {
	resolved, err := s.Resolve(p)
	if err != nil {
		return "", err
	}
	return s.files.ReadFile(ctx, s.container, resolved)
}

// WriteFile replaces the content of p
func (s *WorkspaceService) WriteFile(ctx context.Context, p, content string) error {
	resolved, err := s.Resolve(p)
	if err != nil {
		return err
	}
	return s.files.WriteFile(ctx, s.container, resolved, content)
}

// CreateDirectory creates p and any missing parents
func (s *WorkspaceService) CreateDirectory(ctx context.Context, p string) error {
	resolved, err := s.Resolve(p)
	if err != nil {
		return err
	}
	return s.files.EnsureDirectory(ctx, s.container, resolved)
}

// CreateFile creates p with initialContent, creating missing parent directories
func (s *WorkspaceService) CreateFile(ctx context.Context, p, initialContent string) error {
	resolved, err := s.Resolve(p)
	if err != nil {
		return err
	}
	if resolved == s.root {
		return fmt.Errorf("cannot create file at workspace root")
	}

	if parent := path.Dir(resolved); parent != s.root {
		if err := s.files.EnsureDirectory(ctx, s.container, parent); err != nil {
			return err
		}
	}
	return s.files.WriteFile(ctx, s.container, resolved, initialContent)
}

// RenameItem moves from to to; both ends must be inside the workspace
func (s *WorkspaceService) RenameItem(ctx context.Context, from, to string) error {
	src, err := s.Resolve(from)
	if err != nil {
		return err
	}
	dst, err := s.Resolve(to)
	if err != nil {
		return err
	}
	if src == s.root {
		return fmt.Errorf("cannot rename workspace root")
	}
	return s.files.Rename(ctx, s.container, src, dst)
}

// DeleteItem removes p; directories need recursive
func (s *WorkspaceService) DeleteItem(ctx context.Context, p string, recursive bool) error {
	resolved, err := s.Resolve(p)
	if err != nil {
		return err
	}
	if resolved == s.root {
		return fmt.Errorf("cannot delete workspace root")
	}
	return s.files.Remove(ctx, s.container, resolved, recursive)
}

// ParseDirectoryListing converts `ls -la` output for dir into sorted FileItems
func ParseDirectoryListing(output, dir string) []domain.FileItem {
	var items []domain.FileItem
	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "total") {
			continue
		}

		fields := strings.Fields(trimmed)
		if len(fields) < 9 {
			continue
		}

		name := strings.Join(fields[8:], " ")
		if name == "." || name == ".." {
			continue
		}

		items = append(items, domain.FileItem{
			ID:          uuid.NewString(),
			IsDirectory: strings.HasPrefix(fields[0], "d"),
			Name:        name,
			Path:        path.Join(dir, name),
		})
	}

	domain.SortFileItems(items)
	return items
}

package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/renato0307/shellbox/internal/domain"
	"github.com/renato0307/shellbox/internal/logging"
	"github.com/renato0307/shellbox/internal/ports"
	"github.com/renato0307/shellbox/internal/shellquote"
)

const (
	fieldSep         = "\x1f"
	logFormat        = "%H%x1f%h%x1f%s%x1f%an%x1f%ar"
	stashFormat      = "%gd%x1f%s%x1f%H"
	defaultLogLength = 50
)

var (
	revisionRe = regexp.MustCompile(`^[0-9A-Za-z._/@{}^~-]+$`)
	stashRefRe = regexp.MustCompile(`^stash@\{(\d+)\}$`)
)

// GitService builds git command lines, runs them inside a session container
// and parses their output. It holds no per-repository state.
type GitService struct {
	executor ports.ContainerExecutor
	root     string
}

// NewGitService creates a GitService operating on the repository cloned at root
func NewGitService(executor ports.ContainerExecutor, root string) *GitService {
	if root == "" {
		root = DefaultWorkspaceRoot
	}
	return &GitService{
		executor: executor,
		root:     root,
	}
}

// run executes `git <args>` inside the workspace. args must already be shell-safe.
func (s *GitService) run(ctx context.Context, container string, args string) (string, error) {
	script := "cd " + shellquote.Quote(s.root) + " && git " + args
	logging.Logger.Debug("Running git", "container", container, "args", args)
	return s.executor.ExecuteShell(ctx, container, script)
}

// Clone clones repoURL into the workspace root using token for authentication
func (s *GitService) Clone(ctx context.Context, repoURL, token, container string) error {
	cloneURL, err := AuthenticatedCloneURL(repoURL, token)
	if err != nil {
		return err
	}

	root := shellquote.Quote(s.root)
	script := "mkdir -p " + root + " && cd " + root + " && git clone " + shellquote.Quote(cloneURL) + " ."

	logging.Logger.Info("Cloning repository", "container", container, "repo", repoURL)
	if _, err := s.executor.ExecuteShell(ctx, container, script); err != nil {
		return redactError(err, token)
	}
	return nil
}

// AuthenticatedCloneURL injects x-access-token:token as userinfo into an http(s) URL.
// scp-like SSH addresses (git@host:owner/repo) are returned unchanged.
func AuthenticatedCloneURL(repoURL, token string) (string, error) {
	if token == "" || !strings.Contains(repoURL, "://") {
		return repoURL, nil
	}
	u, err := url.Parse(repoURL)
	if err != nil {
		return "", fmt.Errorf("invalid repository URL: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return repoURL, nil
	}
	u.User = url.UserPassword("x-access-token", token)
	return u.String(), nil
}

// redactError strips the token from command errors so it never reaches logs
func redactError(err error, token string) error {
	if token == "" {
		return err
	}
	var cmdErr *domain.CommandError
	if errors.As(err, &cmdErr) {
		return &domain.CommandError{
			Command:  strings.ReplaceAll(cmdErr.Command, token, "***"),
			Detail:   strings.ReplaceAll(cmdErr.Detail, token, "***"),
			ExitCode: cmdErr.ExitCode,
			Message:  strings.ReplaceAll(cmdErr.Message, token, "***"),
		}
	}
	return errors.New(strings.ReplaceAll(err.Error(), token, "***"))
}

// Status returns the parsed working tree status
func (s *GitService) Status(ctx context.Context, container string) (*domain.GitStatus, error) {
	output, err := s.run(ctx, container, "status --porcelain=v1 --branch")
	if err != nil {
		return nil, err
	}
	return ParseStatus(output), nil
}

// Add stages files
func (s *GitService) Add(ctx context.Context, container string, files []string) error {
	if len(files) == 0 {
		return domain.ErrNoFilesSelected
	}
	_, err := s.run(ctx, container, "add -- "+shellquote.Join(files))
	return err
}

// AddAll stages every change including untracked files
func (s *GitService) AddAll(ctx context.Context, container string) error {
	_, err := s.run(ctx, container, "add -A")
	return err
}

// Unstage removes files from the index, keeping working tree changes
func (s *GitService) Unstage(ctx context.Context, container string, files []string) error {
	if len(files) == 0 {
		return domain.ErrNoFilesSelected
	}
	_, err := s.run(ctx, container, "restore --staged -- "+shellquote.Join(files))
	return err
}

// DiscardChanges reverts working tree changes of tracked files
func (s *GitService) DiscardChanges(ctx context.Context, container string, files []string) error {
	if len(files) == 0 {
		return domain.ErrNoFilesSelected
	}
	_, err := s.run(ctx, container, "restore -- "+shellquote.Join(files))
	return err
}

// Commit records staged changes with message
func (s *GitService) Commit(ctx context.Context, container, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", domain.ErrEmptyCommitMessage
	}
	return s.run(ctx, container, "commit -m "+shellquote.Quote(message))
}

// Push pushes the current branch, setting the upstream on first push
func (s *GitService) Push(ctx context.Context, container string) (string, error) {
	output, err := s.run(ctx, container, "push")
	if err != nil && strings.Contains(strings.ToLower(domain.ErrorDetail(err)), "has no upstream branch") {
		logging.Logger.Info("No upstream branch, pushing with --set-upstream", "container", container)
		return s.run(ctx, container, "push --set-upstream origin HEAD")
	}
	return output, err
}

// Pull pulls the current branch
func (s *GitService) Pull(ctx context.Context, container string) (string, error) {
	return s.run(ctx, container, "pull")
}

// Diff returns the working tree diff of file, or of everything when file is empty
func (s *GitService) Diff(ctx context.Context, container, file string) (string, error) {
	return s.diff(ctx, container, file, false)
}

// DiffStaged returns the index diff of file, or of everything when file is empty
func (s *GitService) DiffStaged(ctx context.Context, container, file string) (string, error) {
	return s.diff(ctx, container, file, true)
}

func (s *GitService) diff(ctx context.Context, container, file string, staged bool) (string, error) {
	args := "diff"
	if staged {
		args += " --staged"
	}
	if file != "" {
		args += " -- " + shellquote.Quote(file)
	}
	return s.run(ctx, container, args)
}

// Log returns up to maxCount commits of the current branch, newest first
func (s *GitService) Log(ctx context.Context, container string, maxCount int) ([]domain.GitCommit, error) {
	if maxCount <= 0 {
		maxCount = defaultLogLength
	}
	output, err := s.run(ctx, container, fmt.Sprintf("log -n %d --pretty=format:%s", maxCount, shellquote.Quote(logFormat)))
	if err != nil {
		if isEmptyRepository(err) {
			return []domain.GitCommit{}, nil
		}
		return nil, err
	}
	return ParseLog(output), nil
}

// Branches lists local branches
func (s *GitService) Branches(ctx context.Context, container string) ([]domain.GitBranch, error) {
	output, err := s.run(ctx, container, "branch --no-color")
	if err != nil {
		return nil, err
	}
	return ParseBranches(output), nil
}

// Checkout switches to an existing branch
func (s *GitService) Checkout(ctx context.Context, container, branch string) error {
	if err := ValidateBranchName(branch); err != nil {
		return err
	}
	_, err := s.run(ctx, container, "checkout "+shellquote.Quote(branch))
	return err
}

// CreateBranch creates branch from HEAD and switches to it
func (s *GitService) CreateBranch(ctx context.Context, container, branch string) error {
	if err := ValidateBranchName(branch); err != nil {
		return err
	}
	_, err := s.run(ctx, container, "checkout -b "+shellquote.Quote(branch))
	return err
}

// Show returns the patch and metadata of a commit
func (s *GitService) Show(ctx context.Context, container, revision string) (string, error) {
	if !revisionRe.MatchString(revision) || strings.HasPrefix(revision, "-") {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidRevision, revision)
	}
	return s.run(ctx, container, "show --stat --patch "+shellquote.Quote(revision))
}

// StashList returns the stash stack, top first
func (s *GitService) StashList(ctx context.Context, container string) ([]domain.GitStash, error) {
	output, err := s.run(ctx, container, "stash list --format="+shellquote.Quote(stashFormat))
	if err != nil {
		return nil, err
	}
	return ParseStashList(output), nil
}

// Stash saves working tree changes, including untracked files
func (s *GitService) Stash(ctx context.Context, container, message string) (string, error) {
	args := "stash push --include-untracked"
	if strings.TrimSpace(message) != "" {
		args += " -m " + shellquote.Quote(message)
	}
	return s.run(ctx, container, args)
}

// StashApply applies the stash at index, keeping it on the stack
func (s *GitService) StashApply(ctx context.Context, container string, index int) (string, error) {
	return s.stashCommand(ctx, container, "apply", index)
}

// StashPop applies and removes the stash at index
func (s *GitService) StashPop(ctx context.Context, container string, index int) (string, error) {
	return s.stashCommand(ctx, container, "pop", index)
}

// StashDrop removes the stash at index
func (s *GitService) StashDrop(ctx context.Context, container string, index int) (string, error) {
	return s.stashCommand(ctx, container, "drop", index)
}

func (s *GitService) stashCommand(ctx context.Context, container, verb string, index int) (string, error) {
	if index < 0 {
		return "", fmt.Errorf("%w: stash index %d", domain.ErrInvalidRevision, index)
	}
	return s.run(ctx, container, fmt.Sprintf("stash %s %s", verb, shellquote.Quote(fmt.Sprintf("stash@{%d}", index))))
}

// ValidateBranchName rejects names git would refuse or that could be read as options
func ValidateBranchName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: empty", domain.ErrInvalidBranchName)
	case strings.HasPrefix(name, "-"):
		return fmt.Errorf("%w: %q starts with '-'", domain.ErrInvalidBranchName, name)
	case strings.Contains(name, ".."):
		return fmt.Errorf("%w: %q contains '..'", domain.ErrInvalidBranchName, name)
	case strings.ContainsAny(name, " \t\n~^:?*[\\$`'\";&|<>(){}!"):
		return fmt.Errorf("%w: %q contains forbidden characters", domain.ErrInvalidBranchName, name)
	case strings.HasSuffix(name, ".lock") || strings.HasSuffix(name, "/") || strings.HasSuffix(name, "."):
		return fmt.Errorf("%w: %q has an invalid suffix", domain.ErrInvalidBranchName, name)
	}
	return nil
}

// ParseLog parses `git log` output in logFormat
func ParseLog(output string) []domain.GitCommit {
	commits := []domain.GitCommit{}
	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, fieldSep)
		if len(fields) < 5 {
			continue
		}
		commits = append(commits, domain.GitCommit{
			Author:       fields[3],
			Hash:         fields[0],
			Message:      fields[2],
			RelativeDate: fields[4],
			ShortHash:    fields[1],
		})
	}
	return commits
}

// ParseBranches parses `git branch` output, skipping detached HEAD entries
func ParseBranches(output string) []domain.GitBranch {
	branches := []domain.GitBranch{}
	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) == "" || len(line) < 3 {
			continue
		}
		name := strings.TrimSpace(line[2:])
		if strings.HasPrefix(name, "(") {
			continue
		}
		branches = append(branches, domain.GitBranch{
			IsCurrent: line[0] == '*',
			Name:      name,
		})
	}
	return branches
}

// ParseStashList parses `git stash list` output in stashFormat
func ParseStashList(output string) []domain.GitStash {
	stashes := []domain.GitStash{}
	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.SplitN(line, fieldSep, 3)
		if len(fields) < 3 {
			continue
		}
		m := stashRefRe.FindStringSubmatch(fields[0])
		if m == nil {
			continue
		}
		index, _ := strconv.Atoi(m[1])
		stashes = append(stashes, domain.GitStash{
			Hash:    fields[2],
			Index:   index,
			Message: fields[1],
		})
	}
	return stashes
}

func isEmptyRepository(err error) bool {
	detail := strings.ToLower(domain.ErrorDetail(err))
	return strings.Contains(detail, "does not have any commits yet") ||
		strings.Contains(detail, "bad default revision 'head'")
}

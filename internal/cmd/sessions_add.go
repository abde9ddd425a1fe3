package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/renato0307/shellbox/internal/adapters/github"
	"github.com/renato0307/shellbox/internal/logging"
	"github.com/renato0307/shellbox/internal/services"
	"github.com/renato0307/shellbox/internal/theme"
)

// SessionsAddCmd provisions a container and clones a repository into it
type SessionsAddCmd struct {
	Repository string `arg:"" help:"owner/name on GitHub or a clone URL"`
}

// Run executes the add command
func (s *SessionsAddCmd) Run(container *Container) error {
	ctx := context.Background()

	token, err := container.Token()
	if err != nil {
		return err
	}

	repoURL, err := s.cloneURL(ctx, container)
	if err != nil {
		return err
	}

	logging.Logger.Info("Executing sessions add command", "repo", repoURL)
	fmt.Printf("Creating session for %s...\n", repoURL)

	result, err := container.SessionService.CreateSession(ctx, services.CreateSessionParams{
		RepoURL: repoURL,
		Token:   token,
	})
	if err != nil {
		logging.Logger.Error("Failed to create session", "repo", repoURL, "error", err)
		return fmt.Errorf("failed to create session: %w", err)
	}

	if !result.GitInstalled {
		fmt.Println(theme.WarningStyle.Render("Could not install git in the image; the clone relied on a preinstalled git"))
	}
	fmt.Printf("Session %s created\n", theme.BranchStyle.Render(result.Session.ID))
	fmt.Printf("  container: %s\n", result.Session.ContainerName)
	fmt.Printf("  image:     %s\n", result.Image)
	return nil
}

// cloneURL resolves owner/name through the GitHub API; anything with a scheme or host is used as is
func (s *SessionsAddCmd) cloneURL(ctx context.Context, container *Container) (string, error) {
	repo := strings.TrimSpace(s.Repository)
	if strings.Contains(repo, "://") || strings.HasPrefix(repo, "git@") {
		return repo, nil
	}

	owner, name, err := github.SplitRepo(repo)
	if err != nil {
		return "", err
	}

	client, err := container.GitHub()
	if err != nil {
		// Public repositories can still be cloned without a token
		logging.Logger.Debug("No GitHub client, guessing clone URL", "error", err)
		return fmt.Sprintf("https://github.com/%s/%s.git", owner, name), nil
	}

	info, err := client.GetRepository(ctx, owner, name)
	if err != nil {
		return "", fmt.Errorf("failed to look up %s: %w", repo, err)
	}
	return info.CloneURL, nil
}

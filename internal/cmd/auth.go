package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/renato0307/shellbox/internal/adapters/github"
	"github.com/renato0307/shellbox/internal/logging"
)

// AuthCmd manages the GitHub access token
type AuthCmd struct {
	Login  AuthLoginCmd  `cmd:"login" help:"Store a GitHub access token"`
	Logout AuthLogoutCmd `cmd:"logout" help:"Forget the stored GitHub access token"`
}

// AuthLoginCmd stores a token
type AuthLoginCmd struct {
	SkipCheck bool   `help:"Store the token without calling GitHub"`
	Token     string `help:"GitHub access token (defaults to $GITHUB_TOKEN)" env:"GITHUB_TOKEN"`
}

// Run executes the login command
func (a *AuthLoginCmd) Run(container *Container) error {
	token := strings.TrimSpace(a.Token)
	if token == "" {
		return fmt.Errorf("a token is required: pass --token or set GITHUB_TOKEN")
	}

	if !a.SkipCheck {
		orgs, err := github.New(token).ListOrganizations(context.Background())
		if err != nil {
			logging.Logger.Error("Token check failed", "error", err)
			return fmt.Errorf("token rejected by GitHub: %w", err)
		}
		logging.Logger.Debug("Token accepted", "organizations", len(orgs))
	}

	if err := container.Credentials.Save(token, credentialService, credentialAccount); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	logging.Logger.Info("GitHub token stored")
	fmt.Println("Logged in to GitHub")
	return nil
}

// AuthLogoutCmd deletes the stored token
type AuthLogoutCmd struct{}

// Run executes the logout command
func (a *AuthLogoutCmd) Run(container *Container) error {
	if err := container.Credentials.Delete(credentialService, credentialAccount); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}

	logging.Logger.Info("GitHub token deleted")
	fmt.Println("Logged out")
	if os.Getenv("GITHUB_TOKEN") != "" {
		fmt.Println("Note: GITHUB_TOKEN is still set in the environment")
	}
	return nil
}

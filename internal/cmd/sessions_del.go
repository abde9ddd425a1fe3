package cmd

import (
	"context"
	"fmt"

	"github.com/renato0307/shellbox/internal/domain"
	"github.com/renato0307/shellbox/internal/logging"
)

// SessionsDelCmd deletes a session
type SessionsDelCmd struct {
	Force bool   `help:"Drop the session record even if the container cannot be removed" short:"f"`
	ID    string `arg:"" help:"Session ID or container name"`
	Yes   bool   `help:"Skip confirmation" short:"y"`
}

// Run executes the del command
func (s *SessionsDelCmd) Run(container *Container) error {
	logging.Logger.Info("Executing sessions del command", "session", s.ID, "force", s.Force)

	ctx := context.Background()
	session, err := container.SessionService.GetSession(ctx, s.ID)
	if err != nil {
		logging.Logger.Error("Session not found", "session", s.ID, "error", err)
		return fmt.Errorf("session not found: %w", err)
	}

	if !s.Yes && !s.confirmDeletion(session) {
		return nil
	}

	if err := container.SessionService.DeleteSession(ctx, session.ID, s.Force); err != nil {
		logging.Logger.Error("Failed to delete session", "session", session.ID, "error", err)
		if !s.Force {
			return fmt.Errorf("failed to delete session (retry with --force to drop the record): %w", err)
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}

	fmt.Printf("Session '%s' deleted successfully\n", session.ID)
	return nil
}

func (s *SessionsDelCmd) confirmDeletion(session *domain.Session) bool {
	fmt.Printf("WARNING: This will delete session '%s'\n", session.ID)
	fmt.Printf("  - Remove container '%s' and everything inside it\n", session.ContainerName)
	fmt.Print("\nContinue? (y/N): ")
	var response string
	fmt.Scanln(&response)
	if response != "y" && response != "Y" {
		logging.Logger.Info("User cancelled session deletion", "session", session.ID)
		fmt.Println("Cancelled")
		return false
	}
	return true
}

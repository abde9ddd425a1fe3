package cmd

import (
	"context"
	"fmt"

	"github.com/renato0307/shellbox/internal/theme"
)

// SessionsStartCmd restarts a stopped session
type SessionsStartCmd struct {
	ID string `arg:"" help:"Session ID or container name"`
}

// Run executes the start command
func (s *SessionsStartCmd) Run(container *Container) error {
	session, err := container.SessionService.StartSession(context.Background(), s.ID)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	fmt.Printf("Session '%s' %s\n", session.ID, theme.RunningStyle.Render("started"))
	return nil
}

// SessionsStopCmd stops a session's container
type SessionsStopCmd struct {
	ID string `arg:"" help:"Session ID or container name"`
}

// Run executes the stop command
func (s *SessionsStopCmd) Run(container *Container) error {
	if err := container.SessionService.StopSession(context.Background(), s.ID); err != nil {
		return fmt.Errorf("failed to stop session: %w", err)
	}
	fmt.Printf("Session '%s' %s\n", s.ID, theme.StoppedStyle.Render("stopped"))
	return nil
}

// SessionsPruneCmd drops records of sessions whose container is gone
type SessionsPruneCmd struct{}

// Run executes the prune command
func (s *SessionsPruneCmd) Run(container *Container) error {
	removed, err := container.SessionService.PruneSessions(context.Background())
	if err != nil {
		return fmt.Errorf("failed to prune sessions: %w", err)
	}
	if len(removed) == 0 {
		fmt.Println("Nothing to prune")
		return nil
	}
	for _, id := range removed {
		fmt.Printf("%s stale session '%s'\n", theme.MissingStyle.Render("Removed"), id)
	}
	return nil
}

package cmd

import (
	"context"
	"fmt"

	"github.com/renato0307/shellbox/internal/domain"
	"github.com/renato0307/shellbox/internal/logging"
)

// SessionsCmd manages sessions
type SessionsCmd struct {
	Add   SessionsAddCmd   `cmd:"add" help:"Create a session from a GitHub repository"`
	Del   SessionsDelCmd   `cmd:"del" aliases:"rm" help:"Delete a session and its container"`
	List  SessionsListCmd  `cmd:"list" aliases:"ls" help:"List all sessions" default:"1"`
	Prune SessionsPruneCmd `cmd:"prune" help:"Remove sessions whose container no longer exists"`
	Start SessionsStartCmd `cmd:"start" help:"Start a stopped session"`
	Stop  SessionsStopCmd  `cmd:"stop" help:"Stop a session's container"`
}

// SessionFlag selects the session a command operates on
type SessionFlag struct {
	Session string `help:"Session ID or container name (optional when only one session exists)" short:"s" env:"SHELLBOX_SESSION"`
}

// resolve returns the selected session and marks it active
func (f SessionFlag) resolve(ctx context.Context, container *Container) (*domain.Session, error) {
	if f.Session != "" {
		session, err := container.SessionService.GetSession(ctx, f.Session)
		if err != nil {
			return nil, err
		}
		touch(ctx, container, session)
		return session, nil
	}

	sessions, err := container.SessionService.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	switch len(sessions) {
	case 0:
		return nil, fmt.Errorf("no sessions: create one with 'shellbox sessions add <owner/name>'")
	case 1:
		touch(ctx, container, &sessions[0])
		return &sessions[0], nil
	default:
		return nil, fmt.Errorf("%d sessions exist: pass --session", len(sessions))
	}
}

func touch(ctx context.Context, container *Container, session *domain.Session) {
	if err := container.SessionService.TouchSession(ctx, session.ID); err != nil {
		logging.Logger.Debug("Failed to touch session", "session", session.ID, "error", err)
	}
}

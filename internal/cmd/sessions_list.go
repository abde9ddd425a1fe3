package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/renato0307/shellbox/internal/domain"
	"github.com/renato0307/shellbox/internal/logging"
	"github.com/renato0307/shellbox/internal/ports"
	"github.com/renato0307/shellbox/internal/services"
	"github.com/renato0307/shellbox/internal/theme"
)

// SessionsListCmd lists sessions with their container state
type SessionsListCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
}

// Run executes the list command
func (s *SessionsListCmd) Run(container *Container) error {
	ctx := context.Background()

	sessions, err := container.SessionService.ListSessions(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if s.Format == "json" {
		return printJSON(sessions)
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions. Create one with 'shellbox sessions add <owner/name>'")
		return nil
	}

	// Container state is best effort; the engine may be down
	states := make(map[string]ports.ContainerInfo)
	infos, err := container.Runtime.ListContainers(ctx, services.ContainerPrefix)
	if err != nil {
		logging.Logger.Warn("Failed to list containers", "error", err)
		fmt.Println(theme.WarningStyle.Render("Container engine unavailable: " + err.Error()))
	}
	for _, info := range infos {
		states[info.Name] = info
	}

	rows := make([][]string, 0, len(sessions))
	for _, session := range sessions {
		rows = append(rows, []string{
			shortID(session.ID),
			session.ContainerName,
			containerState(states, session, err == nil),
			relativeTime(session.LastActiveAt),
			session.RepoURL,
		})
	}
	fmt.Println(renderTable([]string{"ID", "CONTAINER", "STATE", "ACTIVE", "REPOSITORY"}, rows))
	return nil
}

func containerState(states map[string]ports.ContainerInfo, session domain.Session, known bool) string {
	if !known {
		return "unknown"
	}
	info, ok := states[session.ContainerName]
	switch {
	case !ok:
		return "missing"
	case info.Running:
		return "running"
	default:
		return "stopped"
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func relativeTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return strings.TrimSpace(t.Local().Format("2006-01-02"))
	}
}

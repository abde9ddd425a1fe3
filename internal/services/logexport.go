package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	goruntime "runtime"
	"strings"
	"time"

	"github.com/renato0307/shellbox/internal/domain"
	"github.com/renato0307/shellbox/internal/logging"
	"github.com/renato0307/shellbox/internal/ports"
	"github.com/renato0307/shellbox/internal/version"
)

const logFileTimeFormat = "20060102-150405"

// LogExportService writes diagnostics, execution output and retained app logs to a text bundle
type LogExportService struct {
	engine    ports.ContainerLifecycle
	now       func() time.Time
	sessions  ports.SessionReader
	store     *logging.Store
	telemetry *TelemetryService
}

// NewLogExportService creates a new LogExportService
func NewLogExportService(
	store *logging.Store,
	engine ports.ContainerLifecycle,
	sessions ports.SessionReader,
	telemetry *TelemetryService,
) *LogExportService {
	return &LogExportService{
		engine:    engine,
		now:       time.Now,
		sessions:  sessions,
		store:     store,
		telemetry: telemetry,
	}
}

// Diagnostics collects a snapshot of the environment.
// Collaborator failures are logged and leave the corresponding field empty.
func (s *LogExportService) Diagnostics(ctx context.Context) domain.Diagnostics {
	d := domain.Diagnostics{
		AppVersion:       version.Version,
		Arch:             goruntime.GOARCH,
		GeneratedAt:      s.now(),
		GoVersion:        goruntime.Version(),
		OS:               goruntime.GOOS,
		TelemetryEnabled: s.telemetry.Enabled(),
	}

	if s.engine != nil {
		engineVersion, err := s.engine.EngineVersion(ctx)
		if err != nil {
			logging.Logger.Debug("Failed to read container engine version", "error", err)
			engineVersion = "unavailable"
		}
		d.EngineVersion = engineVersion
	}

	if s.sessions != nil {
		sessions, err := s.sessions.List(ctx)
		if err != nil {
			logging.Logger.Debug("Failed to list sessions for diagnostics", "error", err)
		}
		d.SessionCount = len(sessions)
	}

	if d.TelemetryEnabled {
		summary, err := s.telemetry.Summary(ctx, DefaultTopErrorCodes)
		if err != nil {
			logging.Logger.Debug("Failed to summarize telemetry", "error", err)
		} else {
			d.Telemetry = summary
		}
	}

	return d
}

// Export writes the bundle to dir and returns the file path
func (s *LogExportService) Export(dir string, diagnostics domain.Diagnostics, executionOutput string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	name := fmt.Sprintf("shellbox-logs-%s.txt", s.now().Format(logFileTimeFormat))
	path := filepath.Join(dir, name)

	if err := os.WriteFile(path, []byte(s.Render(diagnostics, executionOutput)), 0644); err != nil {
		return "", fmt.Errorf("failed to write log bundle: %w", err)
	}

	logging.Logger.Info("Logs exported", "path", path)
	return path, nil
}

// Render builds the bundle text
func (s *LogExportService) Render(d domain.Diagnostics, executionOutput string) string {
	var b strings.Builder

	b.WriteString("== Diagnostics ==\n")
	fmt.Fprintf(&b, "generated: %s\n", d.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "version: %s\n", d.AppVersion)
	fmt.Fprintf(&b, "go: %s\n", d.GoVersion)
	fmt.Fprintf(&b, "os/arch: %s/%s\n", d.OS, d.Arch)
	fmt.Fprintf(&b, "container engine: %s\n", valueOr(d.EngineVersion, "unknown"))
	fmt.Fprintf(&b, "sessions: %d\n", d.SessionCount)
	fmt.Fprintf(&b, "telemetry: %t\n", d.TelemetryEnabled)
	if t := d.Telemetry; t != nil && t.Total > 0 {
		fmt.Fprintf(&b, "runs: %d (success rate %.0f%%, avg %s)\n",
			t.Total, t.SuccessRate*100, t.AverageDuration.Round(time.Millisecond))
		for _, c := range t.TopErrorCodes {
			fmt.Fprintf(&b, "  %s: %d\n", c.Code, c.Count)
		}
	}

	b.WriteString("\n== Execution Output ==\n")
	if executionOutput == "" {
		b.WriteString("(empty)\n")
	} else {
		b.WriteString(executionOutput)
		if !strings.HasSuffix(executionOutput, "\n") {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n== App Logs ==\n")
	var entries []logging.Entry
	if s.store != nil {
		entries = s.store.Entries()
	}
	if len(entries) == 0 {
		b.WriteString("(empty)\n")
	}
	for _, e := range entries {
		b.WriteString(e.String())
		b.WriteString("\n")
	}

	return b.String()
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

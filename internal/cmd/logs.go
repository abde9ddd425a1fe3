package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/renato0307/shellbox/internal/config"
)

// LogsCmd shows or exports the diagnostics bundle
type LogsCmd struct {
	Export LogsExportCmd `cmd:"export" help:"Write diagnostics and retained logs to a file"`
	Show   LogsShowCmd   `cmd:"show" help:"Print diagnostics and retained logs" default:"1"`
}

// LogsExportCmd writes the bundle to a directory
type LogsExportCmd struct {
	Dir string `help:"Destination directory (defaults to $SHELLBOX_HOME/exports)" type:"path"`
}

// Run executes the export command
func (l *LogsExportCmd) Run(container *Container) error {
	dir := l.Dir
	if dir == "" {
		dir = filepath.Join(config.GetShellboxHome(), "exports")
	}

	diagnostics := container.LogExportService.Diagnostics(context.Background())
	path, err := container.LogExportService.Export(dir, diagnostics, container.ExecutionService.Output())
	if err != nil {
		return err
	}
	fmt.Printf("Logs written to %s\n", path)
	return nil
}

// LogsShowCmd prints the bundle
type LogsShowCmd struct{}

// Run executes the show command
func (l *LogsShowCmd) Run(container *Container) error {
	diagnostics := container.LogExportService.Diagnostics(context.Background())
	fmt.Fprint(os.Stdout, container.LogExportService.Render(diagnostics, container.ExecutionService.Output()))
	return nil
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/renato0307/shellbox/internal/domain"
	"github.com/renato0307/shellbox/internal/logging"
	"github.com/renato0307/shellbox/internal/theme"
)

// RunCmd detects and runs the project of a session
type RunCmd struct {
	Detect RunDetectCmd `cmd:"detect" help:"Print the command that would run"`
	Exec   RunExecCmd   `cmd:"exec" help:"Run the project and stream its output" default:"withargs"`
}

// RunExecCmd runs the detected command, streaming output until it ends or Ctrl-C
type RunExecCmd struct {
	SessionFlag
	ExportLogs string `help:"Write a log bundle to this directory when the run ends" type:"path"`
	Notify     bool   `help:"Play a sound when the run ends"`
}

// Run executes the run command
func (r *RunExecCmd) Run(container *Container) error {
	ctx := context.Background()
	session, err := r.resolve(ctx, container)
	if err != nil {
		return err
	}

	execution := container.ExecutionService
	execution.OnOutput(func(chunk string) {
		fmt.Print(chunk)
	})

	// Ctrl-C stops the run cooperatively; a second one is left to the default handler
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		select {
		case <-sigCh:
			signal.Stop(sigCh)
			fmt.Fprintln(os.Stderr, theme.WarningStyle.Render("\nStopping..."))
			execution.Stop()
		case <-done:
		}
	}()

	result, err := execution.Run(ctx, session.ContainerName, session.RepoURL)
	close(done)
	signal.Stop(sigCh)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("%s in %s\n", theme.ExecutionStyle(result.Status).Render(result.Status.String()),
		result.Duration.Round(time.Millisecond))

	if r.Notify {
		if err := container.Sound.Notify(result.Status.State == domain.ExecutionSuccess); err != nil {
			logging.Logger.Debug("Failed to play sound", "error", err)
		}
	}

	if r.ExportLogs != "" {
		diagnostics := container.LogExportService.Diagnostics(ctx)
		path, err := container.LogExportService.Export(r.ExportLogs, diagnostics, result.Output)
		if err != nil {
			return err
		}
		fmt.Printf("Logs written to %s\n", path)
	}

	if result.Status.State != domain.ExecutionSuccess {
		return errors.New(result.Status.String())
	}
	return nil
}

// RunDetectCmd prints the detected run command
type RunDetectCmd struct {
	SessionFlag
}

// Run executes the detect command
func (r *RunDetectCmd) Run(container *Container) error {
	ctx := context.Background()
	session, err := r.resolve(ctx, container)
	if err != nil {
		return err
	}

	command, err := container.DetectionService.DetectRunCommand(ctx, session.ContainerName, session.RepoURL)
	if err != nil {
		return err
	}
	fmt.Println(command)
	return nil
}

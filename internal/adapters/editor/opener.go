package editor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/renato0307/shellbox/internal/logging"
)

// Opener edits local files with the user's editor
type Opener struct {
	lookPath func(string) (string, error)
	getenv   func(string) string
}

// NewOpener creates a new editor opener
func NewOpener() *Opener {
	return &Opener{
		getenv:   os.Getenv,
		lookPath: exec.LookPath,
	}
}

// Edit opens path in an editor attached to the terminal and waits for it to exit.
// Priority: cliEditor → $SHELLBOX_EDITOR → $VISUAL → $EDITOR → platform defaults
func (o *Opener) Edit(ctx context.Context, path, cliEditor string) error {
	if path == "" {
		return fmt.Errorf("no path provided")
	}

	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}

	name, args := o.findEditor(path, cliEditor)
	if name == "" {
		return fmt.Errorf("no suitable editor found. Set --editor flag, $SHELLBOX_EDITOR, $VISUAL, or $EDITOR")
	}

	logging.Logger.Info("Opening editor", "editor", name, "path", path)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		logging.Logger.Warn("Editor exited with error", "error", err, "editor", name)
		return fmt.Errorf("editor %s failed: %w", name, err)
	}
	return nil
}

// findEditor returns the editor binary and its arguments.
// Values like "code --wait" are split so flags reach the editor.
func (o *Opener) findEditor(path, cliEditor string) (string, []string) {
	candidates := []string{
		cliEditor,
		o.getenv("SHELLBOX_EDITOR"),
		o.getenv("VISUAL"),
		o.getenv("EDITOR"),
	}
	for _, candidate := range candidates {
		if fields := strings.Fields(candidate); len(fields) > 0 {
			return fields[0], append(fields[1:], path)
		}
	}

	for _, name := range defaultEditors {
		if _, err := o.lookPath(name); err == nil {
			return name, []string{path}
		}
	}
	return "", nil
}

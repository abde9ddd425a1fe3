package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/renato0307/shellbox/internal/logging"
	"github.com/renato0307/shellbox/internal/theme"
)

// FilesCmd operates on the workspace of a session
type FilesCmd struct {
	Cat   FilesCatCmd   `cmd:"cat" help:"Print a file"`
	Edit  FilesEditCmd  `cmd:"edit" help:"Edit a file with a local editor"`
	Ls    FilesLsCmd    `cmd:"ls" help:"List a directory" default:"withargs"`
	Mkdir FilesMkdirCmd `cmd:"mkdir" help:"Create a directory and its parents"`
	Mv    FilesMvCmd    `cmd:"mv" help:"Rename or move a file or directory"`
	Rm    FilesRmCmd    `cmd:"rm" help:"Delete a file or directory"`
	Touch FilesTouchCmd `cmd:"touch" help:"Create an empty file"`
	Write FilesWriteCmd `cmd:"write" help:"Replace a file with the content read from stdin"`
}

// FilesLsCmd lists a directory
type FilesLsCmd struct {
	SessionFlag
	Path string `arg:"" optional:"" help:"Directory relative to the workspace root"`
}

// Run executes the ls command
func (f *FilesLsCmd) Run(container *Container) error {
	ctx := context.Background()
	session, err := f.resolve(ctx, container)
	if err != nil {
		return err
	}

	items, err := container.Workspace(session).ListDirectory(ctx, f.Path)
	if err != nil {
		return err
	}
	for _, item := range items {
		if item.IsDirectory {
			fmt.Println(theme.BranchStyle.Render(item.Name + "/"))
			continue
		}
		fmt.Println(item.Name)
	}
	return nil
}

// FilesCatCmd prints a file
type FilesCatCmd struct {
	SessionFlag
	Path string `arg:"" help:"File relative to the workspace root"`
}

// Run executes the cat command
func (f *FilesCatCmd) Run(container *Container) error {
	ctx := context.Background()
	session, err := f.resolve(ctx, container)
	if err != nil {
		return err
	}

	content, err := container.Workspace(session).ReadFile(ctx, f.Path)
	if err != nil {
		return err
	}
	fmt.Print(content)
	return nil
}

// FilesWriteCmd replaces a file with stdin
type FilesWriteCmd struct {
	SessionFlag
	Path string `arg:"" help:"File relative to the workspace root"`
}

// Run executes the write command
func (f *FilesWriteCmd) Run(container *Container) error {
	ctx := context.Background()
	session, err := f.resolve(ctx, container)
	if err != nil {
		return err
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}
	return container.Workspace(session).WriteFile(ctx, f.Path, string(data))
}

// FilesMkdirCmd creates a directory
type FilesMkdirCmd struct {
	SessionFlag
	Path string `arg:"" help:"Directory relative to the workspace root"`
}

// Run executes the mkdir command
func (f *FilesMkdirCmd) Run(container *Container) error {
	ctx := context.Background()
	session, err := f.resolve(ctx, container)
	if err != nil {
		return err
	}
	return container.Workspace(session).CreateDirectory(ctx, f.Path)
}

// FilesTouchCmd creates an empty file
type FilesTouchCmd struct {
	SessionFlag
	Path string `arg:"" help:"File relative to the workspace root"`
}

// Run executes the touch command
func (f *FilesTouchCmd) Run(container *Container) error {
	ctx := context.Background()
	session, err := f.resolve(ctx, container)
	if err != nil {
		return err
	}
	return container.Workspace(session).CreateFile(ctx, f.Path, "")
}

// FilesMvCmd renames a file or directory
type FilesMvCmd struct {
	SessionFlag
	From string `arg:"" help:"Current path"`
	To   string `arg:"" help:"New path"`
}

// Run executes the mv command
func (f *FilesMvCmd) Run(container *Container) error {
	ctx := context.Background()
	session, err := f.resolve(ctx, container)
	if err != nil {
		return err
	}
	return container.Workspace(session).RenameItem(ctx, f.From, f.To)
}

// FilesRmCmd deletes a file or directory
type FilesRmCmd struct {
	SessionFlag
	Path      string `arg:"" help:"Path relative to the workspace root"`
	Recursive bool   `help:"Delete directories and their content" short:"r"`
}

// Run executes the rm command
func (f *FilesRmCmd) Run(container *Container) error {
	ctx := context.Background()
	session, err := f.resolve(ctx, container)
	if err != nil {
		return err
	}
	return container.Workspace(session).DeleteItem(ctx, f.Path, f.Recursive)
}

// FilesEditCmd copies a file out of the container, opens it in an editor and writes it back
type FilesEditCmd struct {
	SessionFlag
	Editor string `help:"Editor to use (overrides $SHELLBOX_EDITOR, $VISUAL, $EDITOR)"`
	Path   string `arg:"" help:"File relative to the workspace root"`
}

// Run executes the edit command
func (f *FilesEditCmd) Run(container *Container) error {
	ctx := context.Background()
	session, err := f.resolve(ctx, container)
	if err != nil {
		return err
	}
	workspace := container.Workspace(session)

	original, err := workspace.ReadFile(ctx, f.Path)
	if err != nil {
		return err
	}

	tmpDir, err := os.MkdirTemp("", "shellbox-edit-")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	// Keep the base name so editors pick the right syntax
	local := filepath.Join(tmpDir, path.Base(f.Path))
	if err := os.WriteFile(local, []byte(original), 0600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := container.Editor.Edit(ctx, local, f.Editor); err != nil {
		return err
	}

	edited, err := os.ReadFile(local)
	if err != nil {
		return fmt.Errorf("failed to read edited file: %w", err)
	}
	if string(edited) == original {
		fmt.Println("No changes")
		return nil
	}

	if err := workspace.WriteFile(ctx, f.Path, string(edited)); err != nil {
		return err
	}
	logging.Logger.Info("File edited", "session", session.ID, "path", f.Path)
	fmt.Printf("Saved %s\n", strings.TrimPrefix(f.Path, "/"))
	return nil
}

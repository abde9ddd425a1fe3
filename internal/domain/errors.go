package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrAlreadyRunning       = errors.New("an execution is already running")
	ErrCredentialNotFound   = errors.New("credential not found")
	ErrEmptyCommitMessage   = errors.New("commit message is empty")
	ErrExecutionCancelled   = errors.New("execution cancelled")
	ErrInvalidBranchName    = errors.New("invalid branch name")
	ErrInvalidRevision      = errors.New("invalid revision")
	ErrNoFilesSelected      = errors.New("no files selected")
	ErrPathEscapesWorkspace = errors.New("path escapes workspace")
	ErrProjectTypeUnknown   = errors.New("cannot detect project type")
	ErrSessionExists        = errors.New("session already exists")
	ErrSessionNotFound      = errors.New("session not found")
)

// CommandError is returned when a command exits with a non-zero status.
// Error() yields the short user-facing message; Detail keeps stdout+stderr for diagnostics.
type CommandError struct {
	Command  string
	Detail   string
	ExitCode int
	Message  string
}

func (e *CommandError) Error() string {
	return e.Message
}

// Debug returns the verbose form used for log entries
func (e *CommandError) Debug() string {
	return fmt.Sprintf("command: %s\nexit code: %d\noutput:\n%s", e.Command, e.ExitCode, e.Detail)
}

// NewCommandError builds a CommandError whose short message is the first non-empty output line
func NewCommandError(command string, exitCode int, output string) *CommandError {
	msg := fmt.Sprintf("command failed with exit code %d", exitCode)
	for _, line := range strings.Split(output, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			msg = trimmed
			break
		}
	}
	return &CommandError{
		Command:  command,
		Detail:   output,
		ExitCode: exitCode,
		Message:  msg,
	}
}

// ErrorDetail returns the verbose detail of err when it carries one
func ErrorDetail(err error) string {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Detail
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// SetupError is the terminal failure of environment setup after exhausting retries
type SetupError struct {
	Attempts  int
	Last      error
	Toolchain string
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("%s setup failed after %d attempts: %v", e.Toolchain, e.Attempts, e.Last)
}

func (e *SetupError) Unwrap() error {
	return e.Last
}

// GitOperationError carries actionable guidance for a failed git operation
type GitOperationError struct {
	Cause     error
	Guidance  string
	Operation string
}

func (e *GitOperationError) Error() string {
	return e.Guidance
}

func (e *GitOperationError) Unwrap() error {
	return e.Cause
}

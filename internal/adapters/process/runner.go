package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/creack/pty"

	"github.com/renato0307/shellbox/internal/domain"
	"github.com/renato0307/shellbox/internal/logging"
	"github.com/renato0307/shellbox/internal/ports"
)

const chunkSize = 4096

// Runner implements ports.CommandRunner using os/exec
type Runner struct{}

// Compile-time interface verification
var _ ports.CommandRunner = (*Runner)(nil)

// NewRunner creates a new Runner
func NewRunner() *Runner {
	return &Runner{}
}

// Run executes the command and returns its combined output
func (r *Runner) Run(ctx context.Context, stdin io.Reader, name string, args ...string) (string, error) {
	cmdline := commandLine(name, args)
	logging.Logger.Debug("Running command", "command", cmdline)

	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != nil {
		cmd.Stdin = stdin
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		return string(output), toCommandError(ctx, cmdline, string(output), err)
	}
	return string(output), nil
}

// Stream executes the command under a pseudo-terminal so child processes flush output
// line by line. Chunks are delivered in the order they are read. Falls back to a merged
// pipe where pseudo-terminals are unsupported.
func (r *Runner) Stream(ctx context.Context, onChunk func(chunk string), name string, args ...string) (string, error) {
	cmdline := commandLine(name, args)
	logging.Logger.Debug("Streaming command", "command", cmdline)

	cmd := exec.CommandContext(ctx, name, args...)

	reader, err := pty.Start(cmd)
	if err != nil {
		logging.Logger.Debug("pty unavailable, using pipe", "error", err)
		cmd = exec.CommandContext(ctx, name, args...)
		reader, err = startWithPipe(cmd)
		if err != nil {
			return "", fmt.Errorf("failed to start %s: %w", name, err)
		}
	}
	defer reader.Close()

	var out strings.Builder
	emit := func(chunk string) {
		if chunk == "" {
			return
		}
		out.WriteString(chunk)
		if onChunk != nil {
			onChunk(chunk)
		}
	}

	var lines crlfNormalizer
	buf := make([]byte, chunkSize)
	for {
		n, readErr := reader.Read(buf)
		if n > 0 {
			emit(lines.Normalize(string(buf[:n])))
		}
		if readErr != nil {
			// EOF on pipes, EIO on a pty once the child has exited
			break
		}
	}
	emit(lines.Flush())

	output := out.String()
	if err := cmd.Wait(); err != nil {
		return output, toCommandError(ctx, cmdline, output, err)
	}
	return output, nil
}

// crlfNormalizer turns the terminal's \r\n line endings into \n across reads.
// A trailing \r is held back until the next read shows whether a \n follows.
type crlfNormalizer struct {
	pendingCR bool
}

// Normalize converts one read; its result may lack a held-back trailing \r
func (c *crlfNormalizer) Normalize(chunk string) string {
	if c.pendingCR {
		chunk = "\r" + chunk
		c.pendingCR = false
	}
	if strings.HasSuffix(chunk, "\r") {
		chunk = chunk[:len(chunk)-1]
		c.pendingCR = true
	}
	return strings.ReplaceAll(chunk, "\r\n", "\n")
}

// Flush returns a \r still held back when the stream ends
func (c *crlfNormalizer) Flush() string {
	if c.pendingCR {
		c.pendingCR = false
		return "\r"
	}
	return ""
}

// startWithPipe starts cmd with stdout and stderr merged into one pipe
func startWithPipe(cmd *exec.Cmd) (*os.File, error) {
	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	cmd.Stdout = pw
	cmd.Stderr = pw
	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		return nil, err
	}
	// The child holds its own copy; closing ours lets the reader see EOF
	pw.Close()
	return pr, nil
}

func toCommandError(ctx context.Context, cmdline, output string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s: %w", cmdline, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return domain.NewCommandError(cmdline, exitErr.ExitCode(), output)
	}

	cmdErr := domain.NewCommandError(cmdline, -1, output)
	cmdErr.Message = err.Error()
	return cmdErr
}

func commandLine(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}

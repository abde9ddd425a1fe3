package ports

import (
	"context"
	"io"
)

// CommandRunner runs host-level commands and surfaces non-zero exits as *domain.CommandError
type CommandRunner interface {
	// Run executes name with args and returns combined stdout+stderr.
	// stdin may be nil.
	Run(ctx context.Context, stdin io.Reader, name string, args ...string) (string, error)

	// Stream executes name with args, delivering output chunks to onChunk in emission order,
	// and returns the full accumulated output.
	Stream(ctx context.Context, onChunk func(chunk string), name string, args ...string) (string, error)
}

//go:build unix

package process

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/shellbox/internal/domain"
)

func TestRun_ReturnsCombinedOutput(t *testing.T) {
	runner := NewRunner()

	out, err := runner.Run(context.Background(), nil, "sh", "-c", "echo out; echo err 1>&2")

	require.NoError(t, err)
	assert.Contains(t, out, "out")
	assert.Contains(t, out, "err")
}

func TestRun_PassesStdin(t *testing.T) {
	runner := NewRunner()

	out, err := runner.Run(context.Background(), strings.NewReader("hello"), "cat")

	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestRun_NonZeroExitIsCommandError(t *testing.T) {
	runner := NewRunner()

	_, err := runner.Run(context.Background(), nil, "sh", "-c", "echo boom; exit 3")

	var cmdErr *domain.CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, 3, cmdErr.ExitCode)
	assert.Equal(t, "boom", cmdErr.Message)
	assert.Contains(t, cmdErr.Detail, "boom")
}

func TestRun_MissingBinary(t *testing.T) {
	runner := NewRunner()

	_, err := runner.Run(context.Background(), nil, "definitely-not-a-real-binary-xyz")

	var cmdErr *domain.CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, -1, cmdErr.ExitCode)
}

func TestRun_TimeoutWrapsContextError(t *testing.T) {
	runner := NewRunner()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := runner.Run(ctx, nil, "sleep", "5")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStream_DeliversChunksInOrder(t *testing.T) {
	runner := NewRunner()
	var chunks []string

	out, err := runner.Stream(context.Background(), func(chunk string) {
		chunks = append(chunks, chunk)
	}, "sh", "-c", "echo one; sleep 0.05; echo two")

	require.NoError(t, err)
	assert.Equal(t, out, strings.Join(chunks, ""))
	assert.Less(t, strings.Index(out, "one"), strings.Index(out, "two"))
	assert.NotContains(t, out, "\r\n")
}

func TestStream_NonZeroExit(t *testing.T) {
	runner := NewRunner()

	out, err := runner.Stream(context.Background(), nil, "sh", "-c", "echo partial; exit 2")

	var cmdErr *domain.CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, 2, cmdErr.ExitCode)
	assert.Contains(t, out, "partial")
}

func TestCRLFNormalizer_LineEndingSplitAcrossReads(t *testing.T) {
	tests := []struct {
		name     string
		reads    []string
		expected string
	}{
		{"single read", []string{"one\r\ntwo\r\n"}, "one\ntwo\n"},
		{"split between reads", []string{"one\r", "\ntwo\r\n"}, "one\ntwo\n"},
		{"bare carriage return kept", []string{"50%\r", "100%\r\n"}, "50%\r100%\n"},
		{"trailing carriage return flushed", []string{"done\r"}, "done\r"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c crlfNormalizer
			var out strings.Builder
			for _, read := range tt.reads {
				out.WriteString(c.Normalize(read))
			}
			out.WriteString(c.Flush())

			assert.Equal(t, tt.expected, out.String())
		})
	}
}

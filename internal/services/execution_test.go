package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/shellbox/internal/domain"
	"github.com/renato0307/shellbox/internal/logging"
)

type memTelemetry struct {
	mu      sync.Mutex
	records []domain.RunRecord
}

func (m *memTelemetry) Close() error { return nil }

func (m *memTelemetry) List(ctx context.Context) ([]domain.RunRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.RunRecord(nil), m.records...), nil
}

func (m *memTelemetry) Record(ctx context.Context, record domain.RunRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, record)
	return nil
}

func newExecution(rt *fakeRuntime, telemetry *memTelemetry, store *logging.Store) *ExecutionService {
	detector := newDetection(rt, &memProfiles{}, domain.DefaultBuildConfiguration())
	return NewExecutionService(rt, detector, NewTelemetryService(telemetry, true), store,
		SetupPolicy{MaxAttempts: 3, Timeout: time.Second}, "/workspace")
}

func nodeProject() *fakeRuntime {
	return withFiles(newFakeRuntime(), map[string]string{"package.json": "{}"})
}

// blockingRun makes the run command emit first, then wait for release
func blockingRun(rt *fakeRuntime) (started, release chan struct{}) {
	started = make(chan struct{})
	release = make(chan struct{})
	rt.handle("npm start", func(script string, onChunk func(string)) (string, error) {
		onChunk("first\n")
		close(started)
		<-release
		return "first\n", nil
	})
	return started, release
}

func countScripts(rt *fakeRuntime, substr string) int {
	n := 0
	for _, s := range rt.scriptsRun() {
		if strings.Contains(s, substr) {
			n++
		}
	}
	return n
}

func TestRun_Success(t *testing.T) {
	rt := nodeProject()
	rt.handle("npm start", func(script string, onChunk func(string)) (string, error) {
		onChunk("a")
		onChunk("b")
		onChunk("c\n")
		return "abc\n", nil
	})
	telemetry := &memTelemetry{}
	svc := newExecution(rt, telemetry, nil)

	var chunks []string
	svc.OnOutput(func(chunk string) { chunks = append(chunks, chunk) })

	result, err := svc.Run(context.Background(), "c1", "https://github.com/acme/app")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusSuccess(), result.Status)
	assert.Equal(t, "npm install && npm start", result.Command)
	assert.Equal(t, "$ npm install && npm start\nabc\n", result.Output)
	assert.Equal(t, []string{"$ npm install && npm start\n", "a", "b", "c\n"}, chunks)
	assert.Equal(t, "cd '/workspace' && npm install && npm start", rt.lastScript())
	assert.Equal(t, domain.StatusSuccess(), svc.Status())

	records, _ := telemetry.List(context.Background())
	require.Len(t, records, 1)
	assert.True(t, records[0].Success)
	assert.Equal(t, domain.ErrorCodeNone, records[0].ErrorCode)
}

func TestRun_CommandFailure(t *testing.T) {
	rt := nodeProject()
	rt.on("npm start", "", domain.NewCommandError("npm start", 1, "npm ERR! missing script: start"))
	telemetry := &memTelemetry{}
	store := logging.NewStore(10)
	svc := newExecution(rt, telemetry, store)

	result, err := svc.Run(context.Background(), "c1", "")
	require.NoError(t, err)

	assert.Equal(t, domain.ExecutionFailed, result.Status.State)
	assert.Equal(t, "npm ERR! missing script: start", result.Status.Reason)
	assert.False(t, result.Status.IsCancelled())

	records, _ := telemetry.List(context.Background())
	require.Len(t, records, 1)
	assert.Equal(t, domain.ErrorCodeCommandFailed, records[0].ErrorCode)
	assert.Equal(t, 1, store.Len())
}

func TestRun_DetectionFailure(t *testing.T) {
	rt := newFakeRuntime()
	telemetry := &memTelemetry{}
	svc := newExecution(rt, telemetry, nil)

	result, err := svc.Run(context.Background(), "c1", "")
	require.NoError(t, err)

	assert.Equal(t, domain.ExecutionFailed, result.Status.State)
	assert.Contains(t, result.Status.Reason, "cannot detect project type")

	records, _ := telemetry.List(context.Background())
	require.Len(t, records, 1)
	assert.Equal(t, domain.ErrorCodeDetectionFailed, records[0].ErrorCode)
}

func TestRun_StopCancelsExactlyOnce(t *testing.T) {
	rt := nodeProject()
	started, release := blockingRun(rt)
	telemetry := &memTelemetry{}
	svc := newExecution(rt, telemetry, nil)

	done := make(chan *RunResult)
	go func() {
		result, _ := svc.Run(context.Background(), "c1", "")
		done <- result
	}()

	<-started
	assert.True(t, svc.Status().IsRunning())

	svc.Stop()
	svc.Stop()
	close(release)

	result := <-done
	assert.True(t, result.Status.IsCancelled())
	assert.Equal(t, domain.CancelledReason, result.Status.Reason)
	assert.Contains(t, result.Output, "first\n")
	assert.Equal(t, 1, rt.cancelled())

	// stopping a finished run does nothing
	svc.Stop()
	assert.Equal(t, 1, rt.cancelled())

	records, _ := telemetry.List(context.Background())
	require.Len(t, records, 1)
	assert.Equal(t, domain.ErrorCodeCancelled, records[0].ErrorCode)
}

func TestStop_IdleIsNoop(t *testing.T) {
	rt := nodeProject()
	svc := newExecution(rt, &memTelemetry{}, nil)

	svc.Stop()

	assert.Equal(t, 0, rt.cancelled())
	assert.Equal(t, domain.StatusIdle(), svc.Status())
}

func TestRun_AlreadyRunning(t *testing.T) {
	rt := nodeProject()
	started, release := blockingRun(rt)
	svc := newExecution(rt, &memTelemetry{}, nil)

	done := make(chan struct{})
	go func() {
		_, _ = svc.Run(context.Background(), "c1", "")
		close(done)
	}()
	<-started

	_, err := svc.Run(context.Background(), "c1", "")
	assert.ErrorIs(t, err, domain.ErrAlreadyRunning)
	assert.ErrorIs(t, svc.ClearOutput(), domain.ErrAlreadyRunning)

	close(release)
	<-done

	require.NoError(t, svc.ClearOutput())
	assert.Empty(t, svc.Output())
	assert.Equal(t, domain.StatusIdle(), svc.Status())
}

func TestRun_ResetsOutputBetweenRuns(t *testing.T) {
	rt := nodeProject()
	rt.on("npm start", "", nil)
	calls := 0
	svc := newExecution(rt, &memTelemetry{}, nil)
	svc.OnOutput(func(string) { calls++ })

	_, err := svc.Run(context.Background(), "c1", "")
	require.NoError(t, err)
	result, err := svc.Run(context.Background(), "c1", "")
	require.NoError(t, err)

	assert.Equal(t, "$ npm install && npm start\n", result.Output)
	assert.Equal(t, 2, calls)
}

func TestRun_SetupRetriesExhausted(t *testing.T) {
	rt := nodeProject()
	rt.on("command -v npm", "", errors.New("exit status 1"))
	rt.on("apk add", "", domain.NewCommandError("apk add", 1, "ERROR: unable to select packages"))
	telemetry := &memTelemetry{}
	store := logging.NewStore(10)
	svc := newExecution(rt, telemetry, store)

	result, err := svc.Run(context.Background(), "c1", "")
	require.NoError(t, err)

	assert.Equal(t, domain.ExecutionFailed, result.Status.State)
	assert.Contains(t, result.Status.Reason, "failed after 3 attempts")
	assert.Equal(t, 3, countScripts(rt, "apk add"))
	assert.Equal(t, 0, countScripts(rt, "npm start"))
	assert.Contains(t, result.Output, "Installing node (attempt 3/3)")

	records, _ := telemetry.List(context.Background())
	require.Len(t, records, 1)
	assert.Equal(t, domain.ErrorCodeSetupFailed, records[0].ErrorCode)
	assert.Equal(t, 1, store.Len())
}

func TestRun_SetupAttemptTimesOut(t *testing.T) {
	rt := nodeProject()
	rt.on("command -v npm", "", errors.New("exit status 1"))
	rt.handleCtx("apk add", func(ctx context.Context, script string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	detector := newDetection(rt, &memProfiles{}, domain.DefaultBuildConfiguration())
	timeout := 50 * time.Millisecond
	svc := NewExecutionService(rt, detector, NewTelemetryService(&memTelemetry{}, true), nil,
		SetupPolicy{MaxAttempts: 3, Timeout: timeout}, "/workspace")

	started := time.Now()
	result, err := svc.Run(context.Background(), "c1", "")
	elapsed := time.Since(started)
	require.NoError(t, err)

	assert.Equal(t, domain.ExecutionFailed, result.Status.State)
	assert.Contains(t, result.Status.Reason, "failed after 3 attempts")
	assert.Contains(t, result.Status.Reason, context.DeadlineExceeded.Error())
	assert.Equal(t, 3, countScripts(rt, "apk add"))
	assert.Equal(t, 0, countScripts(rt, "npm start"))
	assert.GreaterOrEqual(t, elapsed, 3*timeout)
	assert.Less(t, elapsed, 3*timeout+2*time.Second)
}

func TestRun_SetupRecoversAfterFailure(t *testing.T) {
	rt := nodeProject()
	rt.on("command -v npm", "", errors.New("exit status 1"))
	attempts := 0
	rt.handle("apk add", func(string, func(string)) (string, error) {
		attempts++
		if attempts == 1 {
			return "", errors.New("temporary error: network unreachable")
		}
		return "OK", nil
	})
	rt.on("npm start", "listening\n", nil)
	svc := newExecution(rt, &memTelemetry{}, nil)

	result, err := svc.Run(context.Background(), "c1", "")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusSuccess(), result.Status)
	assert.Equal(t, 2, attempts)
	assert.Contains(t, result.Output, "Installed node")
	assert.Equal(t, 1, countScripts(rt, "npm start"))
}

func TestRun_StopDuringSetup(t *testing.T) {
	rt := nodeProject()
	rt.on("command -v npm", "", errors.New("exit status 1"))
	started := make(chan struct{})
	release := make(chan struct{})
	rt.handle("apk add", func(string, func(string)) (string, error) {
		close(started)
		<-release
		return "", errors.New("interrupted")
	})
	svc := newExecution(rt, &memTelemetry{}, nil)

	done := make(chan *RunResult)
	go func() {
		result, _ := svc.Run(context.Background(), "c1", "")
		done <- result
	}()

	<-started
	svc.Stop()
	close(release)

	result := <-done
	assert.True(t, result.Status.IsCancelled())
	assert.Equal(t, 1, countScripts(rt, "apk add"))
	assert.Equal(t, 0, countScripts(rt, "npm start"))
	assert.Equal(t, 1, rt.cancelled())
}

func TestRun_NoSetupWhenToolchainPresent(t *testing.T) {
	rt := withFiles(newFakeRuntime(), map[string]string{"main.py": ""})
	svc := newExecution(rt, &memTelemetry{}, nil)

	result, err := svc.Run(context.Background(), "c1", "")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusSuccess(), result.Status)
	assert.Equal(t, 1, countScripts(rt, "command -v python3"))
	assert.Equal(t, 0, countScripts(rt, "apk add"))
}

func TestTelemetryDisabled(t *testing.T) {
	rt := nodeProject()
	telemetry := &memTelemetry{}
	detector := newDetection(rt, &memProfiles{}, domain.DefaultBuildConfiguration())
	svc := NewExecutionService(rt, detector, NewTelemetryService(telemetry, false), nil, SetupPolicy{}, "")

	_, err := svc.Run(context.Background(), "c1", "")
	require.NoError(t, err)

	records, _ := telemetry.List(context.Background())
	assert.Empty(t, records)
}

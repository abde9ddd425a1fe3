package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/renato0307/shellbox/internal/domain"
	"github.com/renato0307/shellbox/internal/logging"
	"github.com/renato0307/shellbox/internal/ports"
	"github.com/renato0307/shellbox/internal/shellquote"
)

// DefaultSetupPolicy is used when no policy is configured
var DefaultSetupPolicy = SetupPolicy{MaxAttempts: 3, Timeout: 20 * time.Second}

// ExecutionService runs the detected project command in a session container.
// One run at a time: Idle -> Running -> Success | Failed(reason).
type ExecutionService struct {
	detector  *DetectionService
	logStore  *logging.Store
	policy    SetupPolicy
	root      string
	runtime   ports.ContainerRuntime
	telemetry *TelemetryService

	mu            sync.Mutex
	cancel        context.CancelFunc
	onOutput      func(chunk string)
	output        strings.Builder
	status        domain.ExecutionStatus
	stopRequested bool
}

// NewExecutionService creates a new ExecutionService
func NewExecutionService(
	runtime ports.ContainerRuntime,
	detector *DetectionService,
	telemetry *TelemetryService,
	logStore *logging.Store,
	policy SetupPolicy,
	root string,
) *ExecutionService {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = DefaultSetupPolicy.MaxAttempts
	}
	if policy.Timeout <= 0 {
		policy.Timeout = DefaultSetupPolicy.Timeout
	}
	if root == "" {
		root = DefaultWorkspaceRoot
	}
	return &ExecutionService{
		detector:  detector,
		logStore:  logStore,
		policy:    policy,
		root:      root,
		runtime:   runtime,
		status:    domain.StatusIdle(),
		telemetry: telemetry,
	}
}

// OnOutput registers a callback receiving every output chunk in emission order
func (s *ExecutionService) OnOutput(fn func(chunk string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onOutput = fn
}

// Status returns the current execution status
func (s *ExecutionService) Status() domain.ExecutionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Output returns everything the current or last run produced
func (s *ExecutionService) Output() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.output.String()
}

// ClearOutput drops the accumulated output and returns to Idle. Not allowed while running.
func (s *ExecutionService) ClearOutput() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status.IsRunning() {
		return domain.ErrAlreadyRunning
	}
	s.output.Reset()
	s.status = domain.StatusIdle()
	return nil
}

// Run detects the project command, prepares the toolchain and streams the command's
// output until it finishes or Stop is called. It only returns an error when a run is
// already in flight; every other outcome is reported through RunResult.Status.
func (s *ExecutionService) Run(ctx context.Context, container, repoURL string) (*RunResult, error) {
	s.mu.Lock()
	if s.status.IsRunning() {
		s.mu.Unlock()
		return nil, domain.ErrAlreadyRunning
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.stopRequested = false
	s.output.Reset()
	s.status = domain.StatusRunning()
	s.mu.Unlock()
	defer cancel()

	started := time.Now()
	logging.Logger.Info("Run started", "container", container, "repo", repoURL)

	command, status, code := s.execute(runCtx, container, repoURL)

	result := &RunResult{
		Command:  command,
		Duration: time.Since(started),
		Status:   status,
	}

	s.mu.Lock()
	s.status = status
	s.cancel = nil
	result.Output = s.output.String()
	s.mu.Unlock()

	logging.Logger.Info("Run finished", "container", container, "status", status.String(), "duration", result.Duration)
	s.telemetry.Record(context.WithoutCancel(ctx), domain.RunRecord{
		CreatedAt: started.UTC(),
		Duration:  result.Duration,
		ErrorCode: code,
		Success:   status.State == domain.ExecutionSuccess,
	})
	return result, nil
}

func (s *ExecutionService) execute(ctx context.Context, container, repoURL string) (string, domain.ExecutionStatus, domain.ErrorCode) {
	command, err := s.detector.DetectRunCommand(ctx, container, repoURL)
	if err != nil {
		if s.stopped() {
			return "", domain.StatusCancelled(), domain.ErrorCodeCancelled
		}
		s.record("execution", "run command detection failed", err)
		return "", domain.StatusFailed(err.Error()), domain.ErrorCodeDetectionFailed
	}
	s.appendOutput("$ " + command + "\n")

	if err := s.setupEnvironment(ctx, container, command); err != nil {
		if s.stopped() || errors.Is(err, domain.ErrExecutionCancelled) {
			return command, domain.StatusCancelled(), domain.ErrorCodeCancelled
		}
		s.record("execution", "environment setup failed", err)
		return command, domain.StatusFailed(err.Error()), domain.ErrorCodeSetupFailed
	}

	script := "cd " + shellquote.Quote(s.root) + " && " + command
	_, err = s.runtime.ExecuteShellStreaming(ctx, container, script, s.appendOutput)

	// a requested stop wins over whatever the command returned
	if s.stopped() || errors.Is(err, domain.ErrExecutionCancelled) {
		return command, domain.StatusCancelled(), domain.ErrorCodeCancelled
	}
	if err != nil {
		s.record("execution", "run command failed", err)
		if errors.Is(err, context.DeadlineExceeded) {
			return command, domain.StatusFailed(err.Error()), domain.ErrorCodeTimeout
		}
		return command, domain.StatusFailed(err.Error()), domain.ErrorCodeCommandFailed
	}
	return command, domain.StatusSuccess(), domain.ErrorCodeNone
}

// setupEnvironment installs the toolchain command needs when it is missing.
// Each attempt is bounded by the policy timeout; cancellation is checked before every attempt.
func (s *ExecutionService) setupEnvironment(ctx context.Context, container, command string) error {
	toolchain := toolchainFor(command)
	if toolchain == "" {
		return nil
	}

	probe := "command -v " + toolchainBinary[toolchain] + " >/dev/null 2>&1"
	if _, err := s.runtime.ExecuteShell(ctx, container, probe); err == nil {
		return nil
	}

	var lastErr error
	for attempt := 1; attempt <= s.policy.MaxAttempts; attempt++ {
		if attempt > 1 && s.policy.Backoff > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(s.policy.Backoff):
			}
		}
		if s.stopped() || ctx.Err() != nil {
			return domain.ErrExecutionCancelled
		}

		s.appendOutput(fmt.Sprintf("Installing %s (attempt %d/%d)...\n", toolchain, attempt, s.policy.MaxAttempts))
		attemptCtx, cancel := context.WithTimeout(ctx, s.policy.Timeout)
		_, err := s.runtime.ExecuteShell(attemptCtx, container, installScript(toolchain))
		if err == nil && attemptCtx.Err() != nil {
			err = attemptCtx.Err()
		}
		cancel()

		if err == nil {
			s.appendOutput(fmt.Sprintf("Installed %s\n", toolchain))
			return nil
		}

		lastErr = err
		logging.Logger.Debug("Toolchain install attempt failed", "toolchain", toolchain, "attempt", attempt, "error", err)
		s.appendOutput(fmt.Sprintf("Attempt %d failed: %v\n", attempt, err))
	}

	if s.stopped() {
		return domain.ErrExecutionCancelled
	}
	return &domain.SetupError{
		Attempts:  s.policy.MaxAttempts,
		Last:      lastErr,
		Toolchain: toolchain,
	}
}

// Stop requests cancellation of the in-flight run. It is a no-op when nothing runs
// and the container runtime's cancel hook is invoked at most once per run.
func (s *ExecutionService) Stop() {
	s.mu.Lock()
	if !s.status.IsRunning() || s.stopRequested {
		s.mu.Unlock()
		return
	}
	s.stopRequested = true
	cancel := s.cancel
	s.mu.Unlock()

	logging.Logger.Info("Stopping run")
	s.runtime.CancelCurrentExecution()
	if cancel != nil {
		cancel()
	}
}

func (s *ExecutionService) stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopRequested
}

func (s *ExecutionService) appendOutput(chunk string) {
	s.mu.Lock()
	s.output.WriteString(chunk)
	onOutput := s.onOutput
	s.mu.Unlock()

	if onOutput != nil {
		onOutput(chunk)
	}
}

func (s *ExecutionService) record(category, message string, err error) {
	if s.logStore != nil {
		s.logStore.Record(category, message+": "+err.Error(), domain.ErrorDetail(err))
	}
}

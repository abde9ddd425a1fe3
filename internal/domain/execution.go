package domain

import "time"

// ExecutionState is the state of the execution service
type ExecutionState string

const (
	ExecutionFailed  ExecutionState = "failed"
	ExecutionIdle    ExecutionState = "idle"
	ExecutionRunning ExecutionState = "running"
	ExecutionSuccess ExecutionState = "success"
)

// CancelledReason is the Failed reason used when the user stops a run
const CancelledReason = "Execution cancelled"

// ExecutionStatus is Idle, Running, Success or Failed(Reason)
type ExecutionStatus struct {
	Reason string
	State  ExecutionState
}

// StatusIdle returns the idle status
func StatusIdle() ExecutionStatus { return ExecutionStatus{State: ExecutionIdle} }

// StatusRunning returns the running status
func StatusRunning() ExecutionStatus { return ExecutionStatus{State: ExecutionRunning} }

// StatusSuccess returns the success status
func StatusSuccess() ExecutionStatus { return ExecutionStatus{State: ExecutionSuccess} }

// StatusFailed returns a failed status with the given reason
func StatusFailed(reason string) ExecutionStatus {
	return ExecutionStatus{State: ExecutionFailed, Reason: reason}
}

// StatusCancelled returns the distinguished cancelled failure
func StatusCancelled() ExecutionStatus { return StatusFailed(CancelledReason) }

// IsRunning reports whether a run is in flight
func (s ExecutionStatus) IsRunning() bool { return s.State == ExecutionRunning }

// IsCancelled reports whether the run ended because the user stopped it
func (s ExecutionStatus) IsCancelled() bool {
	return s.State == ExecutionFailed && s.Reason == CancelledReason
}

// IsTerminal reports whether the run has finished
func (s ExecutionStatus) IsTerminal() bool {
	return s.State == ExecutionSuccess || s.State == ExecutionFailed
}

func (s ExecutionStatus) String() string {
	if s.State == ExecutionFailed && s.Reason != "" {
		return string(s.State) + ": " + s.Reason
	}
	return string(s.State)
}

// ErrorCode classifies a run outcome for telemetry
type ErrorCode string

const (
	ErrorCodeCancelled       ErrorCode = "cancelled"
	ErrorCodeCommandFailed   ErrorCode = "command_failed"
	ErrorCodeDetectionFailed ErrorCode = "detection_failed"
	ErrorCodeNone            ErrorCode = "none"
	ErrorCodeSetupFailed     ErrorCode = "setup_failed"
	ErrorCodeTimeout         ErrorCode = "timeout"
)

// RunRecord is what telemetry keeps about one run. Never raw output.
type RunRecord struct {
	CreatedAt time.Time
	Duration  time.Duration
	ErrorCode ErrorCode
	Success   bool
}

// ErrorCodeCount is one row of the top error codes
type ErrorCodeCount struct {
	Code  ErrorCode
	Count int
}

// TelemetrySummary aggregates run records
type TelemetrySummary struct {
	AverageDuration time.Duration
	Failures        int
	SuccessRate     float64
	Successes       int
	TopErrorCodes   []ErrorCodeCount
	Total           int
}

// Diagnostics is the snapshot included in exported log bundles
type Diagnostics struct {
	AppVersion       string
	Arch             string
	EngineVersion    string
	GeneratedAt      time.Time
	GoVersion        string
	OS               string
	SessionCount     int
	Telemetry        *TelemetrySummary
	TelemetryEnabled bool
}

package services

import (
	"time"

	"github.com/renato0307/shellbox/internal/domain"
)

// CreateSessionParams contains parameters for creating a new session
type CreateSessionParams struct {
	RepoURL string
	Token   string
}

// CreateSessionResult contains the result of session creation
type CreateSessionResult struct {
	GitInstalled bool
	Image        string
	Session      *domain.Session
}

// ImageCatalog holds the base images picked by repository language hints
type ImageCatalog struct {
	Generic string
	Node    string
	Python  string
}

// RunResult is the outcome of one execution
type RunResult struct {
	Command  string
	Duration time.Duration
	Output   string
	Status   domain.ExecutionStatus
}

// SetupPolicy bounds environment setup retries
type SetupPolicy struct {
	Backoff     time.Duration
	MaxAttempts int
	Timeout     time.Duration
}

package ports

import (
	"context"

	"github.com/renato0307/shellbox/internal/domain"
)

// SessionReader reads session records
type SessionReader interface {
	Get(ctx context.Context, id string) (*domain.Session, error)
	List(ctx context.Context) ([]domain.Session, error)
}

// SessionWriter mutates session records
type SessionWriter interface {
	Add(ctx context.Context, session domain.Session) error
	Delete(ctx context.Context, id string) error
	Touch(ctx context.Context, id string) error
}

// SessionRepository is the composite interface
type SessionRepository interface {
	SessionReader
	SessionWriter
}

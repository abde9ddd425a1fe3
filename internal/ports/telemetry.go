package ports

import (
	"context"

	"github.com/renato0307/shellbox/internal/domain"
)

// TelemetryRepository persists run records
type TelemetryRepository interface {
	Close() error
	List(ctx context.Context) ([]domain.RunRecord, error)
	Record(ctx context.Context, record domain.RunRecord) error
}

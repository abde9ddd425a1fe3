package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/renato0307/shellbox/internal/domain"
	"github.com/renato0307/shellbox/internal/logging"
	"github.com/renato0307/shellbox/internal/ports"
)

// TelemetryRepository implements ports.TelemetryRepository using GORM
type TelemetryRepository struct {
	db *gorm.DB
}

// Verify interface compliance at compile time
var _ ports.TelemetryRepository = (*TelemetryRepository)(nil)

// gormLogger wraps the shellbox logger for GORM
type gormLogger struct {
	level logger.LogLevel
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return &gormLogger{level: level}
}

func (l *gormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Info {
		logging.Logger.Info(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Warn {
		logging.Logger.Warn(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Error {
		logging.Logger.Error(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level < logger.Info {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logging.Logger.Error("gorm query error",
			"error", err,
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	} else if elapsed > 200*time.Millisecond {
		logging.Logger.Warn("slow query",
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	} else {
		logging.Logger.Debug("gorm query",
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	}
}

func newGormLogger() logger.Interface {
	if os.Getenv("SHELLBOX_DEBUG") == "1" {
		return (&gormLogger{}).LogMode(logger.Info)
	}
	return (&gormLogger{}).LogMode(logger.Silent)
}

// NewTelemetryRepository opens (or creates) the telemetry database at dbPath
func NewTelemetryRepository(dbPath string) (*TelemetryRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
		Logger:  newGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")
	db.Exec("PRAGMA synchronous=NORMAL")

	if err := db.AutoMigrate(&RunModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate telemetry schema: %w", err)
	}

	return &TelemetryRepository{db: db}, nil
}

// Close closes the database connection
func (r *TelemetryRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Record stores one run outcome
func (r *TelemetryRepository) Record(ctx context.Context, record domain.RunRecord) error {
	model := domainToRunModel(record)
	return withRetry(func() error {
		if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
			return fmt.Errorf("failed to record run: %w", err)
		}
		return nil
	}, 3)
}

// List returns every recorded run, oldest first
func (r *TelemetryRepository) List(ctx context.Context) ([]domain.RunRecord, error) {
	var models []RunModel
	err := withRetry(func() error {
		return r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&models).Error
	}, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	result := make([]domain.RunRecord, len(models))
	for i, m := range models {
		result[i] = runModelToDomain(m)
	}
	return result, nil
}

// withRetry retries operations on SQLITE_BUSY with linear backoff
func withRetry(fn func() error, maxRetries int) error {
	for i := 0; i < maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}

		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && (sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked) {
			time.Sleep(time.Millisecond * time.Duration(50*(i+1)))
			continue
		}

		return err
	}
	return fmt.Errorf("operation failed after %d retries", maxRetries)
}

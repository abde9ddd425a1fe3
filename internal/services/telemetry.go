package services

import (
	"context"
	"sort"
	"time"

	"github.com/renato0307/shellbox/internal/domain"
	"github.com/renato0307/shellbox/internal/logging"
	"github.com/renato0307/shellbox/internal/ports"
)

// DefaultTopErrorCodes is how many error codes a summary lists
const DefaultTopErrorCodes = 3

// TelemetryService records run outcomes locally when the user opted in
type TelemetryService struct {
	enabled bool
	repo    ports.TelemetryRepository
}

// NewTelemetryService creates a new TelemetryService. A nil repository disables recording.
func NewTelemetryService(repo ports.TelemetryRepository, enabled bool) *TelemetryService {
	return &TelemetryService{
		enabled: enabled && repo != nil,
		repo:    repo,
	}
}

// Enabled reports whether runs are being recorded
func (s *TelemetryService) Enabled() bool {
	return s != nil && s.enabled
}

// Record stores one run. Failures are logged and swallowed.
func (s *TelemetryService) Record(ctx context.Context, record domain.RunRecord) {
	if !s.Enabled() {
		return
	}
	if record.ErrorCode == "" {
		record.ErrorCode = domain.ErrorCodeNone
	}
	if err := s.repo.Record(ctx, record); err != nil {
		logging.Logger.Warn("Failed to record telemetry", "error", err)
	}
}

// Summary aggregates every stored run
func (s *TelemetryService) Summary(ctx context.Context, topN int) (*domain.TelemetrySummary, error) {
	if s == nil || s.repo == nil {
		return &domain.TelemetrySummary{}, nil
	}
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return Summarize(records, topN), nil
}

// Summarize computes totals, success rate, average duration and the most frequent error codes.
// Ties between error codes are ordered by code.
func Summarize(records []domain.RunRecord, topN int) *domain.TelemetrySummary {
	if topN <= 0 {
		topN = DefaultTopErrorCodes
	}

	summary := &domain.TelemetrySummary{Total: len(records)}
	if len(records) == 0 {
		return summary
	}

	var total time.Duration
	counts := make(map[domain.ErrorCode]int)
	for _, r := range records {
		total += r.Duration
		if r.Success {
			summary.Successes++
			continue
		}
		summary.Failures++
		counts[r.ErrorCode]++
	}

	summary.AverageDuration = total / time.Duration(len(records))
	summary.SuccessRate = float64(summary.Successes) / float64(len(records))

	for code, count := range counts {
		summary.TopErrorCodes = append(summary.TopErrorCodes, domain.ErrorCodeCount{Code: code, Count: count})
	}
	sort.Slice(summary.TopErrorCodes, func(i, j int) bool {
		a, b := summary.TopErrorCodes[i], summary.TopErrorCodes[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Code < b.Code
	})
	if len(summary.TopErrorCodes) > topN {
		summary.TopErrorCodes = summary.TopErrorCodes[:topN]
	}
	return summary
}

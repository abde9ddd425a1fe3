package storage

import (
	"time"

	"github.com/renato0307/shellbox/internal/domain"
)

// runModelToDomain converts a RunModel (GORM) to domain.RunRecord
func runModelToDomain(m RunModel) domain.RunRecord {
	return domain.RunRecord{
		CreatedAt: m.CreatedAt,
		Duration:  time.Duration(m.DurationMS) * time.Millisecond,
		ErrorCode: domain.ErrorCode(m.ErrorCode),
		Success:   m.Success,
	}
}

// domainToRunModel converts a domain.RunRecord to RunModel (GORM)
func domainToRunModel(r domain.RunRecord) RunModel {
	code := r.ErrorCode
	if code == "" {
		code = domain.ErrorCodeNone
	}
	return RunModel{
		CreatedAt:  r.CreatedAt.UTC(),
		DurationMS: r.Duration.Milliseconds(),
		ErrorCode:  string(code),
		Success:    r.Success,
	}
}

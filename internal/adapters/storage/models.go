package storage

import "time"

// RunModel is the GORM model for the runs table
type RunModel struct {
	CreatedAt  time.Time `gorm:"not null;index:idx_runs_created_at"`
	DurationMS int64     `gorm:"not null;default:0"`
	ErrorCode  string    `gorm:"not null;default:'none';index:idx_runs_error_code"`
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	Success    bool      `gorm:"not null;default:false"`
}

// TableName specifies the table name for GORM
func (RunModel) TableName() string { return "runs" }

package models

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusCancelled  JobStatus = "cancelled"
)

// CanTransitionTo reports whether the status change is allowed:
// pending -> in_progress -> {completed | failed}, with cancelled reachable
// from pending and in_progress only.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	switch s {
	case JobStatusPending:
		return next == JobStatusInProgress || next == JobStatusCancelled
	case JobStatusInProgress:
		return next == JobStatusCompleted || next == JobStatusFailed || next == JobStatusCancelled
	}
	return false
}

// Active reports whether the job still occupies its table config's slot.
func (s JobStatus) Active() bool {
	return s == JobStatusPending || s == JobStatusInProgress
}

// Terminal reports whether the job can never change status again.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed || s == JobStatusCancelled
}

// VectorizationJob tracks one batch run over a table. At most one active
// (pending or in_progress) job may exist per TableConfig.
type VectorizationJob struct {
	ID             uuid.UUID  `db:"id"`
	TableConfigID  uuid.UUID  `db:"table_config_id"`
	Status         JobStatus  `db:"status"`
	Progress       float64    `db:"progress_percentage"`
	TotalRows      int64      `db:"total_rows"`
	ProcessedRows  int64      `db:"processed_rows"`
	SuccessfulRows int64      `db:"successful_rows"`
	FailedRows     int64      `db:"failed_rows"`
	CollectionName string     `db:"collection_name"`
	ErrorMessage   string     `db:"error_message"`
	StartedAt      *time.Time `db:"started_at"`
	CompletedAt    *time.Time `db:"completed_at"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

const (
	JobStatusPending   = "pending"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// Job is one submitted spreadsheet batch and its aggregate status.
type Job struct {
	ID          uuid.UUID
	Status      string
	CallbackURL sql.NullString
	CreatedAt   time.Time
	CompletedAt sql.NullTime
}

package store

import (
	"errors"
	"time"

	"github.com/ffaiyaz23/image-processor/internal/models"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a job id has no persisted record.
var ErrNotFound = errors.New("record not found")

// Store is the persistence collaborator for jobs and their products.
// Every implementation must create a job and its products atomically and
// serialize individual record reads and writes, so status queries race
// safely against an in-flight processing run.
type Store interface {
	// CreateJobWithProducts persists a job and all its products in a
	// single transaction. On error nothing is persisted.
	CreateJobWithProducts(job *models.Job, products []*models.Product) error

	GetJob(id uuid.UUID) (*models.Job, error)

	// ListProducts returns the job's products in insertion order.
	ListProducts(jobID uuid.UUID) ([]*models.Product, error)

	// UpdateProduct persists a product's output URLs and status.
	UpdateProduct(p *models.Product) error

	// CompleteJob marks the job completed and sets completed_at.
	CompleteJob(id uuid.UUID, completedAt time.Time) error

	// FailJob marks the job failed, leaving completed_at unset.
	FailJob(id uuid.UUID) error
}

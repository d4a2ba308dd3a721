package store

import (
	"database/sql"
	"sync"
	"time"

	"github.com/ffaiyaz23/image-processor/internal/models"
	"github.com/google/uuid"
)

// MemoryStore is an in-process Store used in tests and as the fallback
// when no DATABASE_URL is configured. State does not survive restarts.
type MemoryStore struct {
	mu       sync.RWMutex
	jobs     map[uuid.UUID]models.Job
	products map[uuid.UUID][]models.Product
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jobs:     make(map[uuid.UUID]models.Job),
		products: make(map[uuid.UUID][]models.Product),
	}
}

func (m *MemoryStore) CreateJobWithProducts(job *models.Job, products []*models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.jobs[job.ID] = *job
	batch := make([]models.Product, len(products))
	for i, p := range products {
		batch[i] = *p
	}
	m.products[job.ID] = batch
	return nil
}

func (m *MemoryStore) GetJob(id uuid.UUID) (*models.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, ok := m.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &job, nil
}

func (m *MemoryStore) ListProducts(jobID uuid.UUID) ([]*models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	batch := m.products[jobID]
	products := make([]*models.Product, len(batch))
	for i := range batch {
		p := batch[i]
		products[i] = &p
	}
	return products, nil
}

func (m *MemoryStore) UpdateProduct(p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	batch := m.products[p.JobID]
	for i := range batch {
		if batch[i].Position == p.Position {
			batch[i] = *p
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryStore) CompleteJob(id uuid.UUID, completedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[id]
	if !ok {
		return ErrNotFound
	}
	job.Status = models.JobStatusCompleted
	job.CompletedAt = sql.NullTime{Time: completedAt, Valid: true}
	m.jobs[id] = job
	return nil
}

func (m *MemoryStore) FailJob(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[id]
	if !ok {
		return ErrNotFound
	}
	job.Status = models.JobStatusFailed
	m.jobs[id] = job
	return nil
}

package store

import (
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"github.com/ffaiyaz23/image-processor/internal/models"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// SQLStore implements Store on database/sql. It supports Postgres
// (lib/pq) for deployments and SQLite (modernc, cgo-free) for local
// runs; queries are written with $N placeholders and rebound for SQLite.
type SQLStore struct {
	db     *sql.DB
	driver string
}

var placeholders = regexp.MustCompile(`\$\d+`)

func OpenSQL(driver, dsn string) (*SQLStore, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if driver == DriverSQLite {
		// modernc/sqlite serializes writes on a single connection.
		db.SetMaxOpenConns(1)
	}

	return &SQLStore{db: db, driver: driver}, nil
}

// DB exposes the underlying handle for migrations.
func (s *SQLStore) DB() *sql.DB {
	return s.db
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) rebind(query string) string {
	if s.driver != DriverSQLite {
		return query
	}
	return placeholders.ReplaceAllString(query, "?")
}

func (s *SQLStore) CreateJobWithProducts(job *models.Job, products []*models.Product) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.Exec(s.rebind(`
		INSERT INTO processing_jobs (id, status, callback_url, created_at)
		VALUES ($1, $2, $3, $4)
	`), job.ID.String(), job.Status, job.CallbackURL, job.CreatedAt); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to insert job: %w", err)
	}

	for _, p := range products {
		if _, err := tx.Exec(s.rebind(`
			INSERT INTO products (job_id, position, serial_number, product_name, input_image_urls, output_image_urls, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`), p.JobID.String(), p.Position, p.SerialNumber, p.ProductName, p.InputImageURLs, p.OutputImageURLs, p.Status); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert product %d: %w", p.Position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *SQLStore) GetJob(id uuid.UUID) (*models.Job, error) {
	var job models.Job
	var rawID string
	err := s.db.QueryRow(s.rebind(`
		SELECT id, status, callback_url, created_at, completed_at
		FROM processing_jobs
		WHERE id = $1
	`), id.String()).Scan(&rawID, &job.Status, &job.CallbackURL, &job.CreatedAt, &job.CompletedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	job.ID, err = uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse job id %q: %w", rawID, err)
	}

	return &job, nil
}

func (s *SQLStore) ListProducts(jobID uuid.UUID) ([]*models.Product, error) {
	rows, err := s.db.Query(s.rebind(`
		SELECT position, serial_number, product_name, input_image_urls, output_image_urls, status
		FROM products
		WHERE job_id = $1
		ORDER BY position
	`), jobID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p := models.Product{JobID: jobID}
		if err := rows.Scan(&p.Position, &p.SerialNumber, &p.ProductName,
			&p.InputImageURLs, &p.OutputImageURLs, &p.Status); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}

	return products, nil
}

func (s *SQLStore) UpdateProduct(p *models.Product) error {
	_, err := s.db.Exec(s.rebind(`
		UPDATE products
		SET output_image_urls = $1, status = $2
		WHERE job_id = $3 AND position = $4
	`), p.OutputImageURLs, p.Status, p.JobID.String(), p.Position)
	if err != nil {
		return fmt.Errorf("failed to update product %d: %w", p.Position, err)
	}
	return nil
}

func (s *SQLStore) CompleteJob(id uuid.UUID, completedAt time.Time) error {
	_, err := s.db.Exec(s.rebind(`
		UPDATE processing_jobs
		SET status = $1, completed_at = $2
		WHERE id = $3
	`), models.JobStatusCompleted, completedAt, id.String())
	if err != nil {
		return fmt.Errorf("failed to complete job: %w", err)
	}
	return nil
}

func (s *SQLStore) FailJob(id uuid.UUID) error {
	_, err := s.db.Exec(s.rebind(`
		UPDATE processing_jobs
		SET status = $1
		WHERE id = $2
	`), models.JobStatusFailed, id.String())
	if err != nil {
		return fmt.Errorf("failed to mark job failed: %w", err)
	}
	return nil
}

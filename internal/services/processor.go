package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ffaiyaz23/image-processor/internal/imagefetch"
	"github.com/ffaiyaz23/image-processor/internal/models"
	"github.com/ffaiyaz23/image-processor/internal/store"
	"github.com/google/uuid"
)

const defaultRowPause = 500 * time.Millisecond

// ImageFetcher attempts one image URL and reports a typed outcome.
type ImageFetcher interface {
	Fetch(url string) imagefetch.Result
}

// CompletionNotifier delivers the best-effort completion callback.
type CompletionNotifier interface {
	NotifyCompleted(callbackURL string, jobID uuid.UUID)
}

// Processor drives one job at a time: every product row in insertion
// order, every URL within a row sequentially. Fetches are deliberately
// not concurrent, to bound the load placed on the remote image hosts;
// RowPause adds a courtesy pause after each finished row.
type Processor struct {
	store    store.Store
	fetcher  ImageFetcher
	notifier CompletionNotifier

	RowPause time.Duration
}

func NewProcessor(st store.Store, fetcher ImageFetcher, notifier CompletionNotifier) *Processor {
	return &Processor{
		store:    st,
		fetcher:  fetcher,
		notifier: notifier,
		RowPause: defaultRowPause,
	}
}

// Run processes all products of a job, marks the job completed and fires
// the completion webhook once if a callback URL was registered. If the
// run itself fails (not an individual image: those are tolerated), the
// job is marked failed with completed_at left unset and no webhook is
// sent.
func (p *Processor) Run(jobID uuid.UUID) {
	job, err := p.store.GetJob(jobID)
	if err != nil {
		log.Printf("Error loading job %s: %v", jobID, err)
		p.fail(jobID)
		return
	}

	products, err := p.store.ListProducts(jobID)
	if err != nil {
		log.Printf("Error loading products for job %s: %v", jobID, err)
		p.fail(jobID)
		return
	}

	for _, product := range products {
		if err := p.ProcessRow(product); err != nil {
			log.Printf("Error processing job %s: %v", jobID, err)
			p.fail(jobID)
			return
		}
		time.Sleep(p.RowPause)
	}

	if err := p.store.CompleteJob(jobID, time.Now().UTC()); err != nil {
		log.Printf("Error completing job %s: %v", jobID, err)
		p.fail(jobID)
		return
	}

	if job.CallbackURL.Valid && job.CallbackURL.String != "" {
		p.notifier.NotifyCompleted(job.CallbackURL.String, jobID)
	}
}

// ProcessRow attempts every URL of one product and persists the result
// once at the end. Successful output URLs are collected in completion
// order; failed URLs are logged and omitted. The row is marked processed
// even if no URL succeeded.
func (p *Processor) ProcessRow(product *models.Product) error {
	var outputs []string
	for _, raw := range strings.Split(product.InputImageURLs, ",") {
		url := strings.TrimSpace(raw)
		if url == "" {
			continue
		}

		result := p.fetcher.Fetch(url)
		if result.Err != nil {
			log.Printf("Error downloading or processing image %s: %v", url, result.Err)
			continue
		}
		outputs = append(outputs, result.OutputURL)
	}

	product.OutputImageURLs = strings.Join(outputs, ",")
	product.Status = models.ProductStatusProcessed
	if err := p.store.UpdateProduct(product); err != nil {
		return fmt.Errorf("failed to persist product %d: %w", product.Position, err)
	}

	return nil
}

func (p *Processor) fail(jobID uuid.UUID) {
	if err := p.store.FailJob(jobID); err != nil {
		log.Printf("Error marking job %s failed: %v", jobID, err)
	}
}

package imagefetch

import (
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

const (
	fetchTimeout = 10 * time.Second
	jpegQuality  = 50
)

// Fetcher downloads a remote image, re-encodes it as a quality-50 JPEG
// and writes it under the processed-images directory.
type Fetcher struct {
	httpClient   *http.Client
	processedDir string
	urlPrefix    string
}

// Result is the typed outcome of one fetch attempt: either an OutputURL
// under the static serving prefix, or the reason no artifact was
// produced. Failures are never escalated past the caller's aggregation.
type Result struct {
	OutputURL string
	Err       error
}

func NewFetcher(processedDir, urlPrefix string) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: fetchTimeout,
		},
		processedDir: processedDir,
		urlPrefix:    urlPrefix,
	}
}

// Fetch attempts one URL with a single try. Any failure, from transport
// through encoding, is reported in the Result rather than returned as a
// hard error.
func (f *Fetcher) Fetch(rawURL string) Result {
	resp, err := f.httpClient.Get(rawURL)
	if err != nil {
		return Result{Err: fmt.Errorf("failed to download image: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{Err: fmt.Errorf("failed to download image: status %d", resp.StatusCode)}
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return Result{Err: fmt.Errorf("failed to decode image: %w", err)}
	}

	filename := uuid.New().String() + ".jpg"
	path := filepath.Join(f.processedDir, filename)

	out, err := os.Create(path)
	if err != nil {
		return Result{Err: fmt.Errorf("failed to create output file: %w", err)}
	}

	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		out.Close()
		os.Remove(path)
		return Result{Err: fmt.Errorf("failed to encode image: %w", err)}
	}

	if err := out.Close(); err != nil {
		os.Remove(path)
		return Result{Err: fmt.Errorf("failed to write output file: %w", err)}
	}

	return Result{OutputURL: f.urlPrefix + "/" + filename}
}

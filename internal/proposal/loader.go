package proposal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// maxDatasetSize caps dataset downloads at 32 MB. The published dataset
// is well under 1 MB; anything larger is a broken or hostile endpoint.
const maxDatasetSize = 32 << 20

// Loader fetches the proposal dataset from a remote endpoint or reads it
// from a local file.
type Loader struct {
	client *http.Client
}

// NewLoader creates a Loader whose remote fetches use the given timeout.
func NewLoader(timeout time.Duration) *Loader {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Loader{
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch downloads and parses the dataset from url.
func (l *Loader) Fetch(ctx context.Context, url string) ([]Proposal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build dataset request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dataset fetch returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDatasetSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset body: %w", err)
	}

	return Parse(data)
}

// LoadFile parses the dataset from a local file path.
func (l *Loader) LoadFile(path string) ([]Proposal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset file %s: %w", path, err)
	}
	return Parse(data)
}

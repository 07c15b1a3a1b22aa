package source

import (
	"context"
	"fmt"
	"net/http"
)

// HTTP fetches a source image over http(s).
type HTTP struct {
	url string
}

// Compile-time check that HTTP implements Fetcher.
var _ Fetcher = (*HTTP)(nil)

// Fetch downloads the URL into destDir and returns the local path.
func (h *HTTP) Fetch(ctx context.Context, destDir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", h.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading %s: unexpected status %s", h.url, resp.Status)
	}

	return save(resp.Body, baseName(req.URL.Path), destDir)
}

package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Source resolves a table name to its CSV content
type Source interface {
	Open(ctx context.Context, table string) (io.ReadCloser, error)
}

// FileName returns the CSV file name of a table
func FileName(table string) string {
	return table + "_df.csv"
}

// DirSource reads tables from a local directory
type DirSource struct {
	Dir string
}

// Open opens <Dir>/<table>_df.csv
func (s DirSource) Open(ctx context.Context, table string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.Dir, FileName(table)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s in %s: %w", table, s.Dir, ErrTableNotFound)
		}
		return nil, err
	}
	return f, nil
}

// HTTPSource downloads tables from a base URL
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
	Limiter *rate.Limiter
}

// NewHTTPSource creates a source that issues at most rps requests per second
func NewHTTPSource(baseURL string, rps int) *HTTPSource {
	if rps <= 0 {
		rps = 1
	}
	return &HTTPSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 2 * time.Minute},
		Limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Open downloads <BaseURL>/<table>_df.csv. The caller closes the body.
func (s *HTTPSource) Open(ctx context.Context, table string) (io.ReadCloser, error) {
	if s.Limiter != nil {
		if err := s.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	url := s.BaseURL + "/" + FileName(table)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, fmt.Errorf("%s: %w", url, ErrTableNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		resp.Body.Close()
		return nil, fmt.Errorf("failed to fetch %s: unexpected status %s", url, resp.Status)
	}
	return resp.Body, nil
}

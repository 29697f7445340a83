package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"launchdash/pkg/retry"
)

// Source yields the raw bytes of the launch dataset
type Source interface {
	// Load returns the full dataset contents
	Load(ctx context.Context) ([]byte, error)

	// Name identifies the source in logs
	Name() string
}

// New returns an HTTPSource for http(s) locations and a FileSource otherwise
func New(location string, timeout time.Duration) Source {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return NewHTTPSource(location, &http.Client{Timeout: timeout})
	}
	return NewFileSource(location)
}

// FileSource reads the dataset from the local filesystem
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset file: %w", err)
	}
	return data, nil
}

func (s *FileSource) Name() string {
	return s.path
}

// StatusError is returned for a non-2xx response
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Code)
}

// HTTPSource downloads the dataset, retrying transport failures and 5xx responses
type HTTPSource struct {
	url       string
	client    *http.Client
	retryOpts retry.Options
}

func NewHTTPSource(url string, client *http.Client) *HTTPSource {
	return &HTTPSource{
		url:       url,
		client:    client,
		retryOpts: retry.DefaultOptions(),
	}
}

// WithRetry replaces the backoff policy
func (s *HTTPSource) WithRetry(opts retry.Options) *HTTPSource {
	s.retryOpts = opts
	return s
}

func (s *HTTPSource) Load(ctx context.Context) ([]byte, error) {
	var data []byte
	err := retry.Do(ctx, func(ctx context.Context) error {
		var err error
		data, err = s.fetch(ctx)
		return err
	}, s.retryOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to download dataset: %w", err)
	}
	return data, nil
}

func (s *HTTPSource) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, retry.Permanent(err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{URL: s.url, Code: resp.StatusCode}
		if resp.StatusCode < 500 {
			return nil, retry.Permanent(statusErr)
		}
		return nil, statusErr
	}

	return io.ReadAll(resp.Body)
}

func (s *HTTPSource) Name() string {
	return s.url
}

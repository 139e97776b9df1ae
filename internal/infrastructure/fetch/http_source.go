package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"SalaryPrep/internal/ports"
)

const (
	defaultMaxAttempts  = 3
	defaultInitialDelay = 500 * time.Millisecond
	maxErrorBody        = 1024
)

// HTTPSource downloads the raw dataset from a URL.
type HTTPSource struct {
	url          string
	client       *http.Client
	maxAttempts  int
	initialDelay time.Duration
	logger       *slog.Logger
}

var _ ports.DatasetSource = (*HTTPSource)(nil)

// NewHTTPSource wires an HTTP client; maxAttempts below 1 defaults to 3.
func NewHTTPSource(url string, client *http.Client, maxAttempts int, log *slog.Logger) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if maxAttempts < 1 {
		maxAttempts = defaultMaxAttempts
	}
	return &HTTPSource{
		url:          url,
		client:       client,
		maxAttempts:  maxAttempts,
		initialDelay: defaultInitialDelay,
		logger:       log,
	}
}

// statusError is returned for non-200 responses.
type statusError struct {
	status string
	code   int
	body   string
}

func (e *statusError) Error() string {
	if e.body == "" {
		return fmt.Sprintf("dataset source returned %s", e.status)
	}
	return fmt.Sprintf("dataset source returned %s: %s", e.status, e.body)
}

// retryable reports whether another attempt may succeed.
func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || se.code >= http.StatusInternalServerError
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// Fetch returns the response body of a successful GET. Transient failures
// (network errors, 429, 5xx) are retried with exponential backoff.
func (s *HTTPSource) Fetch(ctx context.Context) (io.ReadCloser, error) {
	delay := s.initialDelay
	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		body, err := s.get(ctx)
		if err == nil {
			if attempt > 1 {
				s.info("dataset fetched after retry", "attempt", attempt)
			}
			return body, nil
		}
		lastErr = err
		if attempt == s.maxAttempts || !retryable(err) {
			break
		}

		s.warn("fetch failed, retrying", "attempt", attempt, "max_attempts", s.maxAttempts, "error", err, "next_delay", delay)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("fetch aborted during backoff: %w", ctx.Err())
		}
		delay *= 2
	}
	return nil, fmt.Errorf("fetch %s: %w", s.url, lastErr)
}

func (s *HTTPSource) get(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "SalaryPrep/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request dataset: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		_ = resp.Body.Close()
		return nil, &statusError{status: resp.Status, code: resp.StatusCode, body: string(payload)}
	}
	return resp.Body, nil
}

func (s *HTTPSource) info(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

func (s *HTTPSource) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}

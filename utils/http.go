package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"product-extractor/internal/types"
)

var (
	// ErrUnexpectedStatus is returned when the server answers with a non-200 status
	ErrUnexpectedStatus = errors.New("unexpected status code")
	// ErrEmptyBody is returned when the server answers 200 with no content
	ErrEmptyBody = errors.New("empty response body")
)

// maxBodySize caps how much of a product page is read into memory
const maxBodySize = 16 << 20

// HTTPClient provides HTTP functionality with optional paced retries
type HTTPClient struct {
	client *http.Client
	config *types.Config
	logger types.Logger
}

// NewHTTPClient creates a new HTTP client with the given configuration
func NewHTTPClient(config *types.Config, logger types.Logger) *HTTPClient {
	client := &http.Client{
		Timeout: config.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	return &HTTPClient{
		client: client,
		config: config,
		logger: logger,
	}
}

// Fetch performs a single GET request and returns the body and status code.
// A non-200 status is not an error at this level.
func (h *HTTPClient) Fetch(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", h.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", h.config.AcceptLanguage)
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, resp.StatusCode, nil
}

// retryable reports whether a non-200 status is worth another attempt.
// Client errors other than timeouts and rate limiting will not change on retry.
func retryable(status int) bool {
	if status >= 400 && status < 500 {
		return status == http.StatusRequestTimeout || status == http.StatusTooManyRequests
	}
	return true
}

// wait blocks for RequestDelay or until ctx is done
func (h *HTTPClient) wait(ctx context.Context) error {
	if h.config.RequestDelay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(h.config.RequestDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Get performs a GET request that must answer 200 with a non-empty body.
// Failed attempts are retried up to MaxRetries times, each retry waiting
// RequestDelay after the previous attempt. 4xx statuses other than 408 and
// 429 fail at once.
func (h *HTTPClient) Get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= h.config.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if attempt > 0 {
			if err := h.wait(ctx); err != nil {
				return nil, err
			}
		}

		h.logger.Debugf("Making request to %s (attempt %d/%d)", url, attempt+1, h.config.MaxRetries+1)

		body, status, err := h.Fetch(ctx, url)
		if err != nil {
			lastErr = err
			h.logger.Warnf("Request failed (attempt %d): %v", attempt+1, err)
			continue
		}

		if status != http.StatusOK {
			lastErr = fmt.Errorf("%w: %d", ErrUnexpectedStatus, status)
			h.logger.Warnf("Unexpected status code %d (attempt %d)", status, attempt+1)
			if !retryable(status) {
				return nil, lastErr
			}
			continue
		}

		if len(body) == 0 {
			lastErr = ErrEmptyBody
			h.logger.Warnf("Empty response body from %s (attempt %d)", url, attempt+1)
			continue
		}

		h.logger.Debugf("Successfully retrieved %d bytes from %s", len(body), url)
		return body, nil
	}

	return nil, fmt.Errorf("all retry attempts failed: %w", lastErr)
}

// Close releases idle keep-alive connections
func (h *HTTPClient) Close() {
	h.client.CloseIdleConnections()
}

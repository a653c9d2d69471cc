package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Client is a thin wrapper around http.Client that paces requests with a
// minimum interval, so site fetches stay close to human browsing speed.
type Client struct {
	httpClient  *http.Client
	userAgent   string
	minInterval time.Duration

	mu          sync.Mutex
	nextRequest time.Time

	logger *logrus.Logger
}

// NewClient creates a rate-limited client. Intervals below 100ms are
// clamped up to keep pacing meaningful.
func NewClient(userAgent string, minInterval, timeout time.Duration, logger *logrus.Logger) *Client {
	if logger == nil {
		logger = logrus.New()
	}
	if minInterval < 100*time.Millisecond {
		minInterval = 100 * time.Millisecond
	}
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		userAgent:   userAgent,
		minInterval: minInterval,
		logger:      logger,
	}
}

// Get fetches the URL with the given query parameters, waiting out the
// pacing interval first. Non-2xx responses are returned as errors.
func (c *Client) Get(ctx context.Context, rawURL string, params url.Values) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}

	target := rawURL
	if len(params) > 0 {
		target = rawURL + "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	c.logger.WithField("url", target).Debug("Fetching page")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status %d for %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	return string(body), nil
}

// wait blocks until the pacing interval has elapsed or the context is done,
// then reserves the next slot.
func (c *Client) wait(ctx context.Context) error {
	c.mu.Lock()
	now := time.Now()
	delay := c.nextRequest.Sub(now)
	if delay < 0 {
		delay = 0
	}
	c.nextRequest = now.Add(delay + c.minInterval)
	c.mu.Unlock()

	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

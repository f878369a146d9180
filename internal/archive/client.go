package archive

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/corpix/uarand"

	domerrors "github.com/clcdev/sermon-linebot-go/internal/errors"
)

// Client is the HTTP client shared by the archive backends. It retries
// transient failures with exponential backoff and rotates User-Agents, since
// Google occasionally throttles anonymous sheet reads.
type Client struct {
	httpClient   *http.Client
	maxRetries   int
	initialDelay time.Duration
	maxDelay     time.Duration
}

// NewClient creates an archive HTTP client.
func NewClient(timeout time.Duration, maxRetries int) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		maxRetries:   maxRetries,
		initialDelay: time.Second,
		maxDelay:     10 * time.Second,
	}
}

// Get performs a GET request with retries.
// Caller is responsible for closing the response body.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	var resp *http.Response

	err := retryWithBackoff(ctx, c.maxRetries, c.initialDelay, c.maxDelay, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
		if err != nil {
			return permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("User-Agent", uarand.GetRandom())
		req.Header.Set("Accept", "*/*")

		resp, err = c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			_ = resp.Body.Close()

			err := domerrors.NewArchiveError(url, resp.StatusCode, fmt.Errorf("unexpected status"))
			switch {
			case resp.StatusCode == http.StatusTooManyRequests:
				return err // retry
			case resp.StatusCode >= 500:
				return err // retry
			default:
				return permanent(err) // 4xx: retrying will not help
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// permanentError marks an error that must not be retried.
type permanentError struct{ err error }

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

func permanent(err error) error { return &permanentError{err: err} }

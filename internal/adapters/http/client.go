package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// ClientConfig holds HTTP client configuration
type ClientConfig struct {
	// FetchTimeout bounds the whole request for small JSON responses.
	FetchTimeout time.Duration
	// DownloadTimeout bounds connection setup and time-to-first-byte for
	// asset downloads. The body itself may stream for as long as it needs.
	DownloadTimeout time.Duration
	MaxRetries      int
	UserAgent       string
}

// DefaultClientConfig returns default HTTP client configuration
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		FetchTimeout:    30 * time.Second,
		DownloadTimeout: 60 * time.Second,
		MaxRetries:      0,
		UserAgent:       defaultUserAgent,
	}
}

// Client is the single production HTTP transport: page fetches share one
// fully-bounded client, asset downloads a streaming one.
type Client struct {
	fetch    *http.Client
	download *http.Client
	config   ClientConfig
}

// NewClient creates a new HTTP client
func NewClient(config ClientConfig) *Client {
	if config.FetchTimeout == 0 {
		config.FetchTimeout = 30 * time.Second
	}
	if config.DownloadTimeout == 0 {
		config.DownloadTimeout = 60 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = defaultUserAgent
	}

	return &Client{
		fetch: &http.Client{
			Timeout: config.FetchTimeout,
		},
		download: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: config.DownloadTimeout,
				}).DialContext,
				TLSHandshakeTimeout:   config.DownloadTimeout,
				ResponseHeaderTimeout: config.DownloadTimeout,
			},
		},
		config: config,
	}
}

// GetJSON fetches a URL and decodes the JSON response into target.
func (c *Client) GetJSON(ctx context.Context, url string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.fetch.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Download performs a streaming GET and returns the response body along with
// a flattened copy of the response headers. The caller owns the body.
// Transport errors and 5xx responses are retried with a linear backoff;
// MaxRetries of zero means a single attempt.
func (c *Client) Download(ctx context.Context, url string, headers map[string]string) (io.ReadCloser, map[string]string, error) {
	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", c.config.UserAgent)
		for key, value := range headers {
			req.Header.Set(key, value)
		}

		resp, lastErr = c.download.Do(req)
		if lastErr == nil && resp.StatusCode < http.StatusInternalServerError {
			break
		}
		if resp != nil && attempt < c.config.MaxRetries {
			resp.Body.Close()
		}
	}

	if lastErr != nil {
		return nil, nil, fmt.Errorf("request failed after %d attempts: %w", c.config.MaxRetries+1, lastErr)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		resp.Body.Close()
		return nil, nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	responseHeaders := make(map[string]string, len(resp.Header))
	for key := range resp.Header {
		responseHeaders[key] = resp.Header.Get(key)
	}
	return resp.Body, responseHeaders, nil
}

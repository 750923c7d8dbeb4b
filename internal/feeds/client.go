package feeds

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Fetcher retrieves raw feed bytes. Implementations own timeouts and any
// connection reuse; failures are reported as *TransportError.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// TransportError is a network, timeout or non-2xx failure
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("GET %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("GET %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError is a payload whose overall shape could not be decoded
type ParseError struct {
	Feed string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed %s payload: %v", e.Feed, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Client is the HTTP implementation of Fetcher
type Client struct {
	userAgent  string
	httpClient *http.Client
}

// NewClient creates a new feed client
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		userAgent: "crisisboard/1.0",
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewClientWithHTTPClient creates a feed client around a custom http.Client (for testing)
func NewClientWithHTTPClient(httpClient *http.Client) *Client {
	return &Client{
		userAgent:  "crisisboard/1.0",
		httpClient: httpClient,
	}
}

// Get fetches url and returns the response body
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.doRequest(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: url, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	return body, nil
}

func (c *Client) doRequest(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &TransportError{URL: url, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{URL: url, Err: fmt.Errorf("request failed: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &TransportError{URL: url, StatusCode: resp.StatusCode}
	}

	return resp, nil
}

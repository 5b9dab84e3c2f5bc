package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client fetches status pages over HTTP. The zero value is not usable;
// build one with NewClient.
type Client struct {
	http     *http.Client
	username string
	password string
}

// NewClient returns a Client whose requests give up after timeout.
// When username is non-empty every request carries basic auth.
func NewClient(timeout time.Duration, username, password string) *Client {
	return &Client{
		http:     &http.Client{Timeout: timeout},
		username: username,
		password: password,
	}
}

// Get fetches url and returns the response body. Non-2xx statuses are
// errors: 401 and 403 map to ErrAuth, everything else to ErrConnection.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: build request for %s: %w", url, err)
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		if timedOut(err) {
			return nil, fmt.Errorf("fetch: get %s: %v: %w", url, err, ErrTimeout)
		}
		return nil, fmt.Errorf("fetch: get %s: %v: %w", url, err, ErrConnection)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("fetch: get %s: status %d: %w", url, resp.StatusCode, ErrAuth)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch: get %s: status %d: %w", url, resp.StatusCode, ErrConnection)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if timedOut(err) {
			return nil, fmt.Errorf("fetch: read %s: %v: %w", url, err, ErrTimeout)
		}
		return nil, fmt.Errorf("fetch: read %s: %v: %w", url, err, ErrConnection)
	}
	return body, nil
}

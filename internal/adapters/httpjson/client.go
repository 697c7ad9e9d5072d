// Package httpjson is the JSON-over-HTTP transport shared by the relay and
// transaction service clients.
package httpjson

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/rmeissner/simple-safe/internal/domain"
)

// Client sends JSON requests relative to a base URL
type Client struct {
	name       string
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a client. An empty baseURL makes every call fail with
// an error naming the "<name>_url" setting.
func NewClient(name, baseURL string, timeout time.Duration, log *slog.Logger) *Client {
	return &Client{
		name:       name,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log.With("component", name),
	}
}

// URL resolves path against the base URL
func (c *Client) URL(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// Do sends body as JSON and decodes a 2xx answer into out. Either may be nil.
// Non-2xx answers are returned as *domain.HTTPError.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	if c.baseURL == "" {
		return fmt.Errorf("%s_url is not configured", c.name)
	}
	return c.DoURL(ctx, method, c.URL(path), body, out)
}

// DoURL is Do with an absolute URL, used to follow pagination links
func (c *Client) DoURL(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug("request", "method", method, "url", url)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return &domain.HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

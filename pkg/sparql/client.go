// Package sparql provides an HTTP client for a Fuseki triple store and
// parameterized query builders for the tweet/user graph.
package sparql

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/chirpd/chirpd/pkg/logging"
)

// DefaultTimeout bounds every request to the triple store.
const DefaultTimeout = 10 * time.Second

// Client talks to a Fuseki dataset over its SPARQL protocol endpoints.
type Client struct {
	base       string
	dataset    string
	httpClient *http.Client
	log        *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout overrides the request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithClientLogger sets the operational logger.
func WithClientLogger(log *slog.Logger) ClientOption {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// NewClient creates a client for the dataset at base, e.g.
// NewClient("http://localhost:3030", "ds").
func NewClient(base, dataset string, opts ...ClientOption) *Client {
	c := &Client{
		base:       strings.TrimRight(base, "/"),
		dataset:    dataset,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		log:        logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Select runs a SELECT query and decodes the SPARQL JSON results.
func (c *Client) Select(ctx context.Context, query string) (*Results, error) {
	endpoint := fmt.Sprintf("%s/%s/sparql?query=%s&format=json",
		c.base, c.dataset, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building select request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Operation: "select", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &UpstreamError{
			Operation: "select",
			Status:    resp.StatusCode,
			Err:       fmt.Errorf("%s", strings.TrimSpace(string(body))),
		}
	}

	results, err := DecodeResults(resp.Body)
	if err != nil {
		return nil, &UpstreamError{Operation: "select", Err: err}
	}
	c.log.Debug("sparql select", "bindings", len(results.Bindings()))
	return results, nil
}

// Update runs an update (INSERT/DELETE) against the update endpoint.
// Fuseki accepts updates as a form-encoded POST.
func (c *Client) Update(ctx context.Context, update string) error {
	endpoint := fmt.Sprintf("%s/%s/update", c.base, c.dataset)
	form := url.Values{"update": {update}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("building update request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &UpstreamError{Operation: "update", Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &UpstreamError{Operation: "update", Status: resp.StatusCode}
	}
	c.log.Debug("sparql update", "status", resp.StatusCode)
	return nil
}

// InsertJSONLD posts a JSON-LD document to the dataset's graph store
// endpoint.
func (c *Client) InsertJSONLD(ctx context.Context, doc []byte) error {
	endpoint := fmt.Sprintf("%s/%s/data", c.base, c.dataset)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(string(doc)))
	if err != nil {
		return fmt.Errorf("building data request: %w", err)
	}
	req.Header.Set("Content-Type", "application/ld+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &UpstreamError{Operation: "data", Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &UpstreamError{Operation: "data", Status: resp.StatusCode}
	}
	return nil
}

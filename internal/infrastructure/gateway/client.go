// Package gateway is the HTTP facade over the remote Be The Hero REST API.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bethehero/web/internal/core/domain"
	"github.com/bethehero/web/internal/core/ports"
	"github.com/bethehero/web/internal/pkg/metrics"
)

// maxErrorBody caps how much of a failed response body is kept for logs.
const maxErrorBody = 512

// StatusError reports a non-2xx answer from the remote API.
type StatusError struct {
	Method     string
	Resource   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Resource, e.StatusCode)
}

// Unwrap lets callers match any StatusError with errors.Is(err, domain.ErrRemote).
func (e *StatusError) Unwrap() error {
	return domain.ErrRemote
}

// Client talks to the remote API on behalf of one browser. The default
// Authorization header is per client, so every workspace owns its own Client
// while sharing the underlying *http.Client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger

	mu            sync.RWMutex
	authorization string
}

var _ ports.APIGateway = (*Client)(nil)

// NewClient constructs a client targeting baseURL.
func NewClient(baseURL string, httpClient *http.Client, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		log:        log.With().Str("component", "gateway").Logger(),
	}
}

// Factory builds per-browser clients sharing one connection pool.
type Factory struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewFactory returns a Factory. A zero timeout means requests never time out.
func NewFactory(baseURL string, timeout time.Duration, log zerolog.Logger) *Factory {
	return &Factory{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// New returns a fresh client without an Authorization header.
func (f *Factory) New() ports.APIGateway {
	return NewClient(f.baseURL, f.httpClient, f.log)
}

// SetAuthorization installs "Bearer <token>" as the default header.
func (c *Client) SetAuthorization(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if token == "" {
		c.authorization = ""
		return
	}
	c.authorization = "Bearer " + token
}

// Authorization returns the current default Authorization header.
func (c *Client) Authorization() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.authorization
}

// Get issues GET <base>/<resource>?<query>.
func (c *Client) Get(ctx context.Context, resource string, query url.Values) (*ports.APIResponse, error) {
	return c.do(ctx, http.MethodGet, resource, query, nil)
}

// Post issues POST <base>/<resource> with payload encoded as JSON.
func (c *Client) Post(ctx context.Context, resource string, payload any) (*ports.APIResponse, error) {
	return c.do(ctx, http.MethodPost, resource, nil, payload)
}

// Delete issues DELETE <base>/<resource>.
func (c *Client) Delete(ctx context.Context, resource string) (*ports.APIResponse, error) {
	return c.do(ctx, http.MethodDelete, resource, nil, nil)
}

func (c *Client) do(ctx context.Context, method, resource string, query url.Values, payload any) (*ports.APIResponse, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("%w: api base URL not configured", domain.ErrRemote)
	}

	endpoint := c.baseURL + "/" + strings.TrimLeft(resource, "/")
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s payload: %w", method, resource, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s request: %w", method, resource, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth := c.Authorization(); auth != "" {
		req.Header.Set("Authorization", auth)
	}

	label := resourceLabel(resource)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(method, label, "error").Inc()
		c.log.Warn().Err(err).Str("method", method).Str("resource", resource).Msg("upstream request failed")
		return nil, fmt.Errorf("%s %s: %w: %w", method, resource, domain.ErrRemote, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	code := strconv.Itoa(resp.StatusCode)
	metrics.UpstreamRequestsTotal.WithLabelValues(method, label, code).Inc()
	metrics.UpstreamRequestDuration.WithLabelValues(method, label).Observe(elapsed.Seconds())
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w: %w", method, resource, domain.ErrRemote, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := data
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		c.log.Info().
			Str("method", method).
			Str("resource", resource).
			Int("status", resp.StatusCode).
			Dur("elapsed", elapsed).
			Msg("upstream rejected request")
		return nil, &StatusError{
			Method:     method,
			Resource:   resource,
			StatusCode: resp.StatusCode,
			Body:       string(snippet),
		}
	}

	c.log.Debug().
		Str("method", method).
		Str("resource", resource).
		Int("status", resp.StatusCode).
		Dur("elapsed", elapsed).
		Msg("upstream request done")

	return &ports.APIResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

// knownResources are the path segments kept verbatim in metric labels; any
// other segment is an identifier.
var knownResources = map[string]struct{}{
	"sessions":  {},
	"ngos":      {},
	"incidents": {},
}

// resourceLabel collapses identifiers so "ngos/42/incidents" becomes
// "ngos/:id/incidents".
func resourceLabel(resource string) string {
	parts := strings.Split(strings.Trim(resource, "/"), "/")
	for i, p := range parts {
		if _, ok := knownResources[p]; !ok {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}

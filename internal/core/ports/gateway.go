package ports

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// APIResponse is a successful (2xx) response of the remote API.
type APIResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the JSON body into v.
func (r *APIResponse) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

// APIGateway is the single HTTP facade over the remote REST API. Resources are
// paths relative to the configured base URL, e.g. "ngos/42/incidents".
// Implementations return an error wrapping domain.ErrRemote for any non-2xx
// status or transport failure.
type APIGateway interface {
	Get(ctx context.Context, resource string, query url.Values) (*APIResponse, error)
	Post(ctx context.Context, resource string, payload any) (*APIResponse, error)
	Delete(ctx context.Context, resource string) (*APIResponse, error)

	// SetAuthorization installs "Bearer <token>" as the default Authorization
	// header for every subsequent request. An empty token removes it.
	SetAuthorization(token string)
	// Authorization returns the current default Authorization header value.
	Authorization() string
}

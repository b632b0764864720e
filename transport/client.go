// Package transport wraps outbound HTTP requests to the remote auth service.
// It attaches the stored bearer credential to every call, normalizes
// failures, and recovers transparently from expired-token responses through
// the refresh coordinator: the calling code only ever sees an expired
// credential when recovery itself has failed.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-auth-client/credentials"
	clienterrors "github.com/jrsteele09/go-auth-client/internal/errors"
)

// retryMarker is the context key carrying the "already retried once" flag.
// It guarantees at most one refresh-triggered retry per original call.
type retryMarker struct{}

func markRetried(ctx context.Context) context.Context {
	return context.WithValue(ctx, retryMarker{}, true)
}

func alreadyRetried(ctx context.Context) bool {
	retried, _ := ctx.Value(retryMarker{}).(bool)
	return retried
}

// Client issues JSON requests against the remote auth service.
type Client struct {
	baseURL   string
	http      *http.Client
	creds     credentials.Store
	refresher *Coordinator
	timeout   time.Duration
	log       zerolog.Logger
}

// Option defines a function type to modify the Client instance.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The client's cookie
// jar carries the ambient renewal credential used by refresh calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the per-call timeout. A timed-out call is a generic
// failure, never an expired-credential signal.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the logger used for transport-level events.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.log = logger
	}
}

// WithRefreshTimeout bounds the outbound refresh call.
func WithRefreshTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.refresher.timeout = d
	}
}

// NewClient initializes a Client with required dependencies. Optional
// configuration can be provided via options.
func NewClient(baseURL string, creds credentials.Store, options ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("[NewClient] baseURL is required")
	}
	if creds == nil {
		return nil, errors.New("[NewClient] credential store is required")
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "[NewClient] cookie jar")
	}

	client := &Client{
		baseURL: baseURL,
		http:    &http.Client{Jar: jar},
		creds:   creds,
		timeout: 15 * time.Second,
		log:     zerolog.Nop(),
	}
	client.refresher = newCoordinator(client)

	for _, opt := range options {
		opt(client)
	}

	return client, nil
}

// OnSessionExpired registers a callback fired when the session is torn down
// because refresh failed or a renewed token was rejected. Callbacks run on
// the goroutine that observed the failure; hosts typically navigate to the
// login view here.
func (c *Client) OnSessionExpired(fn func()) {
	c.refresher.onExpired(fn)
}

// InvalidateRefresh marks any in-flight refresh as stale so its result
// cannot resurrect a session cleared by logout.
func (c *Client) InvalidateRefresh() {
	c.refresher.invalidate()
}

// Get issues a GET request and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST request with a JSON body and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT request with a JSON body and decodes the response into out.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Do issues a request with the stored credential attached. When the service
// rejects the token as expired, the refresh coordinator obtains a new one
// and the request is replayed exactly once; a second expiry on the replay is
// a hard failure that tears the session down.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	err := c.dispatch(ctx, method, path, body, out)

	var apiErr *APIError
	if !errors.As(err, &apiErr) || !apiErr.TokenExpired() {
		return err
	}

	if alreadyRetried(ctx) {
		// The renewed token was rejected too. Never refresh twice for one
		// original call.
		c.log.Warn().Str("path", path).Msg("Renewed token rejected, forcing logout")
		c.refresher.expire()
		return clienterrors.Wrapf(clienterrors.ErrSessionExpired, "%s %s", method, path)
	}

	if _, err := c.refresher.refresh(); err != nil {
		return clienterrors.Wrapf(clienterrors.ErrSessionExpired, "%s %s", method, path)
	}

	return c.Do(markRetried(ctx), method, path, body, out)
}

func (c *Client) dispatch(ctx context.Context, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "[dispatch] encode %s %s", method, path)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrapf(err, "[dispatch] build %s %s", method, path)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token, ok := c.creds.Get(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return clienterrors.Wrapf(clienterrors.ErrTimeout, "%s %s", method, path)
		}
		return clienterrors.Wrapf(clienterrors.ErrNetwork, "%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.decodeError(resp, method, path)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "[dispatch] decode %s %s", method, path)
	}
	return nil
}

func (c *Client) decodeError(resp *http.Response, method, path string) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
		if apiErr.Message == "" {
			apiErr.Message = body.Error
		}
	}

	c.log.Debug().
		Int("status", apiErr.Status).
		Str("code", apiErr.Code).
		Str("path", path).
		Msg("Request failed")
	return errors.Wrapf(apiErr, "%s %s", method, path)
}

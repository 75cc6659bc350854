package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultTimeout = 30 * time.Second

// Config defines a public type used by pipeline APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string

	// HTTPClient overrides the underlying transport. Its own Timeout is left
	// untouched; the pipeline applies the per-call deadline via context.
	HTTPClient *http.Client

	// Tokens supplies the bearer credential for injection. May be nil.
	Tokens TokenSource

	// OnLatency is invoked once per dispatched request with the transport
	// round-trip duration. May be nil.
	OnLatency func(time.Duration)

	// OnError is invoked once per normalized failure before it is returned.
	// May be nil. It must not retry or surface UI of its own for 401/403;
	// the caller reacts via [Error.Category].
	OnError func(*Error)

	// Middlewares run outermost, before credential injection.
	Middlewares []Middleware
}

// Client defines a public type used by pipeline APIs.
//
// Client instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Client struct {
	base      *url.URL
	timeout   time.Duration
	userAgent string
	do        RoundTripFunc
	onError   func(*Error)
}

// NewClient describes the newclient operation and its observable behavior.
//
// NewClient may return an error when input validation, dependency calls, or security checks fail.
// NewClient does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base URL required")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, errors.New("base URL must be absolute")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	transport := func(req *http.Request) (*http.Response, error) {
		return httpClient.Do(req)
	}
	middlewares := append([]Middleware(nil), cfg.Middlewares...)
	middlewares = append(middlewares,
		credentialMiddleware(cfg.Tokens),
		correlationMiddleware(),
		timingMiddleware(cfg.OnLatency),
	)

	return &Client{
		base:      base,
		timeout:   timeout,
		userAgent: cfg.UserAgent,
		do:        chain(transport, middlewares...),
		onError:   cfg.OnError,
	}, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	ErrText string          `json:"error"`
}

func (e envelope) errorMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return e.ErrText
}

// Request dispatches one logical API call and decodes the response envelope
// into out (which may be nil). Exactly one of the return paths is taken: nil on
// success, or a single [*Error] on failure. The body, when non-nil, is JSON
// encoded.
func (c *Client) Request(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return c.fail(&Error{Kind: KindNetwork, Message: "encode request body", cause: err})
		}
		payload = bytes.NewReader(data)
	}

	req, cid, cancel, perr := c.newRequest(ctx, method, path, payload)
	if perr != nil {
		return c.fail(perr)
	}
	defer cancel()
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.dispatch(req, cid, out)
}

// Get describes the get operation and its observable behavior.
//
// Get may return an error when input validation, dependency calls, or security checks fail.
// Get does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Request(ctx, http.MethodGet, path, nil, out)
}

// Post describes the post operation and its observable behavior.
//
// Post may return an error when input validation, dependency calls, or security checks fail.
// Post does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Request(ctx, http.MethodPost, path, body, out)
}

// Put describes the put operation and its observable behavior.
//
// Put may return an error when input validation, dependency calls, or security checks fail.
// Put does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Request(ctx, http.MethodPut, path, body, out)
}

// Patch describes the patch operation and its observable behavior.
//
// Patch may return an error when input validation, dependency calls, or security checks fail.
// Patch does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Request(ctx, http.MethodPatch, path, body, out)
}

// Delete describes the delete operation and its observable behavior.
//
// Delete may return an error when input validation, dependency calls, or security checks fail.
// Delete does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Request(ctx, http.MethodDelete, path, nil, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, string, context.CancelFunc, *Error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cid := correlationIDFromContext(ctx)
	if cid == "" {
		cid = uuid.NewString()
		ctx = WithCorrelationID(ctx, cid)
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), body)
	if err != nil {
		cancel()
		return nil, "", nil, &Error{Kind: KindNetwork, Message: "build request", CorrelationID: cid, cause: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return req, cid, cancel, nil
}

func (c *Client) resolve(path string) string {
	base := strings.TrimRight(c.base.String(), "/")
	if path == "" {
		return base
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// dispatch sends the prepared request and normalizes every outcome. The
// envelope is unwrapped on success; a failed envelope under a 2xx status is
// still an HTTP-kind error.
func (c *Client) dispatch(req *http.Request, cid string, out any) error {
	resp, err := c.do(req)
	if err != nil {
		return c.fail(&Error{
			Kind:          KindNetwork,
			Message:       "network error",
			CorrelationID: cid,
			cause:         err,
		})
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return c.fail(&Error{
			Kind:          KindNetwork,
			Message:       "network error",
			CorrelationID: cid,
			cause:         err,
		})
	}

	var env envelope
	decoded := len(raw) > 0 && json.Unmarshal(raw, &env) == nil

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := ""
		if decoded {
			message = env.errorMessage()
		}
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return c.fail(&Error{
			Kind:          KindHTTP,
			Status:        resp.StatusCode,
			Message:       message,
			CorrelationID: cid,
		})
	}

	if decoded && !env.Success {
		message := env.errorMessage()
		if message == "" {
			message = "request failed"
		}
		return c.fail(&Error{
			Kind:          KindHTTP,
			Status:        resp.StatusCode,
			Message:       message,
			CorrelationID: cid,
		})
	}

	if out == nil || len(raw) == 0 {
		return nil
	}

	// Backends are inconsistent about nesting the payload under data; accept
	// both the enveloped and the flat shape.
	target := raw
	if decoded && len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")) {
		target = env.Data
	}
	if err := json.Unmarshal(target, out); err != nil {
		return c.fail(&Error{
			Kind:          KindHTTP,
			Status:        resp.StatusCode,
			Message:       "malformed response body",
			CorrelationID: cid,
			cause:         err,
		})
	}
	return nil
}

func (c *Client) fail(e *Error) error {
	if c.onError != nil {
		c.onError(e)
	}
	return e
}

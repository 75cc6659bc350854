package pipeline

import (
	"context"
	"net/http"
	"time"
)

// RoundTripFunc is the single request/response function type the middleware
// chain composes over.
type RoundTripFunc func(*http.Request) (*http.Response, error)

// Middleware wraps a [RoundTripFunc] with pre- or post-dispatch behavior.
// Middlewares registered through [Config.Middlewares] run outermost, before the
// built-in credential, correlation, and timing stages.
type Middleware func(RoundTripFunc) RoundTripFunc

// TokenSource supplies the current access token for credential injection. The
// pipeline reads it from the persisted snapshot rather than live session state,
// which keeps the dependency between the pipeline and the session store acyclic.
// An empty token means the request goes out unauthenticated.
type TokenSource interface {
	AccessToken(ctx context.Context) string
}

func credentialMiddleware(tokens TokenSource) Middleware {
	return func(next RoundTripFunc) RoundTripFunc {
		return func(req *http.Request) (*http.Response, error) {
			if tokens != nil {
				if token := tokens.AccessToken(req.Context()); token != "" {
					req.Header.Set("Authorization", "Bearer "+token)
				}
			}
			return next(req)
		}
	}
}

func correlationMiddleware() Middleware {
	return func(next RoundTripFunc) RoundTripFunc {
		return func(req *http.Request) (*http.Response, error) {
			if id := correlationIDFromContext(req.Context()); id != "" {
				req.Header.Set("X-Session-ID", id)
			}
			return next(req)
		}
	}
}

func timingMiddleware(onLatency func(time.Duration)) Middleware {
	return func(next RoundTripFunc) RoundTripFunc {
		return func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next(req)
			if onLatency != nil {
				onLatency(time.Since(start))
			}
			return resp, err
		}
	}
}

func chain(base RoundTripFunc, middlewares ...Middleware) RoundTripFunc {
	out := base
	for i := len(middlewares) - 1; i >= 0; i-- {
		out = middlewares[i](out)
	}
	return out
}

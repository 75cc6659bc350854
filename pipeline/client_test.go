package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
)

type staticTokens struct {
	token string
}

func (s staticTokens) AccessToken(context.Context) string {
	return s.token
}

func newTestClient(t *testing.T, server *httptest.Server, cfg Config) *Client {
	t.Helper()
	cfg.BaseURL = server.URL
	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client
}

func TestHTTPStatusClassification(t *testing.T) {
	cases := []struct {
		status   int
		category Category
	}{
		{http.StatusBadRequest, CategoryValidation},
		{http.StatusUnauthorized, CategoryUnauthorized},
		{http.StatusForbidden, CategoryForbidden},
		{http.StatusNotFound, CategoryValidation},
		{http.StatusInternalServerError, CategoryServer},
		{http.StatusBadGateway, CategoryServer},
	}

	for _, tc := range cases {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = w.Write([]byte(`{"success":false,"message":"rejected"}`))
		}))

		client := newTestClient(t, server, Config{})
		err := client.Get(context.Background(), "/thing", nil)
		server.Close()

		pe, ok := AsError(err)
		if !ok {
			t.Fatalf("status %d: expected pipeline error, got %v", tc.status, err)
		}
		if pe.Kind != KindHTTP {
			t.Fatalf("status %d: expected http kind, got %q", tc.status, pe.Kind)
		}
		if pe.Status != tc.status {
			t.Fatalf("expected status %d, got %d", tc.status, pe.Status)
		}
		if pe.Category() != tc.category {
			t.Fatalf("status %d: expected category %d, got %d", tc.status, tc.category, pe.Category())
		}
		if pe.Message != "rejected" {
			t.Fatalf("status %d: expected backend message, got %q", tc.status, pe.Message)
		}
	}
}

func TestUnreachableServerIsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	client := newTestClient(t, server, Config{})
	server.Close()

	err := client.Get(context.Background(), "/thing", nil)
	if !IsNetwork(err) {
		t.Fatalf("expected network error against closed server, got %v", err)
	}
	pe, _ := AsError(err)
	if pe.Status != 0 {
		t.Fatalf("expected zero status on network error, got %d", pe.Status)
	}
}

func TestTimeoutIsNetworkError(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		<-release
	}))
	defer func() {
		close(release)
		server.Close()
	}()

	client := newTestClient(t, server, Config{Timeout: 50 * time.Millisecond})
	err := client.Get(context.Background(), "/slow", nil)
	if !IsNetwork(err) {
		t.Fatalf("expected network error on timeout, got %v", err)
	}
}

func TestCredentialAndCorrelationHeaders(t *testing.T) {
	var gotAuth, gotCID atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		gotCID.Store(r.Header.Get("X-Session-ID"))
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	client := newTestClient(t, server, Config{Tokens: staticTokens{token: "tok-123"}})
	if err := client.Get(context.Background(), "/me", nil); err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if gotAuth.Load() != "Bearer tok-123" {
		t.Fatalf("expected bearer header, got %q", gotAuth.Load())
	}
	cid, _ := gotCID.Load().(string)
	if _, err := uuid.Parse(cid); err != nil {
		t.Fatalf("expected UUID correlation id, got %q", cid)
	}
}

func TestNoCredentialHeaderWithoutToken(t *testing.T) {
	var gotAuth atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	client := newTestClient(t, server, Config{Tokens: staticTokens{}})
	if err := client.Get(context.Background(), "/open", nil); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if gotAuth.Load() != "" {
		t.Fatalf("expected no Authorization header, got %q", gotAuth.Load())
	}
}

func TestPinnedCorrelationIDPropagates(t *testing.T) {
	var gotCID atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCID.Store(r.Header.Get("X-Session-ID"))
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"message":"expired"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server, Config{})
	ctx := WithCorrelationID(context.Background(), "pinned-cid-42")
	err := client.Get(ctx, "/me", nil)

	if gotCID.Load() != "pinned-cid-42" {
		t.Fatalf("expected pinned correlation id on wire, got %q", gotCID.Load())
	}
	pe, ok := AsError(err)
	if !ok || pe.CorrelationID != "pinned-cid-42" {
		t.Fatalf("expected pinned correlation id on error, got %v", err)
	}
}

func TestEnvelopeDataUnwrap(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":{"value":42},"message":"ok"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server, Config{})
	var out struct {
		Value int `json:"value"`
	}
	if err := client.Get(context.Background(), "/nested", &out); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if out.Value != 42 {
		t.Fatalf("expected nested payload decoded, got %+v", out)
	}
}

func TestFlatPayloadDecode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"token":"t1","user":{"id":"1"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server, Config{})
	var out struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	if err := client.Post(context.Background(), "/login", map[string]string{"email": "a@b.c"}, &out); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if out.Token != "t1" || out.User.ID != "1" {
		t.Fatalf("expected flat payload decoded, got %+v", out)
	}
}

func TestFailedEnvelopeUnder2xxIsHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"nope"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server, Config{})
	err := client.Get(context.Background(), "/soft-fail", nil)

	pe, ok := AsError(err)
	if !ok || pe.Kind != KindHTTP {
		t.Fatalf("expected http error for failed envelope, got %v", err)
	}
	if pe.Message != "nope" {
		t.Fatalf("expected envelope message, got %q", pe.Message)
	}
}

func TestStatusTextFallbackWhenBodyEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server, Config{})
	err := client.Get(context.Background(), "/broken", nil)

	pe, ok := AsError(err)
	if !ok {
		t.Fatalf("expected pipeline error, got %v", err)
	}
	if pe.Message != http.StatusText(http.StatusInternalServerError) {
		t.Fatalf("expected status text fallback, got %q", pe.Message)
	}
}

func TestMalformedBodyOn2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("definitely not json"))
	}))
	defer server.Close()

	client := newTestClient(t, server, Config{})
	var out struct{}
	err := client.Get(context.Background(), "/garbage", &out)

	pe, ok := AsError(err)
	if !ok || pe.Kind != KindHTTP {
		t.Fatalf("expected http error for malformed body, got %v", err)
	}
}

func TestLatencyAndErrorHooksFire(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"success":false,"message":"no"}`))
	}))
	defer server.Close()

	var latencies, failures atomic.Int64
	client := newTestClient(t, server, Config{
		OnLatency: func(d time.Duration) {
			if d >= 0 {
				latencies.Add(1)
			}
		},
		OnError: func(e *Error) {
			if e.Kind == KindHTTP {
				failures.Add(1)
			}
		},
	})

	_ = client.Get(context.Background(), "/guarded", nil)
	if latencies.Load() != 1 {
		t.Fatalf("expected one latency observation, got %d", latencies.Load())
	}
	if failures.Load() != 1 {
		t.Fatalf("expected one error hook call, got %d", failures.Load())
	}
}

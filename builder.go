package goSessionClient

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goSessionClient/pipeline"
	"github.com/MrEthical07/goSessionClient/snapshot"
)

// Builder defines a public type used by goSessionClient APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config

	httpClient *http.Client
	storage    snapshot.Store
	redis      *redis.Client
	eventSink  EventSink

	built bool
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig may return an error when input validation, dependency calls, or security checks fail.
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithHTTPClient describes the withhttpclient operation and its observable behavior.
//
// WithHTTPClient may return an error when input validation, dependency calls, or security checks fail.
// WithHTTPClient does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithHTTPClient(client *http.Client) *Builder {
	b.httpClient = client
	return b
}

// WithSnapshotStore describes the withsnapshotstore operation and its observable behavior.
//
// WithSnapshotStore may return an error when input validation, dependency calls, or security checks fail.
// WithSnapshotStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithSnapshotStore(store snapshot.Store) *Builder {
	b.storage = store
	return b
}

// WithRedis describes the withredis operation and its observable behavior.
//
// WithRedis may return an error when input validation, dependency calls, or security checks fail.
// WithRedis does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithEventSink describes the witheventsink operation and its observable behavior.
//
// WithEventSink may return an error when input validation, dependency calls, or security checks fail.
// WithEventSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithEventSink(sink EventSink) *Builder {
	b.eventSink = sink
	if sink != nil {
		b.config.Events.Enabled = true
	}
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled may return an error when input validation, dependency calls, or security checks fail.
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms describes the withlatencyhistograms operation and its observable behavior.
//
// WithLatencyHistograms may return an error when input validation, dependency calls, or security checks fail.
// WithLatencyHistograms does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// snapshotTokenSource reads the access token from the persisted snapshot on
// every request, not from the live state cell. The snapshot is the contract
// between sessions: a request dispatched after the snapshot was cleared goes
// out unauthenticated even if a stale in-memory copy still exists.
type snapshotTokenSource struct {
	storage snapshot.Store
}

func (t snapshotTokenSource) AccessToken(ctx context.Context) string {
	snap, err := t.storage.Load(ctx)
	if err != nil || snap == nil {
		return ""
	}
	return snap.AccessToken()
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Store, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// -------- SNAPSHOT STORE --------
	storage := b.storage
	if storage == nil {
		switch {
		case b.redis != nil:
			storage = snapshot.NewRedis(b.redis, cfg.Snapshot.RedisPrefix, cfg.Snapshot.Key)
		case cfg.Snapshot.FilePath != "":
			storage = snapshot.NewFile(cfg.Snapshot.FilePath)
		default:
			storage = snapshot.NewMemory()
		}
	}

	store := &Store{
		cfg:     cfg,
		storage: storage,
		events:  newEventDispatcher(cfg.Events, b.eventSink),
		metrics: NewMetrics(cfg.Metrics),
	}

	// -------- REQUEST PIPELINE --------
	client, err := pipeline.NewClient(pipeline.Config{
		BaseURL:    cfg.API.BaseURL,
		Timeout:    cfg.API.Timeout,
		UserAgent:  cfg.API.UserAgent,
		HTTPClient: b.httpClient,
		Tokens:     snapshotTokenSource{storage: storage},
		OnLatency: func(d time.Duration) {
			store.metrics.Observe(MetricRequestLatency, d)
		},
		OnError: func(e *pipeline.Error) {
			if e.Kind == pipeline.KindNetwork {
				store.metrics.Inc(MetricRequestNetworkError)
			} else {
				store.metrics.Inc(MetricRequestHTTPError)
			}
		},
	})
	if err != nil {
		store.events.Close()
		return nil, err
	}
	store.client = client

	// The snapshot is read once, synchronously, before the store is handed
	// out; no action ever observes a pre-hydration state.
	store.hydrate(context.Background())

	b.built = true

	return store, nil
}

package goSessionClient

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config defines a public type used by goSessionClient APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Routes   RoutesConfig   `yaml:"routes"`
	Errors   ErrorConfig    `yaml:"errors"`
	Events   EventConfig    `yaml:"events"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

/*
====================================
API CONFIG
====================================
*/

// APIConfig defines a public type used by goSessionClient APIs.
//
// APIConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type APIConfig struct {
	BaseURL   string        `yaml:"base_url" env:"SESSION_API_BASE_URL"`
	Timeout   time.Duration `yaml:"timeout" env:"SESSION_API_TIMEOUT"`
	UserAgent string        `yaml:"user_agent" env:"SESSION_API_USER_AGENT"`
}

// UnmarshalYAML accepts human-readable durations ("30s") for Timeout and
// overlays only the fields present in the document.
func (a *APIConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		BaseURL   string `yaml:"base_url"`
		Timeout   string `yaml:"timeout"`
		UserAgent string `yaml:"user_agent"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.BaseURL != "" {
		a.BaseURL = raw.BaseURL
	}
	if raw.UserAgent != "" {
		a.UserAgent = raw.UserAgent
	}
	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return fmt.Errorf("parse api timeout: %w", err)
		}
		a.Timeout = d
	}
	return nil
}

/*
====================================
SNAPSHOT CONFIG
====================================
*/

// SnapshotConfig defines a public type used by goSessionClient APIs.
//
// SnapshotConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SnapshotConfig struct {
	// Key names the persisted record. The durable payload is always the
	// {"state": {...}} envelope stored under this key.
	Key string `yaml:"key" env:"SESSION_SNAPSHOT_KEY"`
	// FilePath selects the file adapter when no explicit store is injected.
	FilePath string `yaml:"file_path" env:"SESSION_SNAPSHOT_FILE"`
	// RedisPrefix namespaces the record when the Redis adapter is selected.
	RedisPrefix string `yaml:"redis_prefix" env:"SESSION_SNAPSHOT_REDIS_PREFIX"`
}

/*
====================================
ROUTES CONFIG
====================================
*/

// RoutesConfig names the routes the [Orchestrator] navigates to on state
// transitions. All fields must be non-empty.
type RoutesConfig struct {
	Login      string `yaml:"login" env:"SESSION_ROUTE_LOGIN"`
	Onboarding string `yaml:"onboarding" env:"SESSION_ROUTE_ONBOARDING"`
	Profile    string `yaml:"profile" env:"SESSION_ROUTE_PROFILE"`
	Dashboard  string `yaml:"dashboard" env:"SESSION_ROUTE_DASHBOARD"`
	Landing    string `yaml:"landing" env:"SESSION_ROUTE_LANDING"`
}

/*
====================================
ERROR CONFIG
====================================
*/

// ErrorConfig defines a public type used by goSessionClient APIs.
//
// ErrorConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ErrorConfig struct {
	// ClearAfter is how long a transient error stays visible before the
	// orchestrator clears it.
	ClearAfter time.Duration `yaml:"clear_after" env:"SESSION_ERROR_CLEAR_AFTER"`
}

// UnmarshalYAML accepts human-readable durations ("5s") for ClearAfter.
func (e *ErrorConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		ClearAfter string `yaml:"clear_after"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.ClearAfter != "" {
		d, err := time.ParseDuration(raw.ClearAfter)
		if err != nil {
			return fmt.Errorf("parse error clear interval: %w", err)
		}
		e.ClearAfter = d
	}
	return nil
}

/*
====================================
EVENT CONFIG
====================================
*/

// EventConfig defines a public type used by goSessionClient APIs.
//
// EventConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type EventConfig struct {
	Enabled    bool `yaml:"enabled" env:"SESSION_EVENTS_ENABLED"`
	BufferSize int  `yaml:"buffer_size" env:"SESSION_EVENTS_BUFFER"`
	DropIfFull bool `yaml:"drop_if_full" env:"SESSION_EVENTS_DROP_IF_FULL"`
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by goSessionClient APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool `yaml:"enabled" env:"SESSION_METRICS_ENABLED"`
	EnableLatencyHistograms bool `yaml:"enable_latency_histograms" env:"SESSION_METRICS_LATENCY"`
}

func defaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL: "http://localhost:5000/api",
			Timeout: 30 * time.Second,
		},
		Snapshot: SnapshotConfig{
			Key:         "session",
			RedisPrefix: "sc",
		},
		Routes: RoutesConfig{
			Login:      "/login",
			Onboarding: "/onboarding",
			Profile:    "/profile",
			Dashboard:  "/dashboard",
			Landing:    "/",
		},
		Errors: ErrorConfig{
			ClearAfter: 5 * time.Second,
		},
		Events: EventConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

// DefaultConfig describes the defaultconfig operation and its observable behavior.
//
// DefaultConfig may return an error when input validation, dependency calls, or security checks fail.
// DefaultConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func DefaultConfig() Config {
	return defaultConfig()
}

// ConfigFromEnv returns the default configuration overlaid with values parsed
// from environment variables (SESSION_API_BASE_URL and friends).
func ConfigFromEnv() (Config, error) {
	cfg := defaultConfig()
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// ConfigFromFile returns the default configuration overlaid with values parsed
// from a YAML file. A missing file is not an error; the defaults are returned.
func ConfigFromFile(path string) (Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func cloneConfig(cfg Config) Config {
	// All fields are value types today; a shallow copy is a deep copy.
	return cfg
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("API.BaseURL must be set")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("API.BaseURL must be an absolute URL")
	}
	if c.API.Timeout <= 0 {
		return errors.New("API.Timeout must be positive")
	}
	if c.Snapshot.Key == "" {
		return errors.New("Snapshot.Key must be set")
	}
	if c.Errors.ClearAfter <= 0 {
		return errors.New("Errors.ClearAfter must be positive")
	}
	if c.Events.Enabled && c.Events.BufferSize <= 0 {
		return errors.New("Events.BufferSize must be positive when events are enabled")
	}
	routes := []string{
		c.Routes.Login,
		c.Routes.Onboarding,
		c.Routes.Profile,
		c.Routes.Dashboard,
		c.Routes.Landing,
	}
	for _, r := range routes {
		if r == "" {
			return errors.New("Routes must name every transition target")
		}
	}
	return nil
}

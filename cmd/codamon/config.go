package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// endpointEnv overrides the configured endpoint when set.
const endpointEnv = "CODA_ENDPOINT"

const (
	DefaultEndpoint         = "ws://localhost:8000/ws"
	DefaultMaxLines         = 500
	DefaultHandshakeTimeout = 10 * time.Second
)

// Config holds the monitor settings read from an optional YAML file.
type Config struct {
	// Endpoint is the ws:// or wss:// URL of the backend event stream.
	Endpoint string `yaml:"endpoint"`

	// StatusAddr is the listen address of the HTTP status endpoint. Empty
	// disables it.
	StatusAddr string `yaml:"status_addr"`

	// LogFile receives structured logs, since the terminal belongs to the UI.
	// Empty discards logs.
	LogFile string `yaml:"log_file"`

	// MaxLines bounds the number of event lines kept on screen.
	MaxLines int `yaml:"max_lines"`

	// Headers are added to the websocket handshake request.
	Headers map[string]string `yaml:"headers"`

	Auth    AuthConfig    `yaml:"auth"`
	Backoff BackoffConfig `yaml:"backoff"`

	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`

	// ExpandReplay shows the events inside replay frames individually.
	ExpandReplay bool `yaml:"expand_replay"`
}

// AuthConfig controls answers to auth_challenge frames.
type AuthConfig struct {
	// Enabled answers challenges at all.
	Enabled bool `yaml:"enabled"`
	// Token is sent in the answer; empty echoes the challenge token.
	Token string `yaml:"token"`
}

// BackoffConfig mirrors the client reconnect bounds. Zero fields keep the
// client defaults.
type BackoffConfig struct {
	Initial time.Duration `yaml:"initial"`
	Max     time.Duration `yaml:"max"`
	Factor  float64       `yaml:"factor"`
	Jitter  float64       `yaml:"jitter"`
}

func (b BackoffConfig) IsZero() bool {
	return b == BackoffConfig{}
}

func Default() *Config {
	return &Config{
		Endpoint:         DefaultEndpoint,
		MaxLines:         DefaultMaxLines,
		HandshakeTimeout: DefaultHandshakeTimeout,
	}
}

// Load reads the config file at path on top of the defaults. An empty path
// yields the defaults. CODA_ENDPOINT overrides the endpoint either way.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	if endpoint, ok := os.LookupEnv(endpointEnv); ok && endpoint != "" {
		cfg.Endpoint = endpoint
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Validate checks structural constraints. Backoff bounds are validated by
// the client itself.
func (c *Config) Validate() error {
	var errs []error

	parsed, err := url.Parse(c.Endpoint)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("endpoint %q: %w", c.Endpoint, err))
	case parsed.Scheme != "ws" && parsed.Scheme != "wss":
		errs = append(errs, fmt.Errorf("endpoint %q: scheme must be ws or wss", c.Endpoint))
	}

	if c.MaxLines <= 0 {
		errs = append(errs, fmt.Errorf("max_lines %d must be positive", c.MaxLines))
	}
	if c.HandshakeTimeout < 0 {
		errs = append(errs, errors.New("handshake_timeout must not be negative"))
	}

	return errors.Join(errs...)
}

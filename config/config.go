// Package config provides configuration management for portalauth.
// It supports JSON-based configuration loading with safe defaults for a
// single sequential login session against one portal origin.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Config holds all tunable parameters for the login flow.
// The struct is loaded once at startup and then shared as a read-only value,
// making it inherently thread-safe after initialization. Fields cover the
// portal endpoint, HTTP transport tuning, and TLS behaviour.
type Config struct {
	// BaseURL is the portal origin every fixed endpoint path is resolved
	// against, e.g. "https://idportal.example.ac.jp". Required.
	BaseURL string `json:"base_url"`

	// RequestTimeout is the end-to-end timeout for a single HTTP round trip,
	// including connection setup, TLS handshake, sending the request body,
	// and reading the full response.
	RequestTimeout time.Duration `json:"request_timeout"`

	// UserAgent is sent on every request. Leave empty to use the built-in
	// Chrome user agent that matches the impersonated TLS fingerprint.
	UserAgent string `json:"user_agent"`

	// ProxyURL is an optional proxy for all portal traffic
	// (scheme://host:port). Empty means direct connections.
	ProxyURL string `json:"proxy_url"`

	// ImpersonateTLS enables the browser-fingerprinted TLS dialer. Some
	// portal front ends sit behind filters that reject Go's default
	// ClientHello; parroting Chrome keeps the session establishment
	// indistinguishable from a real browser.
	ImpersonateTLS bool `json:"impersonate_tls"`

	// InsecureSkipVerify disables server certificate verification. Only for
	// test portals with self-signed certificates.
	InsecureSkipVerify bool `json:"insecure_skip_verify"`
}

// LoadConfig reads a JSON file at filename and deserialises it into a Config.
// It returns an error if the file cannot be opened or if the JSON is malformed.
// Zero-value fields retain Go's zero values, so callers should validate
// required fields (BaseURL in particular) after loading.
func LoadConfig(filename string) (*Config, error) {
	f, err := os.Open(filename) // #nosec G304 – filename is caller-provided config path
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", filename, err)
	}
	defer f.Close()

	var cfg Config
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields() // catch typos in config files early
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode %q: %w", filename, err)
	}
	return &cfg, nil
}

// DefaultConfig returns a *Config pre-filled with sensible defaults for one
// interactive login attempt. Callers are free to mutate the returned struct
// before passing it to other components; each call returns a fresh
// independent copy.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:        "",
		RequestTimeout: 30 * time.Second,
		UserAgent:      "",
		ProxyURL:       "",
		ImpersonateTLS: true,
	}
}

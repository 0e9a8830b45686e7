// Package testsupport holds shared fixtures for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"easel/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StagingDir = filepath.Join(base, "staging")
	cfg.Paths.OutputDir = filepath.Join(base, "out")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.DataDir = filepath.Join(base, "data")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithDraftsBackend overrides the draft store backend on the test config.
func WithDraftsBackend(backend string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Drafts.Backend = backend
	}
}

// WithAPI sets the upload API endpoint and token on the test config.
func WithAPI(baseURL, token string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.API.BaseURL = baseURL
		cfg.API.Token = token
	}
}

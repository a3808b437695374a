package testsupport

import (
	"path/filepath"
	"testing"

	"cutout/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WorkspaceDir = filepath.Join(base, "workspace")
	cfg.Paths.OutputDir = filepath.Join(base, "exports")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Server.Bind = "127.0.0.1:0"
	cfg.Workflow.QueuePollInterval = 1
	cfg.Workflow.ErrorRetryInterval = 1

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithRemovalAPI points the config at a test removal endpoint.
func WithRemovalAPI(baseURL, key string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Removal.BaseURL = baseURL
		cfg.Removal.APIKey = key
	}
}

// WithMaxRetries overrides the per-item retry cap.
func WithMaxRetries(n int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Limits.MaxRetries = n
	}
}

// WithMaxItems overrides the queue size cap.
func WithMaxItems(n int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Limits.MaxItems = n
	}
}

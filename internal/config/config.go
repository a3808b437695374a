package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	WorkspaceDir string `toml:"workspace_dir"`
	OutputDir    string `toml:"output_dir"`
	LogDir       string `toml:"log_dir"`
}

// Removal contains configuration for the external background-removal API.
type Removal struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Limits caps ingestion and retry behavior.
type Limits struct {
	MaxItems   int `toml:"max_items"`
	MaxFileMB  int `toml:"max_file_mb"`
	MaxRetries int `toml:"max_retries"`
}

// Canvas contains default compositing parameters applied batch-wide.
type Canvas struct {
	Shape          string  `toml:"shape"`
	FrameSize      int     `toml:"frame_size"`
	CornerRadius   float64 `toml:"corner_radius"`
	Background     string  `toml:"background"`
	BackgroundEnd  string  `toml:"background_end"`
	BackgroundKind string  `toml:"background_kind"`
	GradientAngle  float64 `toml:"gradient_angle"`
	Scale          float64 `toml:"scale"`
	Rotation       float64 `toml:"rotation"`
	OffsetX        float64 `toml:"offset_x"`
	OffsetY        float64 `toml:"offset_y"`
}

// Export contains default export parameters.
type Export struct {
	Format        string  `toml:"format"`
	Quality       int     `toml:"quality"`
	Scale         float64 `toml:"scale"`
	NamingPattern string  `toml:"naming_pattern"`
}

// Server contains HTTP API settings.
type Server struct {
	Bind        string `toml:"bind"`
	MaxBodyMB   int    `toml:"max_body_mb"`
	MaxZipFiles int    `toml:"max_zip_files"`
}

// Workflow contains daemon timing settings.
type Workflow struct {
	QueuePollInterval  int `toml:"queue_poll_interval"`
	ErrorRetryInterval int `toml:"error_retry_interval"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for cutout.
//
// Configuration sections by subsystem:
//   - Paths: workspace, export output, and log directories
//   - Removal: external background-removal API connection
//   - Limits: ingestion caps and the per-item retry cap
//   - Canvas: batch-wide compositing defaults
//   - Export: batch export defaults
//   - Server: HTTP API bind address and request limits
//   - Workflow: daemon polling intervals
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Removal  Removal  `toml:"removal"`
	Limits   Limits   `toml:"limits"`
	Canvas   Canvas   `toml:"canvas"`
	Export   Export   `toml:"export"`
	Server   Server   `toml:"server"`
	Workflow Workflow `toml:"workflow"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/cutout/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("cutout.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkspaceDir, c.Paths.OutputDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

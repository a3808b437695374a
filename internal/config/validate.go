package config

import (
	"errors"
	"fmt"
	"strings"
)

var validExportFormats = map[string]struct{}{
	"png":  {},
	"webp": {},
}

var validCanvasShapes = map[string]struct{}{
	"circle":  {},
	"rounded": {},
}

var validBackgroundKinds = map[string]struct{}{
	"solid":    {},
	"gradient": {},
	"checker":  {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLimits(); err != nil {
		return err
	}
	if err := c.validateCanvas(); err != nil {
		return err
	}
	if err := c.validateExport(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateLimits() error {
	if err := ensurePositiveMap(map[string]int{
		"limits.max_items":        c.Limits.MaxItems,
		"limits.max_file_mb":      c.Limits.MaxFileMB,
		"removal.timeout_seconds": c.Removal.TimeoutSeconds,
	}); err != nil {
		return err
	}
	if c.Limits.MaxRetries < 0 {
		return errors.New("limits.max_retries must not be negative")
	}
	return nil
}

func (c *Config) validateCanvas() error {
	if _, ok := validCanvasShapes[c.Canvas.Shape]; !ok {
		return fmt.Errorf("canvas.shape must be one of: circle, rounded (got %q)", c.Canvas.Shape)
	}
	if _, ok := validBackgroundKinds[c.Canvas.BackgroundKind]; !ok {
		return fmt.Errorf("canvas.background_kind must be one of: solid, gradient, checker (got %q)", c.Canvas.BackgroundKind)
	}
	if c.Canvas.FrameSize < 64 || c.Canvas.FrameSize > 8192 {
		return errors.New("canvas.frame_size must be between 64 and 8192")
	}
	if c.Canvas.CornerRadius < 0 || c.Canvas.CornerRadius > 0.5 {
		return errors.New("canvas.corner_radius must be between 0 and 0.5")
	}
	if !strings.HasPrefix(c.Canvas.Background, "#") {
		return fmt.Errorf("canvas.background must be a hex color (got %q)", c.Canvas.Background)
	}
	if !strings.HasPrefix(c.Canvas.BackgroundEnd, "#") {
		return fmt.Errorf("canvas.background_end must be a hex color (got %q)", c.Canvas.BackgroundEnd)
	}
	return nil
}

func (c *Config) validateExport() error {
	if _, ok := validExportFormats[c.Export.Format]; !ok {
		return fmt.Errorf("export.format must be one of: png, webp (got %q)", c.Export.Format)
	}
	if c.Export.Quality < 1 || c.Export.Quality > 100 {
		return errors.New("export.quality must be between 1 and 100")
	}
	if c.Export.Scale <= 0 || c.Export.Scale > 4 {
		return errors.New("export.scale must be between 0 and 4")
	}
	return nil
}

func (c *Config) validateServer() error {
	return ensurePositiveMap(map[string]int{
		"server.max_body_mb":   c.Server.MaxBodyMB,
		"server.max_zip_files": c.Server.MaxZipFiles,
	})
}

func (c *Config) validateWorkflow() error {
	return ensurePositiveMap(map[string]int{
		"workflow.queue_poll_interval":  c.Workflow.QueuePollInterval,
		"workflow.error_retry_interval": c.Workflow.ErrorRetryInterval,
	})
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error (got %q)", c.Logging.Level)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for name, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}

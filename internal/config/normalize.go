package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeRemoval()
	c.normalizeLimits()
	c.normalizeCanvas()
	c.normalizeExport()
	c.normalizeServer()
	c.normalizeWorkflow()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.WorkspaceDir, err = expandPath(c.Paths.WorkspaceDir); err != nil {
		return fmt.Errorf("paths.workspace_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeRemoval() {
	c.Removal.APIKey = strings.TrimSpace(c.Removal.APIKey)
	if c.Removal.APIKey == "" {
		if value, ok := os.LookupEnv("CUTOUT_REMOVAL_API_KEY"); ok {
			c.Removal.APIKey = strings.TrimSpace(value)
		}
	}
	c.Removal.BaseURL = strings.TrimSpace(c.Removal.BaseURL)
	if c.Removal.BaseURL == "" {
		c.Removal.BaseURL = defaultRemovalBaseURL
	}
	if c.Removal.TimeoutSeconds <= 0 {
		c.Removal.TimeoutSeconds = defaultRemovalTimeoutSeconds
	}
}

func (c *Config) normalizeLimits() {
	if c.Limits.MaxItems <= 0 {
		c.Limits.MaxItems = defaultMaxItems
	}
	if c.Limits.MaxFileMB <= 0 {
		c.Limits.MaxFileMB = defaultMaxFileMB
	}
	if c.Limits.MaxRetries < 0 {
		c.Limits.MaxRetries = defaultMaxRetries
	}
}

func (c *Config) normalizeCanvas() {
	c.Canvas.Shape = strings.ToLower(strings.TrimSpace(c.Canvas.Shape))
	if c.Canvas.Shape == "" {
		c.Canvas.Shape = defaultCanvasShape
	}
	c.Canvas.BackgroundKind = strings.ToLower(strings.TrimSpace(c.Canvas.BackgroundKind))
	if c.Canvas.BackgroundKind == "" {
		c.Canvas.BackgroundKind = defaultBackgroundKind
	}
	c.Canvas.Background = strings.TrimSpace(c.Canvas.Background)
	if c.Canvas.Background == "" {
		c.Canvas.Background = defaultBackground
	}
	c.Canvas.BackgroundEnd = strings.TrimSpace(c.Canvas.BackgroundEnd)
	if c.Canvas.BackgroundEnd == "" {
		c.Canvas.BackgroundEnd = defaultBackgroundEnd
	}
	if c.Canvas.FrameSize <= 0 {
		c.Canvas.FrameSize = defaultFrameSize
	}
	if c.Canvas.Scale == 0 {
		c.Canvas.Scale = defaultCanvasScale
	}
	if c.Canvas.CornerRadius <= 0 {
		c.Canvas.CornerRadius = defaultCornerRadius
	}
}

func (c *Config) normalizeExport() {
	c.Export.Format = strings.ToLower(strings.TrimSpace(c.Export.Format))
	if c.Export.Format == "" {
		c.Export.Format = defaultExportFormat
	}
	if c.Export.Quality <= 0 {
		c.Export.Quality = defaultExportQuality
	}
	if c.Export.Scale <= 0 {
		c.Export.Scale = defaultExportScale
	}
	c.Export.NamingPattern = strings.TrimSpace(c.Export.NamingPattern)
	if c.Export.NamingPattern == "" {
		c.Export.NamingPattern = defaultNamingPattern
	}
}

func (c *Config) normalizeServer() {
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultServerBind
	}
	if c.Server.MaxBodyMB <= 0 {
		c.Server.MaxBodyMB = defaultServerMaxBodyMB
	}
	if c.Server.MaxZipFiles <= 0 {
		c.Server.MaxZipFiles = defaultServerMaxZipFiles
	}
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.QueuePollInterval <= 0 {
		c.Workflow.QueuePollInterval = defaultQueuePollInterval
	}
	if c.Workflow.ErrorRetryInterval <= 0 {
		c.Workflow.ErrorRetryInterval = defaultErrorRetryInterval
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

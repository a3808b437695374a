package config

const (
	defaultWorkspaceDir = "~/.local/share/cutout/workspace"
	defaultOutputDir    = "~/cutout-exports"
	defaultLogDir       = "~/.local/share/cutout/logs"

	defaultRemovalBaseURL        = "https://api.remove.bg/v1.0/removebg"
	defaultRemovalTimeoutSeconds = 30

	defaultMaxItems   = 50
	defaultMaxFileMB  = 15
	defaultMaxRetries = 2

	defaultCanvasShape        = "circle"
	defaultFrameSize          = 1024
	defaultCornerRadius       = 0.12
	defaultBackground         = "#FFFFFF"
	defaultBackgroundEnd      = "#E2E8F0"
	defaultBackgroundKind     = "solid"
	defaultGradientAngle      = 45.0
	defaultCanvasScale        = 1.0
	defaultExportFormat       = "png"
	defaultExportQuality      = 90
	defaultExportScale        = 1.0
	defaultNamingPattern      = "{name}-{index}"
	defaultServerBind         = "127.0.0.1:7519"
	defaultServerMaxBodyMB    = 25
	defaultServerMaxZipFiles  = 150
	defaultQueuePollInterval  = 2
	defaultErrorRetryInterval = 5

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkspaceDir: defaultWorkspaceDir,
			OutputDir:    defaultOutputDir,
			LogDir:       defaultLogDir,
		},
		Removal: Removal{
			BaseURL:        defaultRemovalBaseURL,
			TimeoutSeconds: defaultRemovalTimeoutSeconds,
		},
		Limits: Limits{
			MaxItems:   defaultMaxItems,
			MaxFileMB:  defaultMaxFileMB,
			MaxRetries: defaultMaxRetries,
		},
		Canvas: Canvas{
			Shape:          defaultCanvasShape,
			FrameSize:      defaultFrameSize,
			CornerRadius:   defaultCornerRadius,
			Background:     defaultBackground,
			BackgroundEnd:  defaultBackgroundEnd,
			BackgroundKind: defaultBackgroundKind,
			GradientAngle:  defaultGradientAngle,
			Scale:          defaultCanvasScale,
		},
		Export: Export{
			Format:        defaultExportFormat,
			Quality:       defaultExportQuality,
			Scale:         defaultExportScale,
			NamingPattern: defaultNamingPattern,
		},
		Server: Server{
			Bind:        defaultServerBind,
			MaxBodyMB:   defaultServerMaxBodyMB,
			MaxZipFiles: defaultServerMaxZipFiles,
		},
		Workflow: Workflow{
			QueuePollInterval:  defaultQueuePollInterval,
			ErrorRetryInterval: defaultErrorRetryInterval,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

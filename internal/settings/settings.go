package settings

import (
	"strings"

	"cutout/internal/config"
)

// Shape selects the clip outline applied to the output frame.
type Shape string

const (
	ShapeCircle  Shape = "circle"
	ShapeRounded Shape = "rounded"
)

// BackgroundKind selects how the frame behind the cutout is filled.
type BackgroundKind string

const (
	BackgroundSolid    BackgroundKind = "solid"
	BackgroundGradient BackgroundKind = "gradient"
	BackgroundChecker  BackgroundKind = "checker"
)

// Format selects the export encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
)

// Transform bundles the compositing parameters applied to an item.
// Batch-wide values live in Settings; per-item overrides are added on top.
type Transform struct {
	Scale    float64 `json:"scale"`
	Rotation float64 `json:"rotation"`
	OffsetX  float64 `json:"offset_x"`
	OffsetY  float64 `json:"offset_y"`
}

// Background describes the frame fill drawn beneath the cutout.
type Background struct {
	Kind       BackgroundKind `json:"kind"`
	Color      string         `json:"color"`
	ColorEnd   string         `json:"color_end"`
	Angle      float64        `json:"angle"`
	CheckerPct float64        `json:"checker_pct"`
}

// Export bundles batch export preferences.
type Export struct {
	Format        Format  `json:"format"`
	Quality       int     `json:"quality"`
	Scale         float64 `json:"scale"`
	NamingPattern string  `json:"naming_pattern"`
}

// Settings is the persisted preference document read by the compositor and
// exporter. It survives daemon restarts in the queue database.
type Settings struct {
	Shape        Shape      `json:"shape"`
	FrameSize    int        `json:"frame_size"`
	CornerRadius float64    `json:"corner_radius"`
	Background   Background `json:"background"`
	Batch        Transform  `json:"batch"`
	Export       Export     `json:"export"`
}

// FromConfig builds the initial settings document from configuration defaults.
func FromConfig(cfg *config.Config) Settings {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	return Settings{
		Shape:        ParseShape(cfg.Canvas.Shape),
		FrameSize:    cfg.Canvas.FrameSize,
		CornerRadius: cfg.Canvas.CornerRadius,
		Background: Background{
			Kind:       ParseBackgroundKind(cfg.Canvas.BackgroundKind),
			Color:      cfg.Canvas.Background,
			ColorEnd:   cfg.Canvas.BackgroundEnd,
			Angle:      cfg.Canvas.GradientAngle,
			CheckerPct: 0.08,
		},
		Batch: Transform{
			Scale:    cfg.Canvas.Scale,
			Rotation: cfg.Canvas.Rotation,
			OffsetX:  cfg.Canvas.OffsetX,
			OffsetY:  cfg.Canvas.OffsetY,
		},
		Export: Export{
			Format:        ParseFormat(cfg.Export.Format),
			Quality:       cfg.Export.Quality,
			Scale:         cfg.Export.Scale,
			NamingPattern: cfg.Export.NamingPattern,
		},
	}
}

// ParseShape normalizes a shape name, defaulting to circle.
func ParseShape(value string) Shape {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(ShapeRounded), "square", "rounded_square":
		return ShapeRounded
	default:
		return ShapeCircle
	}
}

// ParseBackgroundKind normalizes a background kind, defaulting to solid.
func ParseBackgroundKind(value string) BackgroundKind {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(BackgroundGradient):
		return BackgroundGradient
	case string(BackgroundChecker), "pattern":
		return BackgroundChecker
	default:
		return BackgroundSolid
	}
}

// ParseFormat normalizes an export format, defaulting to png.
func ParseFormat(value string) Format {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(FormatWebP):
		return FormatWebP
	default:
		return FormatPNG
	}
}

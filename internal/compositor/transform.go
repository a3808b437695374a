package compositor

import "cutout/internal/settings"

// Clamp limits for combined transform values. Out-of-range inputs are pulled
// to the nearest bound rather than rejected.
const (
	MinScale    = 0.1
	MaxScale    = 3.0
	MinRotation = -180.0
	MaxRotation = 180.0
)

// Overrides carries per-item transform values. Nil fields fall through to the
// batch defaults.
type Overrides struct {
	Scale    *float64
	Rotation *float64
	OffsetX  *float64
	OffsetY  *float64
}

// Combine layers per-item overrides on top of the batch transform and clamps
// the result. Offsets are bounded by half the frame in each direction.
func Combine(batch settings.Transform, ov Overrides, frameSize int) settings.Transform {
	combined := batch
	if ov.Scale != nil {
		combined.Scale = *ov.Scale
	}
	if ov.Rotation != nil {
		combined.Rotation = *ov.Rotation
	}
	if ov.OffsetX != nil {
		combined.OffsetX = *ov.OffsetX
	}
	if ov.OffsetY != nil {
		combined.OffsetY = *ov.OffsetY
	}
	return ClampTransform(combined, frameSize)
}

// ClampTransform pulls every transform component into its allowed range.
func ClampTransform(t settings.Transform, frameSize int) settings.Transform {
	halfFrame := float64(frameSize) / 2
	return settings.Transform{
		Scale:    clamp(t.Scale, MinScale, MaxScale),
		Rotation: clamp(t.Rotation, MinRotation, MaxRotation),
		OffsetX:  clamp(t.OffsetX, -halfFrame, halfFrame),
		OffsetY:  clamp(t.OffsetY, -halfFrame, halfFrame),
	}
}

func clamp(value, low, high float64) float64 {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}

package compositor

import (
	"fmt"
	"image"
	"math"

	"github.com/gogpu/gg"

	"cutout/internal/settings"
)

const (
	minFrameSize = 64
	maxFrameSize = 4096
)

// Render composites a cutout onto a fresh frame described by the settings
// document, applying the batch transform plus any per-item overrides. The
// result is a new image each call; callers own encoding and persistence.
func Render(cutout image.Image, s settings.Settings, ov Overrides) (image.Image, error) {
	return RenderScaled(cutout, s, ov, 1.0)
}

// RenderScaled renders at a multiple of the configured frame size. Export
// uses this to produce 2x or 3x assets from the same settings.
func RenderScaled(cutout image.Image, s settings.Settings, ov Overrides, outputScale float64) (image.Image, error) {
	if cutout == nil {
		return nil, fmt.Errorf("render: nil cutout image")
	}
	bounds := cutout.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("render: empty cutout image")
	}
	if outputScale <= 0 {
		outputScale = 1.0
	}

	frame := s.FrameSize
	if frame < minFrameSize {
		frame = minFrameSize
	}
	if frame > maxFrameSize {
		frame = maxFrameSize
	}
	transform := Combine(s.Batch, ov, frame)

	size := int(math.Round(float64(frame) * outputScale))
	dc := gg.NewContext(size, size)
	defer dc.Close()

	// The shape clip applies to background and cutout alike so the area
	// outside the outline stays transparent.
	full := float64(size)
	addShapePath(dc, s, full)
	dc.Clip()

	if err := fillBackground(dc, s.Background, full); err != nil {
		return nil, fmt.Errorf("render: background: %w", err)
	}

	// Fit the cutout inside the frame, then apply the user transform. The
	// rotation pivots on the frame center; offsets move the image afterwards.
	srcW := float64(bounds.Dx())
	srcH := float64(bounds.Dy())
	fitScale := math.Min(full/srcW, full/srcH)
	drawScale := fitScale * transform.Scale
	drawW := srcW * drawScale
	drawH := srcH * drawScale

	center := full / 2
	offsetX := transform.OffsetX * outputScale
	offsetY := transform.OffsetY * outputScale

	dc.Push()
	dc.RotateAbout(transform.Rotation*math.Pi/180, center, center)
	dc.Translate(offsetX, offsetY)
	dc.DrawImageEx(gg.ImageBufFromImage(cutout), gg.DrawImageOptions{
		X:             center - drawW/2,
		Y:             center - drawH/2,
		DstWidth:      drawW,
		DstHeight:     drawH,
		Interpolation: gg.InterpBilinear,
		Opacity:       1.0,
	})
	dc.Pop()

	return dc.Image(), nil
}

func addShapePath(dc *gg.Context, s settings.Settings, size float64) {
	switch s.Shape {
	case settings.ShapeRounded:
		radius := clamp(s.CornerRadius, 0, 0.5) * size
		dc.DrawRoundedRectangle(0, 0, size, size, radius)
	default:
		dc.DrawCircle(size/2, size/2, size/2)
	}
}

func fillBackground(dc *gg.Context, bg settings.Background, size float64) error {
	switch bg.Kind {
	case settings.BackgroundGradient:
		dc.SetFillBrush(gradientBrush(bg, size))
		dc.DrawRectangle(0, 0, size, size)
		return dc.Fill()
	case settings.BackgroundChecker:
		return fillChecker(dc, bg, size)
	default:
		dc.SetFillBrush(gg.SolidHex(hexOr(bg.Color, "#ffffff")))
		dc.DrawRectangle(0, 0, size, size)
		return dc.Fill()
	}
}

// gradientBrush spans the frame diagonal at the configured angle so both end
// colors are always visible inside the clip.
func gradientBrush(bg settings.Background, size float64) gg.Brush {
	angle := bg.Angle * math.Pi / 180
	center := size / 2
	half := size / 2 * math.Sqrt2
	dx := math.Cos(angle) * half
	dy := math.Sin(angle) * half
	return gg.NewLinearGradientBrush(center-dx, center-dy, center+dx, center+dy).
		AddColorStop(0, gg.Hex(hexOr(bg.Color, "#ffffff"))).
		AddColorStop(1, gg.Hex(hexOr(bg.ColorEnd, "#000000")))
}

func fillChecker(dc *gg.Context, bg settings.Background, size float64) error {
	pct := bg.CheckerPct
	if pct <= 0 || pct > 0.5 {
		pct = 0.08
	}
	tile := math.Max(4, size*pct)

	dc.SetFillBrush(gg.SolidHex(hexOr(bg.Color, "#ffffff")))
	dc.DrawRectangle(0, 0, size, size)
	if err := dc.Fill(); err != nil {
		return err
	}

	dc.SetFillBrush(gg.SolidHex(hexOr(bg.ColorEnd, "#d0d0d0")))
	cols := int(math.Ceil(size / tile))
	for row := 0; row <= cols; row++ {
		for col := 0; col <= cols; col++ {
			if (row+col)%2 == 0 {
				continue
			}
			dc.DrawRectangle(float64(col)*tile, float64(row)*tile, tile, tile)
		}
	}
	return dc.Fill()
}

func hexOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

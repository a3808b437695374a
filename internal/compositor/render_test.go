package compositor

import (
	"image"
	"testing"

	"cutout/internal/settings"
	"cutout/internal/testsupport"
)

func baseSettings() settings.Settings {
	return settings.Settings{
		Shape:        settings.ShapeCircle,
		FrameSize:    128,
		CornerRadius: 0.1,
		Background: settings.Background{
			Kind:  settings.BackgroundSolid,
			Color: "#336699",
		},
		Batch: settings.Transform{Scale: 1.0},
	}
}

func TestRenderProducesFrameSizedImage(t *testing.T) {
	cutout := testsupport.SampleImage(40, 20)
	out, err := Render(cutout, baseSettings(), Overrides{})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	bounds := out.Bounds()
	if bounds.Dx() != 128 || bounds.Dy() != 128 {
		t.Fatalf("output = %dx%d, want 128x128", bounds.Dx(), bounds.Dy())
	}
}

func TestRenderScaledMultipliesFrame(t *testing.T) {
	cutout := testsupport.SampleImage(32, 32)
	out, err := RenderScaled(cutout, baseSettings(), Overrides{}, 2.0)
	if err != nil {
		t.Fatalf("RenderScaled failed: %v", err)
	}
	if got := out.Bounds().Dx(); got != 256 {
		t.Fatalf("output width = %d, want 256", got)
	}
}

func TestRenderCircleClipsCorners(t *testing.T) {
	cutout := testsupport.SampleImage(32, 32)
	s := baseSettings()
	out, err := Render(cutout, s, Overrides{})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	// Corners outside the circle stay fully transparent.
	_, _, _, a := out.At(1, 1).RGBA()
	if a != 0 {
		t.Fatalf("corner alpha = %d, want 0", a)
	}
	// The center is covered by the background or the cutout.
	_, _, _, a = out.At(64, 64).RGBA()
	if a == 0 {
		t.Fatal("center must be opaque")
	}
}

func TestRenderGradientAndCheckerBackgrounds(t *testing.T) {
	cutout := testsupport.SampleImage(16, 16)

	s := baseSettings()
	s.Background = settings.Background{
		Kind:     settings.BackgroundGradient,
		Color:    "#ff0000",
		ColorEnd: "#0000ff",
		Angle:    45,
	}
	if _, err := Render(cutout, s, Overrides{}); err != nil {
		t.Fatalf("gradient render failed: %v", err)
	}

	s.Background = settings.Background{
		Kind:       settings.BackgroundChecker,
		Color:      "#ffffff",
		ColorEnd:   "#cccccc",
		CheckerPct: 0.1,
	}
	if _, err := Render(cutout, s, Overrides{}); err != nil {
		t.Fatalf("checker render failed: %v", err)
	}
}

func TestRenderRejectsEmptyInput(t *testing.T) {
	if _, err := Render(nil, baseSettings(), Overrides{}); err == nil {
		t.Fatal("expected error for nil cutout")
	}
	empty := image.NewRGBA(image.Rect(0, 0, 0, 0))
	if _, err := Render(empty, baseSettings(), Overrides{}); err == nil {
		t.Fatal("expected error for empty cutout")
	}
}

func TestCombineClampsEveryComponent(t *testing.T) {
	batch := settings.Transform{Scale: 1.0}
	big := 99.0
	lowScale := 0.00001
	spin := 720.0
	farLeft := -10000.0

	got := Combine(batch, Overrides{Scale: &big, Rotation: &spin, OffsetX: &farLeft}, 256)
	if got.Scale != MaxScale {
		t.Errorf("scale = %v, want %v", got.Scale, MaxScale)
	}
	if got.Rotation != MaxRotation {
		t.Errorf("rotation = %v, want %v", got.Rotation, MaxRotation)
	}
	if got.OffsetX != -128 {
		t.Errorf("offset x = %v, want -128", got.OffsetX)
	}

	got = Combine(batch, Overrides{Scale: &lowScale}, 256)
	if got.Scale != MinScale {
		t.Errorf("scale = %v, want %v", got.Scale, MinScale)
	}
}

func TestCombineFallsThroughToBatch(t *testing.T) {
	batch := settings.Transform{Scale: 1.5, Rotation: 10, OffsetX: 20, OffsetY: -20}
	got := Combine(batch, Overrides{}, 256)
	if got != batch {
		t.Fatalf("Combine without overrides = %#v, want batch values", got)
	}

	rot := -30.0
	got = Combine(batch, Overrides{Rotation: &rot}, 256)
	if got.Rotation != -30 || got.Scale != 1.5 {
		t.Fatalf("partial override = %#v", got)
	}
}

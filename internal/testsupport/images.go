package testsupport

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// SampleImage returns a small opaque test image.
func SampleImage(width, height int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 7 % 256), G: uint8(y * 13 % 256), B: 0x40, A: 0xFF})
		}
	}
	return img
}

// EncodePNG encodes an image to PNG bytes.
func EncodePNG(t testing.TB, img image.Image) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// WritePNG writes a sample PNG under dir and returns its path.
func WritePNG(t testing.TB, dir, name string, width, height int) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, EncodePNG(t, SampleImage(width, height)), 0o644); err != nil {
		t.Fatalf("write png: %v", err)
	}
	return path
}

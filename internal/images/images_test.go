package images_test

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"math/rand"
	"testing"

	"github.com/fileforge/fileforge/internal/images"
)

// noisyImage produces an image that resists compression, so quality
// settings have a measurable effect on encoded size.
func noisyImage(w, h int) *image.RGBA {
	rng := rand.New(rand.NewSource(42))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(rng.Intn(256)),
				G: uint8(rng.Intn(256)),
				B: uint8(rng.Intn(256)),
				A: 255,
			})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func decodeImage(t *testing.T, data []byte) (image.Image, string) {
	t.Helper()
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	return img, format
}

func TestIsImage(t *testing.T) {
	tests := []struct {
		mime     string
		expected bool
	}{
		{images.MIMEPNG, true},
		{images.MIMEJPEG, true},
		{images.MIMEGIF, true},
		{images.MIMEWebP, true},
		{"application/pdf", false},
		{"text/plain", false},
	}

	for _, tt := range tests {
		if got := images.IsImage(tt.mime); got != tt.expected {
			t.Errorf("IsImage(%q) = %v, expected %v", tt.mime, got, tt.expected)
		}
	}
}

func TestConvert_PNGToJPEG(t *testing.T) {
	src := encodePNG(t, noisyImage(16, 16))

	out, err := images.Convert(src, images.MIMEJPEG)
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}

	img, format := decodeImage(t, out)
	if format != "jpeg" {
		t.Errorf("expected jpeg output, got %q", format)
	}
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 16 {
		t.Errorf("dimensions changed: %v", img.Bounds())
	}
}

func TestConvert_JPEGToPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, noisyImage(8, 8), nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}

	out, err := images.Convert(buf.Bytes(), images.MIMEPNG)
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}

	if _, format := decodeImage(t, out); format != "png" {
		t.Errorf("expected png output, got %q", format)
	}
}

func TestConvert_PNGToGIF(t *testing.T) {
	out, err := images.Convert(encodePNG(t, noisyImage(8, 8)), images.MIMEGIF)
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}

	if _, err := gif.Decode(bytes.NewReader(out)); err != nil {
		t.Errorf("output is not a valid gif: %v", err)
	}
}

func TestConvert_WebPTargetUnsupported(t *testing.T) {
	_, err := images.Convert(encodePNG(t, noisyImage(4, 4)), images.MIMEWebP)
	if !errors.Is(err, images.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestConvert_GarbageInput(t *testing.T) {
	_, err := images.Convert([]byte("definitely not an image"), images.MIMEPNG)
	if !errors.Is(err, images.ErrConversionFailed) {
		t.Errorf("expected ErrConversionFailed, got %v", err)
	}
}

func TestCompress_QualityAffectsSize(t *testing.T) {
	src := encodePNG(t, noisyImage(64, 64))

	low, err := images.Compress(src, 10)
	if err != nil {
		t.Fatalf("Compress(10) error: %v", err)
	}
	high, err := images.Compress(src, 95)
	if err != nil {
		t.Fatalf("Compress(95) error: %v", err)
	}

	if len(low) >= len(high) {
		t.Errorf("low quality (%d bytes) should be smaller than high quality (%d bytes)", len(low), len(high))
	}

	if _, format := decodeImage(t, low); format != "jpeg" {
		t.Errorf("compressed output should be jpeg, got %q", format)
	}
}

func TestResize_ExactDimensions(t *testing.T) {
	src := encodePNG(t, noisyImage(32, 20))

	out, err := images.Resize(src, 10, 7)
	if err != nil {
		t.Fatalf("Resize() error: %v", err)
	}

	img, format := decodeImage(t, out)
	if img.Bounds().Dx() != 10 || img.Bounds().Dy() != 7 {
		t.Errorf("expected 10x7, got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
	if format != "png" {
		t.Errorf("resize should preserve the png container, got %q", format)
	}
}

func TestResize_InvalidDimensions(t *testing.T) {
	src := encodePNG(t, noisyImage(4, 4))

	for _, dims := range [][2]int{{0, 10}, {10, 0}, {-1, 5}} {
		if _, err := images.Resize(src, dims[0], dims[1]); !errors.Is(err, images.ErrInvalidDimensions) {
			t.Errorf("Resize(%d, %d): expected ErrInvalidDimensions, got %v", dims[0], dims[1], err)
		}
	}
}

func TestStripMetadata_PreservesPixelsAndContainer(t *testing.T) {
	src := encodePNG(t, noisyImage(12, 12))

	out, err := images.StripMetadata(src)
	if err != nil {
		t.Fatalf("StripMetadata() error: %v", err)
	}

	img, format := decodeImage(t, out)
	if format != "png" {
		t.Errorf("container changed to %q", format)
	}
	if img.Bounds().Dx() != 12 || img.Bounds().Dy() != 12 {
		t.Errorf("dimensions changed: %v", img.Bounds())
	}
}

func TestStripMetadata_Idempotent(t *testing.T) {
	src := encodePNG(t, noisyImage(6, 6))

	once, err := images.StripMetadata(src)
	if err != nil {
		t.Fatalf("first strip: %v", err)
	}
	twice, err := images.StripMetadata(once)
	if err != nil {
		t.Fatalf("second strip: %v", err)
	}

	if !bytes.Equal(once, twice) {
		t.Error("stripping an already-stripped image should be a fixed point")
	}
}

func TestOutputMIME_WebPFallsBackToPNG(t *testing.T) {
	if got := images.OutputMIME(images.MIMEWebP); got != images.MIMEPNG {
		t.Errorf("expected png fallback for webp, got %q", got)
	}
	if got := images.OutputMIME(images.MIMEJPEG); got != images.MIMEJPEG {
		t.Errorf("expected jpeg preserved, got %q", got)
	}
}

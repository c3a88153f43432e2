package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func TestAllowedExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"photo.png", true},
		{"photo.jpg", true},
		{"photo.jpeg", true},
		{"photo.gif", true},
		{"photo.webp", true},
		{"PHOTO.PNG", true},
		{"archive.tar.gz", false},
		{"photo.bmp", false},
		{"photo", false},
		{"", false},
		{".png", true},
	}

	for _, tt := range tests {
		if got := AllowedExtension(tt.filename); got != tt.want {
			t.Errorf("AllowedExtension(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestNormalize_PNGToJPEG(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			src.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}

	out, err := Normalize(buf.Bytes())
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	img, format, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decoding normalized output: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("normalized format = %q, want jpeg", format)
	}
	if got := img.Bounds(); got != src.Bounds() {
		t.Errorf("normalized bounds = %v, want %v", got, src.Bounds())
	}
}

func TestNormalize_JPEGPassesThrough(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	first, err := Normalize(buf.Bytes())
	if err != nil {
		t.Fatalf("first Normalize() error = %v", err)
	}

	// Re-normalizing a JPEG must still yield a decodable JPEG.
	second, err := Normalize(first)
	if err != nil {
		t.Fatalf("second Normalize() error = %v", err)
	}
	if _, format, err := image.Decode(bytes.NewReader(second)); err != nil || format != "jpeg" {
		t.Errorf("re-normalized output format = %q, err = %v, want jpeg", format, err)
	}
}

func TestNormalize_RejectsGarbage(t *testing.T) {
	if _, err := Normalize([]byte("definitely not an image")); err == nil {
		t.Error("expected error for non-image data")
	}
	if _, err := Normalize(nil); err == nil {
		t.Error("expected error for empty data")
	}
}

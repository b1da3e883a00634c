package encode

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	apperrors "appicon/internal/errors"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestEncodePNG(t *testing.T) {
	src := solid(12, 12, color.RGBA{R: 10, G: 200, B: 30, A: 255})
	out, err := New(FormatPNG, 0).Encode(src)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if out.MimeType != "image/png" || out.Extension != "png" {
		t.Fatalf("unexpected metadata %+v", out)
	}

	decoded, err := png.Decode(bytes.NewReader(out.Data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Bounds().Dx() != 12 {
		t.Fatalf("unexpected bounds %v", decoded.Bounds())
	}
	r, g, b, a := decoded.At(3, 3).RGBA()
	if r>>8 != 10 || g>>8 != 200 || b>>8 != 30 || a>>8 != 255 {
		t.Fatalf("png must be lossless, got %d %d %d %d", r>>8, g>>8, b>>8, a>>8)
	}
}

func TestPreviewURI(t *testing.T) {
	out, err := New("", 0).Encode(solid(4, 4, color.RGBA{A: 255}))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	prefix := "data:image/png;base64,"
	if !strings.HasPrefix(out.PreviewURI, prefix) {
		t.Fatalf("unexpected preview %q", out.PreviewURI[:30])
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(out.PreviewURI, prefix))
	if err != nil {
		t.Fatalf("decode preview: %v", err)
	}
	if !bytes.Equal(raw, out.Data) {
		t.Fatalf("preview does not embed the encoded bytes")
	}
}

func TestEncodeJPEG(t *testing.T) {
	src := solid(16, 16, color.RGBA{R: 255, A: 255})
	low, err := New(FormatJPEG, 5).Encode(src)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := jpeg.Decode(bytes.NewReader(low.Data)); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if low.Extension != "jpg" || low.MimeType != "image/jpeg" {
		t.Fatalf("unexpected metadata %+v", low)
	}
}

func TestEncodeZeroArea(t *testing.T) {
	_, err := New(FormatPNG, 0).Encode(image.NewRGBA(image.Rectangle{}))
	if !errors.Is(err, apperrors.ErrEncodingFailed) {
		t.Fatalf("expected EncodingFailed, got %v", err)
	}
}

func TestQualityMapping(t *testing.T) {
	tests := []struct {
		in       int
		jpeg     int
		webpWant float32
	}{
		{in: -5, jpeg: 1, webpWant: 0},
		{in: 0, jpeg: 1, webpWant: 0},
		{in: 75, jpeg: 75, webpWant: 75},
		{in: 100, jpeg: 100, webpWant: 100},
		{in: 150, jpeg: 100, webpWant: 100},
	}
	for _, tt := range tests {
		if got := JPEGQuality(tt.in); got != tt.jpeg {
			t.Errorf("JPEGQuality(%d) = %d, want %d", tt.in, got, tt.jpeg)
		}
		if got := WebPQuality(tt.in); got != tt.webpWant {
			t.Errorf("WebPQuality(%d) = %v, want %v", tt.in, got, tt.webpWant)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"":           FormatPNG,
		"PNG":        FormatPNG,
		"jpg":        FormatJPEG,
		"image/jpeg": FormatJPEG,
		"webp":       FormatWebP,
	}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("gif"); !apperrors.IsKind(err, apperrors.KindInvalidInput) {
		t.Errorf("expected invalid input for gif, got %v", err)
	}
}

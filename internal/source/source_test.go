package source

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	apperrors "appicon/internal/errors"
	"appicon/pkg/imgutil"
)

func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 128, A: 255})
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

// jpegWithOrientation encodes img as JPEG and inserts an APP1 segment whose
// IFD0 holds only an Orientation tag.
func jpegWithOrientation(t *testing.T, img image.Image, orientation uint16) []byte {
	t.Helper()
	var enc bytes.Buffer
	if err := jpeg.Encode(&enc, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}

	var tiff bytes.Buffer
	tiff.Write([]byte{0x49, 0x49, 0x2a, 0x00})
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(8))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(1))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(0x0112))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(3))
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(1))
	_ = binary.Write(&tiff, binary.LittleEndian, orientation)
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(0))
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(0))
	app1 := append([]byte("Exif\x00\x00"), tiff.Bytes()...)

	data := enc.Bytes()
	var out bytes.Buffer
	out.Write(data[:2])
	out.Write([]byte{0xff, 0xe1})
	_ = binary.Write(&out, binary.BigEndian, uint16(len(app1)+2))
	out.Write(app1)
	out.Write(data[2:])
	return out.Bytes()
}

func pngWithMetadata(t *testing.T, img image.Image) []byte {
	t.Helper()
	data := encodePNG(t, img)
	insertAt := len(data) - 12
	out := append([]byte{}, data[:insertAt]...)
	out = append(out, pngChunk("tEXt", []byte("Model\x00TestCam"))...)
	out = append(out, pngChunk("tIME", []byte{0x07, 0xE8, 0x01, 0x02, 0x03, 0x04, 0x05})...)
	out = append(out, data[insertAt:]...)
	return out
}

func pngChunk(name string, data []byte) []byte {
	chunk := make([]byte, 8, 12+len(data))
	binary.BigEndian.PutUint32(chunk[:4], uint32(len(data)))
	copy(chunk[4:], name)
	chunk = append(chunk, data...)
	crc := crc32.ChecksumIEEE(append([]byte(name), data...))
	return binary.BigEndian.AppendUint32(chunk, crc)
}

func TestLoadPNG(t *testing.T) {
	src, err := Load(bytes.NewReader(encodePNG(t, gradient(100, 80))), DefaultLimits())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if src.Format != imgutil.KindPNG || src.Width != 100 || src.Height != 80 || src.Square() {
		t.Fatalf("unexpected source %+v", src)
	}
	if src.Orientation != 1 {
		t.Fatalf("orientation %d", src.Orientation)
	}
}

func TestLoadRejections(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		lim  Limits
		want error
	}{
		{name: "too large", data: encodePNG(t, gradient(80, 80)), lim: Limits{MaxBytes: 32}, want: apperrors.ErrSourceTooLarge},
		{name: "not an image", data: []byte("definitely not a raster image"), lim: DefaultLimits(), want: apperrors.ErrUnsupportedSourceFormat},
		{name: "truncated", data: []byte{0x89, 0x50}, lim: DefaultLimits(), want: apperrors.ErrUnsupportedSourceFormat},
		{name: "corrupt png", data: append(append([]byte{}, encodePNG(t, gradient(80, 80))[:40]...), 0, 0, 0), lim: DefaultLimits(), want: apperrors.ErrUnsupportedSourceFormat},
		{name: "too small", data: encodePNG(t, gradient(10, 200)), lim: DefaultLimits(), want: apperrors.ErrSourceTooSmall},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(bytes.NewReader(tt.data), tt.lim)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadAppliesOrientation(t *testing.T) {
	data := jpegWithOrientation(t, gradient(128, 80), 6)
	src, err := Load(bytes.NewReader(data), DefaultLimits())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if src.Format != imgutil.KindJPEG || src.Orientation != 6 {
		t.Fatalf("unexpected source %+v", src)
	}
	if src.Width != 80 || src.Height != 128 {
		t.Fatalf("expected rotated 80x128, got %dx%d", src.Width, src.Height)
	}
}

func TestApplyOrientation(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})

	tests := []struct {
		orientation int
		w, h        int
		markX       int
		markY       int
	}{
		{orientation: 1, w: 3, h: 2, markX: 0, markY: 0},
		{orientation: 2, w: 3, h: 2, markX: 2, markY: 0},
		{orientation: 3, w: 3, h: 2, markX: 2, markY: 1},
		{orientation: 4, w: 3, h: 2, markX: 0, markY: 1},
		{orientation: 5, w: 2, h: 3, markX: 0, markY: 0},
		{orientation: 6, w: 2, h: 3, markX: 1, markY: 0},
		{orientation: 7, w: 2, h: 3, markX: 1, markY: 2},
		{orientation: 8, w: 2, h: 3, markX: 0, markY: 2},
	}
	for _, tt := range tests {
		out := applyOrientation(img, tt.orientation)
		b := out.Bounds()
		if b.Dx() != tt.w || b.Dy() != tt.h {
			t.Errorf("orientation %d: got %dx%d", tt.orientation, b.Dx(), b.Dy())
			continue
		}
		if r, _, _, _ := out.At(b.Min.X+tt.markX, b.Min.Y+tt.markY).RGBA(); r>>8 != 255 {
			t.Errorf("orientation %d: marker not at %d,%d", tt.orientation, tt.markX, tt.markY)
		}
	}
}

func TestInspectPNGMetadata(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logo.png")
	if err := os.WriteFile(path, pngWithMetadata(t, gradient(200, 100)), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	rep, err := Inspect(path, DefaultLimits())
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if rep.Format != imgutil.KindPNG || rep.Width != 200 || rep.Height != 100 || rep.HasAlpha {
		t.Fatalf("unexpected report %+v", rep)
	}
	if !hasCategory(rep.Categories, "Device Model") || !hasCategory(rep.Categories, "Timestamp") {
		t.Fatalf("expected model and timestamp, got %v", rep.Categories)
	}
	for _, kind := range []string{"Crop", "Upscale", "Metadata"} {
		if !hasNote(rep.Notes, kind) {
			t.Errorf("missing %s note in %+v", kind, rep.Notes)
		}
	}
}

func TestInspectJPEGOrientation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logo.jpg")
	if err := os.WriteFile(path, jpegWithOrientation(t, gradient(128, 80), 8), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	rep, err := Inspect(path, DefaultLimits())
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if rep.Orientation != 8 || rep.Width != 80 || rep.Height != 128 {
		t.Fatalf("unexpected report %+v", rep)
	}
	if rep.Exif == nil || !hasNote(rep.Notes, "Orientation") {
		t.Fatalf("expected EXIF summary and orientation note")
	}
}

func TestInspectTransparentSource(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	path := filepath.Join(t.TempDir(), "clear.png")
	if err := os.WriteFile(path, encodePNG(t, img), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	rep, err := Inspect(path, DefaultLimits())
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if !rep.HasAlpha || !hasNote(rep.Notes, "Transparency") {
		t.Fatalf("expected transparency, got %+v", rep)
	}
}

func hasCategory(cats []string, want string) bool {
	for _, c := range cats {
		if c == want {
			return true
		}
	}
	return false
}

func hasNote(notes []Note, kind string) bool {
	for _, n := range notes {
		if n.Kind == kind {
			return true
		}
	}
	return false
}

func TestReadExifFromJPEGApp1(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want int
	}{
		{name: "rotated jpeg", data: jpegWithOrientation(t, gradient(96, 64), 6), want: 6},
		{name: "flipped jpeg", data: jpegWithOrientation(t, gradient(96, 64), 3), want: 3},
		{name: "png without exif", data: encodePNG(t, gradient(96, 64)), want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := readExif(tt.data)
			if err != nil {
				t.Fatalf("readExif: %v", err)
			}
			if summary.Orientation != tt.want {
				t.Fatalf("orientation %d, want %d", summary.Orientation, tt.want)
			}
			if tt.want != 1 && summary.TagCount == 0 {
				t.Fatalf("expected tags to be counted, got %+v", summary)
			}
		})
	}
}

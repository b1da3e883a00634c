// Package source loads and validates user-supplied logos.
package source

import (
	"bytes"
	"image"
	"io"
	"os"

	// Decoders for every format the sniffer accepts.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	apperrors "appicon/internal/errors"
	"appicon/pkg/imgutil"
)

const (
	DefaultMaxBytes     int64 = 10 << 20
	DefaultMinDimension       = 64
)

// Limits bound what Load accepts.
type Limits struct {
	MaxBytes     int64 `yaml:"max_bytes"`
	MinDimension int   `yaml:"min_dimension"`
}

func DefaultLimits() Limits {
	return Limits{MaxBytes: DefaultMaxBytes, MinDimension: DefaultMinDimension}
}

func (l Limits) withDefaults() Limits {
	if l.MaxBytes <= 0 {
		l.MaxBytes = DefaultMaxBytes
	}
	if l.MinDimension <= 0 {
		l.MinDimension = 1
	}
	return l
}

// Source is a decoded logo, upright according to its EXIF orientation.
type Source struct {
	Image       image.Image
	Format      imgutil.Kind
	Width       int
	Height      int
	Orientation int
	Bytes       int64
}

// Square reports whether the source needs no crop.
func (s *Source) Square() bool {
	return s.Width == s.Height
}

// Open loads the file at path.
func Open(path string, lim Limits) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindIO, "source.open", path, err)
	}
	defer f.Close()
	return Load(f, lim)
}

// Load reads at most lim.MaxBytes from r, checks the format by magic bytes,
// decodes it and applies the EXIF orientation.
func Load(r io.Reader, lim Limits) (*Source, error) {
	const op = "source.load"
	lim = lim.withDefaults()

	data, err := io.ReadAll(io.LimitReader(r, lim.MaxBytes+1))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindIO, op, "read source", err)
	}
	if int64(len(data)) > lim.MaxBytes {
		return nil, apperrors.Newf(apperrors.KindSourceTooLarge, op, "source exceeds %d bytes", lim.MaxBytes)
	}

	kind := imgutil.KindUnknown
	if len(data) >= imgutil.HeaderSize {
		kind, _ = imgutil.DetectHeader(data[:imgutil.HeaderSize])
	}
	if kind == imgutil.KindUnknown {
		return nil, apperrors.New(apperrors.KindUnsupportedSourceFormat, op, "not a supported raster image")
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindUnsupportedSourceFormat, op, "decode "+kind.String(), err)
	}

	orientation := 1
	if kind.HasExif() {
		if o, err := readOrientation(data); err == nil {
			orientation = o
		}
	}
	img = applyOrientation(img, orientation)

	b := img.Bounds()
	if b.Dx() < lim.MinDimension || b.Dy() < lim.MinDimension {
		return nil, apperrors.Newf(apperrors.KindSourceTooSmall, op,
			"source is %dx%d, need at least %dx%d", b.Dx(), b.Dy(), lim.MinDimension, lim.MinDimension)
	}

	return &Source{
		Image:       img,
		Format:      kind,
		Width:       b.Dx(),
		Height:      b.Dy(),
		Orientation: orientation,
		Bytes:       int64(len(data)),
	}, nil
}

// applyOrientation maps EXIF orientations 2-8 onto the transform that makes
// the image upright. imaging rotates counter-clockwise.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

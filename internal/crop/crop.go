// Package crop extracts the square region of a source image that the icon
// pipeline scales.
package crop

import (
	"image"

	"github.com/disintegration/imaging"

	apperrors "appicon/internal/errors"
)

// Region is a square sub-region of a source image, relative to its top-left corner.
type Region struct {
	X    int `json:"x" yaml:"x"`
	Y    int `json:"y" yaml:"y"`
	Size int `json:"size" yaml:"size"`
}

// DefaultRegion is the centered maximal square of a width x height image.
func DefaultRegion(width, height int) Region {
	size := min(width, height)
	return Region{
		X:    (width - size) / 2,
		Y:    (height - size) / 2,
		Size: size,
	}
}

// Validate checks the region lies fully within a width x height image.
func (r Region) Validate(width, height int) error {
	switch {
	case r.Size <= 0:
		return apperrors.Newf(apperrors.KindInvalidCropRegion, "crop.validate", "size must be positive, got %d", r.Size)
	case r.X < 0 || r.Y < 0:
		return apperrors.Newf(apperrors.KindInvalidCropRegion, "crop.validate", "offset (%d,%d) is negative", r.X, r.Y)
	case r.X+r.Size > width || r.Y+r.Size > height:
		return apperrors.Newf(apperrors.KindInvalidCropRegion, "crop.validate",
			"region %d+%d,%d+%d exceeds %dx%d source", r.X, r.Size, r.Y, r.Size, width, height)
	}
	return nil
}

// Clamp fits interactive drag input into a width x height image: the size is
// limited to the shorter edge and the offset is pulled back inside the bounds.
func Clamp(r Region, width, height int) Region {
	maxSize := min(width, height)
	if r.Size > maxSize {
		r.Size = maxSize
	}
	if r.Size < 1 {
		r.Size = 1
	}
	r.X = max(0, min(r.X, width-r.Size))
	r.Y = max(0, min(r.Y, height-r.Size))
	return r
}

// Square returns a new region.Size x region.Size buffer holding exactly the
// pixels covered by the region. A nil region selects DefaultRegion; an
// already-square source with no region is copied unchanged.
func Square(src image.Image, region *Region) (*image.NRGBA, error) {
	if src == nil {
		return nil, apperrors.New(apperrors.KindInvalidInput, "crop.square", "source image is nil")
	}
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, apperrors.New(apperrors.KindInvalidCropRegion, "crop.square", "source image is empty")
	}

	var r Region
	if region == nil {
		if w == h {
			return imaging.Clone(src), nil
		}
		r = DefaultRegion(w, h)
	} else {
		r = *region
	}

	if err := r.Validate(w, h); err != nil {
		return nil, err
	}

	rect := image.Rect(r.X, r.Y, r.X+r.Size, r.Y+r.Size).Add(bounds.Min)
	return imaging.Crop(src, rect), nil
}

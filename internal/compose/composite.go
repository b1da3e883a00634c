// Package compose scales a square source onto a padded, background-filled icon
// canvas and applies the per-platform fixups.
package compose

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// Filter is the resampling kernel used for every icon. CatmullRom is a bicubic
// kernel; it is fixed so identical inputs always produce identical pixels.
var Filter = draw.CatmullRom

// Layout is the placement of the scaled source inside the target canvas.
type Layout struct {
	Edge    int
	OffsetX int
	OffsetY int
}

// Rect is the destination rectangle of the scaled source.
func (l Layout) Rect() image.Rectangle {
	return image.Rect(l.OffsetX, l.OffsetY, l.OffsetX+l.Edge, l.OffsetY+l.Edge)
}

// ComputeLayout insets a targetW x targetH canvas by padding target pixels on
// each side. The drawable edge saturates at 1 pixel.
func ComputeLayout(targetW, targetH int, padding float64) Layout {
	if padding < 0 || math.IsNaN(padding) {
		padding = 0
	}
	shorter := min(targetW, targetH)
	edge := int(math.Floor(float64(shorter) - 2*padding))
	if edge < 1 {
		edge = 1
	}
	return Layout{
		Edge:    edge,
		OffsetX: (targetW - edge) / 2,
		OffsetY: (targetH - edge) / 2,
	}
}

// Composite produces a targetW x targetH buffer filled with bg, with the whole
// of src scaled uniformly into the padded, centered square. src is expected to
// be square already; it is never cropped here. Non-positive targets yield an
// empty buffer.
func Composite(src image.Image, targetW, targetH int, padding float64, bg color.Color) *image.RGBA {
	if targetW <= 0 || targetH <= 0 {
		return image.NewRGBA(image.Rectangle{})
	}

	dst := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	if src == nil || src.Bounds().Empty() {
		return dst
	}

	layout := ComputeLayout(targetW, targetH, padding)
	Filter.Scale(dst, layout.Rect(), src, src.Bounds(), draw.Over, nil)
	return dst
}

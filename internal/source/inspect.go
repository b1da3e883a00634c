package source

import (
	"bytes"
	"fmt"
	"image"
	"os"

	"appicon/internal/crop"
	apperrors "appicon/internal/errors"
	"appicon/pkg/imgutil"
)

// LargestIcon is the biggest catalog dimension; smaller sources are upscaled.
const LargestIcon = 1024

// Note is one human-readable observation about a source.
type Note struct {
	Kind    string
	Message string
}

// Report describes a logo before generation.
type Report struct {
	Path        string
	Format      imgutil.Kind
	Bytes       int64
	Width       int
	Height      int
	Orientation int
	HasAlpha    bool
	Categories  []string
	Exif        *ExifSummary
	PNG         *PNGSummary
	Notes       []Note
}

// Inspect decodes the file at path without enforcing lim and reports how it
// will be treated by Load and the generator.
func Inspect(path string, lim Limits) (*Report, error) {
	const op = "source.inspect"
	lim = lim.withDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindIO, op, path, err)
	}
	if len(data) < imgutil.HeaderSize {
		return nil, apperrors.New(apperrors.KindUnsupportedSourceFormat, op, "file too short")
	}
	kind, _ := imgutil.DetectHeader(data[:imgutil.HeaderSize])
	if kind == imgutil.KindUnknown {
		return nil, apperrors.New(apperrors.KindUnsupportedSourceFormat, op, "not a supported raster image")
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindUnsupportedSourceFormat, op, "decode "+kind.String(), err)
	}

	rep := &Report{
		Path:        path,
		Format:      kind,
		Bytes:       int64(len(data)),
		Orientation: 1,
		HasAlpha:    hasAlpha(img),
	}

	switch {
	case kind.HasExif():
		summary, err := readExif(data)
		if err != nil {
			rep.Notes = append(rep.Notes, Note{Kind: "Metadata", Message: fmt.Sprintf("EXIF unreadable: %v", err)})
			break
		}
		rep.Exif = &summary
		rep.Orientation = summary.Orientation
		rep.Categories = exifCategories(summary)
	case kind == imgutil.KindPNG:
		summary, err := readPNGChunks(bytes.NewReader(data))
		if err != nil {
			rep.Notes = append(rep.Notes, Note{Kind: "Metadata", Message: fmt.Sprintf("PNG chunks unreadable: %v", err)})
			break
		}
		rep.PNG = &summary
		rep.Categories = pngCategories(summary)
	}

	upright := applyOrientation(img, rep.Orientation)
	rep.Width, rep.Height = upright.Bounds().Dx(), upright.Bounds().Dy()
	rep.Notes = append(rep.Notes, buildNotes(rep, lim)...)
	return rep, nil
}

func buildNotes(rep *Report, lim Limits) []Note {
	var notes []Note
	if rep.Bytes > lim.MaxBytes {
		notes = append(notes, Note{Kind: "Limit", Message: fmt.Sprintf("File is %d bytes; uploads are limited to %d.", rep.Bytes, lim.MaxBytes)})
	}
	if rep.Width < lim.MinDimension || rep.Height < lim.MinDimension {
		notes = append(notes, Note{Kind: "Limit", Message: fmt.Sprintf("Image is smaller than the %dpx minimum.", lim.MinDimension)})
	}
	if rep.Orientation > 1 {
		notes = append(notes, Note{Kind: "Orientation", Message: fmt.Sprintf("EXIF orientation %d will be applied before cropping.", rep.Orientation)})
	}
	if rep.Width != rep.Height {
		r := crop.DefaultRegion(rep.Width, rep.Height)
		notes = append(notes, Note{Kind: "Crop", Message: fmt.Sprintf("Not square; default crop is %dx%d at %d,%d.", r.Size, r.Size, r.X, r.Y)})
	}
	if min(rep.Width, rep.Height) < LargestIcon {
		notes = append(notes, Note{Kind: "Upscale", Message: fmt.Sprintf("Shorter edge is %dpx; icons up to %dpx will be upscaled.", min(rep.Width, rep.Height), LargestIcon)})
	}
	if rep.HasAlpha {
		notes = append(notes, Note{Kind: "Transparency", Message: "Transparent pixels will be flattened onto the background for store icons."})
	}
	if len(rep.Categories) > 0 {
		notes = append(notes, Note{Kind: "Metadata", Message: "Source metadata is not carried into generated icons."})
	}
	return notes
}

func exifCategories(s ExifSummary) []string {
	cats := []string{}
	if s.HasGPS() {
		cats = append(cats, "GPS")
	}
	if s.HasDevice() {
		cats = append(cats, "Device Model")
	}
	if s.Timestamp != "" {
		cats = append(cats, "Timestamp")
	}
	if s.SerialCount > 0 {
		cats = append(cats, "Serial Number")
	}
	return cats
}

func pngCategories(s PNGSummary) []string {
	cats := []string{}
	if s.HasGPS {
		cats = append(cats, "GPS")
	}
	if s.HasDevice {
		cats = append(cats, "Device Model")
	}
	if s.HasTimestamp {
		cats = append(cats, "Timestamp")
	}
	if s.HasICC {
		cats = append(cats, "ICC Profile")
	}
	return cats
}

func hasAlpha(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return true
			}
		}
	}
	return false
}

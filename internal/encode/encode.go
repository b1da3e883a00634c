// Package encode turns icon buffers into binary image files plus a
// self-contained preview.
package encode

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/chai2010/webp"

	apperrors "appicon/internal/errors"
)

type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatWebP Format = "webp"
)

// DefaultQuality applies to the lossy formats when no quality is given.
const DefaultQuality = 90

// ParseFormat accepts a format name or MIME type. Empty selects PNG.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png", "image/png":
		return FormatPNG, nil
	case "jpg", "jpeg", "image/jpeg":
		return FormatJPEG, nil
	case "webp", "image/webp":
		return FormatWebP, nil
	default:
		return "", apperrors.Newf(apperrors.KindInvalidInput, "encode.format", "unsupported export format %q", s)
	}
}

func (f Format) MimeType() string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	case FormatWebP:
		return "image/webp"
	default:
		return "image/png"
	}
}

func (f Format) Extension() string {
	switch f {
	case FormatJPEG:
		return "jpg"
	case FormatWebP:
		return "webp"
	default:
		return "png"
	}
}

// Lossy reports whether the quality setting applies.
func (f Format) Lossy() bool {
	return f == FormatJPEG || f == FormatWebP
}

// Encoded is one encoded icon.
type Encoded struct {
	Data       []byte
	MimeType   string
	Extension  string
	PreviewURI string
}

// Codec encodes buffers in one format. Quality is 0-100 and ignored for PNG.
type Codec struct {
	Format  Format
	Quality int
}

// New returns a codec; an empty format selects PNG.
func New(format Format, quality int) Codec {
	if format == "" {
		format = FormatPNG
	}
	return Codec{Format: format, Quality: quality}
}

// Encode writes img in the codec's format and builds a base64 data URI preview.
func (c Codec) Encode(img image.Image) (*Encoded, error) {
	op := "encode." + string(c.Format)
	if img == nil || img.Bounds().Empty() {
		return nil, apperrors.New(apperrors.KindEncodingFailed, op, "zero-area buffer")
	}

	var buf bytes.Buffer
	var err error
	switch c.Format {
	case FormatPNG, "":
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		err = enc.Encode(&buf, img)
	case FormatJPEG:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality(c.Quality)})
	case FormatWebP:
		err = webp.Encode(&buf, img, &webp.Options{Quality: WebPQuality(c.Quality)})
	default:
		return nil, apperrors.Newf(apperrors.KindEncodingFailed, op, "unknown format %q", c.Format)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindEncodingFailed, op, "encode icon", err)
	}

	data := buf.Bytes()
	return &Encoded{
		Data:       data,
		MimeType:   c.Format.MimeType(),
		Extension:  c.Format.Extension(),
		PreviewURI: DataURI(c.Format.MimeType(), data),
	}, nil
}

// DataURI renders data as a base64 data URI.
func DataURI(mime string, data []byte) string {
	var sb strings.Builder
	sb.Grow(len("data:;base64,") + len(mime) + base64.StdEncoding.EncodedLen(len(data)))
	fmt.Fprintf(&sb, "data:%s;base64,", mime)
	sb.WriteString(base64.StdEncoding.EncodeToString(data))
	return sb.String()
}

// JPEGQuality maps 0-100 onto the 1-100 range image/jpeg accepts.
func JPEGQuality(q int) int {
	if q <= 0 {
		return 1
	}
	if q > 100 {
		return 100
	}
	return q
}

// WebPQuality maps 0-100 onto libwebp's float quality factor.
func WebPQuality(q int) float32 {
	if q < 0 {
		q = 0
	}
	if q > 100 {
		q = 100
	}
	return float32(q)
}

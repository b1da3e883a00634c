package archive

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"sort"
	"strconv"
	"strings"

	ico "github.com/sergeymakinen/go-ico"
	_ "golang.org/x/image/webp"

	"appicon/internal/catalog"
	apperrors "appicon/internal/errors"
	"appicon/internal/pipeline"
)

type contents struct {
	Images []contentsImage `json:"images"`
	Info   contentsInfo    `json:"info"`
}

type contentsImage struct {
	Size     string `json:"size"`
	Idiom    string `json:"idiom"`
	Filename string `json:"filename"`
	Scale    string `json:"scale"`
	Role     string `json:"role,omitempty"`
}

type contentsInfo struct {
	Version int    `json:"version"`
	Author  string `json:"author"`
}

// ContentsJSON renders the Xcode asset catalog manifest for icons.
func ContentsJSON(icons []pipeline.ProcessedIcon) ([]byte, error) {
	doc := contents{Info: contentsInfo{Version: 1, Author: "appicon"}}
	for _, icon := range icons {
		size := icon.Size
		scale := size.Scale
		if scale == "" {
			scale = "1x"
		}
		factor := scaleFactor(scale)
		idiom := size.Idiom
		if idiom == "" {
			idiom = "universal"
		}
		img := contentsImage{
			Size:     fmt.Sprintf("%gx%g", float64(size.Width)/factor, float64(size.Height)/factor),
			Idiom:    idiom,
			Filename: icon.FileName(),
			Scale:    scale,
		}
		if icon.Platform == catalog.PlatformWatchOS && size.Role == catalog.RoleNotification {
			img.Role = "notificationCenter"
		}
		doc.Images = append(doc.Images, img)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindEncodingFailed, "archive.contents", "marshal Contents.json", err)
	}
	return append(data, '\n'), nil
}

func scaleFactor(scale string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSuffix(scale, "x"), 64)
	if err != nil || f <= 0 {
		return 1
	}
	return f
}

// Favicon packs the favicon-role icons into one multi-resolution .ico.
// ok is false when icons holds no favicon.
func Favicon(icons []pipeline.ProcessedIcon) (data []byte, ok bool, err error) {
	const op = "archive.favicon"
	var frames []image.Image
	for _, icon := range icons {
		if icon.Size.Role != catalog.RoleFavicon {
			continue
		}
		img, _, err := image.Decode(bytes.NewReader(icon.Data))
		if err != nil {
			return nil, false, apperrors.Wrap(apperrors.KindEncodingFailed, op, "decode "+icon.FileName(), err)
		}
		frames = append(frames, img)
	}
	if len(frames) == 0 {
		return nil, false, nil
	}
	sort.SliceStable(frames, func(i, j int) bool { return frames[i].Bounds().Dx() < frames[j].Bounds().Dx() })

	var buf bytes.Buffer
	if err := ico.EncodeAll(&buf, frames); err != nil {
		return nil, false, apperrors.Wrap(apperrors.KindEncodingFailed, op, "encode favicon.ico", err)
	}
	return buf.Bytes(), true, nil
}

package source

import (
	"errors"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"
)

// ExifSummary lists the EXIF fields a logo carries that generated icons drop.
type ExifSummary struct {
	Orientation int
	GPSCount    int
	Make        string
	Model       string
	Timestamp   string
	SerialCount int
	Software    string
	TagCount    int
}

func (s ExifSummary) HasGPS() bool {
	return s.GPSCount > 0
}

func (s ExifSummary) HasDevice() bool {
	return s.Make != "" || s.Model != ""
}

// readExif locates the raw EXIF block in data (JPEG APP1 or a TIFF header)
// and summarizes its tags. A file without EXIF yields the zero summary.
func readExif(data []byte) (ExifSummary, error) {
	summary := ExifSummary{Orientation: 1}
	seenOrientation := false

	raw, err := exif.SearchAndExtractExif(data)
	if err != nil {
		if isNoExif(err) {
			return summary, nil
		}
		return summary, err
	}

	tags, _, err := exif.GetFlatExifData(raw, nil)
	if err != nil {
		return summary, err
	}

	for _, tag := range tags {
		name := tag.TagName
		summary.TagCount++

		if strings.HasPrefix(name, "GPS") || strings.Contains(tag.IfdPath, "GPS") {
			summary.GPSCount++
			continue
		}
		switch name {
		case "Orientation":
			// IFD0 precedes the thumbnail IFD.
			if o := firstShort(tag.Value); o >= 1 && o <= 8 && !seenOrientation {
				summary.Orientation = o
				seenOrientation = true
			}
		case "Make":
			summary.Make = strings.TrimSpace(tag.FormattedFirst)
		case "Model", "CameraModelName":
			summary.Model = strings.TrimSpace(tag.FormattedFirst)
		case "DateTimeOriginal":
			summary.Timestamp = tag.FormattedFirst
		case "DateTimeDigitized", "DateTime":
			if summary.Timestamp == "" {
				summary.Timestamp = tag.FormattedFirst
			}
		case "Software":
			summary.Software = strings.TrimSpace(tag.FormattedFirst)
		}
		if strings.Contains(strings.ToLower(name), "serial") {
			summary.SerialCount++
		}
	}

	return summary, nil
}

func readOrientation(data []byte) (int, error) {
	summary, err := readExif(data)
	if err != nil {
		return 1, err
	}
	return summary.Orientation, nil
}

func firstShort(v any) int {
	switch val := v.(type) {
	case []uint16:
		if len(val) > 0 {
			return int(val[0])
		}
	case []uint32:
		if len(val) > 0 {
			return int(val[0])
		}
	}
	return 0
}

func isNoExif(err error) bool {
	if errors.Is(err, exif.ErrNoExif) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no exif")
}

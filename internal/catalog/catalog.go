// Package catalog enumerates the icon dimensions each platform expects and the
// user-defined custom sizes.
package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

type Platform string

const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
	PlatformWatchOS Platform = "watchos"
	PlatformWeb     Platform = "web"
	PlatformCustom  Platform = "custom"
)

// Platforms lists the catalog platforms in display order.
var Platforms = []Platform{PlatformIOS, PlatformAndroid, PlatformWatchOS, PlatformWeb}

func (p Platform) String() string {
	return string(p)
}

// Label is the human readable platform name.
func (p Platform) Label() string {
	switch p {
	case PlatformIOS:
		return "iOS"
	case PlatformAndroid:
		return "Android"
	case PlatformWatchOS:
		return "watchOS"
	case PlatformWeb:
		return "Web"
	case PlatformCustom:
		return "Custom"
	default:
		return string(p)
	}
}

// ParsePlatform accepts the platform identifiers case-insensitively.
func ParsePlatform(s string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ios", "iphone", "ipad":
		return PlatformIOS, nil
	case "android":
		return PlatformAndroid, nil
	case "watchos", "watch":
		return PlatformWatchOS, nil
	case "web", "favicon":
		return PlatformWeb, nil
	case "custom":
		return PlatformCustom, nil
	default:
		return "", fmt.Errorf("unknown platform %q", s)
	}
}

// SizeKind discriminates catalog entries from user-defined sizes.
type SizeKind int

const (
	KindCatalog SizeKind = iota
	KindCustom
)

func (k SizeKind) String() string {
	if k == KindCustom {
		return "custom"
	}
	return "catalog"
}

const (
	MinCustomSize = 8
	MaxCustomSize = 2048
)

// TargetSize is one named dimension an icon must be produced at.
type TargetSize struct {
	Kind        SizeKind
	ID          string
	Platform    Platform
	Width       int
	Height      int
	Name        string
	Description string
	// Filename is a pattern; {w}, {h} and {ext} are substituted by FileName.
	Filename string
	// Scale and Idiom feed the Xcode asset catalog manifest for iOS/watchOS.
	Scale string
	Idiom string
	Role  string
}

func (s TargetSize) IsCustom() bool {
	return s.Kind == KindCustom
}

func (s TargetSize) Square() bool {
	return s.Width == s.Height
}

// Dimensions renders WxH.
func (s TargetSize) Dimensions() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// FileName resolves the filename pattern for the given extension.
func (s TargetSize) FileName(ext string) string {
	pattern := s.Filename
	if pattern == "" {
		pattern = "icon-{w}x{h}.{ext}"
	}
	ext = strings.TrimPrefix(ext, ".")
	return strings.NewReplacer(
		"{w}", strconv.Itoa(s.Width),
		"{h}", strconv.Itoa(s.Height),
		"{ext}", ext,
	).Replace(pattern)
}

// Equal compares sizes structurally.
func (s TargetSize) Equal(o TargetSize) bool {
	return s.Kind == o.Kind && s.ID == o.ID && s.Width == o.Width && s.Height == o.Height
}

// NewCustomSize builds a user-defined size. Dimensions outside
// [MinCustomSize, MaxCustomSize] are clamped into range.
func NewCustomSize(width, height int, name string) TargetSize {
	width = ClampCustom(width)
	height = ClampCustom(height)
	if name == "" {
		name = fmt.Sprintf("Custom %dx%d", width, height)
	}
	return TargetSize{
		Kind:        KindCustom,
		ID:          uuid.NewString(),
		Platform:    PlatformCustom,
		Width:       width,
		Height:      height,
		Name:        name,
		Description: "User-defined size",
		Filename:    "icon-{w}x{h}.{ext}",
	}
}

func ClampCustom(v int) int {
	if v < MinCustomSize {
		return MinCustomSize
	}
	if v > MaxCustomSize {
		return MaxCustomSize
	}
	return v
}

// ParseDimensions parses "WxH" or a single edge "N".
func ParseDimensions(s string) (int, int, error) {
	raw := strings.ToLower(strings.TrimSpace(s))
	parts := strings.SplitN(raw, "x", 2)
	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid size %q", s)
	}
	if len(parts) == 1 {
		return w, w, nil
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid size %q", s)
	}
	return w, h, nil
}

// ForPlatform returns a copy of the catalog entries of one platform.
func ForPlatform(p Platform) []TargetSize {
	entries := entriesFor(p)
	out := make([]TargetSize, len(entries))
	copy(out, entries)
	return out
}

// ForPlatforms concatenates the catalog entries of several platforms, preserving
// the order given.
func ForPlatforms(platforms ...Platform) []TargetSize {
	var out []TargetSize
	for _, p := range platforms {
		out = append(out, entriesFor(p)...)
	}
	return out
}

// Lookup finds a catalog entry by its identifier.
func Lookup(id string) (TargetSize, bool) {
	for _, p := range Platforms {
		for _, s := range entriesFor(p) {
			if s.ID == id {
				return s, true
			}
		}
	}
	return TargetSize{}, false
}

// PrimaryStoreSize is the marketing/store icon of a platform, if it has one.
func PrimaryStoreSize(p Platform) (TargetSize, bool) {
	for _, s := range entriesFor(p) {
		if s.Role == RoleStore {
			return s, true
		}
	}
	return TargetSize{}, false
}

func entriesFor(p Platform) []TargetSize {
	switch p {
	case PlatformIOS:
		return iosSizes
	case PlatformAndroid:
		return androidSizes
	case PlatformWatchOS:
		return watchSizes
	case PlatformWeb:
		return webSizes
	default:
		return nil
	}
}

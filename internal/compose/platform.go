package compose

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"appicon/internal/catalog"
	"appicon/pkg/imgutil"
)

// Rule adjusts a resized buffer for one platform/size pair.
type Rule func(buf *image.RGBA, bg color.NRGBA) *image.RGBA

type ruleKey struct {
	platform catalog.Platform
	width    int
	height   int
}

// Rules maps (platform, dimensions) to a fixup. Adding a platform means adding
// entries here.
type Rules struct {
	entries map[ruleKey]Rule
}

// NewRules returns an empty rule set.
func NewRules() *Rules {
	return &Rules{entries: make(map[ruleKey]Rule)}
}

// DefaultRules forces the App Store marketing icons to be fully opaque.
func DefaultRules() *Rules {
	r := NewRules()
	r.Register(catalog.PlatformIOS, 1024, 1024, Flatten)
	r.Register(catalog.PlatformWatchOS, 1024, 1024, Flatten)
	return r
}

func (r *Rules) Register(p catalog.Platform, width, height int, rule Rule) {
	r.entries[ruleKey{platform: p, width: width, height: height}] = rule
}

// Lookup reports the rule registered for a platform and size, if any.
func (r *Rules) Lookup(p catalog.Platform, size catalog.TargetSize) (Rule, bool) {
	rule, ok := r.entries[ruleKey{platform: p, width: size.Width, height: size.Height}]
	return rule, ok
}

// Apply runs the rule matching (platform, size). Buffers with no rule are
// returned unchanged.
func (r *Rules) Apply(buf *image.RGBA, size catalog.TargetSize, p catalog.Platform, bg color.NRGBA) *image.RGBA {
	if r == nil || buf == nil {
		return buf
	}
	rule, ok := r.Lookup(p, size)
	if !ok {
		return buf
	}
	return rule(buf, bg)
}

// Flatten composites buf over an opaque fill of bg, eliminating any residual
// alpha.
func Flatten(buf *image.RGBA, bg color.NRGBA) *image.RGBA {
	out := image.NewRGBA(buf.Bounds())
	draw.Draw(out, out.Bounds(), image.NewUniform(imgutil.Opaque(bg)), image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), buf, buf.Bounds().Min, draw.Over)
	return out
}

// IsOpaque reports whether every pixel of img has full alpha.
func IsOpaque(img *image.RGBA) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for i := 3; i < len(row); i += 4 {
			if row[i] != 0xff {
				return false
			}
		}
	}
	return true
}

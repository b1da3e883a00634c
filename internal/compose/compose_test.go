package compose

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"testing"

	"appicon/internal/catalog"
)

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	red   = color.NRGBA{R: 255, A: 255}
	blue  = color.NRGBA{B: 255, A: 255}
)

// markedSource is a 64x64 image whose top-left quadrant is red and the rest blue.
func markedSource() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if x < 32 && y < 32 {
				img.SetNRGBA(x, y, red)
			} else {
				img.SetNRGBA(x, y, blue)
			}
		}
	}
	return img
}

func TestComputeLayout(t *testing.T) {
	tests := []struct {
		w, h    int
		padding float64
		want    Layout
	}{
		{w: 20, h: 20, padding: 0, want: Layout{Edge: 20}},
		{w: 180, h: 180, padding: 25, want: Layout{Edge: 130, OffsetX: 25, OffsetY: 25}},
		{w: 200, h: 100, padding: 10, want: Layout{Edge: 80, OffsetX: 60, OffsetY: 10}},
		{w: 20, h: 20, padding: 10, want: Layout{Edge: 1, OffsetX: 9, OffsetY: 9}},
		{w: 20, h: 20, padding: 50, want: Layout{Edge: 1, OffsetX: 9, OffsetY: 9}},
		{w: 21, h: 21, padding: 2.5, want: Layout{Edge: 16, OffsetX: 2, OffsetY: 2}},
		{w: 16, h: 16, padding: -3, want: Layout{Edge: 16}},
	}
	for _, tt := range tests {
		got := ComputeLayout(tt.w, tt.h, tt.padding)
		if got != tt.want {
			t.Errorf("ComputeLayout(%d,%d,%v) = %+v, want %+v", tt.w, tt.h, tt.padding, got, tt.want)
		}
	}
}

func TestCompositeZeroCropping(t *testing.T) {
	src := markedSource()

	for _, size := range []int{20, 180, 1024} {
		for _, padding := range []float64{0, 25, 50} {
			t.Run(fmt.Sprintf("%d_pad%v", size, padding), func(t *testing.T) {
				out := Composite(src, size, size, padding, white)
				if out.Bounds() != image.Rect(0, 0, size, size) {
					t.Fatalf("unexpected bounds %v", out.Bounds())
				}

				layout := ComputeLayout(size, size, padding)
				if layout.OffsetX > 0 {
					assertColor(t, out, layout.OffsetX-1, layout.OffsetY+layout.Edge/2, white)
					assertColor(t, out, 0, 0, white)
				}
				if layout.Edge < 8 {
					return
				}

				// The red mark occupies the top-left quarter of the scaled square and
				// blue fills the far corner: the full source is represented.
				quarter := layout.Edge / 4
				assertDominant(t, out, layout.OffsetX+quarter, layout.OffsetY+quarter, "red")
				assertDominant(t, out, layout.OffsetX, layout.OffsetY, "red")
				assertDominant(t, out, layout.OffsetX+layout.Edge-1, layout.OffsetY+layout.Edge-1, "blue")
				assertDominant(t, out, layout.OffsetX+3*quarter, layout.OffsetY+quarter, "blue")
				assertDominant(t, out, layout.OffsetX+quarter, layout.OffsetY+3*quarter, "blue")
			})
		}
	}
}

func TestCompositeDeterministic(t *testing.T) {
	src := markedSource()
	a := Composite(src, 87, 87, 6, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	b := Composite(src, 87, 87, 6, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Fatalf("composite output differs between identical calls")
	}
}

func TestCompositePaddingSaturation(t *testing.T) {
	src := markedSource()
	out := Composite(src, 40, 40, 500, white)

	drawn := 0
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			if out.RGBAAt(x, y) != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
				drawn++
			}
		}
	}
	if drawn > 1 {
		t.Fatalf("expected at most a 1x1 drawable inset, %d pixels differ from background", drawn)
	}
}

func TestCompositeNonSquareTarget(t *testing.T) {
	out := Composite(markedSource(), 120, 60, 0, white)
	layout := ComputeLayout(120, 60, 0)
	if layout.Edge != 60 || layout.OffsetX != 30 {
		t.Fatalf("unexpected layout %+v", layout)
	}
	assertColor(t, out, 10, 30, white)
	assertColor(t, out, 110, 30, white)
	assertDominant(t, out, 35, 5, "red")
}

func TestCompositeZeroArea(t *testing.T) {
	out := Composite(markedSource(), 0, 10, 0, white)
	if !out.Bounds().Empty() {
		t.Fatalf("expected empty buffer, got %v", out.Bounds())
	}
}

func TestCompositePreservesAlphaOnTransparentBackground(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	out := Composite(src, 32, 32, 0, color.NRGBA{})
	if IsOpaque(out) {
		t.Fatalf("transparent source on transparent background should stay transparent")
	}
	if a := out.RGBAAt(16, 16).A; a != 0 {
		t.Fatalf("expected alpha 0, got %d", a)
	}
}

func TestPlatformOpacityRule(t *testing.T) {
	rules := DefaultRules()
	transparent := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	transparent.SetNRGBA(5, 5, color.NRGBA{R: 200, A: 100})

	store, _ := catalog.PrimaryStoreSize(catalog.PlatformIOS)
	app, _ := catalog.Lookup("ios-60@3x")
	bg := color.NRGBA{}

	storeBuf := rules.Apply(Composite(transparent, store.Width, store.Height, 0, bg), store, catalog.PlatformIOS, bg)
	if !IsOpaque(storeBuf) {
		t.Fatalf("iOS store icon must be fully opaque")
	}

	appBuf := rules.Apply(Composite(transparent, app.Width, app.Height, 0, bg), app, catalog.PlatformIOS, bg)
	if IsOpaque(appBuf) {
		t.Fatalf("non-store sizes must keep source alpha")
	}

	androidStore, _ := catalog.PrimaryStoreSize(catalog.PlatformAndroid)
	androidBuf := rules.Apply(Composite(transparent, 512, 512, 0, bg), androidStore, catalog.PlatformAndroid, bg)
	if IsOpaque(androidBuf) {
		t.Fatalf("android has no opacity rule")
	}
}

func TestFlattenUsesBackground(t *testing.T) {
	buf := image.NewRGBA(image.Rect(0, 0, 2, 2))
	out := Flatten(buf, color.NRGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x40})
	if got := out.RGBAAt(0, 0); got != (color.RGBA{R: 0x11, G: 0x22, B: 0x33, A: 0xff}) {
		t.Fatalf("unexpected flattened pixel %v", got)
	}
}

func TestRulesCustomEntry(t *testing.T) {
	rules := NewRules()
	called := false
	rules.Register(catalog.PlatformAndroid, 48, 48, func(buf *image.RGBA, _ color.NRGBA) *image.RGBA {
		called = true
		return buf
	})
	size, _ := catalog.Lookup("android-mdpi")
	rules.Apply(image.NewRGBA(image.Rect(0, 0, 48, 48)), size, catalog.PlatformAndroid, white)
	if !called {
		t.Fatalf("registered rule was not applied")
	}
}

func assertColor(t *testing.T, img *image.RGBA, x, y int, want color.NRGBA) {
	t.Helper()
	got := img.RGBAAt(x, y)
	if got.R != want.R || got.G != want.G || got.B != want.B || got.A != want.A {
		t.Fatalf("pixel %d,%d = %v, want %v", x, y, got, want)
	}
}

func assertDominant(t *testing.T, img *image.RGBA, x, y int, channel string) {
	t.Helper()
	c := img.RGBAAt(x, y)
	switch channel {
	case "red":
		if !(c.R > 200 && c.B < 60) {
			t.Fatalf("pixel %d,%d = %v, expected red", x, y, c)
		}
	case "blue":
		if !(c.B > 200 && c.R < 60) {
			t.Fatalf("pixel %d,%d = %v, expected blue", x, y, c)
		}
	}
}

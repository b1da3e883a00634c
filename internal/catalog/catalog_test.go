package catalog

import "testing"

func TestIOSCatalog(t *testing.T) {
	sizes := ForPlatform(PlatformIOS)
	if len(sizes) != 19 {
		t.Fatalf("expected 19 iOS sizes, got %d", len(sizes))
	}

	seen := map[string]bool{}
	for _, s := range sizes {
		if !s.Square() {
			t.Errorf("%s is not square: %s", s.ID, s.Dimensions())
		}
		if s.IsCustom() {
			t.Errorf("%s should be a catalog size", s.ID)
		}
		if seen[s.ID] {
			t.Errorf("duplicate id %s", s.ID)
		}
		seen[s.ID] = true
	}

	store, ok := PrimaryStoreSize(PlatformIOS)
	if !ok || store.Width != 1024 || store.Height != 1024 {
		t.Fatalf("expected 1024x1024 iOS store size, got %+v", store)
	}
}

func TestCatalogIDsUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range ForPlatforms(Platforms...) {
		if seen[s.ID] {
			t.Fatalf("duplicate id %s", s.ID)
		}
		seen[s.ID] = true
		if s.Platform == "" || s.Filename == "" {
			t.Fatalf("incomplete entry %+v", s)
		}
	}
}

func TestForPlatformReturnsCopy(t *testing.T) {
	sizes := ForPlatform(PlatformAndroid)
	sizes[0].Width = 1
	if ForPlatform(PlatformAndroid)[0].Width == 1 {
		t.Fatalf("catalog must not be mutable through returned slices")
	}
}

func TestForPlatformsKeepsOrder(t *testing.T) {
	sizes := ForPlatforms(PlatformWeb, PlatformAndroid)
	web := ForPlatform(PlatformWeb)
	if sizes[0].ID != web[0].ID {
		t.Fatalf("expected web entries first")
	}
	if sizes[len(web)].Platform != PlatformAndroid {
		t.Fatalf("expected android entries after web")
	}
}

func TestCustomSizeClamp(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantW, wantH  int
	}{
		{"below minimum", 4, 4, 8, 8},
		{"above maximum", 5000, 5000, 2048, 2048},
		{"mixed", 4, 5000, 8, 2048},
		{"in range", 300, 150, 300, 150},
		{"bounds", 8, 2048, 8, 2048},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewCustomSize(tt.width, tt.height, "")
			if s.Width != tt.wantW || s.Height != tt.wantH {
				t.Fatalf("expected %dx%d, got %s", tt.wantW, tt.wantH, s.Dimensions())
			}
			if !s.IsCustom() || s.Platform != PlatformCustom {
				t.Fatalf("expected custom size, got %+v", s)
			}
		})
	}
}

func TestCustomSizeIdentity(t *testing.T) {
	a := NewCustomSize(64, 64, "")
	b := NewCustomSize(64, 64, "")
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("custom sizes need distinct stable ids: %q %q", a.ID, b.ID)
	}
	if a.Equal(b) {
		t.Fatalf("distinct custom sizes should not compare equal")
	}
	if !a.Equal(a) {
		t.Fatalf("size should equal itself")
	}
	if a.Name != "Custom 64x64" {
		t.Fatalf("unexpected default name %q", a.Name)
	}
}

func TestFileName(t *testing.T) {
	s, ok := Lookup("ios-60@3x")
	if !ok {
		t.Fatalf("lookup failed")
	}
	if got := s.FileName("png"); got != "Icon-60@3x.png" {
		t.Fatalf("unexpected filename %q", got)
	}
	custom := NewCustomSize(100, 50, "banner")
	if got := custom.FileName(".webp"); got != "icon-100x50.webp" {
		t.Fatalf("unexpected filename %q", got)
	}
}

func TestParseDimensions(t *testing.T) {
	tests := []struct {
		in      string
		w, h    int
		wantErr bool
	}{
		{in: "64x32", w: 64, h: 32},
		{in: "128", w: 128, h: 128},
		{in: " 10 X 20 ", w: 10, h: 20},
		{in: "axb", wantErr: true},
		{in: "10x", wantErr: true},
	}
	for _, tt := range tests {
		w, h, err := ParseDimensions(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%q: expected error", tt.in)
			}
			continue
		}
		if err != nil || w != tt.w || h != tt.h {
			t.Errorf("%q: got %d %d %v", tt.in, w, h, err)
		}
	}
}

func TestParsePlatform(t *testing.T) {
	for in, want := range map[string]Platform{
		"iOS":     PlatformIOS,
		"android": PlatformAndroid,
		"watch":   PlatformWatchOS,
		"WEB":     PlatformWeb,
	} {
		got, err := ParsePlatform(in)
		if err != nil || got != want {
			t.Errorf("%q: got %q %v", in, got, err)
		}
	}
	if _, err := ParsePlatform("symbian"); err == nil {
		t.Errorf("expected error for unknown platform")
	}
}

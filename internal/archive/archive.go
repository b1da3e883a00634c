// Package archive lays generated icons out per platform and packages them
// as a zip or a directory tree.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"
	"time"

	"appicon/internal/catalog"
	apperrors "appicon/internal/errors"
	"appicon/internal/pipeline"
)

// Archive is a packaged icon set.
type Archive struct {
	TotalFiles        int
	TotalSizeBytes    int64
	Data              []byte
	SuggestedFilename string
	Entries           []Entry
}

// Entry is one file of the layout, path relative to the archive root.
type Entry struct {
	Path string
	Data []byte
}

type Options struct {
	// Name prefixes the suggested filename. Defaults to "app".
	Name string
	// SkipManifests omits Contents.json and favicon.ico.
	SkipManifests bool
	// ModTime stamps zip entries; zero means now.
	ModTime time.Time
}

var unsafeName = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Folder is the directory a platform's icons are placed in.
func Folder(p catalog.Platform) string {
	switch p {
	case catalog.PlatformIOS:
		return "ios/AppIcon.appiconset"
	case catalog.PlatformWatchOS:
		return "watchos/AppIcon.appiconset"
	case catalog.PlatformAndroid:
		return "android/res"
	case catalog.PlatformWeb:
		return "web"
	default:
		return "custom"
	}
}

// Layout resolves every icon to a path and adds the per-platform manifests.
// Entries are sorted by path.
func Layout(icons []pipeline.ProcessedIcon, opts Options) ([]Entry, error) {
	if len(icons) == 0 {
		return nil, apperrors.New(apperrors.KindInvalidInput, "archive.layout", "no icons to package")
	}

	byPlatform := map[catalog.Platform][]pipeline.ProcessedIcon{}
	seen := map[string]int{}
	var entries []Entry
	for _, icon := range icons {
		p := icon.Platform
		if p == "" {
			p = icon.Size.Platform
		}
		name := uniqueName(seen, path.Join(Folder(p), icon.FileName()))
		entries = append(entries, Entry{Path: name, Data: icon.Data})
		icon.Platform = p
		byPlatform[p] = append(byPlatform[p], icon)
	}

	if !opts.SkipManifests {
		for _, p := range []catalog.Platform{catalog.PlatformIOS, catalog.PlatformWatchOS} {
			if len(byPlatform[p]) == 0 {
				continue
			}
			data, err := ContentsJSON(byPlatform[p])
			if err != nil {
				return nil, err
			}
			entries = append(entries, Entry{Path: path.Join(Folder(p), "Contents.json"), Data: data})
		}
		if data, ok, err := Favicon(byPlatform[catalog.PlatformWeb]); err != nil {
			return nil, err
		} else if ok {
			entries = append(entries, Entry{Path: path.Join(Folder(catalog.PlatformWeb), "favicon.ico"), Data: data})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

func uniqueName(seen map[string]int, name string) string {
	n := seen[name]
	seen[name] = n + 1
	if n == 0 {
		return name
	}
	ext := path.Ext(name)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(name, ext), n+1, ext)
}

// Build zips the icon layout.
func Build(icons []pipeline.ProcessedIcon, opts Options) (*Archive, error) {
	const op = "archive.build"
	entries, err := Layout(icons, opts)
	if err != nil {
		return nil, err
	}

	modTime := opts.ModTime
	if modTime.IsZero() {
		modTime = time.Now()
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	var total int64
	for _, e := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: e.Path, Method: zip.Deflate, Modified: modTime})
		if err != nil {
			return nil, apperrors.Wrap(apperrors.KindIO, op, e.Path, err)
		}
		if _, err := w.Write(e.Data); err != nil {
			return nil, apperrors.Wrap(apperrors.KindIO, op, e.Path, err)
		}
		total += int64(len(e.Data))
	}
	if err := zw.Close(); err != nil {
		return nil, apperrors.Wrap(apperrors.KindIO, op, "finish zip", err)
	}

	return &Archive{
		TotalFiles:        len(entries),
		TotalSizeBytes:    total,
		Data:              buf.Bytes(),
		SuggestedFilename: SuggestedFilename(opts.Name),
		Entries:           entries,
	}, nil
}

// SuggestedFilename turns a project name into a safe zip filename.
func SuggestedFilename(name string) string {
	name = strings.Trim(unsafeName.ReplaceAllString(strings.TrimSpace(name), "-"), "-.")
	if name == "" {
		name = "app"
	}
	return strings.ToLower(name) + "-icons.zip"
}

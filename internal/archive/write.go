package archive

import (
	"os"
	"path/filepath"

	apperrors "appicon/internal/errors"
	"appicon/internal/pipeline"
)

// WriteDir writes the icon layout under dir and returns the number of files
// written. Existing files are replaced atomically.
func WriteDir(icons []pipeline.ProcessedIcon, dir string, opts Options) (int, error) {
	entries, err := Layout(icons, opts)
	if err != nil {
		return 0, err
	}
	for i, e := range entries {
		dest := filepath.Join(dir, filepath.FromSlash(e.Path))
		if err := writeAtomic(dest, e.Data); err != nil {
			return i, err
		}
	}
	return len(entries), nil
}

// WriteFile stores the zip at path.
func WriteFile(a *Archive, path string) error {
	return writeAtomic(path, a.Data)
}

func writeAtomic(dest string, data []byte) error {
	const op = "archive.write"
	destDir := filepath.Dir(dest)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return apperrors.Wrap(apperrors.KindIO, op, destDir, err)
	}

	tmpFile, err := os.CreateTemp(destDir, "appicon-*.tmp")
	if err != nil {
		return apperrors.Wrap(apperrors.KindIO, op, destDir, err)
	}
	defer os.Remove(tmpFile.Name())

	if err := tmpFile.Chmod(0o644); err != nil {
		_ = tmpFile.Close()
		return apperrors.Wrap(apperrors.KindIO, op, dest, err)
	}
	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return apperrors.Wrap(apperrors.KindIO, op, dest, err)
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return apperrors.Wrap(apperrors.KindIO, op, dest, err)
	}
	if err := tmpFile.Close(); err != nil {
		return apperrors.Wrap(apperrors.KindIO, op, dest, err)
	}

	if err := replaceFile(tmpFile.Name(), dest); err != nil {
		return apperrors.Wrap(apperrors.KindIO, op, dest, err)
	}
	return nil
}

func replaceFile(tmpPath, destPath string) error {
	if err := os.Rename(tmpPath, destPath); err == nil {
		return nil
	}
	if err := os.Remove(destPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.Rename(tmpPath, destPath)
}

package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// FileExists reports whether a regular file exists at path.
func FileExists(fs afero.Fs, path string) (bool, error) {
	info, err := fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check if file exists: %w", err)
	}
	return !info.IsDir(), nil
}

// WriteFileAtomic writes data to a temporary file next to path and renames it
// into place, so an existing file at path is never left truncated.
// Missing parent directories are created.
func WriteFileAtomic(fs afero.Fs, path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, ReadWriteExecuteUserReadExecuteOthers); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(fs, dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = fs.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temporary file %s: %w", tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file %s: %w", tmpName, err)
	}
	if err = fs.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", tmpName, err)
	}
	if err = fs.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to rename %s to %s: %w", tmpName, path, err)
	}
	return nil
}

// DerivedPath inserts suffix before the extension of path's final element:
// "docker-compose.yml" becomes "docker-compose.migrated.yml" for ".migrated".
// Leading dots of the file name never start an extension, so ".env" becomes
// ".env.migrated". A path without an extension gets the suffix appended.
func DerivedPath(path, suffix string) string {
	dir, file := filepath.Split(path)
	stem := strings.TrimLeft(file, ".")
	idx := strings.LastIndex(stem, ".")
	if idx < 0 {
		return path + suffix
	}
	idx += len(file) - len(stem)
	return dir + file[:idx] + suffix + file[idx:]
}

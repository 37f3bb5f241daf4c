package utils

import "path/filepath"

// ResolvePath resolves path relative to baseDir. Absolute paths are
// returned unchanged; an empty path resolves to baseDir itself.
func ResolvePath(path, baseDir string) string {
	if path == "" {
		return baseDir
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

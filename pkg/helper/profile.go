package helper

import (
	"os"
	"path/filepath"
)

// GetProfilePath returns the path of the persisted client profile.
//
// Priority:
// 1. If filename is an absolute path, return it directly.
// 2. If filename is set, resolve it against the working directory.
// 3. Otherwise, fallback to $HOME/.npipe-admin/profile.yaml (or APPDATA on Windows)
func GetProfilePath(filename string) string {
	if filename != "" {
		if filepath.IsAbs(filename) {
			return filename
		}
		if absPath, err := filepath.Abs(filename); err == nil {
			return absPath
		}
		return filename
	}

	home := os.Getenv("APPDATA")
	if home == "" {
		home = os.Getenv("HOME")
	}
	if home == "" {
		home = os.TempDir()
	}
	return filepath.Join(home, ".npipe-admin", "profile.yaml")
}

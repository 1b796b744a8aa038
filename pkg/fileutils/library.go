package fileutils

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// ResolveLibraryRoot returns the directory under which all book
// subdirectories live. A configured path that points at a file (such as a
// metadata database inside the library) resolves to its parent directory.
func ResolveLibraryRoot(path string) (string, error) {
	if path == "" {
		return "", errors.New("library path is not configured")
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", errors.WithStack(err)
	}
	if !info.IsDir() {
		return filepath.Dir(path), nil
	}
	return path, nil
}

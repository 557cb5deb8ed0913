// Package fileutil provides path utility functions for snippet and
// asset resolution.
package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for path validation.
var (
	ErrEmptyName    = errors.New("name cannot be empty")
	ErrUnsafeName   = errors.New("name escapes the base directory")
	ErrNullByte     = errors.New("name contains a null byte")
	ErrAbsoluteName = errors.New("name must be relative")
)

// SafeJoin joins name under base, rejecting names that are absolute,
// contain null bytes, or traverse out of base. The returned path is
// cleaned.
func SafeJoin(base, name string) (string, error) {
	if name == "" {
		return "", ErrEmptyName
	}
	if strings.ContainsRune(name, 0) {
		return "", ErrNullByte
	}
	if filepath.IsAbs(name) {
		return "", ErrAbsoluteName
	}
	if !filepath.IsLocal(name) {
		return "", ErrUnsafeName
	}
	return filepath.Join(base, name), nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// IsFilePath returns true if the string looks like a file path rather
// than a bare name: any string containing path separators.
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

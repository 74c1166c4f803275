// Package fs finds header files for batch generation using doublestar
// glob patterns.
package fs

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Walker selects header files under a root by include/exclude patterns.
// Patterns are matched against paths relative to the walked root.
type Walker struct {
	includes []string
	excludes []string
}

func NewWalker(includes, excludes []string) *Walker {
	if len(includes) == 0 {
		includes = []string{"**/*.h", "**/*.hpp", "**/*.hxx"}
	}
	return &Walker{
		includes: includes,
		excludes: excludes,
	}
}

// Walk returns the absolute paths of all matching headers under root, in
// sorted order. A root that is itself a file is returned as-is when it
// matches the include patterns.
func (w *Walker) Walk(root string) ([]string, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if w.shouldInclude(filepath.Base(root)) {
			return []string{root}, nil
		}
		return nil, nil
	}

	var headers []string
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		if info.IsDir() {
			if w.shouldExclude(relPath + "/") {
				return filepath.SkipDir
			}
			return nil
		}

		if w.shouldInclude(relPath) && !w.shouldExclude(relPath) {
			headers = append(headers, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(headers)
	return headers, nil
}

func (w *Walker) shouldInclude(path string) bool {
	for _, pattern := range w.includes {
		matched, err := doublestar.Match(pattern, path)
		if err == nil && matched {
			return true
		}
	}
	return false
}

func (w *Walker) shouldExclude(path string) bool {
	for _, pattern := range w.excludes {
		matched, err := doublestar.Match(pattern, path)
		if err == nil && matched {
			return true
		}
	}
	return false
}

// ReadFile reads a source file into a string.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

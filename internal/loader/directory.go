package loader

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultInclude matches the text formats the loader understands.
var DefaultInclude = []string{"**/*.txt", "**/*.md"}

// LoadDirectory walks dir and loads every file matching the include
// patterns and none of the exclude patterns (doublestar globs, relative
// to dir). Empty include falls back to DefaultInclude. Files that fail
// to load are skipped and reported through onError, which may be nil.
func LoadDirectory(dir string, include, exclude []string, onError func(path string, err error)) ([]Document, error) {
	if len(include) == 0 {
		include = DefaultInclude
	}

	var docs []Document
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Skip unreadable entries instead of aborting the walk.
			return nil
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if !matchesAny(include, rel) || matchesAny(exclude, rel) {
			return nil
		}

		doc, err := Load(path)
		if err != nil {
			if onError != nil {
				onError(path, err)
			}
			return nil
		}
		if strings.TrimSpace(doc.Content) == "" {
			return nil
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	return docs, nil
}

func matchesAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
	}
	return false
}

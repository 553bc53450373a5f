package app

import (
	"os"
	"path/filepath"
	"strings"

	"symfind/internal/core/errors"
)

// ScanDirectory lists the direct children of dir that should be processed,
// in name order, and how many entries were filtered out. Subdirectories are
// not entered.
func (a *App) ScanDirectory(dir string) ([]string, int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, 0, errors.AddContext(
			errors.Wrap(err, errors.CodeSourceUnreadable, "cannot list directory"),
			errors.CtxPath, dir,
		)
	}

	var files []string
	filtered := 0
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if !isRegularFile(entry, path) {
			continue
		}
		if !a.Matches(path) {
			filtered++
			continue
		}
		files = append(files, path)
	}
	return files, filtered, nil
}

// Matches reports whether a directory-mode file should be processed: it has
// a recognized extension and no exclude glob matches its base name or path.
func (a *App) Matches(path string) bool {
	if !a.extensions[strings.ToLower(filepath.Ext(path))] {
		return false
	}
	base := filepath.Base(path)
	slashed := filepath.ToSlash(path)
	for _, g := range a.excludes {
		if g.Match(base) || g.Match(slashed) {
			return false
		}
	}
	return true
}

// isRegularFile follows symlinks.
func isRegularFile(entry os.DirEntry, path string) bool {
	if entry.Type()&os.ModeSymlink == 0 {
		return entry.Type().IsRegular()
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

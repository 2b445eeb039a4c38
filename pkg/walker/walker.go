// Package walker implements the depth-first filesystem traversal that feeds
// the scanner pipeline.
package walker

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/archivum/archivum/pkg/logging"
)

// systemDirectories is the fixed set of directory basenames skipped when
// Config.SkipSystemDirs is set.
var systemDirectories = map[string]bool{
	".Trash":                    true,
	".Trashes":                  true,
	"$RECYCLE.BIN":              true,
	"System Volume Information": true,
	".TemporaryItems":           true,
	".Spotlight-V100":           true,
	".fseventsd":                true,
}

// Config controls walk behavior.
type Config struct {
	// SkipSystemDirs enables skipping the fixed system-directory set.
	SkipSystemDirs bool
	// ExcludePatterns is a set of glob patterns matched against each
	// candidate file's basename.
	ExcludePatterns []string
	// FollowSymlinks enables following symbolic links. Off by default.
	FollowSymlinks bool
}

// File describes a single regular file discovered by a walk.
type File struct {
	Path string
	Size int64
}

// Result is the outcome of a single walk.
type Result struct {
	Files     []File
	TotalSize int64
}

// Walk performs a depth-first traversal of root, returning the regular files
// found and their combined size. A permission or I/O error on an individual
// entry is logged and skipped; the traversal continues.
func Walk(root string, config Config, logger *logging.Logger) (*Result, error) {
	result := &Result{}

	walkFn := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			logger.Warn(err)
			return nil
		}

		if d.IsDir() {
			if path != root && config.SkipSystemDirs && systemDirectories[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			if !config.FollowSymlinks {
				return nil
			}
			info, err := os.Stat(path)
			if err != nil {
				logger.Warn(err)
				return nil
			}
			if info.IsDir() {
				return nil
			}
		} else if !d.Type().IsRegular() {
			return nil
		}

		if matchesExclusion(d.Name(), config.ExcludePatterns) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			logger.Warn(err)
			return nil
		}

		result.Files = append(result.Files, File{Path: path, Size: info.Size()})
		result.TotalSize += info.Size()

		return nil
	}

	if err := filepath.WalkDir(root, walkFn); err != nil {
		return nil, err
	}

	return result, nil
}

// matchesExclusion reports whether basename matches any of patterns.
func matchesExclusion(basename string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, basename); err == nil && ok {
			return true
		}
	}
	return false
}

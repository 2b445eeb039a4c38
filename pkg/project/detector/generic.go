package detector

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/archivum/archivum/pkg/project"
)

// SourceCodeExtensions is the fixed set of extensions considered source code
// for both GENERIC detection and source-file counting during project
// collection.
var SourceCodeExtensions = map[string]bool{
	"go": true, "java": true, "kt": true, "scala": true,
	"py": true, "rb": true, "php": true,
	"c": true, "h": true, "cpp": true, "hpp": true, "cc": true, "cxx": true,
	"cs": true, "rs": true, "swift": true,
	"js": true, "jsx": true, "ts": true, "tsx": true,
	"m": true, "mm": true,
}

// Generic is the fallback detector: it claims any folder that looks like a
// source tree without matching a more specific build-tool marker.
type Generic struct{}

func (Generic) Name() string  { return "GENERIC" }
func (Generic) Priority() int { return 0 }

func (Generic) CanDetect(folder string) bool {
	if _, err := os.Stat(filepath.Join(folder, "src")); err == nil {
		return true
	}
	if _, err := os.Stat(filepath.Join(folder, ".gitignore")); err == nil {
		return true
	}
	return countSourceFiles(folder) >= 3
}

func (Generic) Detect(folder string) (*project.Identity, error) {
	name := filepath.Base(folder)
	return &project.Identity{
		Type:       "GENERIC",
		Name:       name,
		Identifier: "unknown:" + name,
	}, nil
}

// countSourceFiles counts files with a source-code extension directly in
// folder, plus files under folder/src at up to two directory levels deep.
func countSourceFiles(folder string) int {
	count := countSourceFilesIn(folder)

	srcDir := filepath.Join(folder, "src")
	count += countSourceFilesIn(srcDir)

	entries, err := os.ReadDir(srcDir)
	if err == nil {
		for _, entry := range entries {
			if entry.IsDir() {
				count += countSourceFilesIn(filepath.Join(srcDir, entry.Name()))
			}
		}
	}

	return count
}

func countSourceFilesIn(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}

	count := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.TrimPrefix(filepath.Ext(entry.Name()), ".")
		if SourceCodeExtensions[strings.ToLower(ext)] {
			count++
		}
	}
	return count
}

package walker

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/archivum/archivum/pkg/logging"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("unable to create directories: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("unable to write file: %v", err)
	}
}

func names(result *Result, root string) []string {
	var out []string
	for _, f := range result.Files {
		rel, _ := filepath.Rel(root, f.Path)
		out = append(out, rel)
	}
	sort.Strings(out)
	return out
}

func TestWalkSkipsSystemDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".Trash", "x.txt"))
	writeFile(t, filepath.Join(root, "$RECYCLE.BIN", "y.txt"))
	writeFile(t, filepath.Join(root, "normal.txt"))

	result, err := Walk(root, Config{SkipSystemDirs: true}, logging.RootLogger)
	if err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	got := names(result, root)
	if len(got) != 1 || got[0] != "normal.txt" {
		t.Fatalf("expected only normal.txt, got %v", got)
	}
}

func TestWalkIncludesSystemDirectoriesWhenDisabled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".Trash", "x.txt"))
	writeFile(t, filepath.Join(root, "$RECYCLE.BIN", "y.txt"))
	writeFile(t, filepath.Join(root, "normal.txt"))

	result, err := Walk(root, Config{SkipSystemDirs: false}, logging.RootLogger)
	if err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	got := names(result, root)
	if len(got) != 3 {
		t.Fatalf("expected all three files, got %v", got)
	}
}

func TestWalkExcludePatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.log"))
	writeFile(t, filepath.Join(root, "b.txt"))

	result, err := Walk(root, Config{ExcludePatterns: []string{"*.log"}}, logging.RootLogger)
	if err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	got := names(result, root)
	if len(got) != 1 || got[0] != "b.txt" {
		t.Fatalf("expected only b.txt, got %v", got)
	}
}

func TestWalkAccumulatesTotalSize(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "a.txt"), make([]byte, 100), 0644); err != nil {
		t.Fatalf("unable to write file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "b.txt"), make([]byte, 200), 0644); err != nil {
		t.Fatalf("unable to write file: %v", err)
	}

	result, err := Walk(root, Config{}, logging.RootLogger)
	if err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	if result.TotalSize != 300 {
		t.Fatalf("expected total size 300, got %d", result.TotalSize)
	}
}

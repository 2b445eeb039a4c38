package configuration

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadScannerDefaults(t *testing.T) {
	config, err := LoadScanner("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if config.BatchSize != 500 {
		t.Fatalf("expected default batch size 500, got %d", config.BatchSize)
	}
	if !config.SkipSystemDirs {
		t.Fatal("expected skipSystemDirs to default true")
	}
}

func TestLoadScannerFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	contents := "hashThreads: 4\nbatchSize: 250\nexcludePatterns:\n  - \"*.tmp\"\n"
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("unable to write config: %v", err)
	}

	config, err := LoadScanner(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if config.HashThreads != 4 {
		t.Fatalf("expected hashThreads 4, got %d", config.HashThreads)
	}
	if config.BatchSize != 250 {
		t.Fatalf("expected batchSize 250, got %d", config.BatchSize)
	}
	if len(config.ExcludePatterns) != 1 || config.ExcludePatterns[0] != "*.tmp" {
		t.Fatalf("unexpected exclude patterns: %v", config.ExcludePatterns)
	}
}

func TestLoadScannerEnvOverride(t *testing.T) {
	t.Setenv("ARCHIVUM_BATCH_SIZE", "999")

	config, err := LoadScanner("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if config.BatchSize != 999 {
		t.Fatalf("expected env override to set batchSize 999, got %d", config.BatchSize)
	}
}

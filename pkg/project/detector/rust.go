package detector

import (
	"os"
	"path/filepath"
	"regexp"

	"github.com/archivum/archivum/pkg/project"
)

var (
	rustNamePattern    = regexp.MustCompile(`(?s)\[package\].*?name\s*=\s*["']([^"']+)["']`)
	rustVersionPattern = regexp.MustCompile(`(?s)\[package\].*?version\s*=\s*["']([^"']+)["']`)
)

// Rust detects Rust crates via Cargo.toml.
type Rust struct{}

func (Rust) Name() string  { return "RUST" }
func (Rust) Priority() int { return 10 }

func (Rust) CanDetect(folder string) bool {
	_, err := os.Stat(filepath.Join(folder, "Cargo.toml"))
	return err == nil
}

func (Rust) Detect(folder string) (*project.Identity, error) {
	data, err := os.ReadFile(filepath.Join(folder, "Cargo.toml"))
	if err != nil {
		return nil, err
	}

	name := firstSubmatch(rustNamePattern, data)
	if name == "" {
		return nil, nil
	}
	version := firstSubmatch(rustVersionPattern, data)
	if version == "" {
		version = "unknown"
	}

	return &project.Identity{
		Type:       "RUST",
		Name:       name,
		Version:    version,
		Identifier: name + ":" + version,
	}, nil
}

package detector

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/archivum/archivum/pkg/project"
)

type packageJSON struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// NPM detects Node.js projects via package.json.
type NPM struct{}

func (NPM) Name() string  { return "NPM" }
func (NPM) Priority() int { return 10 }

func (NPM) CanDetect(folder string) bool {
	_, err := os.Stat(filepath.Join(folder, "package.json"))
	return err == nil
}

func (NPM) Detect(folder string) (*project.Identity, error) {
	data, err := os.ReadFile(filepath.Join(folder, "package.json"))
	if err != nil {
		return nil, err
	}

	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, err
	}

	if pkg.Name == "" {
		return nil, nil
	}

	version := pkg.Version
	if version == "" {
		version = "unknown"
	}

	return &project.Identity{
		Type:       "NPM",
		Name:       pkg.Name,
		Version:    version,
		Identifier: pkg.Name + ":" + version,
	}, nil
}

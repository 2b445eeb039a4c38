package detector

import (
	"os"
	"path/filepath"
	"regexp"

	"github.com/archivum/archivum/pkg/project"
)

var (
	pythonNamePattern    = regexp.MustCompile(`name\s*=\s*["']([^"']+)["']`)
	pythonVersionPattern = regexp.MustCompile(`version\s*=\s*["']([^"']+)["']`)
)

// Python detects Python projects via pyproject.toml, setup.py, or
// requirements.txt, in that preference order.
type Python struct{}

func (Python) Name() string  { return "PYTHON" }
func (Python) Priority() int { return 10 }

func (Python) CanDetect(folder string) bool {
	for _, name := range []string{"pyproject.toml", "setup.py", "requirements.txt"} {
		if _, err := os.Stat(filepath.Join(folder, name)); err == nil {
			return true
		}
	}
	return false
}

func (Python) Detect(folder string) (*project.Identity, error) {
	for _, name := range []string{"pyproject.toml", "setup.py"} {
		path := filepath.Join(folder, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		projectName := firstSubmatch(pythonNamePattern, data)
		version := firstSubmatch(pythonVersionPattern, data)
		if projectName == "" {
			projectName = filepath.Base(folder)
		}
		if version == "" {
			version = "unknown"
		}

		return &project.Identity{
			Type:       "PYTHON",
			Name:       projectName,
			Version:    version,
			Identifier: projectName + ":" + version,
		}, nil
	}

	if _, err := os.Stat(filepath.Join(folder, "requirements.txt")); err == nil {
		name := filepath.Base(folder)
		return &project.Identity{
			Type:       "PYTHON",
			Name:       name,
			Version:    "unknown",
			Identifier: name + ":unknown",
		}, nil
	}

	return nil, nil
}

package detector

import (
	"os"
	"path/filepath"
	"regexp"

	"github.com/archivum/archivum/pkg/project"
)

var goModulePattern = regexp.MustCompile(`(?m)^module\s+(\S+)`)

// Go detects Go modules via go.mod.
type Go struct{}

func (Go) Name() string  { return "GO" }
func (Go) Priority() int { return 10 }

func (Go) CanDetect(folder string) bool {
	_, err := os.Stat(filepath.Join(folder, "go.mod"))
	return err == nil
}

func (Go) Detect(folder string) (*project.Identity, error) {
	data, err := os.ReadFile(filepath.Join(folder, "go.mod"))
	if err != nil {
		return nil, err
	}

	modulePath := firstSubmatch(goModulePattern, data)
	if modulePath == "" {
		return nil, nil
	}

	return &project.Identity{
		Type:       "GO",
		Name:       filepath.Base(modulePath),
		Identifier: modulePath,
	}, nil
}

package detector

import (
	"os"
	"path/filepath"
	"regexp"

	"github.com/archivum/archivum/pkg/project"
)

var (
	gradleGroupPattern   = regexp.MustCompile(`group\s*=\s*["']([^"']+)["']`)
	gradleVersionPattern = regexp.MustCompile(`version\s*=\s*["']([^"']+)["']`)
	gradleNamePattern    = regexp.MustCompile(`rootProject\.name\s*=\s*["']([^"']+)["']`)
)

// Gradle detects Gradle projects via build.gradle or build.gradle.kts.
type Gradle struct{}

func (Gradle) Name() string  { return "GRADLE" }
func (Gradle) Priority() int { return 10 }

func (Gradle) buildFile(folder string) string {
	for _, name := range []string{"build.gradle", "build.gradle.kts"} {
		path := filepath.Join(folder, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func (g Gradle) CanDetect(folder string) bool {
	return g.buildFile(folder) != ""
}

func (g Gradle) Detect(folder string) (*project.Identity, error) {
	buildPath := g.buildFile(folder)
	data, err := os.ReadFile(buildPath)
	if err != nil {
		return nil, err
	}

	groupID := firstSubmatch(gradleGroupPattern, data)
	version := firstSubmatch(gradleVersionPattern, data)

	name := ""
	for _, settingsName := range []string{"settings.gradle", "settings.gradle.kts"} {
		if settingsData, err := os.ReadFile(filepath.Join(folder, settingsName)); err == nil {
			name = firstSubmatch(gradleNamePattern, settingsData)
			if name != "" {
				break
			}
		}
	}
	if name == "" {
		name = filepath.Base(folder)
	}

	identifier := groupID + ":" + name + ":" + version

	return &project.Identity{
		Type:       "GRADLE",
		Name:       name,
		Version:    version,
		GroupID:    groupID,
		Identifier: identifier,
	}, nil
}

func firstSubmatch(pattern *regexp.Regexp, data []byte) string {
	match := pattern.FindSubmatch(data)
	if match == nil {
		return ""
	}
	return string(match[1])
}

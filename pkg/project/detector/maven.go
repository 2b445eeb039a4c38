// Package detector implements the concrete project-type detectors used by
// the project detector chain.
package detector

import (
	"encoding/xml"
	"os"
	"path/filepath"

	"github.com/archivum/archivum/pkg/project"
)

type pomParent struct {
	GroupID string `xml:"groupId"`
	Version string `xml:"version"`
}

type pomProject struct {
	GroupID    string    `xml:"groupId"`
	ArtifactID string    `xml:"artifactId"`
	Version    string    `xml:"version"`
	Parent     pomParent `xml:"parent"`
}

// Maven detects Maven projects via pom.xml.
type Maven struct{}

func (Maven) Name() string  { return "MAVEN" }
func (Maven) Priority() int { return 10 }

func (Maven) CanDetect(folder string) bool {
	_, err := os.Stat(filepath.Join(folder, "pom.xml"))
	return err == nil
}

func (Maven) Detect(folder string) (*project.Identity, error) {
	data, err := os.ReadFile(filepath.Join(folder, "pom.xml"))
	if err != nil {
		return nil, err
	}

	var pom pomProject
	if err := xml.Unmarshal(data, &pom); err != nil {
		return nil, err
	}

	if pom.ArtifactID == "" {
		return nil, nil
	}

	groupID := pom.GroupID
	if groupID == "" {
		groupID = pom.Parent.GroupID
	}
	version := pom.Version
	if version == "" {
		version = pom.Parent.Version
	}

	identifier := "unknown"
	if groupID != "" && version != "" {
		identifier = groupID + ":" + pom.ArtifactID + ":" + version
	}

	return &project.Identity{
		Type:       "MAVEN",
		Name:       pom.ArtifactID,
		Version:    version,
		GroupID:    groupID,
		Identifier: identifier,
	}, nil
}

package detector

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/archivum/archivum/pkg/project"
	"github.com/archivum/archivum/pkg/shellout"
)

// Git detects any directory containing a .git entry. Detection never fails
// outright: each probe falls back to a safe default when the shell-out
// times out or git is unavailable.
type Git struct{}

func (Git) Name() string  { return "GIT" }
func (Git) Priority() int { return 5 }

func (Git) CanDetect(folder string) bool {
	_, err := os.Stat(filepath.Join(folder, ".git"))
	return err == nil
}

func (Git) Detect(folder string) (*project.Identity, error) {
	remote, err := shellout.Run(folder, "git", "config", "--get", "remote.origin.url")
	if err != nil || remote == "" {
		remote = "unknown"
	}

	branch, err := shellout.Run(folder, "git", "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil || branch == "" {
		branch = "main"
	}

	commit, err := shellout.Run(folder, "git", "rev-parse", "--short", "HEAD")
	if err != nil {
		commit = ""
	}

	name := repositoryNameFromRemote(remote)

	return &project.Identity{
		Type:       "GIT",
		Name:       name,
		GitRemote:  remote,
		GitBranch:  branch,
		GitCommit:  commit,
		Identifier: remote + "@" + branch,
	}, nil
}

// repositoryNameFromRemote returns the last path segment of a remote URL,
// with a trailing ".git" stripped.
func repositoryNameFromRemote(remote string) string {
	if remote == "unknown" {
		return "unknown"
	}
	trimmed := strings.TrimSuffix(remote, "/")
	name := path.Base(trimmed)
	return strings.TrimSuffix(name, ".git")
}

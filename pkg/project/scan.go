package project

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/archivum/archivum/pkg/project/detector"
)

// excludedDirectories is skipped during both project discovery and the
// per-project file-collection re-walk.
var excludedDirectories = map[string]bool{
	"target": true, "build": true, "out": true, "dist": true,
	".gradle": true, "node_modules": true, "vendor": true,
	".venv": true, "venv": true, "__pycache__": true,
	".idea": true, ".vscode": true, ".eclipse": true,
	".DS_Store": true, "Thumbs.db": true,
	".git": true, ".svn": true, ".hg": true,
}

// Project is a detected project root plus its aggregated statistics.
type Project struct {
	RootPath         string
	Identity         *Identity
	ContentHash      string
	SourceFileCount  int
	TotalFileCount   int
	TotalSizeBytes   int64
	SourceFileHashes []string
}

// DefaultChain builds the standard detector chain used by the scanner
// orchestrator.
func DefaultChain() *Chain {
	return NewChain(
		detector.Maven{},
		detector.Gradle{},
		detector.NPM{},
		detector.Go{},
		detector.Python{},
		detector.Rust{},
		detector.Git{},
		detector.Generic{},
	)
}

// Scan walks root looking for project roots, registering each match and
// pruning its subtree from further project search so that nested project
// markers never produce a second, nested project. hashes maps an already
// scanned file's absolute path to its SHA-256 digest, populated by the main
// file scan pass.
func Scan(root string, chain *Chain, hashes map[string]string) ([]*Project, error) {
	var projects []*Project

	var walk func(dir string) error
	walk = func(dir string) error {
		if excludedDirectories[filepath.Base(dir)] && dir != root {
			return nil
		}

		identity, err := chain.Detect(dir)
		if err != nil {
			return err
		}
		if identity != nil {
			p, err := collect(dir, identity, hashes)
			if err != nil {
				return err
			}
			projects = append(projects, p)
			return nil
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil
		}
		for _, entry := range entries {
			if entry.IsDir() {
				if err := walk(filepath.Join(dir, entry.Name())); err != nil {
					return err
				}
			}
		}
		return nil
	}

	if err := walk(root); err != nil {
		return nil, err
	}

	return projects, nil
}

// collect re-walks a detected project's root, counting total files, source
// files, total size, and deriving the content hash.
func collect(root string, identity *Identity, hashes map[string]string) (*Project, error) {
	var totalFiles int
	var sourceFiles int
	var totalSize int64
	var sourceHashes []string

	var walk func(dir string) error
	walk = func(dir string) error {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil
		}
		for _, entry := range entries {
			name := entry.Name()
			path := filepath.Join(dir, name)
			if entry.IsDir() {
				if excludedDirectories[name] {
					continue
				}
				if err := walk(path); err != nil {
					return err
				}
				continue
			}

			info, err := entry.Info()
			if err != nil {
				continue
			}

			totalFiles++
			totalSize += info.Size()

			ext := strings.TrimPrefix(filepath.Ext(name), ".")
			if isSourceFile(strings.ToLower(ext)) {
				sourceFiles++
				if hash, ok := hashes[path]; ok {
					sourceHashes = append(sourceHashes, hash)
				}
			}
		}
		return nil
	}

	if err := walk(root); err != nil {
		return nil, err
	}

	return &Project{
		RootPath:         root,
		Identity:         identity,
		ContentHash:      ContentHash(sourceHashes),
		SourceFileCount:  sourceFiles,
		TotalFileCount:   totalFiles,
		TotalSizeBytes:   totalSize,
		SourceFileHashes: sourceHashes,
	}, nil
}

func isSourceFile(extension string) bool {
	return detector.SourceCodeExtensions[extension]
}

// Package foldertree implements the folder tree service (C12): a
// single-pass, paginated walk over a source's cataloged files that builds
// a virtual folder tree with per-folder fileCount/totalSize aggregated
// upward, and per-file zone/duplicate annotations resolved against the
// zone service.
package foldertree

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/archivum/archivum/pkg/catalog"
	"github.com/archivum/archivum/pkg/zone"
)

const pageSize = 1000

// Node is one entry in the virtual tree: either a folder (Children
// populated, FileID empty) or a leaf file.
type Node struct {
	Name          string  `json:"name"`
	Path          string  `json:"path"`
	IsFolder      bool    `json:"isFolder"`
	FileCount     int64   `json:"fileCount"`
	TotalSize     int64   `json:"totalSize"`
	FileID        string  `json:"fileId,omitempty"`
	Extension     string  `json:"extension,omitempty"`
	IsDuplicate   bool    `json:"isDuplicate,omitempty"`
	Zone          string  `json:"zone,omitempty"`
	ZoneInherited bool    `json:"zoneInherited,omitempty"`
	Children      []*Node `json:"children,omitempty"`
}

// Builder builds folder trees against a catalog store and zone service.
type Builder struct {
	files *catalog.FileRepository
	zones *zone.Service
}

// NewBuilder constructs a Builder.
func NewBuilder(files *catalog.FileRepository, zones *zone.Service) *Builder {
	return &Builder{files: files, zones: zones}
}

// Build walks every ScannedFile cataloged for sourceID, paginated
// pageSize at a time, and returns the root folder node with every
// descendant's fileCount/totalSize aggregated and children sorted
// folders-first then alphabetically within each group.
func (b *Builder) Build(ctx context.Context, sourceID string) (*Node, error) {
	root := &Node{Name: "/", Path: "/", IsFolder: true}
	nodes := map[string]*Node{"/": root}

	total, err := b.files.CountBySource(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("unable to count files: %w", err)
	}

	for offset := 0; offset < total; offset += pageSize {
		page, err := b.files.ListBySource(ctx, sourceID, offset, pageSize)
		if err != nil {
			return nil, fmt.Errorf("unable to list files: %w", err)
		}

		for _, file := range page {
			folder := folderOf(file.Path)
			parent := b.ensureFolder(nodes, root, folder)

			resolution, found, err := b.zones.GetZoneForFolder(ctx, sourceID, folder)
			if err != nil {
				return nil, fmt.Errorf("unable to resolve zone for %s: %w", folder, err)
			}

			leaf := &Node{
				Name:        file.Name,
				Path:        file.Path,
				FileCount:   1,
				TotalSize:   file.Size,
				FileID:      file.ID,
				Extension:   file.Extension,
				IsDuplicate: file.IsDuplicate,
			}
			if found {
				leaf.Zone = string(resolution.Zone)
				leaf.ZoneInherited = resolution.IsInherited
			}
			parent.Children = append(parent.Children, leaf)
		}
	}

	aggregate(root)
	sortChildren(root)

	return root, nil
}

// ensureFolder returns the folder node for folderPath, creating every
// missing ancestor between root and it.
func (b *Builder) ensureFolder(nodes map[string]*Node, root *Node, folderPath string) *Node {
	folderPath = normalize(folderPath)
	if existing, ok := nodes[folderPath]; ok {
		return existing
	}

	parentPath := normalize(path.Dir(folderPath))
	var parent *Node
	if parentPath == folderPath {
		parent = root
	} else {
		parent = b.ensureFolder(nodes, root, parentPath)
	}

	node := &Node{Name: path.Base(folderPath), Path: folderPath, IsFolder: true}
	parent.Children = append(parent.Children, node)
	nodes[folderPath] = node
	return node
}

// aggregate sums fileCount/totalSize from leaves up to root, post-order.
func aggregate(node *Node) {
	if !node.IsFolder {
		return
	}
	var count, size int64
	for _, child := range node.Children {
		aggregate(child)
		count += child.FileCount
		size += child.TotalSize
	}
	node.FileCount = count
	node.TotalSize = size
}

// sortChildren orders each folder's children folders-first, then files,
// each group alphabetically by name, recursively.
func sortChildren(node *Node) {
	sort.Slice(node.Children, func(i, j int) bool {
		a, b := node.Children[i], node.Children[j]
		if a.IsFolder != b.IsFolder {
			return a.IsFolder
		}
		return a.Name < b.Name
	})
	for _, child := range node.Children {
		sortChildren(child)
	}
}

func folderOf(filePath string) string {
	idx := strings.LastIndexByte(filePath, '/')
	if idx <= 0 {
		return "/"
	}
	return filePath[:idx]
}

func normalize(folderPath string) string {
	cleaned := path.Clean(folderPath)
	if cleaned == "." {
		return "/"
	}
	return cleaned
}

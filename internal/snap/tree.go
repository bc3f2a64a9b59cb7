package snap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// FileSentinel is the leaf value recorded for a workspace file. Only
	// the shape of the workspace is captured; file contents never enter a
	// tree.
	FileSentinel = "[FILE]"

	// metadataSuffix marks OS metadata files, which are excluded from
	// serialized trees.
	metadataSuffix = ".DS_Store"

	// maxFileSize is the cutoff above which workspace files are excluded
	// from serialized trees.
	maxFileSize = 1 << 20
)

// Tree describes the shape of a directory: entry name to node.
//
// Its JSON form matches the historical snapshot format exactly, so payloads
// written by earlier versions of the tool decode without translation:
// directories are nested objects and file leaves are plain strings.
type Tree map[string]Node

// Node is a single tree entry: a subdirectory with children, or a file leaf
// carrying a content string (in practice always FileSentinel).
type Node struct {
	Children Tree
	Content  string
}

// IsDir reports whether the node is a subdirectory.
func (n Node) IsDir() bool { return n.Children != nil }

// MarshalJSON writes a subdirectory as a nested object and a file leaf as
// its content string.
func (n Node) MarshalJSON() ([]byte, error) {
	if n.IsDir() {
		return json.Marshal(n.Children)
	}
	return json.Marshal(n.Content)
}

// UnmarshalJSON accepts both wire forms: an object decodes to a
// subdirectory, a string to a file leaf.
func (n *Node) UnmarshalJSON(data []byte) error {
	d := bytes.TrimSpace(data)
	if len(d) == 0 {
		return fmt.Errorf("empty tree node")
	}
	switch d[0] {
	case '{':
		children := Tree{}
		if err := json.Unmarshal(d, &children); err != nil {
			return err
		}
		n.Children = children
		n.Content = ""
		return nil
	case '"':
		n.Children = nil
		return json.Unmarshal(d, &n.Content)
	default:
		return fmt.Errorf("tree node must be an object or a string, got %s", d)
	}
}

// SnapshotTree serializes the directory at root into a Tree. Subdirectories
// are recursed into. Files whose name ends with the OS metadata suffix, and
// files larger than maxFileSize, are silently left out. Every other file
// appears as a FileSentinel leaf.
//
// Entries are visited in name order (os.ReadDir sorts), so the same
// directory shape always serializes to the same tree and therefore the same
// fingerprint.
func SnapshotTree(root string) (Tree, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", root, err)
	}
	tree := Tree{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			sub, err := SnapshotTree(filepath.Join(root, name))
			if err != nil {
				return nil, err
			}
			tree[name] = Node{Children: sub}
			continue
		}
		if strings.HasSuffix(name, metadataSuffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("inspecting %s: %w", filepath.Join(root, name), err)
		}
		if info.Size() > maxFileSize {
			continue
		}
		tree[name] = Node{Content: FileSentinel}
	}
	return tree, nil
}

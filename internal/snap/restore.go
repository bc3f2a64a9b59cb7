package snap

import (
	"fmt"
	"os"
	"path/filepath"
)

// RestoreTree rebuilds the directory shape described by tree under baseDir.
// Subdirectories are created (idempotently) and recursed into. A FileSentinel
// leaf writes nothing: the content was never captured, so only the directory
// structure comes back. A leaf holding any other string is written verbatim
// as file content, which keeps hand-edited payloads restorable.
//
// Restore never deletes: entries on disk that the tree does not mention are
// left untouched.
func RestoreTree(baseDir string, tree Tree) error {
	for name, node := range tree {
		path := filepath.Join(baseDir, name)
		if node.IsDir() {
			if err := os.MkdirAll(path, 0755); err != nil {
				return fmt.Errorf("creating directory %s: %w", path, err)
			}
			if err := RestoreTree(path, node.Children); err != nil {
				return err
			}
			continue
		}
		if node.Content == FileSentinel {
			continue
		}
		if err := os.WriteFile(path, []byte(node.Content), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}

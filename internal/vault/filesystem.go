package vault

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"wsnap-go/internal/snap"
)

// FileSystemVault is a filesystem-based implementation of the Vault interface.
// It mirrors snapshots as one JSON file per backup:
//
//	<root>/
//	  hosts/
//	    <hostID>/
//	      backups/
//	        <id>.json
type FileSystemVault struct {
	name string
	root string
}

// NewFileSystemVault creates a new filesystem vault rooted at the given path.
func NewFileSystemVault(name, root string) (*FileSystemVault, error) {
	// Create directory structure
	if err := os.MkdirAll(filepath.Join(root, "hosts"), 0755); err != nil {
		return nil, fmt.Errorf("failed to create vault directory: %w", err)
	}

	return &FileSystemVault{
		name: name,
		root: root,
	}, nil
}

// PutSnapshot stores a snapshot payload. Storing the same host/id pair again
// replaces the earlier copy.
func (v *FileSystemVault) PutSnapshot(hostID string, id int64, r io.Reader, size int64) error {
	destPath := v.snapshotPath(hostID, id)
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return v.writeFile(destPath, r, size)
}

// GetSnapshot retrieves a mirrored snapshot payload and writes it to w.
func (v *FileSystemVault) GetSnapshot(hostID string, id int64, w io.Writer) error {
	srcPath := v.snapshotPath(hostID, id)
	return v.readFile(srcPath, w, fmt.Sprintf("snapshot %d not found for host: %s", id, hostID))
}

// ValidateSetup verifies that the vault root is accessible.
func (v *FileSystemVault) ValidateSetup() error {
	info, err := os.Stat(v.root)
	if err != nil {
		return fmt.Errorf("vault root not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("vault root is not a directory: %s", v.root)
	}

	return nil
}

func (v *FileSystemVault) snapshotPath(hostID string, id int64) string {
	return filepath.Join(v.root, filepath.FromSlash(snapshotKey(hostID, id)))
}

// writeFile writes data from r to the specified path using atomic write (temp file + rename).
func (v *FileSystemVault) writeFile(destPath string, r io.Reader, expectedSize int64) error {
	// Create temp file in the same directory to ensure atomic rename works
	dir := filepath.Dir(destPath)
	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Clean up temp file on failure
	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	// Copy data to temp file
	written, err := io.Copy(tmpFile, r)
	if err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Verify size
	if written != expectedSize {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", expectedSize, written)
	}

	// Atomic rename
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// readFile reads from the specified path and writes to w.
func (v *FileSystemVault) readFile(srcPath string, w io.Writer, notFoundMsg string) error {
	f, err := os.Open(srcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s", notFoundMsg)
		}
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	return nil
}

// Compile-time check that FileSystemVault implements snap.Vault interface
var _ snap.Vault = (*FileSystemVault)(nil)

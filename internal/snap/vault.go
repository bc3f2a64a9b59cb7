package snap

import "io"

// Vault provides an interface for off-machine snapshot mirrors. The record
// store stays the source of truth; a vault holds copies so a snapshot can be
// fetched from another machine. Operations use io.Reader/io.Writer for
// streaming so backends need not buffer whole payloads.
type Vault interface {
	// PutSnapshot stores a snapshot payload for a host under its backup id.
	// Storing the same host/id pair again overwrites the earlier copy.
	// size is the number of bytes that will be read from r.
	PutSnapshot(hostID string, id int64, r io.Reader, size int64) error

	// GetSnapshot retrieves a mirrored snapshot payload and writes it to w.
	GetSnapshot(hostID string, id int64, w io.Writer) error

	// ValidateSetup verifies that the vault is accessible and properly configured.
	ValidateSetup() error
}

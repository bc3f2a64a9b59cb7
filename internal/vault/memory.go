package vault

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"wsnap-go/internal/snap"
)

// MemoryVault is an in-memory implementation of the Vault interface. It keeps
// mirrored snapshots in a map, making it useful for testing. Safe for
// concurrent use.
type MemoryVault struct {
	name      string
	snapshots map[string][]byte // snapshot key -> payload
	mu        sync.RWMutex
}

// NewMemoryVault creates a new in-memory vault with the given name.
func NewMemoryVault(name string) *MemoryVault {
	return &MemoryVault{
		name:      name,
		snapshots: make(map[string][]byte),
	}
}

// PutSnapshot stores a snapshot payload. Storing the same host/id pair again
// replaces the earlier copy.
func (m *MemoryVault) PutSnapshot(hostID string, id int64, r io.Reader, size int64) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.snapshots[snapshotKey(hostID, id)] = data
	return nil
}

// GetSnapshot retrieves a mirrored snapshot payload.
func (m *MemoryVault) GetSnapshot(hostID string, id int64, w io.Writer) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.snapshots[snapshotKey(hostID, id)]
	if !ok {
		return fmt.Errorf("snapshot %d not found for host: %s", id, hostID)
	}

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	return nil
}

// ValidateSetup always succeeds for in-memory vault.
func (m *MemoryVault) ValidateSetup() error {
	return nil
}

// Compile-time check that MemoryVault implements snap.Vault interface
var _ snap.Vault = (*MemoryVault)(nil)

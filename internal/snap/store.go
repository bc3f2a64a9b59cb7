package snap

import "time"

// Record is one persisted backup: the payload blob plus the columns kept
// beside it for listing and change detection.
type Record struct {
	ID            int64
	Name          string
	CreatedAt     time.Time
	Data          []byte
	WorkspaceHash string
	MemoryHash    string
}

// Store provides an interface for backup record persistence. Records are
// insert-only: nothing updates or deletes them after creation.
type Store interface {
	// CreateBackup inserts one record and returns it as stored, with the
	// assigned id and creation timestamp.
	CreateBackup(name string, data []byte, workspaceHash, memoryHash string) (*Record, error)

	// GetBackup returns the record with the given id, payload included.
	// The error wraps ErrNotFound when no such record exists.
	GetBackup(id int64) (*Record, error)

	// ListBackups returns up to limit records, most recent first.
	// Listings do not load the payload column; Data is nil on the results.
	ListBackups(limit int) ([]*Record, error)

	// Close closes the store connection.
	Close() error
}

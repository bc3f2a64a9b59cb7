package snap

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// DefaultBackupName labels backups created without an explicit name.
const DefaultBackupName = "Manual Backup"

// Paths locates the three pieces of machine state a snapshot captures.
type Paths struct {
	// WorkspaceRoot is the directory whose shape is serialized. It must
	// exist when a backup runs.
	WorkspaceRoot string

	// MemoryDir holds the assistant's memory files, captured in full.
	// It may be absent; an absent directory is an empty memory set.
	MemoryDir string

	// ConfigFile is the assistant's JSON config file, captured opaquely.
	ConfigFile string
}

// Service runs backup and restore against a Store, optionally mirroring
// snapshots to a Vault. Each operation is a single sequential pass; the
// caller owns the Store handle and its lifetime.
type Service struct {
	store  Store
	vault  Vault
	paths  Paths
	hostID string
	logger Logger
	clock  Clock
}

// NewService builds a Service. vault may be nil, which disables mirroring.
func NewService(store Store, vault Vault, paths Paths, hostID string, logger Logger, clock Clock) *Service {
	if logger == nil {
		logger = NewNopLogger()
	}
	if clock == nil {
		clock = RealClock{}
	}
	return &Service{
		store:  store,
		vault:  vault,
		paths:  paths,
		hostID: hostID,
		logger: logger,
		clock:  clock,
	}
}

// Backup captures the workspace shape, memory contents and assistant config
// into one new record and returns it. An empty name falls back to
// DefaultBackupName.
func (s *Service) Backup(name string) (*Record, error) {
	if name == "" {
		name = DefaultBackupName
	}
	s.logger.Info("backup started", "name", name)

	workspace, err := SnapshotTree(s.paths.WorkspaceRoot)
	if err != nil {
		return nil, fmt.Errorf("serializing workspace: %w", err)
	}
	s.logger.Info("workspace serialized", "entries", len(workspace))

	memory := []NamedContent{}
	if _, err := os.Stat(s.paths.MemoryDir); err == nil {
		if memory, err = CollectMemory(s.paths.MemoryDir); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("checking memory directory: %w", err)
	}
	s.logger.Info("memory collected", "files", len(memory))

	cfg, err := ReadAssistantConfig(s.paths.ConfigFile)
	if err != nil {
		return nil, err
	}
	s.logger.Info("config captured", "keys", len(cfg))

	payload := Payload{
		Timestamp: s.clock.Now().UTC(),
		Workspace: workspace,
		Memory:    memory,
		Config:    cfg,
		Meta:      Meta{Name: name},
	}

	workspaceJSON, err := json.Marshal(payload.Workspace)
	if err != nil {
		return nil, fmt.Errorf("encoding workspace tree: %w", err)
	}
	memoryJSON, err := json.Marshal(payload.Memory)
	if err != nil {
		return nil, fmt.Errorf("encoding memory files: %w", err)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}

	rec, err := s.store.CreateBackup(
		name,
		data,
		Fingerprint(string(workspaceJSON)),
		Fingerprint(string(memoryJSON)),
	)
	if err != nil {
		return nil, fmt.Errorf("recording backup: %w", err)
	}
	s.logger.Info("backup recorded",
		"id", rec.ID,
		"workspace_hash", rec.WorkspaceHash,
		"memory_hash", rec.MemoryHash)

	s.mirror(rec)
	return rec, nil
}

// Restore writes the snapshot with the given id back onto disk: memory files
// first, then the workspace tree, then the assistant config (only when the
// snapshot captured a non-empty one). The three writes are not transactional;
// a failure partway leaves the earlier writes in place.
func (s *Service) Restore(id int64) error {
	s.logger.Info("restore started", "id", id)

	rec, err := s.store.GetBackup(id)
	if err != nil {
		return err
	}

	var payload Payload
	if err := json.Unmarshal(rec.Data, &payload); err != nil {
		return fmt.Errorf("decoding payload of backup %d: %w", id, err)
	}

	if err := WriteMemory(s.paths.MemoryDir, payload.Memory); err != nil {
		return err
	}
	s.logger.Info("memory restored", "files", len(payload.Memory))

	if err := RestoreTree(s.paths.WorkspaceRoot, payload.Workspace); err != nil {
		return err
	}
	s.logger.Info("workspace restored", "entries", len(payload.Workspace))

	if len(payload.Config) > 0 {
		if err := WriteAssistantConfig(s.paths.ConfigFile, payload.Config); err != nil {
			return err
		}
		s.logger.Info("config restored", "keys", len(payload.Config))
	}

	s.logger.Info("restore finished", "id", id, "name", rec.Name)
	return nil
}

// List returns up to limit records, most recent first.
func (s *Service) List(limit int) ([]*Record, error) {
	recs, err := s.store.ListBackups(limit)
	if err != nil {
		return nil, fmt.Errorf("listing backups: %w", err)
	}
	return recs, nil
}

// mirror pushes a freshly created record to the vault. The store row is the
// source of truth, so a mirror failure is logged and swallowed rather than
// failing the backup.
func (s *Service) mirror(rec *Record) {
	if s.vault == nil {
		return
	}
	err := s.vault.PutSnapshot(s.hostID, rec.ID, bytes.NewReader(rec.Data), int64(len(rec.Data)))
	if err != nil {
		s.logger.Warn("snapshot mirror failed", "id", rec.ID, "error", err)
		return
	}
	s.logger.Info("snapshot mirrored", "id", rec.ID, "host_id", s.hostID)
}

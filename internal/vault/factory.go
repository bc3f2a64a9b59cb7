package vault

import (
	"fmt"
	"path"
	"strconv"

	"wsnap-go/internal/config"
	"wsnap-go/internal/snap"
)

// NewVaultFromConfig creates a Vault implementation based on the vault config type.
func NewVaultFromConfig(cfg config.VaultConfig) (snap.Vault, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryVault(cfg.Name), nil
	case "s3":
		v, err := NewS3Vault(cfg)
		if err != nil {
			return nil, err
		}
		return v, nil
	case "filesystem":
		if cfg.FSVaultRoot == "" {
			return nil, fmt.Errorf("filesystem vault requires fs_vault_root to be set")
		}
		return NewFileSystemVault(cfg.Name, cfg.FSVaultRoot)
	default:
		return nil, fmt.Errorf("unknown vault type: %s", cfg.Type)
	}
}

// snapshotKey is the canonical location of one mirrored snapshot, shared by
// every backend: slash-separated, grouped by host.
func snapshotKey(hostID string, id int64) string {
	return path.Join("hosts", hostID, "backups", strconv.FormatInt(id, 10)+".json")
}

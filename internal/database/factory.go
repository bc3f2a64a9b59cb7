package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"wsnap-go/internal/config"
	"wsnap-go/internal/snap"
)

// EnvDSN is the environment variable that overrides the configured
// record-store connection string.
const EnvDSN = "WSNAP_DB"

// NewStoreFromConfig opens the record store described by cfg. A non-empty
// WSNAP_DB environment variable takes precedence over the configured DSN.
// File-backed stores get their parent directory created on first use.
func NewStoreFromConfig(cfg config.DatabaseConfig) (snap.Store, error) {
	dsn := cfg.DSN
	if env := os.Getenv(EnvDSN); env != "" {
		dsn = env
	}
	if dsn == "" {
		return nil, fmt.Errorf("no database connection string configured (set database.dsn or %s)", EnvDSN)
	}

	if dir := dataDir(dsn); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	return Open(dsn)
}

// dataDir extracts the parent directory of a file-backed DSN so it can be
// created before opening. In-memory DSNs have no directory.
func dataDir(dsn string) string {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" || strings.HasPrefix(path, ":") {
		return ""
	}
	return filepath.Dir(path)
}

package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for wsnap.
type Config struct {
	HostID  string `toml:"host_id"`
	BaseDir string `toml:"base_dir"`
	LogDir  string `toml:"log_dir"`

	Paths    PathsConfig    `toml:"paths"`
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Vault    VaultConfig    `toml:"vault"`
}

// PathsConfig locates the machine state that snapshots capture.
type PathsConfig struct {
	WorkspaceRoot string `toml:"workspace_root"`
	MemoryDir     string `toml:"memory_dir"`
	ConfigFile    string `toml:"config_file"`
}

// DatabaseConfig represents configuration for the backup record store.
// The DSN can be a file path or ":memory:"; the WSNAP_DB environment
// variable overrides it at runtime.
type DatabaseConfig struct {
	DSN string `toml:"dsn"`
}

// ServerConfig holds settings for the HTTP server started by `wsnap serve`.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// VaultConfig represents configuration for the snapshot mirror backend.
// This uses a tagged union pattern - the Type field determines which other
// fields are relevant. An empty Type disables mirroring.
type VaultConfig struct {
	Type string `toml:"type"` // "", "memory", "s3", or "filesystem"
	Name string `toml:"name"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket string `toml:"s3_bucket,omitempty"`
	S3Prefix string `toml:"s3_prefix,omitempty"`
	S3Region string `toml:"s3_region,omitempty"`

	// Static credentials for S3; when empty, the ambient AWS credential
	// chain is used instead.
	S3AccessKeyID     string `toml:"s3_access_key_id,omitempty"`
	S3SecretAccessKey string `toml:"s3_secret_access_key,omitempty"`

	// FileSystem-specific fields (only used when Type == "filesystem")
	FSVaultRoot string `toml:"fs_vault_root,omitempty"`
}

// NewConfig creates a new Config with the provided values and default paths
// rooted at baseDir (for wsnap's own state) and home (for the captured
// assistant state).
func NewConfig(hostID, baseDir, home string) *Config {
	return &Config{
		HostID:  hostID,
		BaseDir: baseDir,
		LogDir:  filepath.Join(baseDir, "log"),
		Paths: PathsConfig{
			WorkspaceRoot: filepath.Join(home, "workspace"),
			MemoryDir:     filepath.Join(home, "workspace", "memory"),
			ConfigFile:    filepath.Join(home, ".assistant", "config.json"),
		},
		Database: DatabaseConfig{
			DSN: filepath.Join(baseDir, "db", "wsnap.db"),
		},
		Server: ServerConfig{
			Addr: ":8420",
		},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
// This is an internal helper and should not be exported.
func writeToFile(path string, cfg *Config) error {
	// Ensure the directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}

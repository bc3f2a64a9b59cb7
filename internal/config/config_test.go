package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := &Config{
		HostID:  "test-host-abc",
		BaseDir: "/home/user/.wsnap",
		LogDir:  "/home/user/.wsnap/log",
		Paths: PathsConfig{
			WorkspaceRoot: "/home/user/workspace",
			MemoryDir:     "/home/user/workspace/memory",
			ConfigFile:    "/home/user/.assistant/config.json",
		},
		Database: DatabaseConfig{DSN: "/home/user/.wsnap/db/wsnap.db"},
		Server:   ServerConfig{Addr: ":9000"},
		Vault: VaultConfig{
			Type:        "filesystem",
			Name:        "local",
			FSVaultRoot: "/backup/vault",
		},
	}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.HostID != original.HostID {
		t.Errorf("HostID = %q, want %q", got.HostID, original.HostID)
	}
	if got.BaseDir != original.BaseDir {
		t.Errorf("BaseDir = %q, want %q", got.BaseDir, original.BaseDir)
	}
	if got.LogDir != original.LogDir {
		t.Errorf("LogDir = %q, want %q", got.LogDir, original.LogDir)
	}
	if got.Paths != original.Paths {
		t.Errorf("Paths = %+v, want %+v", got.Paths, original.Paths)
	}
	if got.Database.DSN != original.Database.DSN {
		t.Errorf("Database.DSN = %q, want %q", got.Database.DSN, original.Database.DSN)
	}
	if got.Server.Addr != ":9000" {
		t.Errorf("Server.Addr = %q, want %q", got.Server.Addr, ":9000")
	}
	if got.Vault.Type != "filesystem" {
		t.Errorf("Vault.Type = %q, want %q", got.Vault.Type, "filesystem")
	}
	if got.Vault.FSVaultRoot != "/backup/vault" {
		t.Errorf("Vault.FSVaultRoot = %q, want %q", got.Vault.FSVaultRoot, "/backup/vault")
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("host-1", "/data/wsnap", "/home/user")

	if cfg.HostID != "host-1" {
		t.Errorf("HostID = %q, want %q", cfg.HostID, "host-1")
	}
	if cfg.BaseDir != "/data/wsnap" {
		t.Errorf("BaseDir = %q, want %q", cfg.BaseDir, "/data/wsnap")
	}
	if cfg.LogDir != "/data/wsnap/log" {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, "/data/wsnap/log")
	}
	if cfg.Paths.WorkspaceRoot != "/home/user/workspace" {
		t.Errorf("Paths.WorkspaceRoot = %q, want %q", cfg.Paths.WorkspaceRoot, "/home/user/workspace")
	}
	if cfg.Paths.MemoryDir != "/home/user/workspace/memory" {
		t.Errorf("Paths.MemoryDir = %q, want %q", cfg.Paths.MemoryDir, "/home/user/workspace/memory")
	}
	if cfg.Paths.ConfigFile != "/home/user/.assistant/config.json" {
		t.Errorf("Paths.ConfigFile = %q, want %q", cfg.Paths.ConfigFile, "/home/user/.assistant/config.json")
	}
	if cfg.Database.DSN != "/data/wsnap/db/wsnap.db" {
		t.Errorf("Database.DSN = %q, want %q", cfg.Database.DSN, "/data/wsnap/db/wsnap.db")
	}
	if cfg.Server.Addr != ":8420" {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, ":8420")
	}
	if cfg.Vault.Type != "" {
		t.Errorf("Vault.Type = %q, want empty (mirroring disabled)", cfg.Vault.Type)
	}
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := filepath.Join(dir, "wsnap.toml")
		cfg := NewConfig("h1", dir, dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		if _, err := os.Stat(path); err != nil {
			t.Fatalf("config file not created: %v", err)
		}
	})

	t.Run("fails if file already exists", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := filepath.Join(dir, "wsnap.toml")
		cfg := NewConfig("h1", dir, dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}

		err := Init(path, cfg)
		if err == nil {
			t.Fatal("second Init() expected error")
		}
	})
}

func TestReadFromFile(t *testing.T) {
	t.Run("reads valid config", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := filepath.Join(dir, "wsnap.toml")
		cfg := NewConfig("read-test", dir, dir)
		cfg.Database = DatabaseConfig{DSN: ":memory:"}

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.HostID != "read-test" {
			t.Errorf("HostID = %q, want %q", got.HostID, "read-test")
		}
		if got.Database.DSN != ":memory:" {
			t.Errorf("Database.DSN = %q, want %q", got.Database.DSN, ":memory:")
		}
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		t.Parallel()
		_, err := ReadFromFile("/nonexistent/path/wsnap.toml")
		if err == nil {
			t.Fatal("ReadFromFile() expected error for missing file")
		}
	})
}

package vault

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewFileSystemVault(t *testing.T) {
	t.Run("creates directory structure", func(t *testing.T) {
		t.Parallel()
		tmpDir := t.TempDir()
		root := filepath.Join(tmpDir, "vault")

		v, err := NewFileSystemVault("test", root)
		if err != nil {
			t.Fatalf("NewFileSystemVault() error = %v", err)
		}

		// Check directories were created
		if _, err := os.Stat(filepath.Join(root, "hosts")); err != nil {
			t.Errorf("hosts directory not created: %v", err)
		}

		if v.name != "test" {
			t.Errorf("name = %q, want %q", v.name, "test")
		}
	})

	t.Run("works with existing directory", func(t *testing.T) {
		t.Parallel()
		tmpDir := t.TempDir()

		_, err := NewFileSystemVault("test", tmpDir)
		if err != nil {
			t.Fatalf("NewFileSystemVault() error = %v", err)
		}
	})
}

func TestFileSystemVault_PutSnapshot(t *testing.T) {
	tests := []struct {
		name    string
		id      int64
		data    string
		size    int64
		wantErr bool
	}{
		{
			name:    "store snapshot successfully",
			id:      1,
			data:    `{"memory":[]}`,
			size:    13,
			wantErr: false,
		},
		{
			name:    "size mismatch",
			id:      2,
			data:    "hello",
			size:    100,
			wantErr: true,
		},
		{
			name:    "empty payload",
			id:      3,
			data:    "",
			size:    0,
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			v, err := NewFileSystemVault("test", t.TempDir())
			if err != nil {
				t.Fatalf("NewFileSystemVault() error = %v", err)
			}

			err = v.PutSnapshot("host-1", tt.id, strings.NewReader(tt.data), tt.size)
			if (err != nil) != tt.wantErr {
				t.Errorf("PutSnapshot() error = %v, wantErr %v", err, tt.wantErr)
			}

			if !tt.wantErr {
				// Verify file exists with correct content
				data, err := os.ReadFile(v.snapshotPath("host-1", tt.id))
				if err != nil {
					t.Fatalf("failed to read snapshot file: %v", err)
				}
				if string(data) != tt.data {
					t.Errorf("content = %q, want %q", string(data), tt.data)
				}
			}
		})
	}
}

func TestFileSystemVault_PutSnapshot_Overwrites(t *testing.T) {
	v, err := NewFileSystemVault("test", t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}

	first := "first copy"
	second := "second copy"

	if err := v.PutSnapshot("host-1", 7, strings.NewReader(first), int64(len(first))); err != nil {
		t.Fatalf("first PutSnapshot() error = %v", err)
	}
	if err := v.PutSnapshot("host-1", 7, strings.NewReader(second), int64(len(second))); err != nil {
		t.Fatalf("second PutSnapshot() error = %v", err)
	}

	var buf bytes.Buffer
	if err := v.GetSnapshot("host-1", 7, &buf); err != nil {
		t.Fatalf("GetSnapshot() error = %v", err)
	}
	if buf.String() != second {
		t.Errorf("content = %q, want %q", buf.String(), second)
	}
}

func TestFileSystemVault_GetSnapshot(t *testing.T) {
	v, err := NewFileSystemVault("test", t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}

	t.Run("retrieve existing snapshot", func(t *testing.T) {
		data := `{"config":{}}`

		if err := v.PutSnapshot("host-1", 1, strings.NewReader(data), int64(len(data))); err != nil {
			t.Fatalf("PutSnapshot() error = %v", err)
		}

		var buf bytes.Buffer
		if err := v.GetSnapshot("host-1", 1, &buf); err != nil {
			t.Fatalf("GetSnapshot() error = %v", err)
		}

		if buf.String() != data {
			t.Errorf("content = %q, want %q", buf.String(), data)
		}
	})

	t.Run("snapshot not found", func(t *testing.T) {
		var buf bytes.Buffer
		err := v.GetSnapshot("host-1", 404, &buf)
		if err == nil {
			t.Error("GetSnapshot() expected error for nonexistent snapshot")
		}
		if !strings.Contains(err.Error(), "not found") {
			t.Errorf("error = %v, want error containing 'not found'", err)
		}
	})
}

func TestFileSystemVault_NoTempFilesLeftBehind(t *testing.T) {
	root := t.TempDir()
	v, err := NewFileSystemVault("test", root)
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}

	// A size mismatch aborts the write after the temp file was created
	if err := v.PutSnapshot("host-1", 1, strings.NewReader("short"), 9999); err == nil {
		t.Fatal("PutSnapshot() expected size mismatch error")
	}

	dir := filepath.Dir(v.snapshotPath("host-1", 1))
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".tmp-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestFileSystemVault_ValidateSetup(t *testing.T) {
	t.Run("valid vault", func(t *testing.T) {
		v, err := NewFileSystemVault("test", t.TempDir())
		if err != nil {
			t.Fatalf("NewFileSystemVault() error = %v", err)
		}

		if err := v.ValidateSetup(); err != nil {
			t.Errorf("ValidateSetup() error = %v", err)
		}
	})

	t.Run("missing root", func(t *testing.T) {
		v := &FileSystemVault{name: "test", root: filepath.Join(t.TempDir(), "gone")}

		if err := v.ValidateSetup(); err == nil {
			t.Error("ValidateSetup() expected error for missing root")
		}
	})
}

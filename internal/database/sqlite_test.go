package database

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"wsnap-go/internal/snap"
)

// newTestStore creates a new in-memory store with the schema applied.
func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}

	t.Cleanup(func() {
		store.Close()
	})

	return store
}

func TestSQLiteStore_CreateBackup(t *testing.T) {
	t.Run("assigns id and creation time", func(t *testing.T) {
		store := newTestStore(t)

		rec, err := store.CreateBackup("nightly", []byte(`{"meta":{"name":"nightly"}}`), "5e918d2", "403d42ff")
		if err != nil {
			t.Fatalf("CreateBackup() error = %v", err)
		}

		if rec.ID == 0 {
			t.Error("ID was not assigned")
		}
		if rec.Name != "nightly" {
			t.Errorf("Name = %q, want %q", rec.Name, "nightly")
		}
		if rec.CreatedAt.IsZero() {
			t.Error("CreatedAt was not assigned")
		}
		if string(rec.Data) != `{"meta":{"name":"nightly"}}` {
			t.Errorf("Data = %s, want the inserted payload", rec.Data)
		}
		if rec.WorkspaceHash != "5e918d2" || rec.MemoryHash != "403d42ff" {
			t.Errorf("hashes = %q/%q, want 5e918d2/403d42ff", rec.WorkspaceHash, rec.MemoryHash)
		}
	})

	t.Run("ids increase across inserts", func(t *testing.T) {
		store := newTestStore(t)

		first, err := store.CreateBackup("a", []byte("{}"), "", "")
		if err != nil {
			t.Fatalf("CreateBackup() error = %v", err)
		}
		second, err := store.CreateBackup("b", []byte("{}"), "", "")
		if err != nil {
			t.Fatalf("CreateBackup() error = %v", err)
		}

		if second.ID <= first.ID {
			t.Errorf("second ID = %d, want > %d", second.ID, first.ID)
		}
	})
}

func TestSQLiteStore_GetBackup(t *testing.T) {
	t.Run("returns ErrNotFound for unknown id", func(t *testing.T) {
		store := newTestStore(t)

		_, err := store.GetBackup(42)
		if !errors.Is(err, snap.ErrNotFound) {
			t.Errorf("GetBackup() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("round-trips the payload", func(t *testing.T) {
		store := newTestStore(t)

		payload := `{"workspace":{"notes.md":"[FILE]"},"memory":[]}`
		created, err := store.CreateBackup("roundtrip", []byte(payload), "2e8cb200", "0")
		if err != nil {
			t.Fatalf("CreateBackup() error = %v", err)
		}

		got, err := store.GetBackup(created.ID)
		if err != nil {
			t.Fatalf("GetBackup() error = %v", err)
		}
		if string(got.Data) != payload {
			t.Errorf("Data = %s, want %s", got.Data, payload)
		}
	})
}

func TestSQLiteStore_ListBackups(t *testing.T) {
	t.Run("orders most recent first", func(t *testing.T) {
		store := newTestStore(t)

		for _, name := range []string{"first", "second", "third"} {
			if _, err := store.CreateBackup(name, []byte("{}"), "", ""); err != nil {
				t.Fatalf("CreateBackup(%q) error = %v", name, err)
			}
		}

		recs, err := store.ListBackups(10)
		if err != nil {
			t.Fatalf("ListBackups() error = %v", err)
		}
		if len(recs) != 3 {
			t.Fatalf("len(recs) = %d, want 3", len(recs))
		}

		// created_at has second resolution, so the id is the tie-break
		names := []string{recs[0].Name, recs[1].Name, recs[2].Name}
		want := []string{"third", "second", "first"}
		for i := range want {
			if names[i] != want[i] {
				t.Errorf("recs[%d].Name = %q, want %q", i, names[i], want[i])
			}
		}
	})

	t.Run("applies the limit", func(t *testing.T) {
		store := newTestStore(t)

		for i := 0; i < 5; i++ {
			if _, err := store.CreateBackup("b", []byte("{}"), "", ""); err != nil {
				t.Fatalf("CreateBackup() error = %v", err)
			}
		}

		recs, err := store.ListBackups(2)
		if err != nil {
			t.Fatalf("ListBackups() error = %v", err)
		}
		if len(recs) != 2 {
			t.Errorf("len(recs) = %d, want 2", len(recs))
		}
	})

	t.Run("does not load payloads", func(t *testing.T) {
		store := newTestStore(t)

		if _, err := store.CreateBackup("b", []byte(`{"big":"payload"}`), "", ""); err != nil {
			t.Fatalf("CreateBackup() error = %v", err)
		}

		recs, err := store.ListBackups(1)
		if err != nil {
			t.Fatalf("ListBackups() error = %v", err)
		}
		if len(recs) != 1 {
			t.Fatalf("len(recs) = %d, want 1", len(recs))
		}
		if recs[0].Data != nil {
			t.Errorf("Data = %s, want nil in listings", recs[0].Data)
		}
	})

	t.Run("empty store lists nothing", func(t *testing.T) {
		store := newTestStore(t)

		recs, err := store.ListBackups(10)
		if err != nil {
			t.Fatalf("ListBackups() error = %v", err)
		}
		if len(recs) != 0 {
			t.Errorf("len(recs) = %d, want 0", len(recs))
		}
	})
}

func TestSQLiteStore_FileBacked(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wsnap.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open(%q) error = %v", path, err)
	}

	created, err := store.CreateBackup("persisted", []byte("{}"), "", "")
	if err != nil {
		t.Fatalf("CreateBackup() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Reopen and confirm the row survived
	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	got, err := reopened.GetBackup(created.ID)
	if err != nil {
		t.Fatalf("GetBackup() after reopen error = %v", err)
	}
	if got.Name != "persisted" {
		t.Errorf("Name = %q, want %q", got.Name, "persisted")
	}
	if !got.CreatedAt.Equal(created.CreatedAt) && !got.CreatedAt.Truncate(time.Second).Equal(created.CreatedAt.Truncate(time.Second)) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created.CreatedAt)
	}
}

package database

import (
	"database/sql"
	"errors"
	"fmt"

	"wsnap-go/internal/database/migrations"
	"wsnap-go/internal/snap"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore implements the snap.Store interface using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	dsn string
}

var _ snap.Store = (*SQLiteStore)(nil)

// Open opens a SQLite record store at the given DSN and brings its schema up
// to date. dsn can be a file path or ":memory:". Opening fails if the store
// is unreachable, so a bad connection string surfaces at startup rather than
// on the first operation.
func Open(dsn string) (*SQLiteStore, error) {
	db, err := OpenConnection(dsn)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return &SQLiteStore{db: db, dsn: dsn}, nil
}

// OpenConnection opens and configures a SQLite database connection with
// appropriate PRAGMAs, leaving the schema alone. Exported for tests and
// tools that manage the schema themselves.
func OpenConnection(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

func (s *SQLiteStore) CreateBackup(name string, data []byte, workspaceHash, memoryHash string) (*snap.Record, error) {
	res, err := s.db.Exec(
		`INSERT INTO backups (name, data, workspace_hash, memory_hash) VALUES (?, ?, ?, ?)`,
		name, string(data), workspaceHash, memoryHash,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting backup: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading new backup id: %w", err)
	}

	return s.GetBackup(id)
}

func (s *SQLiteStore) GetBackup(id int64) (*snap.Record, error) {
	var rec snap.Record
	var data string
	err := s.db.QueryRow(
		`SELECT id, name, created_at, data, workspace_hash, memory_hash FROM backups WHERE id = ?`,
		id,
	).Scan(&rec.ID, &rec.Name, &rec.CreatedAt, &data, &rec.WorkspaceHash, &rec.MemoryHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("backup %d: %w", id, snap.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading backup %d: %w", id, err)
	}

	rec.Data = []byte(data)
	return &rec, nil
}

func (s *SQLiteStore) ListBackups(limit int) ([]*snap.Record, error) {
	rows, err := s.db.Query(
		`SELECT id, name, created_at, workspace_hash, memory_hash
		   FROM backups
		  ORDER BY created_at DESC, id DESC
		  LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing backups: %w", err)
	}
	defer rows.Close()

	var recs []*snap.Record
	for rows.Next() {
		var rec snap.Record
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.CreatedAt, &rec.WorkspaceHash, &rec.MemoryHash); err != nil {
			return nil, fmt.Errorf("scanning backup row: %w", err)
		}
		recs = append(recs, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating backup rows: %w", err)
	}

	return recs, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

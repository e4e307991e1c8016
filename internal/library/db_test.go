package library

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// newTestStore creates a new SQLiteStore in a temporary directory.
func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "library.db"), nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpen_CreatesDatabase(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "subdir", "nested", "library.db")

	store, err := Open(dbPath, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestOpen_RequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open("", nil); err == nil {
		t.Fatal("Open(\"\") should fail")
	}
}

func TestMigration_CreatesSchema(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	for _, table := range []string{"schema_meta", "feeds", "episodes"} {
		_, err := store.DB().ExecContext(context.Background(), "SELECT 1 FROM "+table+" LIMIT 1")
		if err != nil {
			t.Errorf("Table %s does not exist: %v", table, err)
		}
	}

	version, err := store.SchemaVersionOf(context.Background())
	if err != nil {
		t.Fatalf("SchemaVersionOf() error = %v", err)
	}
	if version != SchemaVersion {
		t.Errorf("schema version = %d, want %d", version, SchemaVersion)
	}
}

func TestMigration_Idempotent(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "library.db")
	for i := 0; i < 2; i++ {
		store, err := Open(dbPath, nil)
		if err != nil {
			t.Fatalf("Open() #%d error = %v", i, err)
		}
		if err := store.Close(); err != nil {
			t.Fatalf("Close() #%d error = %v", i, err)
		}
	}
}

func TestMigration_RejectsNewerSchema(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "library.db")
	store, err := Open(dbPath, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	_, err = store.DB().Exec(`INSERT INTO schema_meta (version, applied_at_unix_ms) VALUES (?, 0)`, SchemaVersion+1)
	if err != nil {
		t.Fatalf("failed to bump schema version: %v", err)
	}
	store.Close()

	_, err = Open(dbPath, nil)
	if !errors.Is(err, ErrSchemaTooNew) {
		t.Fatalf("Open() error = %v, want ErrSchemaTooNew", err)
	}
}

func TestWALMode_Enabled(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	var journalMode string
	if err := store.DB().QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		t.Fatalf("Failed to check journal mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("Journal mode = %s, want wal", journalMode)
	}
}

func TestClose_Idempotent(t *testing.T) {
	t.Parallel()

	store, err := Open(filepath.Join(t.TempDir(), "library.db"), nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("first Close() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
}

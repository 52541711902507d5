package db

import (
	"path/filepath"
	"testing"
)

func TestOpenMemory(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	var count int
	if err := d.QueryRow("SELECT COUNT(*) FROM llm_calls").Scan(&count); err != nil {
		t.Errorf("table llm_calls: %v", err)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	if err := d.migrate(); err != nil {
		t.Fatalf("second migrate() error: %v", err)
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "calls.db")
	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer d.Close()

	if d.Path() != path {
		t.Errorf("expected path %q, got %q", path, d.Path())
	}
	if _, err := d.Exec(`INSERT INTO llm_calls (id, kind) VALUES ('x', 'analysis')`); err != nil {
		t.Errorf("insert: %v", err)
	}
	if _, err := d.Exec(`INSERT INTO llm_calls (id, kind) VALUES ('y', 'bogus')`); err == nil {
		t.Error("expected CHECK constraint to reject unknown kind")
	}
}

package store

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

// testSchema mirrors the server-side schema in SQLite form so the layer can
// be exercised without a running MariaDB. The triggers match the production
// ones: every users mutation writes exactly one logs row.
const testSchema = `
CREATE TABLE users (
    id INTEGER PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    host TEXT NOT NULL DEFAULT 'localhost',
    password_hash TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE logs (
    log_id INTEGER PRIMARY KEY,
    user_id INTEGER,
    action_type TEXT,
    action_time TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TRIGGER users_after_insert
AFTER INSERT ON users
FOR EACH ROW
BEGIN
    INSERT INTO logs (user_id, action_type) VALUES (NEW.id, 'INSERT');
END;

CREATE TRIGGER users_after_update
AFTER UPDATE ON users
FOR EACH ROW
BEGIN
    INSERT INTO logs (user_id, action_type) VALUES (NEW.id, 'UPDATE');
END;

CREATE TRIGGER users_after_delete
AFTER DELETE ON users
FOR EACH ROW
BEGIN
    INSERT INTO logs (user_id, action_type) VALUES (OLD.id, 'DELETE');
END;
`

// newTestStore opens a throwaway SQLite database, applies the test schema
// statement by statement and wraps it in a Store.
func newTestStore(t *testing.T) (*Store, *sql.DB) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	for i, stmt := range splitStatements(testSchema) {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("schema statement %d failed: %v", i+1, err)
		}
	}

	return NewWithPools(db, db, "testdb", 5*time.Second), db
}

// newClosedStore returns a Store whose pools are already closed, so any
// connection acquisition fails.
func newClosedStore(t *testing.T) *Store {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "closed.db"))
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("failed to close db: %v", err)
	}

	return NewWithPools(db, db, "testdb", 5*time.Second)
}

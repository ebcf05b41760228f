package testutil

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3" // Blank import for sql driver

	"cinelog/internal/db"
	"cinelog/migrations"
)

// SetupTestDB creates an in-memory SQLite database and applies all
// migrations. It returns the database connection, ready for use in tests.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// In-memory database keeps tests fast and isolated.
	conn, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() {
		conn.Close()
	})

	if err := db.RunMigrations(conn, migrations.FS); err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}

	return conn
}

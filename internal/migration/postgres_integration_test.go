package migration

import (
	"database/sql"
	"io/fs"
	"os"
	"testing"

	_ "github.com/lib/pq"

	"github.com/julianstephens/ritual/migrations"
)

// setupPostgresTestDB connects to RITUAL_TEST_POSTGRES_URL, e.g.
// postgres://ritual@localhost:5432/ritual_test?sslmode=disable
func setupPostgresTestDB(t *testing.T) *sql.DB {
	connStr := os.Getenv("RITUAL_TEST_POSTGRES_URL")
	if connStr == "" {
		t.Skip("RITUAL_TEST_POSTGRES_URL not set, skipping PostgreSQL integration test")
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatalf("failed to open postgres database: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Fatalf("failed to ping postgres database: %v", err)
	}

	t.Cleanup(func() {
		db.Exec("DROP TABLE IF EXISTS schema_version")
		db.Exec("DROP TABLE IF EXISTS slots")
		db.Exec("DROP TABLE IF EXISTS meta")
		db.Close()
	})
	return db
}

func TestPostgresEmbeddedMigrations(t *testing.T) {
	db := setupPostgresTestDB(t)

	sub, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		t.Fatalf("fs.Sub failed: %v", err)
	}
	runner := NewRunner(db, sub, DriverPostgres)

	if _, err := runner.ApplyMigrations(nil); err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	if err := runner.SetVersion(1); err != nil {
		t.Fatalf("SetVersion with $1 placeholder failed: %v", err)
	}
	if err := runner.ValidateVersion(); err != nil {
		t.Errorf("ValidateVersion failed: %v", err)
	}
}

// Package dbtest provides migrated throwaway SQL stores for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"assettracker/internal/database"
	"assettracker/internal/database/migration"
	"assettracker/internal/repository"

	"go.uber.org/zap"
)

// New returns a repository backed by a fresh, migrated SQLite file inside t.TempDir().
func New(t *testing.T) *repository.Repository {
	t.Helper()

	dsn, err := database.ParseURL("sqlite3://" + filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("parse dsn: %v", err)
	}
	if err := migration.Migrate(dsn, "", false, zap.NewNop()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	db, err := database.NewSQLConnection(dsn)
	if err != nil {
		t.Fatalf("new db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return repository.NewRepository(db, string(dsn.Backend))
}

package dbtest

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"tienda/internal/database"
)

// Open opens a migrated sqlite database in a per-test temporary directory.
// Writers take the lock at BEGIN and wait for each other, so concurrent
// transactions serialize instead of failing with SQLITE_BUSY.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "tienda.db") + "?_busy_timeout=10000&_txlock=immediate&_foreign_keys=1"
	db, err := database.Open("sqlite", dsn, zap.NewNop())
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

package dbtest

import (
	"fmt"
	"testing"

	"storefront/internal/database"
	"storefront/internal/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Open opens a private in-memory sqlite database with foreign keys
// enabled and the schema migrated. It is closed when t finishes.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.New().String())
	db, err := database.Open(database.Config{Driver: "sqlite", DSN: dsn}, logger.Discard())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

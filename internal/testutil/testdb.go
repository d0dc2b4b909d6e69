package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/swimmenu/internal/db"
)

// NewTestDB returns a migrated in-memory menu store, closed with the test.
func NewTestDB(t testing.TB) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("opening test store: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

package models

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitializeTestDB opens an in-memory sqlite database with the full schema.
// Every caller gets a private database, so tests can run in parallel.
func InitializeTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{})
	require.NoError(t, err, "failed opening test database")
	require.NoError(t, MigrationFunc(conn), "failed migrating test schema")

	return conn
}

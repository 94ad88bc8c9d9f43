// Package testutil provides test helpers for setting up in-memory stores,
// creating fixtures, and making assertions.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"envelopes/internal/store"
)

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

// SetupTestStore creates a store backed by an isolated in-memory SQLite
// database. The shared-cache DSN keeps every pooled connection on the same
// database.
func SetupTestStore(t *testing.T) *store.SQLStore {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	client := store.NewSQLStore(db)
	if err := client.AutoMigrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err != nil {
			t.Errorf("failed to get underlying DB for teardown: %v", err)
			return
		}
		if err := sqlDB.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})

	return client
}

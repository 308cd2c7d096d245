// Package storagetest opens throwaway in-memory databases for tests.
package storagetest

import (
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/iyunix/go-chatrelay/internal/storage"
)

// Open returns a migrated, isolated in-memory SQLite database.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	log := logrus.New()
	log.SetOutput(io.Discard)
	db, err := storage.Open("sqlite", dsn, log)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := storage.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

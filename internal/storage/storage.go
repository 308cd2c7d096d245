// File: internal/storage/storage.go
package storage

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/iyunix/go-chatrelay/internal/domain"
)

// Models lists every table this service owns, in creation order.
var Models = []interface{}{&domain.Chat{}, &domain.Message{}}

// Open connects to the configured driver ("sqlite" or "postgres"). SQL
// warnings and slow queries are written to log.
func Open(driver, dsn string, log logrus.FieldLogger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite", "":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
		Logger: logger.New(log.WithField("component", "gorm"), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	if driver == "sqlite" || driver == "" {
		// SQLite allows a single writer; one connection avoids "database is locked".
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// Migrate creates or updates the chats and messages tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("migrate tables: %w", err)
	}
	return nil
}

// TableStatus reports what Provision did for one table.
type TableStatus struct {
	Table   string
	Created bool
}

// Provision creates any missing table and reports, per table, whether it was
// created or already existed. Existing tables are migrated in place.
func Provision(db *gorm.DB) ([]TableStatus, error) {
	statuses := make([]TableStatus, 0, len(Models))
	for _, model := range Models {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return statuses, fmt.Errorf("parse model: %w", err)
		}
		existed := db.Migrator().HasTable(model)
		if err := db.AutoMigrate(model); err != nil {
			return statuses, fmt.Errorf("provision table %s: %w", stmt.Schema.Table, err)
		}
		statuses = append(statuses, TableStatus{Table: stmt.Schema.Table, Created: !existed})
	}
	return statuses, nil
}

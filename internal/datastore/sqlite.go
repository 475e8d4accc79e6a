package datastore

import (
	"fmt"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tphakala/smartwaste/internal/conf"
	"github.com/tphakala/smartwaste/internal/logger"
)

// SQLiteStore implements Interface for SQLite
type SQLiteStore struct {
	DataStore
	Settings *conf.Settings
}

// Open creates the database file if needed, enables WAL and migrates.
func (store *SQLiteStore) Open() error {
	path, err := conf.GetBasePath(store.Settings.Output.SQLite.Path)
	if err != nil {
		return err
	}
	path = filepath.Clean(path)

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.NewGormLoggerAdapter(GetLogger(), 200*time.Millisecond),
	})
	if err != nil {
		return dbError(err, "open", "db_type", "sqlite", "path", path)
	}

	// A single writer avoids SQLITE_BUSY between pooled connections.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}

	store.DB = db
	return performAutoMigration(db, "SQLite", path)
}

// Close closes the SQLite database.
func (store *SQLiteStore) Close() error {
	return closeDB(store.DB, "sqlite")
}

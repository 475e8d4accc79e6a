// Package datastore persists community ideas and the waste reference table
// with GORM on SQLite or MySQL.
package datastore

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tphakala/smartwaste/internal/conf"
	"github.com/tphakala/smartwaste/internal/errors"
	"github.com/tphakala/smartwaste/internal/logger"
	"github.com/tphakala/smartwaste/internal/taxonomy"
)

// Interface abstracts the underlying database implementation.
type Interface interface {
	Open() error
	SaveIdea(ctx context.Context, idea *CommunityIdea) error
	ListIdeas(ctx context.Context) ([]CommunityIdea, error)
	CountWasteData(ctx context.Context) (int64, error)
	Close() error
}

// Recorder receives database operation outcomes.
type Recorder interface {
	RecordDBOperation(operation, status string, duration time.Duration)
}

// DataStore implements the queries shared by every GORM backend.
type DataStore struct {
	DB       *gorm.DB
	recorder Recorder
}

// New returns the backend enabled in settings.
func New(settings *conf.Settings) (Interface, error) {
	switch {
	case settings.Output.SQLite.Enabled:
		return &SQLiteStore{Settings: settings}, nil
	case settings.Output.MySQL.Enabled:
		return &MySQLStore{Settings: settings}, nil
	default:
		return nil, errors.Newf("no database backend enabled").
			Component("datastore").
			Category(errors.CategoryConfiguration).
			Build()
	}
}

// SetRecorder sets the operation recorder.
func (ds *DataStore) SetRecorder(r Recorder) {
	ds.recorder = r
}

func (ds *DataStore) record(operation string, start time.Time, err error) {
	if ds.recorder == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	ds.recorder.RecordDBOperation(operation, status, time.Since(start))
}

func (ds *DataStore) ready() error {
	if ds.DB == nil {
		return errors.Newf("database connection is not initialized").
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}
	return nil
}

// SaveIdea inserts idea in its own transaction. ID and CreatedAt are set on
// success.
func (ds *DataStore) SaveIdea(ctx context.Context, idea *CommunityIdea) (err error) {
	if err := ds.ready(); err != nil {
		return err
	}
	start := time.Now()
	defer func() { ds.record("save_idea", start, err) }()

	if strings.TrimSpace(idea.Author) == "" || strings.TrimSpace(idea.Idea) == "" {
		return validationError("idea author and text are required", "idea", idea.Author)
	}

	err = ds.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(idea).Error
	})
	if err != nil {
		return dbError(err, "save_idea", "author", idea.Author)
	}
	return nil
}

// ListIdeas returns every idea ordered by id.
func (ds *DataStore) ListIdeas(ctx context.Context) (ideas []CommunityIdea, err error) {
	if err := ds.ready(); err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() { ds.record("list_ideas", start, err) }()

	if err = ds.DB.WithContext(ctx).Order("id ASC").Find(&ideas).Error; err != nil {
		return nil, dbError(err, "list_ideas")
	}
	return ideas, nil
}

// CountWasteData returns the number of reference rows.
func (ds *DataStore) CountWasteData(ctx context.Context) (int64, error) {
	if err := ds.ready(); err != nil {
		return 0, err
	}
	var n int64
	if err := ds.DB.WithContext(ctx).Model(&WasteData{}).Count(&n).Error; err != nil {
		return 0, dbError(err, "count_waste_data")
	}
	return n, nil
}

// closeDB closes the pool behind db.
func closeDB(db *gorm.DB, dbType string) error {
	if db == nil {
		return errors.Newf("database connection is not initialized").
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}
	sqlDB, err := db.DB()
	if err != nil {
		return dbError(err, "close", "db_type", dbType)
	}
	if err := sqlDB.Close(); err != nil {
		return dbError(err, "close", "db_type", dbType)
	}
	GetLogger().Debug("database connection closed", logger.String("db_type", dbType))
	return nil
}

// performAutoMigration creates or updates the schema and seeds the
// reference table. Running it again is a no-op.
func performAutoMigration(db *gorm.DB, dbType, connectionInfo string) error {
	if err := db.AutoMigrate(&WasteData{}, &CommunityIdea{}); err != nil {
		return dbError(err, "auto_migrate", "db_type", dbType)
	}
	if err := seedWasteData(db); err != nil {
		return err
	}

	GetLogger().Info("database initialized",
		logger.String("db_type", dbType),
		logger.String("location", connectionInfo))
	return nil
}

// seedWasteData fills waste_data with one row per category suggestion when
// the table is empty.
func seedWasteData(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&WasteData{}).Count(&n).Error; err != nil {
			return dbError(err, "seed_waste_data")
		}
		if n > 0 {
			return nil
		}

		var rows []WasteData
		for _, cat := range taxonomy.Categories() {
			method := string(taxonomy.MethodOf(cat))
			for _, idea := range taxonomy.SuggestionsFor(cat) {
				rows = append(rows, WasteData{
					WasteType:     string(cat),
					Description:   method,
					UpcyclingIdea: idea,
				})
			}
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.Create(&rows).Error; err != nil {
			return dbError(err, "seed_waste_data")
		}
		GetLogger().Debug("seeded waste reference table", logger.Int("rows", len(rows)))
		return nil
	})
}

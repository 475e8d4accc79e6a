package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	gorm_logger "gorm.io/gorm/logger"
)

// GormLoggerAdapter adapts Logger to GORM's logger.Interface.
// SQL statements are logged at TRACE level so they only appear when the
// datastore module is configured for "trace".
type GormLoggerAdapter struct {
	logger        Logger
	slowThreshold time.Duration
}

// NewGormLoggerAdapter creates a new GORM logger adapter. Queries slower than
// slowThreshold are logged at WARN; 0 disables slow query warnings.
func NewGormLoggerAdapter(log Logger, slowThreshold time.Duration) *GormLoggerAdapter {
	if log == nil {
		log = NewSlogLogger(nil, LogLevelInfo, nil)
	}
	return &GormLoggerAdapter{
		logger:        log,
		slowThreshold: slowThreshold,
	}
}

// LogMode returns the adapter itself; levels come from the central logger config.
func (a *GormLoggerAdapter) LogMode(_ gorm_logger.LogLevel) gorm_logger.Interface {
	return a
}

func (a *GormLoggerAdapter) Info(_ context.Context, msg string, data ...any) {
	a.logger.Debug(fmt.Sprintf(msg, data...))
}

func (a *GormLoggerAdapter) Warn(_ context.Context, msg string, data ...any) {
	a.logger.Warn(fmt.Sprintf(msg, data...))
}

func (a *GormLoggerAdapter) Error(_ context.Context, msg string, data ...any) {
	a.logger.Error(fmt.Sprintf(msg, data...))
}

// Trace logs SQL statements. Errors other than ErrRecordNotFound and slow
// queries are raised to WARN.
func (a *GormLoggerAdapter) Trace(_ context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		a.logger.Warn("query error",
			String("sql", sql),
			Int64("rows_affected", rows),
			Int64("duration_ms", elapsed.Milliseconds()),
			Error(err))
	case a.slowThreshold > 0 && elapsed > a.slowThreshold:
		a.logger.Warn("slow query",
			String("sql", sql),
			Int64("rows_affected", rows),
			Int64("duration_ms", elapsed.Milliseconds()),
			Duration("threshold", a.slowThreshold))
	default:
		a.logger.Trace("sql query",
			String("sql", sql),
			Int64("rows_affected", rows),
			Int64("duration_ms", elapsed.Milliseconds()))
	}
}

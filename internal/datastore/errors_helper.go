package datastore

import (
	"fmt"

	drivermysql "github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"

	"github.com/tphakala/smartwaste/internal/errors"
)

// dbError creates a categorized database error with context pairs.
func dbError(err error, operation string, context ...any) error {
	builder := errors.New(err).
		Component("datastore").
		Category(errors.CategoryDatabase).
		Context("operation", operation)

	if kind := classifyDBError(err); kind != "" {
		builder = builder.Context("error_kind", kind)
		if kind == "busy" || kind == "locked" {
			builder = builder.Category(errors.CategoryTimeout)
		}
	}

	for i := 0; i < len(context)-1; i += 2 {
		if key, ok := context[i].(string); ok {
			builder = builder.Context(key, context[i+1])
		}
	}
	return builder.Build()
}

// validationError creates a validation error for rejected input.
func validationError(message, field string, value any) error {
	return errors.Newf("%s", message).
		Component("datastore").
		Category(errors.CategoryValidation).
		Context("field", field).
		Context("value", fmt.Sprintf("%v", value)).
		Build()
}

// classifyDBError names driver level failures from SQLite and MySQL.
func classifyDBError(err error) string {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrBusy:
			return "busy"
		case sqlite3.ErrLocked:
			return "locked"
		case sqlite3.ErrConstraint:
			return "constraint"
		case sqlite3.ErrFull:
			return "disk_full"
		case sqlite3.ErrCorrupt, sqlite3.ErrNotADB:
			return "corrupt"
		default:
			return "sqlite"
		}
	}

	var mysqlErr *drivermysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1062:
			return "constraint"
		case 1205, 1213:
			return "locked"
		case 1045, 1044:
			return "access_denied"
		default:
			return "mysql"
		}
	}
	return ""
}

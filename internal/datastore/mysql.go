package datastore

import (
	"net"
	"time"

	drivermysql "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/tphakala/smartwaste/internal/conf"
	"github.com/tphakala/smartwaste/internal/logger"
)

const mysqlTimeout = "10s"

// MySQLStore implements Interface for MySQL
type MySQLStore struct {
	DataStore
	Settings *conf.Settings
}

// dsn builds the connection string with mysql.Config so credentials are
// escaped properly.
func (store *MySQLStore) dsn() string {
	s := store.Settings.Output.MySQL
	cfg := drivermysql.Config{
		User:                 s.Username,
		Passwd:               s.Password,
		Net:                  "tcp",
		Addr:                 net.JoinHostPort(s.Host, s.Port),
		DBName:               s.Database,
		AllowNativePasswords: true,
		Params: map[string]string{
			"charset":      "utf8mb4",
			"parseTime":    "True",
			"loc":          "Local",
			"timeout":      mysqlTimeout,
			"readTimeout":  mysqlTimeout,
			"writeTimeout": mysqlTimeout,
		},
	}
	return cfg.FormatDSN()
}

// Open connects to MySQL and migrates.
func (store *MySQLStore) Open() error {
	s := store.Settings.Output.MySQL
	db, err := gorm.Open(mysql.Open(store.dsn()), &gorm.Config{
		Logger: logger.NewGormLoggerAdapter(GetLogger(), 200*time.Millisecond),
	})
	if err != nil {
		GetLogger().Error("failed to open MySQL database",
			logger.String("host", s.Host),
			logger.String("port", s.Port),
			logger.String("database", s.Database),
			logger.Error(err))
		return dbError(err, "open", "db_type", "mysql", "host", s.Host)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	store.DB = db
	return performAutoMigration(db, "MySQL", net.JoinHostPort(s.Host, s.Port)+"/"+s.Database)
}

// Close closes the MySQL connection pool.
func (store *MySQLStore) Close() error {
	return closeDB(store.DB, "mysql")
}

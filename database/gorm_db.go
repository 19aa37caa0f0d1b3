package database

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/camden-git/dwhbackend/logging"
	"github.com/camden-git/dwhbackend/models"
)

// sqliteParams are appended to every DSN. Foreign keys must be on for each
// pooled connection, otherwise the RESTRICT constraints on person_vehicles
// are silently ignored.
var sqliteParams = []string{
	"_foreign_keys=1",
	"_busy_timeout=5000",
	"_journal_mode=WAL",
}

// DSN builds a go-sqlite3 data source name for the given database path.
func DSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + strings.Join(sqliteParams, "&")
}

// InitGormDB initializes and returns a GORM database instance
func InitGormDB(path string, logLevel gormlogger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(DSN(path)), &gorm.Config{
		Logger: logging.GormLogger(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database using GORM: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB from GORM: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	if path == ":memory:" {
		// every connection would otherwise get its own empty database
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetConnMaxLifetime(0)
	}

	slog.Info("GORM database initialized", "path", path)
	return db, nil
}

// AutoMigrateModels creates or updates the warehouse tables.
func AutoMigrateModels(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Person{},
		&models.Vehicle{},
		&models.PersonVehicle{},
	)
	if err != nil {
		return fmt.Errorf("GORM AutoMigrate failed: %w", err)
	}
	slog.Debug("GORM AutoMigrate completed")
	return nil
}

// Open is InitGormDB followed by AutoMigrateModels.
func Open(path string, logLevel gormlogger.LogLevel) (*gorm.DB, error) {
	db, err := InitGormDB(path, logLevel)
	if err != nil {
		return nil, err
	}
	if err := AutoMigrateModels(db); err != nil {
		Close(db)
		return nil, err
	}
	return db, nil
}

// Close releases the connection pool behind a GORM handle.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

package persistence

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shipdesk/backend/internal/infrastructure/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database is the service's postgres connection: a GORM session for the
// repositories and the pooled sql.DB beneath it.
type Database struct {
	DB  *gorm.DB
	sql *sql.DB
}

// NewDatabaseWithLogger opens the database, sizes the pool and verifies connectivity
func NewDatabaseWithLogger(cfg *config.DatabaseConfig, gormLogger logger.Interface) (*Database, error) {
	gormDB, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db, err := wrap(gormDB)
	if err != nil {
		return nil, err
	}
	db.sql.SetMaxOpenConns(cfg.MaxOpenConns)
	db.sql.SetMaxIdleConns(cfg.MaxIdleConns)
	db.sql.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	db.sql.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func wrap(gormDB *gorm.DB) (*Database, error) {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return &Database{DB: gormDB, sql: sqlDB}, nil
}

// Pool returns the connection pool, e.g. for pool metrics
func (d *Database) Pool() *sql.DB {
	return d.sql
}

// Ping checks the connection; it backs the health endpoint
func (d *Database) Ping() error {
	return d.sql.Ping()
}

// Close releases every pooled connection
func (d *Database) Close() error {
	return d.sql.Close()
}

// Package postgres stores accounts and notes in PostgreSQL through GORM.
package postgres

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Config holds connection settings
type Config struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
	AutoMigrate  bool
}

// DB wraps the GORM handle shared by the repositories
type DB struct {
	db     *gorm.DB
	logger *zap.Logger
}

// Open connects to PostgreSQL and optionally creates the schema
func Open(ctx context.Context, cfg Config, logger *zap.Logger) (*DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying db: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	store := &DB{db: db, logger: logger}
	if cfg.AutoMigrate {
		if err := store.Migrate(ctx); err != nil {
			return nil, err
		}
	}

	return store, nil
}

// NewDB wraps an existing GORM handle
func NewDB(db *gorm.DB, logger *zap.Logger) *DB {
	return &DB{db: db, logger: logger}
}

// Migrate creates the users and notes tables and their indexes
func (d *DB) Migrate(ctx context.Context) error {
	d.logger.Info("Running postgres schema migration")
	if err := d.db.WithContext(ctx).AutoMigrate(&userModel{}, &noteModel{}); err != nil {
		return fmt.Errorf("migration: %w", err)
	}
	d.logger.Info("Postgres schema migration complete")
	return nil
}

// Ping checks the connection
func (d *DB) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool
func (d *DB) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

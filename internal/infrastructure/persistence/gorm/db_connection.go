// Package gorm provides the relational implementation of the repository
// interfaces, backed by PostgreSQL in production and SQLite for local use.
package gorm

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/promoflow/threshold-service/internal/config"
	"github.com/promoflow/threshold-service/internal/domain/repository"
	"github.com/promoflow/threshold-service/pkg/logger"
)

// DB wraps the gorm handle and exposes repository views plus transactions.
type DB struct {
	db  *gorm.DB
	log logger.Logger
}

// NewDB opens the configured database and migrates the schema.
func NewDB(cfg *config.DatabaseConfig, log logger.Logger) (*DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&thresholdDBM{}, &auditEntryDBM{}, &configurationDBM{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	log.Info(context.Background(), "Database connection established",
		logger.String("driver", cfg.Driver))

	return &DB{db: db, log: log}, nil
}

// NewDBFromHandle wraps an existing gorm handle. Used by tests.
func NewDBFromHandle(db *gorm.DB, log logger.Logger) (*DB, error) {
	if err := db.AutoMigrate(&thresholdDBM{}, &auditEntryDBM{}, &configurationDBM{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &DB{db: db, log: log}, nil
}

// Repositories returns repository views bound to the shared connection.
func (d *DB) Repositories() repository.Repositories {
	return repositoriesOf(d.db)
}

// InTx runs fn against transaction-bound repositories; all writes commit
// together or roll back together.
func (d *DB) InTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(repositoriesOf(tx))
	})
}

// Ping verifies connectivity for readiness probes.
func (d *DB) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool.
func (d *DB) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func repositoriesOf(db *gorm.DB) repository.Repositories {
	return repository.Repositories{
		Thresholds:     &thresholdRepository{db: db},
		Audit:          &auditRepository{db: db},
		Configurations: &configurationRepository{db: db},
	}
}

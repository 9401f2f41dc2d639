package core

import (
	"context"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MohsenMaaleki/windsightai/core/models"
)

type LogLevel int

const (
	LogLevelSilent LogLevel = iota + 1
	LogLevelError
	LogLevelWarn
	LogLevelInfo
)

// DatabaseManager owns the connection pool. Handlers acquire a
// request-scoped session through Exec and never hold connections across
// requests.
type DatabaseManager struct {
	db *gorm.DB
}

// NewMySQL opens the production pool. dsn must include parseTime=True.
func NewMySQL(dsn string, maxConnection int, level LogLevel) (*DatabaseManager, error) {
	return open(mysql.Open(dsn), maxConnection, level)
}

// NewSQLite opens a file-backed store. Used by tests and single-node
// deployments; the driver is pure Go so there is no cgo requirement.
func NewSQLite(path string, level LogLevel) (*DatabaseManager, error) {
	return open(sqlite.Open(path), 1, level)
}

func open(dialector gorm.Dialector, maxConnection int, level LogLevel) (*DatabaseManager, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(gormLogLevel(level)),
		TranslateError: true, // duplicate-key violations surface as gorm.ErrDuplicatedKey
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(maxConnection)
	sqlDB.SetMaxIdleConns(maxConnection)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping pool: %w", err)
	}

	return &DatabaseManager{db: db}, nil
}

func gormLogLevel(level LogLevel) logger.LogLevel {
	switch level {
	case LogLevelError:
		return logger.Error
	case LogLevelWarn:
		return logger.Warn
	case LogLevelInfo:
		return logger.Info
	default:
		return logger.Silent
	}
}

// Migrate creates or updates the four tables, including the composite
// unique index guarding the one-active-subscription invariant.
func (dm *DatabaseManager) Migrate() error {
	return dm.db.AutoMigrate(
		&models.Account{},
		&models.Upload{},
		&models.Analysis{},
		&models.Subscription{},
	)
}

// DB returns the shared session. Prefer Exec for request handling.
func (dm *DatabaseManager) DB() *gorm.DB {
	return dm.db
}

// Exec runs fn with a context-bound session. The connection returns to
// the pool when fn exits, success or failure.
func (dm *DatabaseManager) Exec(ctx context.Context, fn func(db *gorm.DB) error) error {
	return fn(dm.db.WithContext(ctx))
}

// Close closes the pool.
func (dm *DatabaseManager) Close() error {
	sqlDB, err := dm.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"userportal/internal/model"
)

// connectAttempts bounds how often Open retries a failing connection.
const connectAttempts = 5

// NewMySQL returns a connected GORM DB instance.
func NewMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	return db, nil
}

// NewSQLite returns a GORM DB backed by SQLite. dsn may be a file path or a
// "file::memory:" style URI.
func NewSQLite(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}
	return db, nil
}

// Open connects with the named driver, retrying with exponential backoff, and
// verifies the connection with a ping.
func Open(ctx context.Context, driver, dsn string) (*gorm.DB, error) {
	backoff := retry.WithMaxRetries(connectAttempts-1, retry.NewExponential(500*time.Millisecond))

	var gormDB *gorm.DB
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		switch driver {
		case "mysql":
			gormDB, err = NewMySQL(dsn)
		case "sqlite":
			gormDB, err = NewSQLite(dsn)
		default:
			return fmt.Errorf("unsupported driver %q", driver)
		}
		if err == nil {
			err = ping(ctx, gormDB)
		}
		if err != nil {
			slog.WarnContext(ctx, "database connect failed", "driver", driver, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return gormDB, nil
}

// Migrate creates or updates the schema.
func Migrate(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

func ping(ctx context.Context, gormDB *gorm.DB) error {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// gormConfig enables error translation so unique index violations surface as
// gorm.ErrDuplicatedKey regardless of driver.
func gormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}
}

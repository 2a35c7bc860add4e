// Package db 提供 GORM 初始化、连接池配置与慢查询日志
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgLogger "github.com/fangzhou-tech/flipops/pkg/logger"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config 数据库配置
type Config struct {
	Driver             string
	DSN                string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetime    int
	LogEnabled         bool
	SlowQueryThreshold int
}

// Init 初始化数据库连接
func Init(cfg Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	gormLogger := newGormLogger(cfg.LogEnabled, time.Duration(cfg.SlowQueryThreshold)*time.Millisecond)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	if err := sqlDB.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	pkgLogger.Info(context.Background(), "Database connected successfully", "driver", cfg.Driver)

	return db, nil
}

// gormLogger 将 GORM 日志转发到 slog，并在超过阈值时记录慢查询
type gormLogger struct {
	enabled       bool
	slowThreshold time.Duration
}

func newGormLogger(enabled bool, slowThreshold time.Duration) logger.Interface {
	return &gormLogger{enabled: enabled, slowThreshold: slowThreshold}
}

func (l *gormLogger) LogMode(logger.LogLevel) logger.Interface {
	return l
}

func (l *gormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.enabled {
		pkgLogger.Info(ctx, fmt.Sprintf(msg, args...))
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.enabled {
		pkgLogger.Warn(ctx, fmt.Sprintf(msg, args...))
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.enabled {
		pkgLogger.Error(ctx, fmt.Sprintf(msg, args...))
	}
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		pkgLogger.Error(ctx, "SQL error", "sql", sql, "rows", rows, "elapsed", elapsed, "error", err)
	case l.slowThreshold > 0 && elapsed > l.slowThreshold:
		pkgLogger.Warn(ctx, "Slow SQL", "sql", sql, "rows", rows, "elapsed", elapsed)
	case l.enabled:
		pkgLogger.Debug(ctx, "SQL", "sql", sql, "rows", rows, "elapsed", elapsed)
	}
}

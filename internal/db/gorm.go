package db

import (
	"context"

	"taskboard/internal/logger"
	"taskboard/internal/store/gormstore"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormPinger adapts a GORM handle to the health check's Pinger.
type GormPinger struct {
	DB *gorm.DB
}

func (p GormPinger) Ping(ctx context.Context) error {
	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// OpenSQLite opens a GORM handle on the given SQLite file and runs the
// schema migration.
func OpenSQLite(path string) *gorm.DB {
	g, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		logger.Fatal("failed to open sqlite database", "path", path, "error", err)
	}

	if err := gormstore.Migrate(g); err != nil {
		logger.Fatal("failed to migrate sqlite database", "error", err)
	}

	logger.Info("sqlite database ready", "path", path)
	return g
}

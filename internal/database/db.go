package database

import (
	"fmt"
	"time"

	"signboard-admin/internal/config"
	"signboard-admin/internal/logger"
	"signboard-admin/internal/models"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const connectAttempts = 5

// Connect opens the configured database, retrying while it comes up, and
// migrates the schema. It stops the process if the database never answers.
func Connect(cfg config.Config) *gorm.DB {
	log := zap.L().With(zap.String("driver", cfg.DBDriver))

	if cfg.DBDSN == "" {
		log.Fatal("DB_DSN not set. Please configure your database.")
	}

	level := gormlogger.Warn
	if !cfg.IsProduction() {
		level = gormlogger.Info
	}

	var (
		db  *gorm.DB
		err error
	)
	for i := 0; i < connectAttempts; i++ {
		db, err = Open(cfg.DBDriver, cfg.DBDSN, level)
		if err == nil {
			break
		}
		log.Warn("failed to connect to database, retrying in 2 seconds",
			zap.Int("attempt", i+1), zap.Int("max_attempts", connectAttempts), zap.Error(err))
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		log.Fatal("failed to connect to database", zap.Int("attempts", connectAttempts), zap.Error(err))
	}
	log.Info("connected to database")

	if err := Migrate(db); err != nil {
		log.Fatal("schema migration failed", zap.Error(err))
	}
	log.Info("database schema synced")

	return db
}

// Open connects with GORM for one of mysql, postgres or sqlite.
func Open(driver, dsn string, level gormlogger.LogLevel) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "postgres", "postgresql":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	return gorm.Open(dialector, &gorm.Config{
		Logger: logger.NewGormLogger(level),
	})
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Record{},
	)
}

package database

import (
	"fmt"

	sqlite "github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/folioworks/folio/backend/internal/catalog"
	"github.com/folioworks/folio/backend/internal/comments"
	"github.com/folioworks/folio/backend/internal/config"
	"github.com/folioworks/folio/backend/internal/contact"
	"github.com/folioworks/folio/backend/internal/content"
	"github.com/folioworks/folio/backend/internal/engagement"
	"github.com/folioworks/folio/backend/internal/gallery"
)

// Open establishes the configured database connection and performs schema
// migrations. TranslateError normalizes driver-specific constraint failures
// into gorm.ErrDuplicatedKey so the like toggle can detect races portably.
func Open(cfg config.AppConfig, logger *zap.Logger) (*gorm.DB, error) {
	gormConfig := &gorm.Config{TranslateError: true}

	var db *gorm.DB
	var err error
	switch cfg.DatabaseDriver {
	case config.DriverSQLite:
		db, err = gorm.Open(sqlite.Open(cfg.DatabasePath), gormConfig)
	case config.DriverPostgres:
		db, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), gormConfig)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.DatabaseDriver == config.DriverSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db, logger); err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Info("database initialized", zap.String("driver", cfg.DatabaseDriver))
	}

	return db, nil
}

// Migrate applies the schema and the one-off data migrations.
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	if err := db.AutoMigrate(
		&content.Post{},
		&engagement.Like{},
		&engagement.Share{},
		&comments.Comment{},
		&comments.Reply{},
		&catalog.Project{},
		&catalog.Product{},
		&contact.Message{},
		&gallery.Photo{},
		&gallery.Video{},
		&gallery.Audio{},
		&gallery.Note{},
		&gallery.Quote{},
		&migrationRecord{},
	); err != nil {
		return err
	}

	return applyMigrations(db, logger)
}

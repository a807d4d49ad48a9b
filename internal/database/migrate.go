package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/pageza/alchemorsel-ideas/backend/internal/model"
)

// Models lists every table owned by the service, parents first.
func Models() []interface{} {
	return []interface{}{
		&model.IdeaSession{},
		&model.GeneratedRecipe{},
		&model.Ingredient{},
		&model.Step{},
	}
}

// RunMigrations brings the schema up to date. SQLite uses gorm
// auto-migration; postgres applies the SQL files in migrationsDir.
func RunMigrations(ctx context.Context, db *gorm.DB, migrationsDir string, log zerolog.Logger) error {
	if db.Dialector.Name() == "sqlite" {
		log.Info().Msg("Using GORM auto-migration for SQLite")
		return db.WithContext(ctx).AutoMigrate(Models()...)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	applied, err := ApplySQLMigrations(ctx, sqlDB, migrationsDir)
	if err != nil {
		return err
	}
	for _, name := range applied {
		log.Info().Str("migration", name).Msg("Applied migration")
	}
	return nil
}

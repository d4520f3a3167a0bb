package repository

import (
    "context"
    "fmt"
    "time"

    "github.com/rs/zerolog"
    "github.com/rs/zerolog/log"
    "gorm.io/driver/postgres"
    "gorm.io/gorm"
    gormlogger "gorm.io/gorm/logger"

    "github.com/local/vibedoc/internal/models"
)

// Open connects to postgres and optionally migrates the schema.
func Open(dsn string, migrate bool) (*gorm.DB, error) {
    db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
        Logger: gormlogger.New(zerologPrinter{log.With().Str("component", "gorm").Logger()}, gormlogger.Config{
            SlowThreshold:             time.Second,
            LogLevel:                  gormlogger.Warn,
            IgnoreRecordNotFoundError: true,
        }),
    })
    if err != nil { return nil, fmt.Errorf("open database: %w", err) }
    if migrate {
        if err := Migrate(db); err != nil { return nil, err }
    }
    return db, nil
}

// Migrate creates or updates tables for every model.
func Migrate(db *gorm.DB) error {
    if err := db.AutoMigrate(&models.Project{}, &models.Form{}, &models.Input{}, &models.AdditionalDocument{}); err != nil {
        return fmt.Errorf("auto migrate: %w", err)
    }
    return nil
}

// Ping checks the underlying connection.
func Ping(ctx context.Context, db *gorm.DB) error {
    sqlDB, err := db.DB()
    if err != nil { return err }
    return sqlDB.PingContext(ctx)
}

type zerologPrinter struct{ l zerolog.Logger }

func (p zerologPrinter) Printf(format string, args ...interface{}) {
    p.l.Warn().Msgf(format, args...)
}

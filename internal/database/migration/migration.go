package migration

import (
	"embed"
	"errors"
	"fmt"

	"assettracker/internal/database"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"

	_ "github.com/golang-migrate/migrate/v4/database/postgres" // register postgres DB and SQL
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"  // register sqlite3 DB
	_ "github.com/golang-migrate/migrate/v4/source/file"       // register file source
)

//go:embed postgres/*.sql sqlite3/*.sql
var embedded embed.FS

// Migrate applies all up migrations for dsn. An empty migrationsDir uses the migrations
// compiled into the binary, otherwise files are read from migrationsDir/<backend>.
func Migrate(dsn database.DSN, migrationsDir string, verbose bool, log *zap.Logger) error {
	if !dsn.IsSQL() {
		log.Info("Database migration skipped", zap.String("backend", string(dsn.Backend)))
		return nil
	}

	log.Info("Running database migration", zap.String("backend", string(dsn.Backend)))

	dbMigrate, err := newMigrate(dsn, migrationsDir)
	if err != nil {
		return err
	}
	dbMigrate.Log = NewLogger(log, verbose)
	defer dbMigrate.Close()

	err = dbMigrate.Up()
	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("Database migration: no change needed")
		} else {
			log.Error("Database migration failed", zap.Error(err))
			return err
		}
	}

	return nil
}

func newMigrate(dsn database.DSN, migrationsDir string) (*migrate.Migrate, error) {
	if migrationsDir != "" {
		m, err := migrate.New(fmt.Sprintf("file://%s/%s", migrationsDir, dsn.Backend), dsn.MigrateURL)
		if err != nil {
			return nil, fmt.Errorf("open migrations in %s: %w", migrationsDir, err)
		}
		return m, nil
	}

	source, err := iofs.New(embedded, string(dsn.Backend))
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, dsn.MigrateURL)
	if err != nil {
		return nil, fmt.Errorf("prepare migration: %w", err)
	}
	return m, nil
}

type Logger struct {
	logger  *zap.Logger
	verbose bool
}

func (l *Logger) Printf(format string, v ...any) {
	l.logger.Sugar().Infof("DB Migration: "+format, v...)
}

func (l *Logger) Verbose() bool {
	return l.verbose
}

func NewLogger(logger *zap.Logger, verbose bool) *Logger {
	return &Logger{
		logger:  logger,
		verbose: verbose,
	}
}

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"budget-tracker/internal/config"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// ErrMigrationsNotFound is returned when the migrations directory is missing
var ErrMigrationsNotFound = errors.New("migrations directory not found")

// MigrationRunner applies the SQL schema under db/migrations
type MigrationRunner struct {
	db            *sql.DB
	databaseName  string
	path          string
	readyRetries  int
	readyInterval time.Duration
}

func NewMigrationRunner(db *sql.DB, databaseName string, cfg config.MigrationConfig) *MigrationRunner {
	if cfg.Path == "" {
		cfg.Path = "db/migrations"
	}
	if cfg.ReadyRetries <= 0 {
		cfg.ReadyRetries = 1
	}
	return &MigrationRunner{
		db:            db,
		databaseName:  databaseName,
		path:          cfg.Path,
		readyRetries:  cfg.ReadyRetries,
		readyInterval: cfg.ReadyInterval,
	}
}

// WaitForDatabase pings until the database answers, the retries run out or ctx ends
func (mr *MigrationRunner) WaitForDatabase(ctx context.Context) error {
	log.Println("Waiting for database to be ready...")

	for i := 0; i < mr.readyRetries; i++ {
		err := mr.db.PingContext(ctx)
		if err == nil {
			log.Println("Database is ready!")
			return nil
		}

		log.Printf("Database not ready (attempt %d/%d): %v", i+1, mr.readyRetries, err)
		if i == mr.readyRetries-1 {
			break
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("database readiness wait cancelled: %w", ctx.Err())
		case <-time.After(mr.readyInterval):
		}
	}

	return fmt.Errorf("database not ready after %d attempts", mr.readyRetries)
}

// LatestVersion returns the highest version among the *.up.sql files, or 0
// when there are none. File names follow golang-migrate's NNNNNN_title.up.sql.
func (mr *MigrationRunner) LatestVersion() (uint, error) {
	if _, err := os.Stat(mr.path); os.IsNotExist(err) {
		return 0, ErrMigrationsNotFound
	}

	files, err := filepath.Glob(filepath.Join(mr.path, "*.up.sql"))
	if err != nil {
		return 0, fmt.Errorf("failed to list migrations: %w", err)
	}

	var latest uint
	for _, file := range files {
		prefix, _, found := strings.Cut(filepath.Base(file), "_")
		if !found {
			continue
		}
		v, err := strconv.ParseUint(prefix, 10, 64)
		if err != nil {
			continue
		}
		if uint(v) > latest {
			latest = uint(v)
		}
	}
	return latest, nil
}

// RunMigrations applies every pending up migration. The migrate instance is
// not closed: its postgres driver would close the shared *sql.DB.
func (mr *MigrationRunner) RunMigrations() error {
	if _, err := os.Stat(mr.path); os.IsNotExist(err) {
		log.Printf("Migrations directory not found at %s, skipping migrations", mr.path)
		return nil
	}

	m, err := mr.newMigrate()
	if err != nil {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	// Dirty: the previous run died mid-migration
	if dirty {
		log.Printf("Warning: database is in dirty state at version %d, forcing version", version)
		if err := m.Force(int(version)); err != nil {
			return fmt.Errorf("failed to force version: %w", err)
		}
	}

	log.Printf("Current migration version: %d", version)

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		log.Println("Schema is up to date")
	case err != nil:
		return fmt.Errorf("migration failed: %w", err)
	default:
		newVersion, _, err := m.Version()
		if err != nil {
			return fmt.Errorf("failed to get new migration version: %w", err)
		}
		log.Printf("Successfully applied migrations. New version: %d", newVersion)
	}

	return nil
}

// Status returns the applied version against the latest one on disk
func (mr *MigrationRunner) Status() (applied uint, latest uint, dirty bool, err error) {
	latest, err = mr.LatestVersion()
	if err != nil {
		return 0, 0, false, err
	}

	m, err := mr.newMigrate()
	if err != nil {
		return 0, latest, false, err
	}

	applied, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, latest, false, nil
	}
	return applied, latest, dirty, err
}

func (mr *MigrationRunner) newMigrate() (*migrate.Migrate, error) {
	absPath, err := filepath.Abs(mr.path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for migrations: %w", err)
	}

	driver, err := postgres.WithInstance(mr.db, &postgres.Config{DatabaseName: mr.databaseName})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+absPath, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}

	return m, nil
}

// RunMigrationsIfEnabled runs the SQL migrations when cfg.Migrations.AutoMigrate
// is set. ran reports whether the SQL migration path was taken.
func RunMigrationsIfEnabled(ctx context.Context, db *sql.DB, cfg *config.DatabaseConfig) (ran bool, err error) {
	if !cfg.Migrations.AutoMigrate {
		log.Println("Auto-migration disabled (AUTO_MIGRATE != true)")
		return false, nil
	}

	log.Println("Auto-migration enabled, running migrations...")

	runner := NewMigrationRunner(db, cfg.Name, cfg.Migrations)

	if err := runner.WaitForDatabase(ctx); err != nil {
		return true, fmt.Errorf("database readiness check failed: %w", err)
	}

	if err := runner.RunMigrations(); err != nil {
		return true, fmt.Errorf("migration execution failed: %w", err)
	}

	applied, latest, dirty, err := runner.Status()
	switch {
	case err != nil:
		log.Printf("Warning: failed to get migration status: %v", err)
	case applied < latest:
		log.Printf("Warning: schema at version %d, migrations go up to %d", applied, latest)
	default:
		log.Printf("Migration status - Version: %d, Dirty: %v", applied, dirty)
	}

	return true, nil
}

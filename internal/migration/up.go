package migration

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"github.com/fhuszti/stored-images-ms-go/internal/logger"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func MigrateUp(db *sql.DB) error {
	m, err := newMigrate(db)
	if err != nil {
		return err
	}

	err = m.Up()
	if err == nil || errors.Is(err, migrate.ErrNoChange) {
		return nil
	}

	// if it's a dirty error, roll back to the previous version and retry
	var dirtyErr migrate.ErrDirty
	if !errors.As(err, &dirtyErr) {
		return fmt.Errorf("migration up failed: %w", err)
	}

	prev, err := previousVersion(migrationsFS, dirtyErr.Version)
	if err != nil {
		return err
	}
	logger.Warnf(context.Background(), "database dirty at version %d, forcing back to %d", dirtyErr.Version, prev)
	if ferr := m.Force(prev); ferr != nil {
		return fmt.Errorf("failed to force to version %d: %w", prev, ferr)
	}
	if err2 := m.Up(); err2 != nil && !errors.Is(err2, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed after force: %w", err2)
	}
	return nil
}

// MigrateDown rolls back every migration.
func MigrateDown(db *sql.DB) error {
	m, err := newMigrate(db)
	if err != nil {
		return err
	}
	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration down failed: %w", err)
	}
	return nil
}

func newMigrate(db *sql.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("could not create source driver: %w", err)
	}

	driver, err := mysql.WithInstance(db, &mysql.Config{})
	if err != nil {
		return nil, fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "mysql", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize migration: %w", err)
	}
	return m, nil
}

// previousVersion returns the version preceding dirtyVersion among the embedded
// migrations, or database.NilVersion when dirtyVersion is the first one.
func previousVersion(fsys fs.ReadDirFS, dirtyVersion int) (int, error) {
	entries, err := fsys.ReadDir("migrations")
	if err != nil {
		return 0, fmt.Errorf("dirty at %d but failed to read migrations directory: %w", dirtyVersion, err)
	}

	var versions []int
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".up.sql") {
			continue
		}
		// filename format: <version>_<description>.up.sql
		v, err := strconv.Atoi(strings.SplitN(name, "_", 2)[0])
		if err != nil {
			continue
		}
		versions = append(versions, v)
	}
	sort.Ints(versions)

	for i, v := range versions {
		if v != dirtyVersion {
			continue
		}
		if i == 0 {
			return database.NilVersion, nil
		}
		return versions[i-1], nil
	}
	return 0, fmt.Errorf("dirty version %d is not an embedded migration", dirtyVersion)
}

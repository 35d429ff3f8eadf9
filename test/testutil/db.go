package testutil

import (
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/fhuszti/stored-images-ms-go/internal/migration"
	"github.com/go-sql-driver/mysql"
)

type TestDB struct {
	DB      *sql.DB
	Cleanup func() error
}

// SetupTestDB creates a fresh database named after TEST_DB_DSN's schema plus a timestamp.
func SetupTestDB() (*TestDB, error) {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		return nil, fmt.Errorf("TEST_DB_DSN env-var not set")
	}

	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DSN %q: %w", dsn, err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC

	origName := cfg.DBName
	cfg.DBName = ""
	rootDB, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("open root DB: %w", err)
	}

	dbName := fmt.Sprintf("%s_%d", origName, time.Now().UnixNano())
	if _, err := rootDB.Exec("CREATE DATABASE " + dbName + " CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci"); err != nil {
		rootDB.Close()
		return nil, err
	}

	cfg.DBName = dbName
	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		rootDB.Exec("DROP DATABASE " + dbName)
		rootDB.Close()
		return nil, fmt.Errorf("open test DB %q: %w", dbName, err)
	}

	cleanup := func() error {
		if err := db.Close(); err != nil {
			return err
		}
		if _, err := rootDB.Exec("DROP DATABASE " + dbName); err != nil {
			rootDB.Close()
			return fmt.Errorf("drop database %q: %w", dbName, err)
		}
		return rootDB.Close()
	}

	return &TestDB{DB: db, Cleanup: cleanup}, nil
}

// MigratedDB returns a fresh, migrated database that is dropped when the test ends.
func MigratedDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := SetupTestDB()
	if err != nil {
		t.Fatalf("setup DB: %v", err)
	}
	t.Cleanup(func() {
		if err := testDB.Cleanup(); err != nil {
			t.Errorf("cleanup DB: %v", err)
		}
	})

	if err := migration.MigrateUp(testDB.DB); err != nil {
		t.Fatalf("could not run migrations: %v", err)
	}
	return testDB.DB
}

package testutil

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fhuszti/stored-images-ms-go/internal/logger"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

type MariaDBContainerInfo struct {
	DSN     string
	Cleanup func()
}

// StartMariaDBContainer runs a throwaway MariaDB and returns a DSN pointing at its "testdb" schema name.
// SetupTestDB derives a unique database per test from that name.
func StartMariaDBContainer() (*MariaDBContainerInfo, error) {
	const (
		image        = "mariadb"
		tag          = "10.11"
		rootUser     = "root"
		rootPassword = "root"
		internalPort = "3306/tcp"
	)

	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, fmt.Errorf("could not connect to docker: %w", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: image,
		Tag:        tag,
		Env: []string{
			fmt.Sprintf("MARIADB_ROOT_PASSWORD=%s", rootPassword),
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return nil, fmt.Errorf("could not start mariadb container: %w", err)
	}

	port := resource.GetPort(internalPort)
	if err := pool.Retry(func() error {
		db, err := sql.Open("mysql", fmt.Sprintf("%s:%s@(localhost:%s)/mysql", rootUser, rootPassword, port))
		if err != nil {
			return err
		}
		defer db.Close()
		return db.Ping()
	}); err != nil {
		_ = pool.Purge(resource)
		return nil, fmt.Errorf("mariadb did not become ready: %w", err)
	}

	return &MariaDBContainerInfo{
		DSN: fmt.Sprintf("%s:%s@(localhost:%s)/testdb?parseTime=true", rootUser, rootPassword, port),
		Cleanup: func() {
			if err := pool.Purge(resource); err != nil {
				logger.Warnf(context.Background(), "could not purge mariadb container: %s", err)
			}
		},
	}, nil
}

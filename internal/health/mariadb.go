package health

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fhuszti/stored-images-ms-go/internal/port"
)

type MariaDBChecker struct {
	db *sql.DB
}

var _ port.HealthChecker = (*MariaDBChecker)(nil)

func NewMariaDBChecker(db *sql.DB) *MariaDBChecker {
	return &MariaDBChecker{db: db}
}

func (c *MariaDBChecker) Name() string { return "mariadb" }

func (c *MariaDBChecker) Check(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return fmt.Errorf("mariadb ping: %w", err)
	}
	return nil
}

package db

import (
	"context"
	"fmt"

	"github.com/openstorehq/openstore-backend/pkg/config"
	"github.com/openstorehq/openstore-backend/pkg/logger"
	"gorm.io/gorm"
)

// AdminClient is the privileged store handle. It holds its own connection
// pool (typically a role that bypasses row-level isolation) and is handed
// only to super-admin services; request-path code never sees it. Keeping the
// two handles as distinct types makes the capability split explicit at
// construction time instead of being inferred per query.
type AdminClient struct {
	conn *gorm.DB
}

// NewAdmin boots the privileged GORM client from the admin DSN.
func NewAdmin(ctx context.Context, cfg config.DBConfig, logg *logger.Logger) (*AdminClient, error) {
	if cfg.AdminDSN == "" {
		return nil, fmt.Errorf("admin database DSN is required")
	}

	conn, err := open(cfg.AdminDSN, cfg)
	if err != nil {
		return nil, err
	}

	if logg != nil {
		logg.Info(ctx, "admin database connection established")
	}

	return &AdminClient{conn: conn}, nil
}

// DB returns the underlying GORM connection.
func (c *AdminClient) DB() *gorm.DB {
	return c.conn
}

// Ping verifies the datasource is reachable.
func (c *AdminClient) Ping(ctx context.Context) error {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close shuts down the pooled connections.
func (c *AdminClient) Close() error {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/diillson/revenue-forecast-go/pkg/logger"
)

const (
	DriverPgx    = "pgx"
	DriverPq     = "pq"
	DriverSQLite = "sqlite"
)

var errMissingDSN = errors.New("database DSN is required")

// Options selects the driver and data source.
type Options struct {
	Driver string
	DSN    string
}

// Client wraps a single GORM connection.
type Client struct {
	conn *gorm.DB
}

// New opens a GORM client using the provided options. Failures are returned
// as *types.DatabaseError.
func New(ctx context.Context, opts Options, logg *logger.Logger) (*Client, error) {
	if opts.DSN == "" {
		return nil, wrapError("connect", errMissingDSN)
	}

	dialector, err := dialectorFor(opts)
	if err != nil {
		return nil, wrapError("connect", err)
	}

	gormLogger := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	gormCfg := &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	}

	conn, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, wrapError("connect", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, wrapError("connect", fmt.Errorf("getting sql db handle: %w", err))
	}
	sqlDB.SetMaxOpenConns(1)

	if logg != nil {
		logg.Debug(logg.WithField(ctx, "driver", opts.Driver), "database connection established")
	}

	return &Client{conn: conn}, nil
}

func dialectorFor(opts Options) (gorm.Dialector, error) {
	switch opts.Driver {
	case DriverPgx, "":
		return postgres.New(postgres.Config{
			DSN:                  opts.DSN,
			PreferSimpleProtocol: true,
		}), nil
	case DriverPq:
		return postgres.New(postgres.Config{
			DriverName: "postgres",
			DSN:        opts.DSN,
		}), nil
	case DriverSQLite:
		return sqlite.Open(opts.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
}

// DB returns the underlying GORM connection.
func (c *Client) DB() *gorm.DB {
	return c.conn
}

// Dialect names the SQL dialect of the connection.
func (c *Client) Dialect() string {
	return c.conn.Dialector.Name()
}

// Ping verifies the datasource is reachable.
func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close shuts down the connection.
func (c *Client) Close() error {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Raw wraps GORM's Raw with context propagation.
func (c *Client) Raw(ctx context.Context, query string, args ...any) *gorm.DB {
	return c.conn.WithContext(ctx).Raw(query, args...)
}

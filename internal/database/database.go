// FilePath: internal/database/database.go
package database

import (
	"context"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/relaymon/relayhub/internal/config"
	nuts "github.com/vaudience/go-nuts"
)

// DB is the handle every repository receives
type DB interface {
	Close() error
	Ping(ctx context.Context) error
	GetDB() *sqlx.DB
	// Driver returns the database/sql driver name, "mysql" or "postgres".
	Driver() string
}

type sqlDB struct {
	db     *sqlx.DB
	driver string
}

// New connects to the database described by cfg
func New(cfg config.DatabaseConfig) (DB, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Connect(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("error connecting to %s: %w", cfg.Driver, err)
	}

	nuts.L.Infof("[Database] Connected to %s %s:%d/%s", cfg.Driver, cfg.Host, cfg.Port, cfg.DBName)
	return &sqlDB{db: db, driver: cfg.Driver}, nil
}

// Wrap adapts an already open sqlx handle, e.g. one backed by sqlmock in tests.
func Wrap(db *sqlx.DB, driver string) DB {
	return &sqlDB{db: db, driver: driver}
}

// DSN builds the driver specific connection string
func DSN(cfg config.DatabaseConfig) (string, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
		), nil
	case config.DriverMySQL:
		mc := mysql.NewConfig()
		mc.User = cfg.User
		mc.Passwd = cfg.Password
		mc.Net = "tcp"
		mc.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
		mc.DBName = cfg.DBName
		mc.ParseTime = true
		return mc.FormatDSN(), nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func (d *sqlDB) Close() error {
	return d.db.Close()
}

func (d *sqlDB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

func (d *sqlDB) GetDB() *sqlx.DB {
	return d.db
}

func (d *sqlDB) Driver() string {
	return d.driver
}

// WithConn acquires a dedicated connection for the duration of fn and always releases it
func WithConn(ctx context.Context, db DB, fn func(conn *sqlx.Conn) error) error {
	conn, err := db.GetDB().Connx(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	return fn(conn)
}

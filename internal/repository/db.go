package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/joseph-ayodele/insuregenie/internal/common"
)

// DB bundles the ent SQL driver with the pool that backs it.
type DB struct {
	driver  *entsql.Driver
	dialect string
	pool    *pgxpool.Pool // postgres only
	logger  *slog.Logger
}

// Open connects to the configured store. sqlite goes through modernc.org/sqlite;
// postgres through a pgx pool wrapped as *sql.DB. Both are driven by ent.
func Open(ctx context.Context, cfg common.DatabaseConfig, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("connecting to database", "driver", cfg.Driver)

	switch cfg.Driver {
	case common.DriverSQLite:
		db, err := sql.Open("sqlite", cfg.DSN)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			return nil, dbError("open sqlite", err)
		}
		// one writer at a time
		db.SetMaxOpenConns(1)
		logger.Info("successfully connected to database")
		return &DB{driver: entsql.OpenDB(dialect.SQLite, db), dialect: dialect.SQLite, logger: logger}, nil

	case common.DriverPostgres:
		pc, err := pgxpool.ParseConfig(cfg.DSN)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			return nil, dbError("parse postgres dsn", err)
		}
		if cfg.MaxConns > 0 {
			pc.MaxConns = cfg.MaxConns
		}
		pc.MinConns = cfg.MinConns
		pc.MaxConnLifetime = cfg.MaxConnLifetime
		pc.MaxConnIdleTime = cfg.MaxConnIdleTime
		pc.ConnConfig.RuntimeParams["application_name"] = "insuregenie"
		if cfg.StatementTimeout > 0 {
			pc.ConnConfig.RuntimeParams["statement_timeout"] = fmt.Sprint(cfg.StatementTimeout.Milliseconds())
		}

		dialCtx := ctx
		if cfg.DialTimeout > 0 {
			var cancel context.CancelFunc
			dialCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
			defer cancel()
		}
		pool, err := pgxpool.NewWithConfig(dialCtx, pc)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			return nil, dbError("connect postgres", err)
		}

		db := stdlib.OpenDBFromPool(pool)
		logger.Info("successfully connected to database")
		return &DB{driver: entsql.OpenDB(dialect.Postgres, db), dialect: dialect.Postgres, pool: pool, logger: logger}, nil
	}
	return nil, common.NewAppError(common.CodeConfigError, fmt.Sprintf("unsupported database driver %q", cfg.Driver), common.ErrInvalidInput)
}

// Driver exposes the ent driver, e.g. for schema migration.
func (d *DB) Driver() *entsql.Driver { return d.driver }

// Dialect is the ent dialect name of the open store.
func (d *DB) Dialect() string { return d.dialect }

// Close closes the database connections gracefully
func (d *DB) Close() {
	d.logger.Info("closing database connections")
	if d.driver != nil {
		if err := d.driver.Close(); err != nil {
			d.logger.Error("failed to close ent driver", "error", err)
		}
	}
	if d.pool != nil {
		d.pool.Close()
	}
	d.logger.Info("database connections closed")
}

// HealthCheck pings the store to catch DSN issues early.
func (d *DB) HealthCheck(ctx context.Context, timeout time.Duration) error {
	d.logger.Debug("pinging database")
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := d.driver.DB().PingContext(ctx); err != nil {
		d.logger.Error("database ping failed", "error", err)
		return dbError("ping", err)
	}
	d.logger.Debug("database ping successful")
	return nil
}

func dbError(op string, err error) error {
	return common.NewAppError(common.CodeDatabaseError, fmt.Sprintf("%s: %v", op, err), common.ErrDatabase)
}

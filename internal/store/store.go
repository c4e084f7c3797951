package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"github.com/mariadmin/mariadmin/internal/config"
)

// DefaultHost is the host attribute stamped onto new user rows.
const DefaultHost = "localhost"

// Store is the data-access layer. Every operation borrows a connection from
// one of the two pools, releases it on every exit path, and converts the
// outcome into a Response. No error escapes past this boundary.
type Store struct {
	// admin has no schema selected; only InitDatabase uses it.
	admin *sql.DB
	// pool is bound to the target schema; everything else uses it.
	pool    *sql.DB
	dbName  string
	timeout time.Duration
}

// Open builds the two connection pools from the database configuration.
// It does not dial the server: unreachable servers surface per-operation as
// failure envelopes, not as a startup error.
func Open(cfg config.Database, timeout time.Duration) (*Store, error) {
	admin, err := sql.Open("mysql", dsn(cfg, false))
	if err != nil {
		return nil, fmt.Errorf("failed to open admin pool: %w", err)
	}
	pool, err := sql.Open("mysql", dsn(cfg, true))
	if err != nil {
		admin.Close()
		return nil, fmt.Errorf("failed to open pool: %w", err)
	}

	for _, db := range []*sql.DB{admin, pool} {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	log.Debug().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Name).
		Msg("Store pools configured")

	return NewWithPools(admin, pool, cfg.Name, timeout), nil
}

// NewWithPools wires a Store over existing pools. Tests use it to run the
// layer against an embedded database.
func NewWithPools(admin, pool *sql.DB, dbName string, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = config.DefaultTimeouts().StoreQuery
	}
	return &Store{admin: admin, pool: pool, dbName: dbName, timeout: timeout}
}

// Close releases both pools.
func (s *Store) Close() error {
	aErr := s.admin.Close()
	pErr := s.pool.Close()
	if aErr != nil {
		return aErr
	}
	return pErr
}

// dsn renders the driver DSN, with or without the schema selected.
func dsn(cfg config.Database, withSchema bool) string {
	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	mc.ParseTime = true
	if withSchema {
		mc.DBName = cfg.Name
	}
	return mc.FormatDSN()
}

// acquire borrows a single connection from the given pool under the
// operation timeout. The caller must release the connection and call cancel
// on every exit path.
func (s *Store) acquire(ctx context.Context, pool *sql.DB) (*sql.Conn, context.Context, context.CancelFunc, error) {
	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	conn, err := pool.Conn(opCtx)
	if err != nil {
		cancel()
		return nil, nil, nil, err
	}
	return conn, opCtx, cancel, nil
}

// connFailure is the envelope for errors raised before any statement ran.
func connFailure(op string, err error) *Response {
	log.Warn().Err(err).Str("op", op).Msg("Database connection failed")
	return Failure("Database connection failed: %v", err)
}

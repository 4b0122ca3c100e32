package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // database/sql driver "sqlite3"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/foodtravel/foodmcp/internal/db"
)

// Compile-time check: Store implements db.Pinger.
var _ db.Pinger = (*Store)(nil)

const memoryDSN = ":memory:"

// Store is a SQLite database handle for the restaurant cache.
type Store struct {
	sqlDB  *sql.DB
	gormDB *gorm.DB
}

// Open opens the database at url. Accepted forms: a file path, a
// "sqlite:///path" URL, a "file:" DSN, or ":memory:".
func Open(url string) (*Store, error) {
	dsn := DSN(url)
	if dsn == "" {
		return nil, fmt.Errorf("database url is required")
	}

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if dsn == memoryDSN {
		// every new connection to :memory: is a separate database
		conn.SetMaxOpenConns(1)
	}

	// gorm logs to stdout by default, which carries the MCP stdio stream.
	gormDB, err := gorm.Open(&gormsqlite.Dialector{Conn: conn}, &gorm.Config{
		Logger:               gormlogger.Discard,
		DisableAutomaticPing: true,
	})
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open gorm session: %w", err)
	}

	return &Store{sqlDB: conn, gormDB: gormDB}, nil
}

// DSN converts a configured database URL into a go-sqlite3 DSN.
func DSN(url string) string {
	url = strings.TrimSpace(url)
	switch {
	case strings.HasPrefix(url, "sqlite:///"):
		return strings.TrimPrefix(url, "sqlite:///")
	case strings.HasPrefix(url, "sqlite://"):
		return strings.TrimPrefix(url, "sqlite://")
	default:
		return url
	}
}

// DB exposes the gorm session to repositories.
func (s *Store) DB() *gorm.DB {
	return s.gormDB
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.sqlDB.PingContext(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// WaitForReady polls Ping until the database responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	return db.WaitForReady(ctx, s, timeout)
}

// Close releases the handle.
func (s *Store) Close() {
	_ = s.sqlDB.Close()
}

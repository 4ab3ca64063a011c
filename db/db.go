package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"flyer-builder/logger"
)

// Supported drivers
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// DB holds the database connection
var DB *sql.DB

// Driver is the driver name DB was opened with
var Driver string

// InitDB opens the result store. "sqlite:<path>" and "file:<path>" URLs use the
// embedded SQLite driver; anything else is handed to pgx.
func InitDB(ctx context.Context, databaseURL string) error {
	driver, dsn := ParseURL(databaseURL)
	if dsn == "" {
		return fmt.Errorf("database url is empty")
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	if driver == DriverSQLite {
		// single writer
		conn.SetMaxOpenConns(1)
	}

	// Test the connection
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	DB = conn
	Driver = driver
	logger.GetLogger().Info("✓ Database connection established successfully", zap.String("driver", driver))
	return nil
}

// ParseURL picks the driver for a database URL and returns the DSN to open
func ParseURL(databaseURL string) (driver, dsn string) {
	u := strings.TrimSpace(databaseURL)
	switch {
	case strings.HasPrefix(u, "sqlite://"):
		return DriverSQLite, strings.TrimPrefix(u, "sqlite://")
	case strings.HasPrefix(u, "sqlite:"):
		return DriverSQLite, strings.TrimPrefix(u, "sqlite:")
	case strings.HasPrefix(u, "file:"):
		return DriverSQLite, u
	default:
		return DriverPostgres, u
	}
}

// Rebind rewrites "?" placeholders as "$1, $2..." when the driver is Postgres
func Rebind(query string) string {
	if Driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CloseDB closes the database connection
func CloseDB() error {
	if DB != nil {
		err := DB.Close()
		DB = nil
		Driver = ""
		return err
	}
	return nil
}

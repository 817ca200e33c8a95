package database

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // SQLite driver, registered as "sqlite"
)

const (
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 25
	defaultConnMaxLifetime = 5 * time.Minute
	defaultConnMaxIdleTime = 1 * time.Minute
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// ParseURL maps DATABASE_URL to a database/sql driver name and DSN.
// postgres:// and postgresql:// URLs go to lib/pq; sqlite:// URLs, file: URIs
// and plain paths go to SQLite.
func ParseURL(databaseURL string) (driver string, dsn string, err error) {
	u := strings.TrimSpace(databaseURL)
	switch {
	case u == "":
		return "", "", fmt.Errorf("database URL is empty")
	case strings.HasPrefix(u, "postgres://"), strings.HasPrefix(u, "postgresql://"):
		return DriverPostgres, u, nil
	case strings.HasPrefix(u, "sqlite://"):
		return DriverSQLite, strings.TrimPrefix(u, "sqlite://"), nil
	case strings.HasPrefix(u, "file:"), u == ":memory:", strings.HasSuffix(u, ".db"), strings.HasSuffix(u, ".sqlite"):
		return DriverSQLite, u, nil
	default:
		return "", "", fmt.Errorf("unsupported database URL %q (expected postgres://, sqlite:// or a .db path)", u)
	}
}

// NewConnection opens the database named by databaseURL and pings it.
func NewConnection(databaseURL string) (*sql.DB, string, error) {
	driver, dsn, err := ParseURL(databaseURL)
	if err != nil {
		return nil, "", err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open database connection: %w", err)
	}

	if driver == DriverSQLite {
		// One writer; also keeps a :memory: database alive across calls.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(defaultMaxOpenConns)
		db.SetMaxIdleConns(defaultMaxIdleConns)
		db.SetConnMaxLifetime(defaultConnMaxLifetime)
		db.SetConnMaxIdleTime(defaultConnMaxIdleTime)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, "", fmt.Errorf("failed to ping database: %w", err)
	}

	return db, driver, nil
}

// Migrate creates the tables the bot needs if they are missing.
func Migrate(ctx context.Context, db *sql.DB) error {
	query := `CREATE TABLE IF NOT EXISTS reminder_state (
               channel_id     TEXT PRIMARY KEY,
               last_sent_date TEXT NOT NULL,
               updated_at     TEXT NOT NULL
           )`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("error creating reminder_state table: %w", err)
	}
	return nil
}

var positionalParam = regexp.MustCompile(`\$\d+`)

// rebind rewrites PostgreSQL-style $N placeholders for drivers that expect "?".
// Queries must reference each parameter once, in order.
func rebind(driver, query string) string {
	if driver != DriverSQLite {
		return query
	}
	return positionalParam.ReplaceAllString(query, "?")
}

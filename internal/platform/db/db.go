package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Open opens and verifies a database handle. The service runs on sqlite by
// default; the data tooling targets postgres through the pgx stdlib driver.
// Sqlite handles are pinned to a single connection since the driver
// serializes writers anyway.
func Open(driver, dsn string) (*sql.DB, error) {
	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("openDB: open %s database: %w", driver, err)
	}

	switch driver {
	case "sqlite":
		conn.SetMaxOpenConns(1)
	default:
		conn.SetMaxOpenConns(10)
		conn.SetMaxIdleConns(10)
		conn.SetConnMaxLifetime(30 * time.Minute)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify %s connection: %w", driver, err)
	}

	return conn, nil
}

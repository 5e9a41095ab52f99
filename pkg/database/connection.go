// Package database manages the PostgreSQL connection used in database mode,
// where API descriptions are served from a table instead of local files.
package database

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

// DB is the shared connection pool. Set by Connect, read-only afterwards.
var DB *sql.DB

// Connect opens and verifies the PostgreSQL connection, then applies
// migrations.
func Connect(databaseURL string) error {
	if databaseURL == "" {
		return fmt.Errorf("database URL is empty")
	}
	if !strings.HasPrefix(databaseURL, "postgres://") && !strings.HasPrefix(databaseURL, "postgresql://") {
		return fmt.Errorf("unsupported database URL scheme, expected postgres:// or postgresql://")
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %v", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %v", err)
	}

	DB = db
	log.Println("Database connection established")

	if err := RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %v", err)
	}
	return nil
}

// Close closes the shared connection pool.
func Close() error {
	if DB == nil {
		return nil
	}
	return DB.Close()
}

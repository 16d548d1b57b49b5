package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
)

// DB wraps the pooled connection handle. One DB is created at process
// start and injected into every repository; there is no package-level
// instance.
type DB struct {
	*sqlx.DB
}

// New opens a connection pool against the given Postgres URL and
// verifies it with a ping.
func New(databaseURL string) (*DB, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &DB{DB: db}, nil
}

// EnsureSchema creates the tables if they do not exist. The public id
// FKs cascade on update so re-keying a user carries its profile and
// edges along.
func (db *DB) EnsureSchema(ctx context.Context) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS users (
			internal_id     BIGSERIAL PRIMARY KEY,
			id              TEXT NOT NULL UNIQUE,
			username        TEXT NOT NULL UNIQUE,
			name            TEXT,
			email           TEXT NOT NULL UNIQUE,
			profile_picture TEXT,
			created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS user_profiles (
			user_id       TEXT NOT NULL UNIQUE REFERENCES users(id) ON UPDATE CASCADE,
			birthdate     TEXT,
			location_lat  DOUBLE PRECISION,
			location_long DOUBLE PRECISION,
			interests     TEXT,
			description   TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS follows (
			follower_id TEXT NOT NULL REFERENCES users(id) ON UPDATE CASCADE,
			followed_id TEXT NOT NULL REFERENCES users(id) ON UPDATE CASCADE,
			followed_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (follower_id, followed_id)
		)`,
	}

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

// ClearTables removes every row from all tables in one transaction.
// This is the administrative bulk clear; there is no per-user delete.
func (db *DB) ClearTables(ctx context.Context) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Children first so the user FKs are never violated.
	for _, table := range []string{"follows", "user_profiles", "users"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit clear: %w", err)
	}
	return nil
}

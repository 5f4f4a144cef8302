package favorites

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Gangsta0607/mglv-public-transport-bot/internal/appconf"
	"github.com/Gangsta0607/mglv-public-transport-bot/internal/logging"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var ddl string

type SQLiteConfig struct {
	Path string
	Env  appconf.Environment
}

// SQLiteStore keeps favorites one row per entry. Save replaces a user's rows
// inside a single transaction.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewSQLiteStore(ctx context.Context, config SQLiteConfig, logger *slog.Logger) (*SQLiteStore, error) {
	if config.Env == appconf.Test && config.Path != ":memory:" {
		return nil, fmt.Errorf("favorites database is being created in a file in the test environment: %s", config.Path)
	}

	db, err := sql.Open("sqlite", config.Path)
	if err != nil {
		return nil, err
	}
	// Every new connection to ":memory:" is a separate, empty database.
	if config.Path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error configuring favorites database: %w", err)
	}
	if err := performDatabaseMigration(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error performing database migration: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logging.Component(logger, "favorites").With(slog.String("backend", "sqlite")),
	}, nil
}

func performDatabaseMigration(ctx context.Context, db *sql.DB) error {
	for _, stmt := range strings.Split(ddl, "-- migrate") {
		trimmed := strings.TrimSpace(stmt)
		if trimmed == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, trimmed); err != nil {
			return fmt.Errorf("error executing DDL statement [%s]: %w", trimmed, err)
		}
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context, userID string) (c Collection, err error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT section, fav_key, number, route, stop FROM favorites WHERE user_id = ? ORDER BY section, fav_key`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying favorites: %w", err)
	}
	defer logging.HandleDeferredError(&err, rows.Close, s.logger, "favorites_rows_close")

	c = NewCollection()
	for rows.Next() {
		var section, key string
		var e Entry
		if err := rows.Scan(&section, &key, &e.Number, &e.Route, &e.Stop); err != nil {
			return nil, fmt.Errorf("scanning favorite: %w", err)
		}
		if c[section] == nil {
			c[section] = map[string]Entry{}
		}
		c[section][key] = e
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading favorites: %w", err)
	}
	return c, nil
}

func (s *SQLiteStore) Save(ctx context.Context, userID string, c Collection) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer logging.SafeRollbackWithLogging(tx, s.logger, "favorites save")

	if _, err := tx.ExecContext(ctx, `DELETE FROM favorites WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clearing favorites: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO favorites (user_id, section, fav_key, number, route, stop) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer logging.SafeCloseWithLogging(stmt, s.logger, "favorites insert statement")

	for section, entries := range c {
		for key, e := range entries {
			if _, err := stmt.ExecContext(ctx, userID, section, key, e.Number, e.Route, e.Stop); err != nil {
				return fmt.Errorf("inserting favorite %s: %w", key, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing favorites: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/quickly-ballot/cliparse"
)

// sqlitePragmas are applied to every SQLite connection.
var sqlitePragmas = []string{
	"_pragma=foreign_keys(1)",
	"_pragma=busy_timeout(5000)",
}

// Open connects to the configured database and verifies the connection.
func Open(ctx context.Context, databaseType, url string) (*sql.DB, error) {
	var (
		conn *sql.DB
		err  error
	)
	switch databaseType {
	case cliparse.DatabasePostgres:
		conn, err = sql.Open("postgres", url)
	case cliparse.DatabaseSQLite:
		conn, err = sql.Open("sqlite", sqliteDSN(url))
		if err == nil {
			// One writer at a time; the store's transactions queue on the pool.
			conn.SetMaxOpenConns(1)
		}
	default:
		return nil, fmt.Errorf("unsupported database type %q", databaseType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return conn, nil
}

func sqliteDSN(url string) string {
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + strings.Join(sqlitePragmas, "&")
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The DDL is shared by SQLite and PostgreSQL, so timestamps are always
// written by the application rather than by column defaults.
const schema = `
-- Ballots
CREATE TABLE IF NOT EXISTS ballot (
    id TEXT PRIMARY KEY,
    chairperson TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_ballot_chairperson ON ballot(chairperson);

-- Proposals, addressed by position
CREATE TABLE IF NOT EXISTS proposal (
    ballot_id TEXT NOT NULL REFERENCES ballot(id) ON DELETE CASCADE,
    idx INTEGER NOT NULL CHECK (idx >= 0),
    name TEXT NOT NULL,
    vote_count BIGINT NOT NULL DEFAULT 0 CHECK (vote_count >= 0),
    PRIMARY KEY (ballot_id, idx)
);

-- Voters
CREATE TABLE IF NOT EXISTS voter (
    ballot_id TEXT NOT NULL REFERENCES ballot(id) ON DELETE CASCADE,
    principal TEXT NOT NULL,
    weight BIGINT NOT NULL DEFAULT 0 CHECK (weight >= 0),
    has_voted BOOLEAN NOT NULL DEFAULT FALSE,
    delegated_to TEXT,
    voted_proposal INTEGER,
    PRIMARY KEY (ballot_id, principal)
);

CREATE INDEX IF NOT EXISTS idx_voter_delegated_to ON voter(ballot_id, delegated_to);

-- Journal of accepted operations
CREATE TABLE IF NOT EXISTS ballot_event (
    ballot_id TEXT NOT NULL REFERENCES ballot(id) ON DELETE CASCADE,
    seq INTEGER NOT NULL,
    op TEXT NOT NULL,
    caller TEXT,
    target TEXT,
    proposal INTEGER,
    weight BIGINT NOT NULL DEFAULT 0,
    ip_hash TEXT,
    created_at TIMESTAMP NOT NULL,
    PRIMARY KEY (ballot_id, seq)
);
`

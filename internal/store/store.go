// Package store provides SQLite-backed persistence for chain nodes,
// the heritage lineage closure, and the cost catalog.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS chain_nodes (
	node_id      TEXT PRIMARY KEY,
	node_type    TEXT NOT NULL,
	parent_nodes TEXT NOT NULL DEFAULT '[]',
	metadata     TEXT NOT NULL DEFAULT '{}',
	depth        INTEGER NOT NULL DEFAULT 0,
	created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_chain_nodes_type_depth ON chain_nodes(node_type, depth);

CREATE TABLE IF NOT EXISTS heritage_lineage (
	ancestor_node_id   TEXT NOT NULL,
	descendant_node_id TEXT NOT NULL,
	distance           INTEGER NOT NULL,
	UNIQUE(ancestor_node_id, descendant_node_id)
);

CREATE INDEX IF NOT EXISTS idx_lineage_descendant ON heritage_lineage(descendant_node_id, distance);
CREATE INDEX IF NOT EXISTS idx_lineage_ancestor ON heritage_lineage(ancestor_node_id, distance);

CREATE TABLE IF NOT EXISTS cost_codes (
	code          TEXT PRIMARY KEY,
	description   TEXT NOT NULL DEFAULT '',
	category      TEXT NOT NULL DEFAULT '',
	unit          TEXT NOT NULL DEFAULT 'EA',
	unit_cost     REAL NOT NULL DEFAULT 0,
	material_cost REAL NOT NULL DEFAULT 0,
	labor_cost    REAL NOT NULL DEFAULT 0,
	is_active     INTEGER NOT NULL DEFAULT 1,
	created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_cost_codes_category ON cost_codes(category);

CREATE TABLE IF NOT EXISTS bids (
	bid_number    TEXT PRIMARY KEY,
	project_name  TEXT NOT NULL,
	charging_type TEXT NOT NULL,
	num_ports     INTEGER NOT NULL,
	status        TEXT NOT NULL DEFAULT 'draft',
	line_items    TEXT NOT NULL DEFAULT '[]',
	calculation   TEXT NOT NULL DEFAULT '{}',
	created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_bids_status ON bids(status);
`

// DB wraps a sql.DB with chain and catalog operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// isUniqueViolation reports whether err is a SQLite unique-constraint
// failure.
func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) &&
		se.ExtendedCode == sqlite3.ErrConstraintUnique
}

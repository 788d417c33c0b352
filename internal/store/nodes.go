package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/voltbid/voltbid/internal/apperr"
	"github.com/voltbid/voltbid/internal/models"
)

// InsertNode persists a single chain node. The node_id primary key
// rejects duplicates, which surface as apperr.ErrDuplicateNode.
func (db *DB) InsertNode(n models.ChainNode) error {
	if err := insertNode(db.conn, n); err != nil {
		return err
	}
	return nil
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insertNode(e execer, n models.ChainNode) error {
	parents, err := json.Marshal(nonNil(n.ParentNodes))
	if err != nil {
		return fmt.Errorf("store: marshal parents: %w", err)
	}
	if n.Metadata == nil {
		n.Metadata = map[string]any{}
	}
	meta, err := json.Marshal(n.Metadata)
	if err != nil {
		return fmt.Errorf("store: marshal metadata: %w", err)
	}
	_, err = e.Exec(`
		INSERT INTO chain_nodes (node_id, node_type, parent_nodes, metadata, depth, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, n.NodeID, n.NodeType, string(parents), string(meta), n.Depth, n.CreatedAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", apperr.ErrDuplicateNode, n.NodeID)
		}
		return fmt.Errorf("store: insert node: %w", err)
	}
	return nil
}

// GetNode returns the node with the given id, or apperr.ErrNotFound.
func (db *DB) GetNode(nodeID string) (*models.ChainNode, error) {
	row := db.conn.QueryRow(`
		SELECT node_id, node_type, parent_nodes, metadata, depth, created_at
		FROM chain_nodes WHERE node_id = ?
	`, nodeID)
	n, err := scanNode(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: node %s", apperr.ErrNotFound, nodeID)
		}
		return nil, fmt.Errorf("store: get node: %w", err)
	}
	return n, nil
}

// NodesByIDs returns the nodes whose ids appear in ids, in no
// particular order. Missing ids are simply absent from the result.
func (db *DB) NodesByIDs(ids []string) ([]models.ChainNode, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := db.conn.Query(`
		SELECT node_id, node_type, parent_nodes, metadata, depth, created_at
		FROM chain_nodes WHERE node_id IN (`+placeholders+`)
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("store: nodes by ids: %w", err)
	}
	defer rows.Close()

	var out []models.ChainNode
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *n)
	}
	return out, rows.Err()
}

// RegisterChain persists a new node together with its full ancestor
// closure in a single transaction. Either everything commits or
// nothing does, so readers never observe a node without its lineage.
func (db *DB) RegisterChain(n models.ChainNode, edges []models.LineageEdge) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if err := insertNode(tx, n); err != nil {
		return err
	}
	if err := insertEdges(tx, edges); err != nil {
		return err
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNode(r rowScanner) (*models.ChainNode, error) {
	var (
		n             models.ChainNode
		parents, meta string
		createdAt     time.Time
	)
	if err := r.Scan(&n.NodeID, &n.NodeType, &parents, &meta, &n.Depth, &createdAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(parents), &n.ParentNodes); err != nil {
		return nil, fmt.Errorf("store: decode parents: %w", err)
	}
	if err := json.Unmarshal([]byte(meta), &n.Metadata); err != nil {
		return nil, fmt.Errorf("store: decode metadata: %w", err)
	}
	n.CreatedAt = createdAt
	return &n, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/voltbid/voltbid/internal/apperr"
	"github.com/voltbid/voltbid/internal/models"
)

// InsertEdges bulk-inserts closure rows. A repeated (ancestor,
// descendant) pair violates the unique constraint and surfaces as
// apperr.ErrDuplicateEdge; the engine's registration logic never
// produces one.
func (db *DB) InsertEdges(edges []models.LineageEdge) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck
	if err := insertEdges(tx, edges); err != nil {
		return err
	}
	return tx.Commit()
}

func insertEdges(tx execer, edges []models.LineageEdge) error {
	for _, e := range edges {
		_, err := tx.Exec(`
			INSERT INTO heritage_lineage (ancestor_node_id, descendant_node_id, distance)
			VALUES (?, ?, ?)
		`, e.AncestorNodeID, e.DescendantNodeID, e.Distance)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: (%s, %s)", apperr.ErrDuplicateEdge, e.AncestorNodeID, e.DescendantNodeID)
			}
			return fmt.Errorf("store: insert edge: %w", err)
		}
	}
	return nil
}

// AncestorsOf returns every closure row with the given descendant,
// closest ancestor first. Ties at equal distance order by ancestor id
// so results are deterministic.
func (db *DB) AncestorsOf(nodeID string) ([]models.LineageEdge, error) {
	return db.queryEdges(`
		SELECT ancestor_node_id, descendant_node_id, distance
		FROM heritage_lineage
		WHERE descendant_node_id = ?
		ORDER BY distance, ancestor_node_id
	`, nodeID)
}

// DescendantsOf returns every closure row with the given ancestor.
func (db *DB) DescendantsOf(nodeID string) ([]models.LineageEdge, error) {
	return db.queryEdges(`
		SELECT ancestor_node_id, descendant_node_id, distance
		FROM heritage_lineage
		WHERE ancestor_node_id = ?
		ORDER BY distance, descendant_node_id
	`, nodeID)
}

// DirectChildrenOf returns distance-1 closure rows under the given
// ancestor, ordered by descendant id.
func (db *DB) DirectChildrenOf(nodeID string) ([]models.LineageEdge, error) {
	return db.queryEdges(`
		SELECT ancestor_node_id, descendant_node_id, distance
		FROM heritage_lineage
		WHERE ancestor_node_id = ? AND distance = 1
		ORDER BY descendant_node_id
	`, nodeID)
}

// HasLineage reports whether ancestorID reaches descendantID.
func (db *DB) HasLineage(ancestorID, descendantID string) (bool, error) {
	var one int
	err := db.conn.QueryRow(`
		SELECT 1 FROM heritage_lineage
		WHERE ancestor_node_id = ? AND descendant_node_id = ?
	`, ancestorID, descendantID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("store: has lineage: %w", err)
	}
	return true, nil
}

// CountDescendants returns the number of closure rows under nodeID.
func (db *DB) CountDescendants(nodeID string) (int, error) {
	var count int
	err := db.conn.QueryRow(`
		SELECT count(*) FROM heritage_lineage WHERE ancestor_node_id = ?
	`, nodeID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("store: count descendants: %w", err)
	}
	return count, nil
}

func (db *DB) queryEdges(query string, args ...any) ([]models.LineageEdge, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: query edges: %w", err)
	}
	defer rows.Close()

	var out []models.LineageEdge
	for rows.Next() {
		var e models.LineageEdge
		if err := rows.Scan(&e.AncestorNodeID, &e.DescendantNodeID, &e.Distance); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

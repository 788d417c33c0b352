// Package lathering implements the contextual chain engine: node
// registration with cycle and depth validation, heritage lineage
// queries, chain metrics, and snapshots. The heritage_lineage table
// holds the full transitive closure of the parent DAG, so every read
// is a plain indexed lookup with no graph traversal.
package lathering

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/voltbid/voltbid/internal/apperr"
	"github.com/voltbid/voltbid/internal/models"
	"github.com/voltbid/voltbid/internal/store"
)

// Engine manages chain nodes and their heritage lineage.
type Engine struct {
	db         *store.DB
	maxDepth   int
	cycleCheck bool
}

// NewEngine creates an engine over the given store. maxDepth bounds
// the lathering depth of any registered node; cycleCheck toggles the
// defensive cycle validation on registration.
func NewEngine(db *store.DB, maxDepth int, cycleCheck bool) *Engine {
	return &Engine{db: db, maxDepth: maxDepth, cycleCheck: cycleCheck}
}

// Register validates and persists a new chain node along with its full
// ancestor closure. Validation order: duplicate id, cycle, parent
// existence, depth limit; the first violation wins and nothing is
// persisted on failure.
func (e *Engine) Register(nodeID, nodeType string, parentIDs []string, metadata map[string]any) (*models.ChainNode, error) {
	if _, err := e.db.GetNode(nodeID); err == nil {
		return nil, fmt.Errorf("%w: %s", apperr.ErrDuplicateNode, nodeID)
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	if e.cycleCheck {
		cycle, err := e.wouldCreateCycle(nodeID, parentIDs)
		if err != nil {
			return nil, err
		}
		if cycle {
			return nil, fmt.Errorf("%w: registering %s would close a cycle", apperr.ErrCircularDependency, nodeID)
		}
	}

	depth, err := e.depthFromParents(parentIDs)
	if err != nil {
		return nil, err
	}
	if depth > e.maxDepth {
		return nil, fmt.Errorf("%w: depth %d exceeds maximum %d", apperr.ErrDepthLimitExceeded, depth, e.maxDepth)
	}

	edges, err := e.closureFor(nodeID, parentIDs)
	if err != nil {
		return nil, err
	}

	node := models.ChainNode{
		NodeID:      nodeID,
		NodeType:    nodeType,
		ParentNodes: slices.Clone(parentIDs),
		Metadata:    metadata,
		Depth:       depth,
		CreatedAt:   time.Now().UTC(),
	}
	if node.ParentNodes == nil {
		node.ParentNodes = []string{}
	}
	if node.Metadata == nil {
		node.Metadata = map[string]any{}
	}

	// The node_id primary key is the backstop against two concurrent
	// registrations racing past the duplicate check above: the loser's
	// transaction fails with ErrDuplicateNode and rolls back.
	if err := e.db.RegisterChain(node, edges); err != nil {
		return nil, err
	}

	slog.Info("registered chain node",
		slog.String("node_id", nodeID),
		slog.String("node_type", nodeType),
		slog.Int("depth", depth),
		slog.Int("ancestors", len(edges)))
	return &node, nil
}

// Depth returns the stored lathering depth of a node.
func (e *Engine) Depth(nodeID string) (int, error) {
	node, err := e.db.GetNode(nodeID)
	if err != nil {
		return 0, err
	}
	return node.Depth, nil
}

// HeritageLineage returns all ancestor ids of a node, closest first.
func (e *Engine) HeritageLineage(nodeID string) ([]string, error) {
	if _, err := e.db.GetNode(nodeID); err != nil {
		return nil, err
	}
	edges, err := e.db.AncestorsOf(nodeID)
	if err != nil {
		return nil, err
	}
	lineage := make([]string, len(edges))
	for i, edge := range edges {
		lineage[i] = edge.AncestorNodeID
	}
	return lineage, nil
}

// AnalyzeChainMetrics computes ancestry and descendant statistics for
// a node.
func (e *Engine) AnalyzeChainMetrics(nodeID string) (*models.ChainMetrics, error) {
	node, err := e.db.GetNode(nodeID)
	if err != nil {
		return nil, err
	}
	ancestors, err := e.db.AncestorsOf(nodeID)
	if err != nil {
		return nil, err
	}
	descendants, err := e.db.CountDescendants(nodeID)
	if err != nil {
		return nil, err
	}

	distribution := map[string]int{}
	if len(ancestors) > 0 {
		ids := make([]string, len(ancestors))
		for i, edge := range ancestors {
			ids[i] = edge.AncestorNodeID
		}
		nodes, err := e.db.NodesByIDs(ids)
		if err != nil {
			return nil, err
		}
		for _, n := range nodes {
			distribution[n.NodeType]++
		}
	}

	return &models.ChainMetrics{
		NodeID:               nodeID,
		NodeType:             node.NodeType,
		LatheringDepth:       node.Depth,
		TotalAncestors:       len(ancestors),
		TotalDescendants:     descendants,
		NodeTypeDistribution: distribution,
		ParentNodes:          node.ParentNodes,
		IsRoot:               len(node.ParentNodes) == 0,
		IsLeaf:               descendants == 0,
		CreatedAt:            node.CreatedAt,
	}, nil
}

// DetectCircularDependencies reports whether the node's declared
// parents would close a cycle under the registration rule. A missing
// node is not a cycle; this is a non-throwing diagnostic probe.
func (e *Engine) DetectCircularDependencies(nodeID string) (bool, error) {
	node, err := e.db.GetNode(nodeID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return e.wouldCreateCycle(nodeID, node.ParentNodes)
}

// depthFromParents computes 1 + max parent depth, or 0 for roots.
// Every declared parent must already exist.
func (e *Engine) depthFromParents(parentIDs []string) (int, error) {
	if len(parentIDs) == 0 {
		return 0, nil
	}
	parents, err := e.db.NodesByIDs(parentIDs)
	if err != nil {
		return 0, err
	}
	depths := make(map[string]int, len(parents))
	for _, p := range parents {
		depths[p.NodeID] = p.Depth
	}
	maxDepth := 0
	for _, id := range parentIDs {
		d, ok := depths[id]
		if !ok {
			return 0, fmt.Errorf("%w: %s", apperr.ErrParentNotFound, id)
		}
		maxDepth = max(maxDepth, d)
	}
	return maxDepth + 1, nil
}

// closureFor builds the new node's closure rows: one distance-1 edge
// per declared parent, plus each parent's own ancestor set shifted one
// level deeper. When parents share an ancestor the minimum distance
// across all contributing parents wins, so the stored closure is
// deterministic regardless of parent declaration order.
func (e *Engine) closureFor(nodeID string, parentIDs []string) ([]models.LineageEdge, error) {
	distances := map[string]int{}
	for _, parentID := range parentIDs {
		if d, ok := distances[parentID]; !ok || 1 < d {
			distances[parentID] = 1
		}
	}
	for _, parentID := range parentIDs {
		ancestors, err := e.db.AncestorsOf(parentID)
		if err != nil {
			return nil, err
		}
		for _, edge := range ancestors {
			d := edge.Distance + 1
			if cur, ok := distances[edge.AncestorNodeID]; !ok || d < cur {
				distances[edge.AncestorNodeID] = d
			}
		}
	}

	ids := make([]string, 0, len(distances))
	for id := range distances {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	edges := make([]models.LineageEdge, 0, len(ids))
	for _, id := range ids {
		edges = append(edges, models.LineageEdge{
			AncestorNodeID:   id,
			DescendantNodeID: nodeID,
			Distance:         distances[id],
		})
	}
	return edges, nil
}

// wouldCreateCycle checks self-reference and whether any proposed
// parent is already a descendant of the node.
func (e *Engine) wouldCreateCycle(nodeID string, parentIDs []string) (bool, error) {
	for _, parentID := range parentIDs {
		if parentID == nodeID {
			return true, nil
		}
		reaches, err := e.db.HasLineage(nodeID, parentID)
		if err != nil {
			return false, err
		}
		if reaches {
			return true, nil
		}
	}
	return false, nil
}

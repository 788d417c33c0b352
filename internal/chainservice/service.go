// Package chainservice is the thin facade callers use to create and
// query contextual chain nodes. All validation and algorithmic work
// lives in the lathering engine.
package chainservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/voltbid/voltbid/internal/apperr"
	"github.com/voltbid/voltbid/internal/lathering"
	"github.com/voltbid/voltbid/internal/models"
)

// NodeAnalysis combines a node's lineage with its chain metrics.
type NodeAnalysis struct {
	NodeID          string               `json:"node_id"`
	LatheringDepth  int                  `json:"lathering_depth"`
	HeritageLineage []string             `json:"heritage_lineage"`
	TotalAncestors  int                  `json:"total_ancestors"`
	ChainMetrics    *models.ChainMetrics `json:"chain_metrics"`
}

// Service wraps the lathering engine with a caller-facing surface.
type Service struct {
	engine *lathering.Engine
}

// NewService creates a chain service over the given engine.
func NewService(engine *lathering.Engine) *Service {
	return &Service{engine: engine}
}

// CreateNode registers a new chain node.
func (s *Service) CreateNode(_ context.Context, nodeID, nodeType string, parentIDs []string, metadata map[string]any) (*models.ChainNode, error) {
	return s.engine.Register(nodeID, nodeType, parentIDs, metadata)
}

// Lineage returns a node's ancestor ids, closest first.
func (s *Service) Lineage(_ context.Context, nodeID string) ([]string, error) {
	return s.engine.HeritageLineage(nodeID)
}

// Analyze returns the combined lineage and metrics view of a node.
func (s *Service) Analyze(_ context.Context, nodeID string) (*NodeAnalysis, error) {
	metrics, err := s.engine.AnalyzeChainMetrics(nodeID)
	if err != nil {
		return nil, err
	}
	lineage, err := s.engine.HeritageLineage(nodeID)
	if err != nil {
		return nil, err
	}
	return &NodeAnalysis{
		NodeID:          nodeID,
		LatheringDepth:  metrics.LatheringDepth,
		HeritageLineage: lineage,
		TotalAncestors:  len(lineage),
		ChainMetrics:    metrics,
	}, nil
}

// DetectCycle is the non-throwing cycle probe.
func (s *Service) DetectCycle(_ context.Context, nodeID string) (bool, error) {
	return s.engine.DetectCircularDependencies(nodeID)
}

// Snapshot renders the chain under rootNodeID.
func (s *Service) Snapshot(_ context.Context, rootNodeID string, includeMetrics bool) (*models.ChainSnapshot, error) {
	return s.engine.Snapshot(rootNodeID, includeMetrics)
}

// ContextualizeBid registers a chain node for a persisted bid whose
// parents are the cost-code nodes referenced by its line items.
// Cost-code nodes are registered lazily as roots the first time a bid
// references them.
func (s *Service) ContextualizeBid(ctx context.Context, bid *models.Bid) (*models.ChainNode, error) {
	seen := map[string]struct{}{}
	var parents []string
	for _, item := range bid.LineItems {
		if _, ok := seen[item.CostCode]; ok {
			continue
		}
		seen[item.CostCode] = struct{}{}

		parentID := "cost-code-" + item.CostCode
		_, err := s.engine.Register(parentID, "cost_code", nil, map[string]any{
			"code": item.CostCode,
			"unit": item.Unit,
		})
		if err != nil && !errors.Is(err, apperr.ErrDuplicateNode) {
			return nil, fmt.Errorf("contextualize bid %s: %w", bid.BidNumber, err)
		}
		parents = append(parents, parentID)
	}

	return s.CreateNode(ctx, "bid-"+bid.BidNumber, "bid", parents, map[string]any{
		"project_name":  bid.ProjectName,
		"charging_type": bid.ChargingType,
		"num_ports":     bid.NumPorts,
		"total_cost":    bid.Calculation.TotalCost,
	})
}

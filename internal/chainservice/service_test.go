package chainservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/voltbid/voltbid/internal/apperr"
	"github.com/voltbid/voltbid/internal/lathering"
	"github.com/voltbid/voltbid/internal/models"
	"github.com/voltbid/voltbid/internal/testutil"
)

func testService(t *testing.T) *Service {
	t.Helper()
	db := testutil.TestDB(t)
	return NewService(lathering.NewEngine(db, 50, true))
}

func TestAnalyzeCombinesLineageAndMetrics(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	if _, err := svc.CreateNode(ctx, "root", "cost_code", nil, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateNode(ctx, "child", "bid", []string{"root"}, nil); err != nil {
		t.Fatal(err)
	}

	analysis, err := svc.Analyze(ctx, "child")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if analysis.LatheringDepth != 1 || analysis.TotalAncestors != 1 {
		t.Errorf("analysis = %+v", analysis)
	}
	if analysis.ChainMetrics == nil || analysis.ChainMetrics.NodeType != "bid" {
		t.Errorf("metrics = %+v", analysis.ChainMetrics)
	}
}

func TestContextualizeBid(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	bid := &models.Bid{
		BidNumber:    "BID-TEST-1",
		ProjectName:  "Garage A",
		ChargingType: models.ChargingL2,
		NumPorts:     2,
		LineItems: []models.BOMLineItem{
			{CostCode: "EQUIP-001", Unit: "EA"},
			{CostCode: "LABOR-001", Unit: "HR"},
			{CostCode: "EQUIP-001", Unit: "EA"}, // repeated code collapses
		},
		Calculation: models.BidCalculation{TotalCost: 1000},
		CreatedAt:   time.Now().UTC(),
	}

	node, err := svc.ContextualizeBid(ctx, bid)
	if err != nil {
		t.Fatalf("ContextualizeBid: %v", err)
	}
	if node.NodeID != "bid-BID-TEST-1" {
		t.Errorf("node id = %q", node.NodeID)
	}
	if len(node.ParentNodes) != 2 {
		t.Errorf("parents = %v, want 2 distinct cost-code roots", node.ParentNodes)
	}
	if node.Metadata["project_name"] != "Garage A" {
		t.Errorf("metadata = %v", node.Metadata)
	}

	// Cost-code roots registered lazily.
	lineage, err := svc.Lineage(ctx, "bid-BID-TEST-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(lineage) != 2 {
		t.Errorf("lineage = %v", lineage)
	}

	// Same bid cannot be contextualized twice.
	_, err = svc.ContextualizeBid(ctx, bid)
	if !errors.Is(err, apperr.ErrDuplicateNode) {
		t.Errorf("second contextualize = %v, want ErrDuplicateNode", err)
	}

	// A second bid reuses the existing cost-code roots.
	second := *bid
	second.BidNumber = "BID-TEST-2"
	if _, err := svc.ContextualizeBid(ctx, &second); err != nil {
		t.Fatalf("second bid: %v", err)
	}
}

func TestDetectCycleProbe(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	if _, err := svc.CreateNode(ctx, "root", "analysis", nil, nil); err != nil {
		t.Fatal(err)
	}
	cycle, err := svc.DetectCycle(ctx, "root")
	if err != nil || cycle {
		t.Errorf("DetectCycle = %v, %v", cycle, err)
	}
}

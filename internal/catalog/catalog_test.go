package catalog

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/voltbid/voltbid/internal/chainservice"
	"github.com/voltbid/voltbid/internal/lathering"
	"github.com/voltbid/voltbid/internal/models"
	"github.com/voltbid/voltbid/internal/store"
	"github.com/voltbid/voltbid/internal/testutil"
)

func testPricing() PricingConfig {
	return PricingConfig{
		MaterialMarkup:        0.10,
		OverheadRate:          0.18,
		ExcavationContingency: 0.15,
		ProfitMargin:          0.27,
		ROIHorizonYears:       10,
	}
}

func testService(t *testing.T) (*store.DB, *Service) {
	t.Helper()
	db := testutil.TestDB(t)
	if err := Seed(db); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	chains := chainservice.NewService(lathering.NewEngine(db, 50, true))
	return db, NewService(db, chains, testPricing())
}

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 0.01 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func l2Spec(ports int) models.ProjectSpec {
	return models.ProjectSpec{
		ProjectName:  "Garage A",
		ChargingType: models.ChargingL2,
		NumPorts:     ports,
	}
}

func TestSeedIdempotent(t *testing.T) {
	db, _ := testService(t)
	if err := Seed(db); err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	codes, err := db.ListCostCodes("", true)
	if err != nil {
		t.Fatal(err)
	}
	if len(codes) != len(seedCostCodes) {
		t.Errorf("catalog has %d codes, want %d", len(codes), len(seedCostCodes))
	}
}

func TestGenerateL2BOM(t *testing.T) {
	_, svc := testService(t)
	items, err := svc.GenerateBOM(l2Spec(4))
	if err != nil {
		t.Fatalf("GenerateBOM: %v", err)
	}
	if len(items) != 10 {
		t.Fatalf("got %d items, want 10", len(items))
	}

	byCode := map[string]models.BOMLineItem{}
	for _, item := range items {
		byCode[item.CostCode] = item
	}
	// 4 stations, one panel per 4 ports, 50 LF default trench per port.
	if q := byCode["EQUIP-001"].Quantity; q != 4 {
		t.Errorf("stations = %v, want 4", q)
	}
	if q := byCode["EQUIP-006"].Quantity; q != 1 {
		t.Errorf("panels = %v, want 1", q)
	}
	if q := byCode["COND-002"].Quantity; q != 200 {
		t.Errorf("conduit = %v, want 200", q)
	}
	if q := byCode["WIRE-001"].Quantity; q != 600 {
		t.Errorf("wire = %v, want 600", q)
	}
	approx(t, "station subtotal", byCode["EQUIP-001"].Subtotal, 10000)
}

func TestGenerateL2BOMPanelRounding(t *testing.T) {
	_, svc := testService(t)
	items, err := svc.GenerateBOM(l2Spec(5))
	if err != nil {
		t.Fatal(err)
	}
	for _, item := range items {
		if item.CostCode == "EQUIP-006" && item.Quantity != 2 {
			t.Errorf("panels for 5 ports = %v, want 2", item.Quantity)
		}
	}
}

func TestGenerateBOMCustomExcavation(t *testing.T) {
	_, svc := testService(t)
	spec := l2Spec(2)
	spec.ExcavationLength = 120
	items, err := svc.GenerateBOM(spec)
	if err != nil {
		t.Fatal(err)
	}
	for _, item := range items {
		if item.CostCode == "SITE-001" && item.Quantity != 120 {
			t.Errorf("trench = %v, want 120", item.Quantity)
		}
	}
}

func TestGenerateDCFastBOM(t *testing.T) {
	_, svc := testService(t)
	items, err := svc.GenerateBOM(models.ProjectSpec{
		ProjectName:  "Travel Plaza",
		ChargingType: models.ChargingDCFast,
		NumPorts:     2,
	})
	if err != nil {
		t.Fatalf("GenerateBOM: %v", err)
	}

	byCode := map[string]models.BOMLineItem{}
	for _, item := range items {
		byCode[item.CostCode] = item
	}
	if q := byCode["EQUIP-003"].Quantity; q != 2 {
		t.Errorf("chargers = %v, want 2", q)
	}
	if q := byCode["EQUIP-008"].Quantity; q != 1 {
		t.Errorf("transformers = %v, want 1", q)
	}
	// Deeper DC trenching runs 50% over the book rate of 12/LF.
	approx(t, "excavation rate", byCode["SITE-001"].UnitCost, 18)
	approx(t, "excavation subtotal", byCode["SITE-001"].Subtotal, 18*150)
}

func TestGenerateBOMUnknownType(t *testing.T) {
	_, svc := testService(t)
	_, err := svc.GenerateBOM(models.ProjectSpec{ChargingType: "WIRELESS", NumPorts: 1})
	if err == nil || !strings.Contains(err.Error(), "unknown charging type") {
		t.Errorf("err = %v", err)
	}
}

func TestCalculateBidMarkupStack(t *testing.T) {
	_, svc := testService(t)
	calc, err := svc.CalculateBid(l2Spec(4))
	if err != nil {
		t.Fatalf("CalculateBid: %v", err)
	}

	approx(t, "material", calc.MaterialCost, 17250)
	approx(t, "labor", calc.LaborCost, 13450)
	approx(t, "subtotal", calc.Subtotal, 30700)
	approx(t, "markup", calc.MaterialMarkupAmount, 1725)
	approx(t, "overhead", calc.OverheadAmount, 5526)
	approx(t, "contingency", calc.ExcavationContingencyAmount, 4605)
	approx(t, "profit", calc.ProfitAmount, 11490.12)
	approx(t, "total", calc.TotalCost, 54046.12)
	approx(t, "per port", calc.CostPerPort, 13511.53)
}

func TestCalculateBidDCExcavationPremium(t *testing.T) {
	_, svc := testService(t)
	calc, err := svc.CalculateBid(models.ProjectSpec{
		ProjectName:  "Travel Plaza",
		ChargingType: models.ChargingDCFast,
		NumPorts:     1,
	})
	if err != nil {
		t.Fatal(err)
	}
	// The 1.5x trenching rate flows into the cost base, not just the
	// line item, so material+labor matches the summed line subtotals.
	items, err := svc.GenerateBOM(models.ProjectSpec{ChargingType: models.ChargingDCFast, NumPorts: 1})
	if err != nil {
		t.Fatal(err)
	}
	var sum float64
	for _, item := range items {
		sum += item.Subtotal
	}
	approx(t, "material+labor", calc.MaterialCost+calc.LaborCost, sum)
}

func TestCalculateROI(t *testing.T) {
	_, svc := testService(t)
	calc := &models.BidCalculation{ProjectName: "Garage A", NumPorts: 4, TotalCost: 50000}

	roi := svc.CalculateROI(calc, 0, 0)
	approx(t, "revenue", roi.TotalAnnualRevenue, 20000)
	approx(t, "operating", roi.AnnualOperatingCost, 3200)
	approx(t, "net", roi.AnnualNetIncome, 16800)
	if roi.PaybackPeriodYears == nil {
		t.Fatal("payback missing")
	}
	approx(t, "payback", *roi.PaybackPeriodYears, 50000.0/16800)
	approx(t, "roi pct", roi.ROIPercentage, 16800.0/50000*100)
	if roi.HorizonYears != 10 {
		t.Errorf("horizon = %d, want 10", roi.HorizonYears)
	}
	approx(t, "horizon profit", roi.HorizonNetProfit, 16800*10-50000)
}

func TestCalculateROINoIncome(t *testing.T) {
	_, svc := testService(t)
	calc := &models.BidCalculation{NumPorts: 2, TotalCost: 50000}

	roi := svc.CalculateROI(calc, 800, 800)
	if roi.PaybackPeriodYears != nil {
		t.Errorf("payback = %v, want nil", *roi.PaybackPeriodYears)
	}
	if roi.AnnualNetIncome != 0 {
		t.Errorf("net = %v, want 0", roi.AnnualNetIncome)
	}
}

func TestCreateBidRegistersChainNode(t *testing.T) {
	_, svc := testService(t)
	ctx := context.Background()

	bid, err := svc.CreateBid(ctx, l2Spec(2))
	if err != nil {
		t.Fatalf("CreateBid: %v", err)
	}
	if !strings.HasPrefix(bid.BidNumber, "BID-") {
		t.Errorf("bid number = %q", bid.BidNumber)
	}
	if bid.Status != models.BidStatusDraft {
		t.Errorf("status = %q", bid.Status)
	}

	got, err := svc.Bid(ctx, bid.BidNumber)
	if err != nil {
		t.Fatalf("Bid: %v", err)
	}
	if len(got.LineItems) != 10 {
		t.Errorf("line items = %d", len(got.LineItems))
	}

	// The bid node hangs under one cost-code root per distinct code.
	analysis, err := svc.chains.Analyze(ctx, "bid-"+bid.BidNumber)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if analysis.LatheringDepth != 1 {
		t.Errorf("depth = %d, want 1", analysis.LatheringDepth)
	}
	if analysis.TotalAncestors != 10 {
		t.Errorf("ancestors = %d, want 10", analysis.TotalAncestors)
	}
}

func TestCreateBidSharedCostCodeRoots(t *testing.T) {
	_, svc := testService(t)
	ctx := context.Background()

	first, err := svc.CreateBid(ctx, l2Spec(2))
	if err != nil {
		t.Fatal(err)
	}
	// A second bid reuses the lazily registered cost-code roots.
	second, err := svc.CreateBid(ctx, l2Spec(6))
	if err != nil {
		t.Fatalf("second CreateBid: %v", err)
	}

	snap, err := svc.chains.Snapshot(ctx, "cost-code-EQUIP-001", false)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.TotalNodes != 3 {
		t.Errorf("total_nodes = %d, want root plus both bids", snap.TotalNodes)
	}
	_, _ = first, second
}

func TestCreateCostCodeUppercases(t *testing.T) {
	_, svc := testService(t)
	ctx := context.Background()

	created, err := svc.CreateCostCode(ctx, models.CostCode{
		Code:        "cust-001",
		Description: "Custom signage",
		Category:    CategorySite,
		Unit:        "EA",
		UnitCost:    40,
	})
	if err != nil {
		t.Fatalf("CreateCostCode: %v", err)
	}
	if created.Code != "CUST-001" {
		t.Errorf("code = %q", created.Code)
	}
	if !created.IsActive {
		t.Error("created code inactive")
	}

	got, err := svc.CostCode(ctx, "cust-001")
	if err != nil || got.Code != "CUST-001" {
		t.Errorf("lookup = %v, %v", got, err)
	}
}

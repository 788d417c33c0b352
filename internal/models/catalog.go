package models

import "time"

// Charging types recognized by BOM generation.
const (
	ChargingL2     = "L2"
	ChargingDCFast = "DC_FAST"
)

// Bid statuses.
const (
	BidStatusDraft     = "draft"
	BidStatusSubmitted = "submitted"
	BidStatusAccepted  = "accepted"
	BidStatusRejected  = "rejected"
)

// CostCode is one priced line item in the construction catalog.
// UnitCost is the blended rate; MaterialCost and LaborCost give the
// split used for markup calculations.
type CostCode struct {
	Code         string    `json:"code"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Unit         string    `json:"unit"`
	UnitCost     float64   `json:"unit_cost"`
	MaterialCost float64   `json:"material_cost"`
	LaborCost    float64   `json:"labor_cost"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// ProjectSpec describes an installation to be priced.
type ProjectSpec struct {
	ProjectName      string  `json:"project_name"`
	ChargingType     string  `json:"charging_type"`
	NumPorts         int     `json:"num_ports"`
	ExcavationLength float64 `json:"excavation_length,omitempty"`
}

// BOMLineItem is one line of a generated bill of materials.
type BOMLineItem struct {
	CostCode    string  `json:"cost_code"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	UnitCost    float64 `json:"unit_cost"`
	Subtotal    float64 `json:"subtotal"`
}

// BidCalculation is a fully priced project: base costs plus markups,
// overhead, contingency, and profit.
type BidCalculation struct {
	ProjectName                 string  `json:"project_name"`
	ChargingType                string  `json:"charging_type"`
	NumPorts                    int     `json:"num_ports"`
	MaterialCost                float64 `json:"material_cost"`
	LaborCost                   float64 `json:"labor_cost"`
	Subtotal                    float64 `json:"subtotal"`
	MaterialMarkup              float64 `json:"material_markup"`
	MaterialMarkupAmount        float64 `json:"material_markup_amount"`
	OverheadRate                float64 `json:"overhead_rate"`
	OverheadAmount              float64 `json:"overhead_amount"`
	ExcavationContingency       float64 `json:"excavation_contingency"`
	ExcavationContingencyAmount float64 `json:"excavation_contingency_amount"`
	ProfitMargin                float64 `json:"profit_margin"`
	ProfitAmount                float64 `json:"profit_amount"`
	TotalCost                   float64 `json:"total_cost"`
	CostPerPort                 float64 `json:"cost_per_port"`
}

// Bid is a persisted bid with its line items and cost breakdown.
type Bid struct {
	BidNumber    string         `json:"bid_number"`
	ProjectName  string         `json:"project_name"`
	ChargingType string         `json:"charging_type"`
	NumPorts     int            `json:"num_ports"`
	Status       string         `json:"status"`
	LineItems    []BOMLineItem  `json:"line_items"`
	Calculation  BidCalculation `json:"calculation"`
	CreatedAt    time.Time      `json:"created_at"`
}

// BenchmarkComparison contrasts a priced bid against published
// competitor rates for the same charging type and port count.
type BenchmarkComparison struct {
	ProjectName            string  `json:"project_name"`
	ChargingType           string  `json:"charging_type"`
	NumPorts               int     `json:"num_ports"`
	CostPerPort            float64 `json:"cost_per_port"`
	TotalCost              float64 `json:"total_cost"`
	KeystoneCostPerPort    float64 `json:"keystone_cost_per_port"`
	KeystoneTotalCost      float64 `json:"keystone_total_cost"`
	GGESCostPerPort        float64 `json:"gges_cost_per_port"`
	GGESTotalCost          float64 `json:"gges_total_cost"`
	KeystoneSavings        float64 `json:"savings_vs_keystone"`
	GGESSavings            float64 `json:"savings_vs_gges"`
	KeystoneSavingsPercent float64 `json:"savings_vs_keystone_percent"`
	GGESSavingsPercent     float64 `json:"savings_vs_gges_percent"`
}

// ROIAnalysis holds return-on-investment projections for a priced bid.
// PaybackPeriodYears is nil when the project never pays back.
type ROIAnalysis struct {
	ProjectName          string   `json:"project_name"`
	InitialInvestment    float64  `json:"initial_investment"`
	AnnualRevenuePerPort float64  `json:"annual_revenue_per_port"`
	TotalAnnualRevenue   float64  `json:"total_annual_revenue"`
	AnnualOperatingCost  float64  `json:"annual_operating_cost"`
	AnnualNetIncome      float64  `json:"annual_net_income"`
	PaybackPeriodYears   *float64 `json:"payback_period_years"`
	ROIPercentage        float64  `json:"roi_percentage"`
	HorizonYears         int      `json:"horizon_years"`
	HorizonNetProfit     float64  `json:"horizon_net_profit"`
	HorizonROIPercentage float64  `json:"horizon_roi_percentage"`
}

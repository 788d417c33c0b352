package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/voltbid/voltbid/internal/models"
)

// CreateNodeRequest is the request body for registering a chain node.
type CreateNodeRequest struct {
	NodeID      string         `json:"node_id"`
	NodeType    string         `json:"node_type"`
	ParentNodes []string       `json:"parent_nodes"`
	Metadata    map[string]any `json:"metadata"`
}

// Validate validates the registration payload.
func (r CreateNodeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.NodeID, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.NodeType, validation.Required, validation.Length(1, 50)),
	)
}

// CreateCostCodeRequest is the request body for adding a catalog entry.
type CreateCostCodeRequest struct {
	Code         string  `json:"code"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	Unit         string  `json:"unit"`
	UnitCost     float64 `json:"unit_cost"`
	MaterialCost float64 `json:"material_cost"`
	LaborCost    float64 `json:"labor_cost"`
}

// Validate validates the cost code payload.
func (r CreateCostCodeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code, validation.Required, validation.Length(1, 50)),
		validation.Field(&r.Unit, validation.Required),
		validation.Field(&r.UnitCost, validation.Min(0.0)),
	)
}

// ProjectSpecRequest is the request body for BOM generation, bid
// creation, and ROI analysis.
type ProjectSpecRequest struct {
	ProjectName          string  `json:"project_name"`
	ChargingType         string  `json:"charging_type"`
	NumPorts             int     `json:"num_ports"`
	ExcavationLength     float64 `json:"excavation_length,omitempty"`
	RevenuePerPort       float64 `json:"annual_revenue_per_port,omitempty"`
	OperatingCostPerPort float64 `json:"annual_operating_cost_per_port,omitempty"`
}

// Validate validates the project spec payload.
func (r ProjectSpecRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProjectName, validation.Required),
		validation.Field(&r.ChargingType, validation.Required,
			validation.In(models.ChargingL2, models.ChargingDCFast)),
		validation.Field(&r.NumPorts, validation.Required, validation.Min(1)),
		validation.Field(&r.ExcavationLength, validation.Min(0.0)),
	)
}

// Spec converts the request to a domain project spec.
func (r ProjectSpecRequest) Spec() models.ProjectSpec {
	return models.ProjectSpec{
		ProjectName:      r.ProjectName,
		ChargingType:     r.ChargingType,
		NumPorts:         r.NumPorts,
		ExcavationLength: r.ExcavationLength,
	}
}

// LineageResponse wraps a heritage lineage listing.
type LineageResponse struct {
	NodeID          string   `json:"node_id"`
	HeritageLineage []string `json:"heritage_lineage"`
}

// CycleCheckResponse wraps the cycle probe result.
type CycleCheckResponse struct {
	NodeID        string `json:"node_id"`
	CycleDetected bool   `json:"cycle_detected"`
}

// CostCodeListResponse wraps a catalog listing.
type CostCodeListResponse struct {
	CostCodes []models.CostCode `json:"cost_codes"`
	Total     int               `json:"total"`
}

// BidListResponse wraps a paginated bid listing.
type BidListResponse struct {
	Bids  []models.Bid `json:"bids"`
	Total int          `json:"total"`
}

// BOMResponse wraps a generated bill of materials.
type BOMResponse struct {
	Items    []models.BOMLineItem `json:"items"`
	Subtotal float64              `json:"subtotal"`
}

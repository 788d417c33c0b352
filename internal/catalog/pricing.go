package catalog

import (
	"errors"

	"github.com/voltbid/voltbid/internal/apperr"
	"github.com/voltbid/voltbid/internal/models"
)

// PricingConfig holds the markup and margin rates applied on top of
// base material and labor costs.
type PricingConfig struct {
	MaterialMarkup        float64
	OverheadRate          float64
	ExcavationContingency float64
	ProfitMargin          float64
	ROIHorizonYears       int
}

// CalculateBid generates the BOM for a spec and applies the full
// markup stack: material markup, overhead, excavation contingency,
// then profit margin on top of everything.
func (s *Service) CalculateBid(spec models.ProjectSpec) (*models.BidCalculation, error) {
	items, err := s.GenerateBOM(spec)
	if err != nil {
		return nil, err
	}

	var materialCost, laborCost float64
	for _, item := range items {
		cc, err := s.db.GetCostCode(item.CostCode)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				// No split available; assume half material, half labor.
				materialCost += item.Subtotal * 0.5
				laborCost += item.Subtotal * 0.5
				continue
			}
			return nil, err
		}
		// Scale the book split to the line's actual rate, which may
		// differ (DC trenching runs over book).
		scale := 1.0
		if cc.UnitCost > 0 {
			scale = item.UnitCost / cc.UnitCost
		}
		materialCost += cc.MaterialCost * item.Quantity * scale
		laborCost += cc.LaborCost * item.Quantity * scale
	}

	subtotal := materialCost + laborCost
	markupAmount := materialCost * s.pricing.MaterialMarkup
	overheadAmount := subtotal * s.pricing.OverheadRate
	contingencyAmount := subtotal * s.pricing.ExcavationContingency

	costBeforeProfit := subtotal + markupAmount + overheadAmount + contingencyAmount
	profitAmount := costBeforeProfit * s.pricing.ProfitMargin
	totalCost := costBeforeProfit + profitAmount

	return &models.BidCalculation{
		ProjectName:                 spec.ProjectName,
		ChargingType:                spec.ChargingType,
		NumPorts:                    spec.NumPorts,
		MaterialCost:                materialCost,
		LaborCost:                   laborCost,
		Subtotal:                    subtotal,
		MaterialMarkup:              s.pricing.MaterialMarkup,
		MaterialMarkupAmount:        markupAmount,
		OverheadRate:                s.pricing.OverheadRate,
		OverheadAmount:              overheadAmount,
		ExcavationContingency:       s.pricing.ExcavationContingency,
		ExcavationContingencyAmount: contingencyAmount,
		ProfitMargin:                s.pricing.ProfitMargin,
		ProfitAmount:                profitAmount,
		TotalCost:                   totalCost,
		CostPerPort:                 totalCost / float64(spec.NumPorts),
	}, nil
}

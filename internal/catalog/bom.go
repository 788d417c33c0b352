// Package catalog implements the pricing side of Voltbid: cost codes,
// bill-of-materials generation, bid calculation, and ROI projections.
package catalog

import (
	"fmt"

	"github.com/voltbid/voltbid/internal/models"
)

// GenerateBOM builds the bill of materials for a project spec. Only
// L2 and DC fast installations are recognized.
func (s *Service) GenerateBOM(spec models.ProjectSpec) ([]models.BOMLineItem, error) {
	switch spec.ChargingType {
	case models.ChargingL2:
		return s.generateL2BOM(spec)
	case models.ChargingDCFast:
		return s.generateDCFastBOM(spec)
	default:
		return nil, fmt.Errorf("unknown charging type %q", spec.ChargingType)
	}
}

// line fetches a cost code and prices quantity units of it.
func (s *Service) line(code string, quantity float64) (models.BOMLineItem, error) {
	cc, err := s.db.GetCostCode(code)
	if err != nil {
		return models.BOMLineItem{}, err
	}
	return models.BOMLineItem{
		CostCode:    cc.Code,
		Description: cc.Description,
		Quantity:    quantity,
		Unit:        cc.Unit,
		UnitCost:    cc.UnitCost,
		Subtotal:    cc.UnitCost * quantity,
	}, nil
}

func (s *Service) generateL2BOM(spec models.ProjectSpec) ([]models.BOMLineItem, error) {
	ports := float64(spec.NumPorts)
	conduitLength := spec.ExcavationLength
	if conduitLength == 0 {
		conduitLength = 50 * ports
	}

	specs := []struct {
		code string
		qty  float64
	}{
		{"EQUIP-001", ports},                                // L2 charging stations
		{"EQUIP-006", float64(max(1, (spec.NumPorts+3)/4))}, // one panel per 4 ports
		{"CONC-001", 20 * ports},                            // 20 SF pad per port
		{"COND-002", conduitLength},
		{"WIRE-001", conduitLength * 3}, // 3 conductors
		{"SITE-001", conduitLength},
		{"GRND-001", ports},
		{"SAFE-001", 2 * ports}, // 2 bollards per port
		{"LABOR-001", 16 * ports},
		{"REST-001", conduitLength * 3},
	}

	items := make([]models.BOMLineItem, 0, len(specs))
	for _, ls := range specs {
		item, err := s.line(ls.code, ls.qty)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *Service) generateDCFastBOM(spec models.ProjectSpec) ([]models.BOMLineItem, error) {
	ports := float64(spec.NumPorts)
	conduitLength := spec.ExcavationLength
	if conduitLength == 0 {
		conduitLength = 75 * ports
	}

	specs := []struct {
		code string
		qty  float64
	}{
		{"EQUIP-003", ports},                                // DC fast chargers
		{"EQUIP-008", float64(max(1, (spec.NumPorts+1)/2))}, // one transformer per 2 ports
		{"CONC-008", 40 * ports},                            // reinforced pad
		{"COND-007", conduitLength},
		{"WIRE-010", conduitLength * 3},
		{"GRND-002", 2 * ports},
		{"SAFE-001", 3 * ports},
		{"LABOR-002", 40 * ports},
		{"REST-002", conduitLength * 4},
	}

	items := make([]models.BOMLineItem, 0, len(specs)+1)
	for _, ls := range specs {
		item, err := s.line(ls.code, ls.qty)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	// Deeper trenching for DC feeders runs 50% over the book rate.
	excavation, err := s.line("SITE-001", conduitLength)
	if err != nil {
		return nil, err
	}
	excavation.UnitCost *= 1.5
	excavation.Subtotal *= 1.5
	items = append(items, excavation)

	return items, nil
}

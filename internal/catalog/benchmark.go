package catalog

import (
	"github.com/voltbid/voltbid/internal/models"
)

// Competitor per-port book rates, industry estimates.
const (
	KeystoneL2PerPort     = 12000.0
	GGESL2PerPort         = 13500.0
	KeystoneDCFastPerPort = 55000.0
	GGESDCFastPerPort     = 60000.0
)

// CompareBenchmarks prices a spec and contrasts the result against the
// Keystone and GGES per-port rates for the same charging type. Savings
// are competitor total minus ours, so a negative value means we came in
// over the competitor.
func (s *Service) CompareBenchmarks(spec models.ProjectSpec) (*models.BenchmarkComparison, error) {
	calc, err := s.CalculateBid(spec)
	if err != nil {
		return nil, err
	}

	keystonePerPort := KeystoneL2PerPort
	ggesPerPort := GGESL2PerPort
	if spec.ChargingType == models.ChargingDCFast {
		keystonePerPort = KeystoneDCFastPerPort
		ggesPerPort = GGESDCFastPerPort
	}

	ports := float64(spec.NumPorts)
	keystoneTotal := keystonePerPort * ports
	ggesTotal := ggesPerPort * ports

	keystoneSavings := keystoneTotal - calc.TotalCost
	ggesSavings := ggesTotal - calc.TotalCost

	var keystonePct, ggesPct float64
	if keystoneTotal > 0 {
		keystonePct = keystoneSavings / keystoneTotal * 100
	}
	if ggesTotal > 0 {
		ggesPct = ggesSavings / ggesTotal * 100
	}

	return &models.BenchmarkComparison{
		ProjectName:            spec.ProjectName,
		ChargingType:           spec.ChargingType,
		NumPorts:               spec.NumPorts,
		CostPerPort:            calc.CostPerPort,
		TotalCost:              calc.TotalCost,
		KeystoneCostPerPort:    keystonePerPort,
		KeystoneTotalCost:      keystoneTotal,
		GGESCostPerPort:        ggesPerPort,
		GGESTotalCost:          ggesTotal,
		KeystoneSavings:        keystoneSavings,
		GGESSavings:            ggesSavings,
		KeystoneSavingsPercent: keystonePct,
		GGESSavingsPercent:     ggesPct,
	}, nil
}

// IndustryAverages returns the competitor book rates plus the midpoint
// average for each charging type.
func (s *Service) IndustryAverages() map[string]float64 {
	return map[string]float64{
		"l2_cost_per_port_keystone":      KeystoneL2PerPort,
		"l2_cost_per_port_gges":          GGESL2PerPort,
		"dc_fast_cost_per_port_keystone": KeystoneDCFastPerPort,
		"dc_fast_cost_per_port_gges":     GGESDCFastPerPort,
		"industry_average_l2":            (KeystoneL2PerPort + GGESL2PerPort) / 2,
		"industry_average_dc_fast":       (KeystoneDCFastPerPort + GGESDCFastPerPort) / 2,
	}
}

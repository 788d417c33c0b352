package catalog

import (
	"github.com/voltbid/voltbid/internal/models"
)

// Default per-port economics used when the caller supplies none.
const (
	DefaultAnnualRevenuePerPort = 5000.0
	DefaultOperatingCostPerPort = 800.0
)

// CalculateROI projects return on investment for a priced bid over the
// configured horizon. Zero revenue/cost inputs fall back to the
// defaults above.
func (s *Service) CalculateROI(calc *models.BidCalculation, revenuePerPort, operatingCostPerPort float64) *models.ROIAnalysis {
	if revenuePerPort == 0 {
		revenuePerPort = DefaultAnnualRevenuePerPort
	}
	if operatingCostPerPort == 0 {
		operatingCostPerPort = DefaultOperatingCostPerPort
	}

	ports := float64(calc.NumPorts)
	investment := calc.TotalCost
	annualRevenue := revenuePerPort * ports
	annualOperating := operatingCostPerPort * ports
	annualNet := annualRevenue - annualOperating

	var payback *float64
	if annualNet > 0 {
		years := investment / annualNet
		payback = &years
	}

	var roiPct float64
	if investment > 0 {
		roiPct = annualNet / investment * 100
	}

	years := s.pricing.ROIHorizonYears
	horizonNet := annualRevenue*float64(years) - annualOperating*float64(years) - investment
	var horizonROI float64
	if investment > 0 {
		horizonROI = horizonNet / investment * 100
	}

	return &models.ROIAnalysis{
		ProjectName:          calc.ProjectName,
		InitialInvestment:    investment,
		AnnualRevenuePerPort: revenuePerPort,
		TotalAnnualRevenue:   annualRevenue,
		AnnualOperatingCost:  annualOperating,
		AnnualNetIncome:      annualNet,
		PaybackPeriodYears:   payback,
		ROIPercentage:        roiPct,
		HorizonYears:         years,
		HorizonNetProfit:     horizonNet,
		HorizonROIPercentage: horizonROI,
	}
}

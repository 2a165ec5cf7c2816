package analysis

import (
	"github.com/eightweeks/fujimi-forecast/internal/config"
	"github.com/eightweeks/fujimi-forecast/pkg/mathutil"
)

// Risk factor names.
const (
	RiskRevenueDownside = "売上激減"
	RiskRevenueUpside   = "売上好調"
	RiskCostShock       = "費用上昇"
	RiskCostSavings     = "費用削減"
)

// RiskFactor is the effect of one risk case against the base metrics.
type RiskFactor struct {
	Name    string       `json:"name"`
	Metrics TotalMetrics `json:"metrics"`
	// ProfitImpact is the relative profit change in percent; nil when the
	// base profit is zero.
	ProfitImpact *float64 `json:"profitImpact"`
	ROIDelta     float64  `json:"roiDelta"`
}

// RiskReport is the base metrics plus every risk factor.
type RiskReport struct {
	Base    TotalMetrics `json:"base"`
	Factors []RiskFactor `json:"factors"`
}

// WithCostAdjustment returns a Model whose cost lines are scaled by adj.
// Zero multipliers leave the corresponding line unchanged.
func (m *Model) WithCostAdjustment(adj config.CostAdjustment) *Model {
	return m.WithParams(func(p *config.ModelConfig) {
		utilitiesFixed := multiplier(adj.UtilitiesFixed)
		utilitiesVariable := multiplier(adj.UtilitiesVariable)
		operationsFixed := multiplier(adj.OperationsFixed)
		operationsVariable := multiplier(adj.OperationsVariable)

		p.FixedCosts.Owned.Utilities *= utilitiesFixed
		p.FixedCosts.Rental.Utilities *= utilitiesFixed
		p.VariableCosts.Owned.Utilities *= utilitiesVariable
		p.VariableCosts.Rental.Utilities *= utilitiesVariable
		p.FixedCosts.Owned.Operations *= operationsFixed
		p.FixedCosts.Rental.Operations *= operationsFixed
		p.VariableCosts.Owned.Operations *= operationsVariable
		p.VariableCosts.Rental.Operations *= operationsVariable
		p.FixedCosts.Rental.Rent *= multiplier(adj.Rent)
	})
}

func multiplier(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

// RiskFactors evaluates the revenue and cost risk cases against base. Both
// cost cases are applied to the unmodified model.
func (m *Model) RiskFactors(base Inputs, risk config.RiskConfig) RiskReport {
	baseMetrics := m.Total(base)
	report := RiskReport{Base: baseMetrics}

	downside := base
	downside.OccupancyRate = risk.RevenueDownside.OccupancyRate
	downside.PricePerNight = risk.RevenueDownside.PricePerNight

	upside := base
	upside.OccupancyRate = risk.RevenueUpside.OccupancyRate
	upside.PricePerNight = risk.RevenueUpside.PricePerNight

	cases := []struct {
		name    string
		metrics TotalMetrics
	}{
		{RiskRevenueDownside, m.Total(downside)},
		{RiskRevenueUpside, m.Total(upside)},
		{RiskCostShock, m.WithCostAdjustment(risk.CostShock).Total(base)},
		{RiskCostSavings, m.WithCostAdjustment(risk.CostSavings).Total(base)},
	}

	for _, c := range cases {
		factor := RiskFactor{
			Name:     c.name,
			Metrics:  c.metrics,
			ROIDelta: c.metrics.OverallROI - baseMetrics.OverallROI,
		}
		if !mathutil.IsZero(baseMetrics.TotalProfit) {
			impact := (c.metrics.TotalProfit - baseMetrics.TotalProfit) / baseMetrics.TotalProfit * 100
			factor.ProfitImpact = &impact
		}
		report.Factors = append(report.Factors, factor)
	}
	return report
}

package analysis

import (
	"fmt"

	"github.com/eightweeks/fujimi-forecast/internal/config"
	"go.uber.org/zap"
)

// breakEvenSamples is the resolution of the break-even revenue line.
const breakEvenSamples = 100

// Report gathers every analysis the dashboard presents for one set of inputs.
type Report struct {
	Metrics              TotalMetrics     `json:"metrics"`
	OccupancySensitivity Sensitivity      `json:"occupancySensitivity"`
	PriceSensitivity     Sensitivity      `json:"priceSensitivity"`
	Scenarios            []ScenarioResult `json:"scenarios"`
	Heatmap              Heatmap          `json:"heatmap"`
	PropertySweep        []PropertyPoint  `json:"propertySweep"`
	BreakEven            BreakEven        `json:"breakEven"`
	Risk                 RiskReport       `json:"risk"`
	CostBreakdown        CostBreakdown    `json:"costBreakdown"`
}

// Analyze runs the full analysis for in using the sweeps, scenarios and
// risk cases of conf.
func (m *Model) Analyze(in Inputs, conf config.Configuration) (*Report, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	occupancy, err := m.Sweep(ParamOccupancyRate, in, conf.Sensitivity.Occupancy)
	if err != nil {
		return nil, fmt.Errorf("occupancy sensitivity: %w", err)
	}
	price, err := m.Sweep(ParamPricePerNight, in, conf.Sensitivity.Price)
	if err != nil {
		return nil, fmt.Errorf("price sensitivity: %w", err)
	}

	report := &Report{
		Metrics:              m.Total(in),
		OccupancySensitivity: occupancy,
		PriceSensitivity:     price,
		Scenarios:            m.CompareScenarios(conf.Scenarios, in),
		Heatmap:              m.PaybackHeatmap(in),
		PropertySweep:        m.PropertySweep(in, 10, 50, 5),
		BreakEven:            m.BreakEven(in, breakEvenSamples),
		Risk:                 m.RiskFactors(in, conf.Risk),
		CostBreakdown:        m.CostBreakdown(in),
	}

	m.logger.Info("analysis computed",
		zap.String("op", "analysis.Analyze"),
		zap.Float64("occupancyRate", in.OccupancyRate),
		zap.Float64("pricePerNight", in.PricePerNight),
		zap.Int("properties", in.TotalProperties()),
		zap.Int("scenarios", len(report.Scenarios)),
	)
	return report, nil
}

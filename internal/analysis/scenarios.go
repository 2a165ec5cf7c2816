package analysis

import (
	"math"

	"github.com/eightweeks/fujimi-forecast/internal/config"
	"github.com/eightweeks/fujimi-forecast/pkg/constants"
	"github.com/eightweeks/fujimi-forecast/pkg/mathutil"
)

// Radar holds the 0..100 normalised scores plotted on the scenario radar chart.
type Radar struct {
	ROI     float64 `json:"roi"`
	Profit  float64 `json:"profit"`
	Payback float64 `json:"payback"`
}

// ScenarioResult is the evaluation of one configured scenario.
type ScenarioResult struct {
	Name    string       `json:"name"`
	Color   string       `json:"color,omitempty"`
	Metrics TotalMetrics `json:"metrics"`
	Radar   Radar        `json:"radar"`
	// RiskIndex is the unoccupied share in percent, used as the risk axis.
	RiskIndex float64 `json:"riskIndex"`
}

// CompareScenarios evaluates every active scenario with the property counts of base.
func (m *Model) CompareScenarios(scenarios []config.Scenario, base Inputs) []ScenarioResult {
	results := make([]ScenarioResult, 0, len(scenarios))
	for _, scenario := range scenarios {
		if !scenario.Active {
			continue
		}
		in := base
		in.OccupancyRate = scenario.OccupancyRate
		in.PricePerNight = scenario.PricePerNight

		metrics := m.Total(in)
		results = append(results, ScenarioResult{
			Name:      scenario.Name,
			Color:     scenario.Color,
			Metrics:   metrics,
			Radar:     radar(metrics),
			RiskIndex: (1 - scenario.OccupancyRate) * constants.PercentageMultiplier,
		})
	}
	return results
}

func radar(metrics TotalMetrics) Radar {
	r := Radar{
		ROI:    mathutil.Clamp(metrics.OverallROI*2, 0, 100),
		Profit: mathutil.Clamp(metrics.TotalProfit/constants.ProfitNormalisation*100, 0, 100),
	}
	if metrics.OverallPayback != nil {
		r.Payback = math.Max(100-*metrics.OverallPayback*10, 0)
	}
	return r
}

// Heatmap is a grid of payback periods over occupancy (rows) and price (columns).
type Heatmap struct {
	Occupancies []float64   `json:"occupancies"`
	Prices      []float64   `json:"prices"`
	Years       [][]float64 `json:"years"`
}

// PaybackHeatmap evaluates the payback period over occupancy 20%..70% in 5%
// steps and prices 20,000..35,000 in 2,500 steps, capped at the chart ceiling.
func (m *Model) PaybackHeatmap(base Inputs) Heatmap {
	hm := Heatmap{
		Occupancies: mathutil.Arange(0.20, 0.70, 0.05),
		Prices:      mathutil.Arange(20_000, 35_000, 2_500),
	}
	hm.Years = make([][]float64, len(hm.Occupancies))
	for i, occ := range hm.Occupancies {
		row := make([]float64, len(hm.Prices))
		for j, price := range hm.Prices {
			in := base
			in.OccupancyRate = occ
			in.PricePerNight = price
			row[j] = CappedPayback(m.Total(in).OverallPayback)
		}
		hm.Years[i] = row
	}
	return hm
}

// PropertyPoint is the profit at one total property count.
type PropertyPoint struct {
	TotalProperties  int     `json:"totalProperties"`
	OwnedProperties  int     `json:"ownedProperties"`
	RentalProperties int     `json:"rentalProperties"`
	TotalProfit      float64 `json:"totalProfit"`
}

// PropertySweep evaluates total property counts from first to last in steps
// of step, split half owned (rounded down) and half rental.
func (m *Model) PropertySweep(base Inputs, first, last, step int) []PropertyPoint {
	if step <= 0 || last < first {
		return nil
	}
	var points []PropertyPoint
	for count := first; count <= last; count += step {
		in := base
		in.OwnedProperties = count / 2
		in.RentalProperties = count - count/2
		points = append(points, PropertyPoint{
			TotalProperties:  count,
			OwnedProperties:  in.OwnedProperties,
			RentalProperties: in.RentalProperties,
			TotalProfit:      m.Total(in).TotalProfit,
		})
	}
	return points
}

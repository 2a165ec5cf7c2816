package projection

import (
	"fmt"

	"go.uber.org/zap"
)

// ChartSeries is the revenue and profit time series fed to the growth chart.
type ChartSeries struct {
	Labels  []string  `json:"labels"`
	Revenue []float64 `json:"revenue"`
	Profit  []float64 `json:"profit"`
}

// GrowthSeries projects each year of the configured rollout at the given
// occupancy rate. Labels run 1年目, 2年目, ...
func (c *Calculator) GrowthSeries(occupancyRate float64) (ChartSeries, error) {
	rollout := c.constants.Rollout
	series := ChartSeries{
		Labels:  make([]string, 0, len(rollout)),
		Revenue: make([]float64, 0, len(rollout)),
		Profit:  make([]float64, 0, len(rollout)),
	}

	for i, count := range rollout {
		p, err := c.Compute(count, occupancyRate)
		if err != nil {
			return ChartSeries{}, fmt.Errorf("growth chart year %d: %w", i+1, err)
		}
		series.Labels = append(series.Labels, fmt.Sprintf("%d年目", i+1))
		series.Revenue = append(series.Revenue, p.TotalRevenue)
		series.Profit = append(series.Profit, p.TotalProfit)
	}

	c.logger.Debug("growth series computed",
		zap.String("op", "projection.GrowthSeries"),
		zap.Int("points", len(series.Labels)),
	)
	return series, nil
}

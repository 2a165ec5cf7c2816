package analysis

import (
	"github.com/eightweeks/fujimi-forecast/pkg/constants"
	"github.com/eightweeks/fujimi-forecast/pkg/mathutil"
)

// BreakEvenPoint is one sample of the revenue line against fixed costs.
type BreakEvenPoint struct {
	OccupancyPercent float64 `json:"occupancyPercent"`
	Revenue          float64 `json:"revenue"`
	FixedCosts       float64 `json:"fixedCosts"`
}

// BreakEven is the cash-basis break-even analysis. Depreciation is excluded.
type BreakEven struct {
	FixedCosts float64 `json:"fixedCosts"`
	// OccupancyPercent is nil when there is no revenue potential.
	OccupancyPercent *float64 `json:"occupancyPercent"`
	// SafetyMargin is the current occupancy minus break-even, in percentage points.
	SafetyMargin *float64        `json:"safetyMargin"`
	Curve        []BreakEvenPoint `json:"curve"`
}

// BreakEven computes the occupancy at which annual revenue covers the fixed
// costs of the properties in base, and samples the revenue line over 10%..70%.
func (m *Model) BreakEven(base Inputs, samples int) BreakEven {
	fixed := m.params.FixedCosts.Owned.Total()*float64(base.OwnedProperties) +
		m.params.FixedCosts.Rental.Total()*float64(base.RentalProperties)
	dailyPotential := base.PricePerNight * float64(base.TotalProperties())

	result := BreakEven{FixedCosts: fixed}
	if days, ok := mathutil.SafeDivide(fixed, dailyPotential); ok {
		occupancy := days / constants.DaysPerYear * constants.PercentageMultiplier
		margin := base.OccupancyRate*constants.PercentageMultiplier - occupancy
		result.OccupancyPercent = &occupancy
		result.SafetyMargin = &margin
	}

	for _, pct := range mathutil.Linspace(10, 70, samples) {
		result.Curve = append(result.Curve, BreakEvenPoint{
			OccupancyPercent: pct,
			Revenue:          pct / constants.PercentageMultiplier * dailyPotential * constants.DaysPerYear,
			FixedCosts:       fixed,
		})
	}
	return result
}

// CostLine is one labelled line of the cost breakdown.
type CostLine struct {
	Label   string  `json:"label"`
	Amount  float64 `json:"amount"`
	NonCash bool    `json:"nonCash,omitempty"`
}

// CostBreakdown lists the annual cost lines per property type.
type CostBreakdown struct {
	Owned  []CostLine `json:"owned"`
	Rental []CostLine `json:"rental"`
}

// CostBreakdown itemises the annual costs for the properties in base.
func (m *Model) CostBreakdown(base Inputs) CostBreakdown {
	owned := float64(base.OwnedProperties)
	rental := float64(base.RentalProperties)
	fc := m.params.FixedCosts

	var depreciation float64
	if m.params.DepreciationYears > 0 {
		depreciation = m.params.OwnedInitialInvestment * owned / float64(m.params.DepreciationYears)
	}

	return CostBreakdown{
		Owned: []CostLine{
			{Label: "固定運営費", Amount: fc.Owned.Operations * owned},
			{Label: "基本光熱費", Amount: fc.Owned.Utilities * owned},
			{Label: "変動費(稼働率連動)", Amount: m.VariableCosts(base.OccupancyRate, m.params.VariableCosts.Owned, base.OwnedProperties)},
			{Label: "保険等", Amount: fc.Owned.Insurance * owned},
			{Label: "減価償却(非現金)", Amount: depreciation, NonCash: true},
		},
		Rental: []CostLine{
			{Label: "賃料", Amount: fc.Rental.Rent * rental},
			{Label: "固定運営費", Amount: fc.Rental.Operations * rental},
			{Label: "基本光熱費", Amount: fc.Rental.Utilities * rental},
			{Label: "変動費(稼働率連動)", Amount: m.VariableCosts(base.OccupancyRate, m.params.VariableCosts.Rental, base.RentalProperties)},
			{Label: "保険等", Amount: fc.Rental.Insurance * rental},
		},
	}
}

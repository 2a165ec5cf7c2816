// Package projection implements the landing page revenue and profit
// calculator and the five-year growth chart series.
package projection

import (
	"errors"
	"fmt"

	"github.com/eightweeks/fujimi-forecast/internal/config"
	"github.com/eightweeks/fujimi-forecast/pkg/format"
	"github.com/eightweeks/fujimi-forecast/pkg/mathutil"
	"go.uber.org/zap"
)

var (
	// ErrNegativePropertyCount is returned for property counts below zero.
	ErrNegativePropertyCount = errors.New("property count must not be negative")

	// ErrOccupancyOutOfRange is returned for occupancy rates outside [0, 1].
	ErrOccupancyOutOfRange = errors.New("occupancy rate must be within [0, 1]")
)

// Projection holds every figure derived from the two slider inputs. Amounts
// are in 万円.
type Projection struct {
	PropertyCount   int     `json:"propertyCount"`
	OccupancyRate   float64 `json:"occupancyRate"`
	OwnedCount      int     `json:"ownedCount"`
	RentedCount     int     `json:"rentedCount"`
	OccupancyFactor float64 `json:"occupancyFactor"`
	TotalRevenue    float64 `json:"totalRevenue"`
	OwnedProfit     float64 `json:"ownedProfit"`
	RentedProfit    float64 `json:"rentedProfit"`
	TotalProfit     float64 `json:"totalProfit"`
	TotalInvestment float64 `json:"totalInvestment"`
	// PaybackYears is nil when total profit is not positive.
	PaybackYears *float64 `json:"paybackYears"`
}

// Display holds the formatted strings written into the result elements.
type Display struct {
	Revenue string `json:"revenue"`
	Profit  string `json:"profit"`
	Payback string `json:"payback"`
}

// Calculator computes projections from a fixed set of constants.
type Calculator struct {
	logger    *zap.Logger
	constants config.CalculatorConfig
}

// NewCalculator returns a Calculator over the given constants.
func NewCalculator(logger *zap.Logger, constants config.CalculatorConfig) (*Calculator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if constants.BaseOccupancyRate <= 0 {
		return nil, config.ErrInvalidBaseOccupancy
	}
	return &Calculator{logger: logger, constants: constants}, nil
}

// Compute derives the projection for propertyCount properties at the given
// occupancy rate (a fraction).
func (c *Calculator) Compute(propertyCount int, occupancyRate float64) (Projection, error) {
	if propertyCount < 0 {
		return Projection{}, fmt.Errorf("%w: %d", ErrNegativePropertyCount, propertyCount)
	}
	if !(occupancyRate >= 0 && occupancyRate <= 1) {
		return Projection{}, fmt.Errorf("%w: %g", ErrOccupancyOutOfRange, occupancyRate)
	}

	owned := propertyCount / 2
	rented := propertyCount - owned
	factor := occupancyRate / c.constants.BaseOccupancyRate

	p := Projection{
		PropertyCount:   propertyCount,
		OccupancyRate:   occupancyRate,
		OwnedCount:      owned,
		RentedCount:     rented,
		OccupancyFactor: factor,
		TotalRevenue:    c.constants.RevenuePerProperty * factor * float64(propertyCount),
		OwnedProfit:     float64(owned) * c.constants.OwnedProfitPerProperty * factor,
		RentedProfit:    float64(rented) * c.constants.RentedProfitPerProperty * factor,
		TotalInvestment: float64(owned)*c.constants.OwnedInvestment + float64(rented)*c.constants.RentedInvestment,
	}
	p.TotalProfit = p.OwnedProfit + p.RentedProfit

	if years, ok := mathutil.SafeDivide(p.TotalInvestment, p.TotalProfit); ok {
		p.PaybackYears = &years
	} else {
		c.logger.Debug("payback period undefined",
			zap.String("op", "projection.Compute"),
			zap.Int("propertyCount", propertyCount),
			zap.Float64("occupancyRate", occupancyRate),
		)
	}

	return p, nil
}

// ComputePercent is Compute with the occupancy given as a slider percentage.
func (c *Calculator) ComputePercent(propertyCount int, occupancyPercent float64) (Projection, error) {
	return c.Compute(propertyCount, occupancyPercent/100)
}

// Display formats the projection the way the result elements show it.
func (p Projection) Display() Display {
	return Display{
		Revenue: format.ManYen(p.TotalRevenue),
		Profit:  format.ManYen(p.TotalProfit),
		Payback: format.PaybackPtr(p.PaybackYears),
	}
}

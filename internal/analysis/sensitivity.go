package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/eightweeks/fujimi-forecast/internal/config"
	"github.com/eightweeks/fujimi-forecast/pkg/constants"
	"github.com/eightweeks/fujimi-forecast/pkg/mathutil"
	"go.uber.org/zap"
)

// Sweepable parameter names.
const (
	ParamOccupancyRate           = "occupancyRate"
	ParamPricePerNight           = "pricePerNight"
	ParamOwnedProperties         = "ownedProperties"
	ParamRentalProperties        = "rentalProperties"
	ParamOwnedInitialInvestment  = "ownedInitialInvestment"
	ParamRentalInitialInvestment = "rentalInitialInvestment"
	ParamMonthlyRent             = "monthlyRent"
)

var (
	// ErrUnknownParameter is returned when a sensitivity sweep names an unsupported parameter.
	ErrUnknownParameter = errors.New("unknown sensitivity parameter")

	// ErrInvalidSweep is returned for sweep ranges the model cannot evaluate.
	ErrInvalidSweep = errors.New("invalid sensitivity sweep")
)

// SensitivityPoint is one evaluated point of a sweep.
type SensitivityPoint struct {
	Value        float64  `json:"value"`
	TotalProfit  float64  `json:"totalProfit"`
	OverallROI   float64  `json:"overallRoi"`
	PaybackYears *float64 `json:"paybackYears"`
}

// Sensitivity is a sweep of one parameter with everything else held at base.
type Sensitivity struct {
	Parameter string             `json:"parameter"`
	Points    []SensitivityPoint `json:"points"`
}

// SensitivityParameters lists the parameters Sweep accepts.
func SensitivityParameters() []string {
	return []string{
		ParamOccupancyRate,
		ParamPricePerNight,
		ParamOwnedProperties,
		ParamRentalProperties,
		ParamOwnedInitialInvestment,
		ParamRentalInitialInvestment,
		ParamMonthlyRent,
	}
}

// Sweep evaluates the model over evenly spaced values of param, holding the
// rest of base fixed. Property counts are rounded to whole properties.
func (m *Model) Sweep(param string, base Inputs, sweep config.SweepRange) (Sensitivity, error) {
	if sweep.Steps <= 0 {
		return Sensitivity{}, fmt.Errorf("sensitivity sweep for %s needs at least one step", param)
	}
	if sweep.Steps > constants.MaxSensitivitySteps {
		return Sensitivity{}, fmt.Errorf("%w: %s asks for %d steps, at most %d allowed",
			ErrInvalidSweep, param, sweep.Steps, constants.MaxSensitivitySteps)
	}
	if err := checkSweepDomain(param, sweep); err != nil {
		return Sensitivity{}, err
	}
	if sweep.Max < sweep.Min {
		return Sensitivity{}, fmt.Errorf("sensitivity sweep for %s has max %g below min %g", param, sweep.Max, sweep.Min)
	}

	result := Sensitivity{Parameter: param}
	for _, value := range mathutil.Linspace(sweep.Min, sweep.Max, sweep.Steps) {
		model, in, err := m.vary(param, base, value)
		if err != nil {
			return Sensitivity{}, err
		}
		metrics := model.Total(in)
		result.Points = append(result.Points, SensitivityPoint{
			Value:        value,
			TotalProfit:  metrics.TotalProfit,
			OverallROI:   metrics.OverallROI,
			PaybackYears: metrics.OverallPayback,
		})
	}

	m.logger.Debug("sensitivity sweep computed",
		zap.String("op", "analysis.Sweep"),
		zap.String("parameter", param),
		zap.Int("points", len(result.Points)),
	)
	return result, nil
}

// checkSweepDomain rejects bounds outside the values param can take. Occupancy
// is a fraction and every other parameter is a finite non-negative amount.
func checkSweepDomain(param string, sweep config.SweepRange) error {
	upper := math.MaxFloat64
	if param == ParamOccupancyRate {
		upper = 1
	}
	for _, bound := range []float64{sweep.Min, sweep.Max} {
		if !(bound >= 0 && bound <= upper) {
			return fmt.Errorf("%w: %s bound %g outside [0, %g]", ErrInvalidSweep, param, bound, upper)
		}
	}
	return nil
}

func (m *Model) vary(param string, in Inputs, value float64) (*Model, Inputs, error) {
	switch param {
	case ParamOccupancyRate:
		in.OccupancyRate = value
		return m, in, nil
	case ParamPricePerNight:
		in.PricePerNight = value
		return m, in, nil
	case ParamOwnedProperties:
		in.OwnedProperties = int(math.Round(value))
		return m, in, nil
	case ParamRentalProperties:
		in.RentalProperties = int(math.Round(value))
		return m, in, nil
	case ParamOwnedInitialInvestment:
		return m.WithParams(func(p *config.ModelConfig) { p.OwnedInitialInvestment = value }), in, nil
	case ParamRentalInitialInvestment:
		return m.WithParams(func(p *config.ModelConfig) { p.RentalInitialInvestment = value }), in, nil
	case ParamMonthlyRent:
		// Rent is charged annually as a fixed cost.
		return m.WithParams(func(p *config.ModelConfig) {
			p.MonthlyRent = value
			p.FixedCosts.Rental.Rent = value * 12
		}), in, nil
	default:
		return nil, in, fmt.Errorf("%w: %s", ErrUnknownParameter, param)
	}
}

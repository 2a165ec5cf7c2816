// Package analysis implements the lodging business model behind the
// companion analysis tool: per property type metrics, sensitivity sweeps,
// scenario comparison, break-even and risk factor analysis. Amounts are in yen.
package analysis

import (
	"fmt"
	"math"

	"github.com/eightweeks/fujimi-forecast/internal/config"
	"github.com/eightweeks/fujimi-forecast/pkg/constants"
	"github.com/eightweeks/fujimi-forecast/pkg/mathutil"
	"go.uber.org/zap"
)

// Inputs are the adjustable values of an analysis run.
type Inputs struct {
	OccupancyRate    float64 `json:"occupancyRate"`
	PricePerNight    float64 `json:"pricePerNight"`
	OwnedProperties  int     `json:"ownedProperties"`
	RentalProperties int     `json:"rentalProperties"`
}

// TotalProperties returns the owned plus rental property count.
func (in Inputs) TotalProperties() int {
	return in.OwnedProperties + in.RentalProperties
}

// Validate checks the inputs describe a computable run.
func (in Inputs) Validate() error {
	if !(in.OccupancyRate >= 0 && in.OccupancyRate <= 1) {
		return fmt.Errorf("occupancy rate must be within [0, 1], got %g", in.OccupancyRate)
	}
	if !(in.PricePerNight >= 0) || math.IsInf(in.PricePerNight, 1) {
		return fmt.Errorf("price per night must be a finite non-negative amount, got %g", in.PricePerNight)
	}
	if in.OwnedProperties < 0 || in.RentalProperties < 0 {
		return fmt.Errorf("property counts must not be negative, got %d owned / %d rental", in.OwnedProperties, in.RentalProperties)
	}
	return nil
}

// OwnedMetrics are the annual figures of the owned properties.
type OwnedMetrics struct {
	AnnualRevenue   float64  `json:"annualRevenue"`
	FixedCosts      float64  `json:"fixedCosts"`
	VariableCosts   float64  `json:"variableCosts"`
	OperatingCosts  float64  `json:"operatingCosts"`
	NOI             float64  `json:"noi"`
	Depreciation    float64  `json:"depreciation"`
	TotalCosts      float64  `json:"totalCosts"`
	TotalInvestment float64  `json:"totalInvestment"`
	ROI             float64  `json:"roi"`
	PaybackYears    *float64 `json:"paybackYears"`
}

// RentalMetrics are the annual figures of the leased properties.
type RentalMetrics struct {
	AnnualRevenue   float64  `json:"annualRevenue"`
	FixedCosts      float64  `json:"fixedCosts"`
	VariableCosts   float64  `json:"variableCosts"`
	TotalCosts      float64  `json:"totalCosts"`
	OperatingProfit float64  `json:"operatingProfit"`
	TotalInvestment float64  `json:"totalInvestment"`
	ROI             float64  `json:"roi"`
	PaybackYears    *float64 `json:"paybackYears"`
}

// TotalMetrics combine both property types.
type TotalMetrics struct {
	Inputs          Inputs        `json:"inputs"`
	TotalRevenue    float64       `json:"totalRevenue"`
	TotalProfit     float64       `json:"totalProfit"`
	TotalInvestment float64       `json:"totalInvestment"`
	OverallROI      float64       `json:"overallRoi"`
	ProfitMargin    float64       `json:"profitMargin"`
	OverallPayback  *float64      `json:"overallPayback"`
	Owned           OwnedMetrics  `json:"owned"`
	Rental          RentalMetrics `json:"rental"`
}

// Model evaluates the business model for a fixed parameter set. A Model is
// never mutated after construction; variants are derived with With* methods.
type Model struct {
	logger *zap.Logger
	params config.ModelConfig
}

// NewModel constructs a Model for the provided parameters.
func NewModel(logger *zap.Logger, params config.ModelConfig) (*Model, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if params.BaseOccupancyRate <= 0 {
		return nil, config.ErrInvalidBaseOccupancy
	}
	return &Model{logger: logger, params: params}, nil
}

// Params returns a copy of the model parameters.
func (m *Model) Params() config.ModelConfig {
	return m.params
}

// BaseInputs returns the inputs the parameters are quoted at.
func (m *Model) BaseInputs() Inputs {
	return Inputs{
		OccupancyRate:    m.params.BaseOccupancyRate,
		PricePerNight:    m.params.AveragePricePerNight,
		OwnedProperties:  m.params.OwnedProperties,
		RentalProperties: m.params.RentalProperties,
	}
}

// WithParams returns a new Model whose parameters are modified by fn.
func (m *Model) WithParams(fn func(*config.ModelConfig)) *Model {
	params := m.params
	fn(&params)
	return &Model{logger: m.logger, params: params}
}

// AnnualRevenue is occupancy x nightly price x 365 x properties.
func (m *Model) AnnualRevenue(occupancyRate, pricePerNight float64, properties int) float64 {
	return occupancyRate * pricePerNight * constants.DaysPerYear * float64(properties)
}

// VariableCosts scales base-occupancy variable costs linearly with occupancy.
func (m *Model) VariableCosts(occupancyRate float64, costs config.VariableCostSet, properties int) float64 {
	factor := occupancyRate / m.params.BaseOccupancyRate
	return costs.Total() * factor * float64(properties)
}

// Owned computes the owned property metrics. NOI excludes depreciation.
func (m *Model) Owned(in Inputs) OwnedMetrics {
	n := in.OwnedProperties
	revenue := m.AnnualRevenue(in.OccupancyRate, in.PricePerNight, n)
	fixed := m.params.FixedCosts.Owned.Total() * float64(n)
	variable := m.VariableCosts(in.OccupancyRate, m.params.VariableCosts.Owned, n)
	operating := fixed + variable
	investment := m.params.OwnedInitialInvestment * float64(n)

	var depreciation float64
	if m.params.DepreciationYears > 0 {
		depreciation = investment / float64(m.params.DepreciationYears)
	}

	metrics := OwnedMetrics{
		AnnualRevenue:   revenue,
		FixedCosts:      fixed,
		VariableCosts:   variable,
		OperatingCosts:  operating,
		NOI:             revenue - operating,
		Depreciation:    depreciation,
		TotalCosts:      operating + depreciation,
		TotalInvestment: investment,
	}
	metrics.ROI = roi(metrics.NOI, investment)
	metrics.PaybackYears = payback(investment, metrics.NOI)
	return metrics
}

// Rental computes the leased property metrics.
func (m *Model) Rental(in Inputs) RentalMetrics {
	n := in.RentalProperties
	revenue := m.AnnualRevenue(in.OccupancyRate, in.PricePerNight, n)
	fixed := m.params.FixedCosts.Rental.Total() * float64(n)
	variable := m.VariableCosts(in.OccupancyRate, m.params.VariableCosts.Rental, n)
	investment := m.params.RentalInitialInvestment * float64(n)

	metrics := RentalMetrics{
		AnnualRevenue:   revenue,
		FixedCosts:      fixed,
		VariableCosts:   variable,
		TotalCosts:      fixed + variable,
		OperatingProfit: revenue - fixed - variable,
		TotalInvestment: investment,
	}
	metrics.ROI = roi(metrics.OperatingProfit, investment)
	metrics.PaybackYears = payback(investment, metrics.OperatingProfit)
	return metrics
}

// Total computes the combined metrics of both property types.
func (m *Model) Total(in Inputs) TotalMetrics {
	owned := m.Owned(in)
	rental := m.Rental(in)

	total := TotalMetrics{
		Inputs:          in,
		TotalRevenue:    owned.AnnualRevenue + rental.AnnualRevenue,
		TotalProfit:     owned.NOI + rental.OperatingProfit,
		TotalInvestment: owned.TotalInvestment + rental.TotalInvestment,
		Owned:           owned,
		Rental:          rental,
	}
	total.OverallROI = roi(total.TotalProfit, total.TotalInvestment)
	total.OverallPayback = payback(total.TotalInvestment, total.TotalProfit)
	total.ProfitMargin = mathutil.CalculatePercentage(total.TotalProfit, total.TotalRevenue)
	return total
}

func roi(profit, investment float64) float64 {
	if investment <= 0 {
		return 0
	}
	return profit / investment * constants.PercentageMultiplier
}

func payback(investment, profit float64) *float64 {
	years, ok := mathutil.SafeDivide(investment, profit)
	if !ok {
		return nil
	}
	return &years
}

// CappedPayback returns the payback period capped at the chart ceiling; an
// undefined payback maps to the ceiling.
func CappedPayback(years *float64) float64 {
	if years == nil || *years > constants.PaybackCapYears {
		return constants.PaybackCapYears
	}
	return *years
}

package projection

import (
	"errors"
	"math"
	"testing"

	"github.com/eightweeks/fujimi-forecast/internal/config"
	"github.com/eightweeks/fujimi-forecast/pkg/mathutil"
	"go.uber.org/zap"
)

func newTestCalculator(t *testing.T) *Calculator {
	t.Helper()
	calc, err := NewCalculator(zap.NewNop(), config.DefaultConfiguration().Calculator)
	if err != nil {
		t.Fatalf("NewCalculator() error = %v", err)
	}
	return calc
}

func TestComputeReferenceScenario(t *testing.T) {
	calc := newTestCalculator(t)

	p, err := calc.Compute(10, 0.33)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	if p.OwnedCount != 5 || p.RentedCount != 5 {
		t.Errorf("expected 5 owned / 5 rented, got %d / %d", p.OwnedCount, p.RentedCount)
	}

	checks := []struct {
		name     string
		got      float64
		expected float64
	}{
		{"occupancy factor", p.OccupancyFactor, 1.0},
		{"total revenue", p.TotalRevenue, 3000},
		{"owned profit", p.OwnedProfit, 1180},
		{"rented profit", p.RentedProfit, 753},
		{"total profit", p.TotalProfit, 1933},
		{"total investment", p.TotalInvestment, 12200},
	}
	for _, c := range checks {
		if !mathutil.WithinTolerance(c.got, c.expected, 1e-6) {
			t.Errorf("%s = %v, expected %v", c.name, c.got, c.expected)
		}
	}

	if p.PaybackYears == nil {
		t.Fatal("expected payback period to be defined")
	}
	if !mathutil.WithinTolerance(*p.PaybackYears, 6.31, 0.005) {
		t.Errorf("payback = %v, expected ≈6.31", *p.PaybackYears)
	}

	display := p.Display()
	if display.Revenue != "3,000万円" {
		t.Errorf("revenue display = %q", display.Revenue)
	}
	if display.Profit != "1,933万円" {
		t.Errorf("profit display = %q", display.Profit)
	}
	if display.Payback != "6.3年" {
		t.Errorf("payback display = %q", display.Payback)
	}
}

func TestComputeZeroOccupancyUsesSentinel(t *testing.T) {
	calc := newTestCalculator(t)

	p, err := calc.Compute(10, 0)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if p.TotalProfit != 0 {
		t.Errorf("expected zero profit, got %v", p.TotalProfit)
	}
	if p.PaybackYears != nil {
		t.Errorf("expected undefined payback, got %v", *p.PaybackYears)
	}
	if got := p.Display().Payback; got != "N/A" {
		t.Errorf("payback display = %q, expected N/A", got)
	}
}

func TestComputeZeroProperties(t *testing.T) {
	calc := newTestCalculator(t)

	p, err := calc.Compute(0, 0.5)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if p.TotalRevenue != 0 || p.TotalInvestment != 0 || p.PaybackYears != nil {
		t.Errorf("expected empty projection, got %+v", p)
	}
}

func TestComputeSplitInvariant(t *testing.T) {
	calc := newTestCalculator(t)

	for count := 0; count <= 100; count++ {
		for _, rate := range []float64{0, 0.1, 0.33, 0.5, 1} {
			p, err := calc.Compute(count, rate)
			if err != nil {
				t.Fatalf("Compute(%d, %v) error = %v", count, rate, err)
			}
			if p.OwnedCount+p.RentedCount != count {
				t.Fatalf("Compute(%d, %v): owned %d + rented %d != %d", count, rate, p.OwnedCount, p.RentedCount, count)
			}
			if p.OwnedCount > p.RentedCount {
				t.Fatalf("Compute(%d, %v): owned %d exceeds rented %d", count, rate, p.OwnedCount, p.RentedCount)
			}
			if p.PaybackYears != nil && (math.IsNaN(*p.PaybackYears) || math.IsInf(*p.PaybackYears, 0)) {
				t.Fatalf("Compute(%d, %v): non-finite payback", count, rate)
			}
		}
	}
}

func TestComputeMonotonicInPropertyCount(t *testing.T) {
	calc := newTestCalculator(t)

	for _, rate := range []float64{0.1, 0.33, 0.8} {
		prev, err := calc.Compute(0, rate)
		if err != nil {
			t.Fatalf("Compute() error = %v", err)
		}
		for count := 1; count <= 60; count++ {
			p, err := calc.Compute(count, rate)
			if err != nil {
				t.Fatalf("Compute() error = %v", err)
			}
			if p.TotalRevenue < prev.TotalRevenue || p.TotalProfit < prev.TotalProfit || p.TotalInvestment < prev.TotalInvestment {
				t.Fatalf("rate %v: projection decreased from %d to %d properties", rate, count-1, count)
			}
			prev = p
		}
	}
}

func TestComputeRejectsInvalidInput(t *testing.T) {
	calc := newTestCalculator(t)

	tests := []struct {
		name     string
		count    int
		rate     float64
		expected error
	}{
		{"Negative count", -1, 0.33, ErrNegativePropertyCount},
		{"Negative rate", 10, -0.1, ErrOccupancyOutOfRange},
		{"Rate above one", 10, 1.2, ErrOccupancyOutOfRange},
		{"NaN rate", 10, math.NaN(), ErrOccupancyOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := calc.Compute(tt.count, tt.rate)
			if !errors.Is(err, tt.expected) {
				t.Errorf("Compute(%d, %v) error = %v, expected %v", tt.count, tt.rate, err, tt.expected)
			}
		})
	}
}

func TestComputePercent(t *testing.T) {
	calc := newTestCalculator(t)

	p, err := calc.ComputePercent(20, 66)
	if err != nil {
		t.Fatalf("ComputePercent() error = %v", err)
	}
	if !mathutil.WithinTolerance(p.OccupancyFactor, 2, 1e-9) {
		t.Errorf("expected occupancy factor 2, got %v", p.OccupancyFactor)
	}
	if !mathutil.WithinTolerance(p.TotalRevenue, 12000, 1e-6) {
		t.Errorf("expected revenue 12000, got %v", p.TotalRevenue)
	}
}

func TestNewCalculatorRejectsZeroBase(t *testing.T) {
	constants := config.DefaultConfiguration().Calculator
	constants.BaseOccupancyRate = 0
	if _, err := NewCalculator(nil, constants); !errors.Is(err, config.ErrInvalidBaseOccupancy) {
		t.Fatalf("expected ErrInvalidBaseOccupancy, got %v", err)
	}
}

func TestGrowthSeries(t *testing.T) {
	calc := newTestCalculator(t)

	series, err := calc.GrowthSeries(0.33)
	if err != nil {
		t.Fatalf("GrowthSeries() error = %v", err)
	}

	expectedLabels := []string{"1年目", "2年目", "3年目", "4年目", "5年目"}
	if len(series.Labels) != len(expectedLabels) {
		t.Fatalf("expected %d labels, got %v", len(expectedLabels), series.Labels)
	}
	for i, label := range expectedLabels {
		if series.Labels[i] != label {
			t.Errorf("label %d = %q, expected %q", i, series.Labels[i], label)
		}
	}
	if !mathutil.WithinTolerance(series.Revenue[0], 3000, 1e-6) || !mathutil.WithinTolerance(series.Revenue[4], 15000, 1e-6) {
		t.Errorf("unexpected revenue series %v", series.Revenue)
	}
	if !mathutil.WithinTolerance(series.Profit[0], 1933, 1e-6) {
		t.Errorf("unexpected first profit %v", series.Profit[0])
	}
	for i := 1; i < len(series.Profit); i++ {
		if series.Profit[i] < series.Profit[i-1] {
			t.Errorf("profit series decreases at year %d: %v", i+1, series.Profit)
		}
	}
}

package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/eightweeks/fujimi-forecast/internal/config"
	"github.com/eightweeks/fujimi-forecast/pkg/constants"
	"github.com/eightweeks/fujimi-forecast/pkg/mathutil"
)

func TestSweepOccupancy(t *testing.T) {
	model := newTestModel(t)

	result, err := model.Sweep(ParamOccupancyRate, model.BaseInputs(), config.SweepRange{Min: 0.15, Max: 0.70, Steps: 12})
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if len(result.Points) != 12 {
		t.Fatalf("expected 12 points, got %d", len(result.Points))
	}
	for i := 1; i < len(result.Points); i++ {
		if result.Points[i].TotalProfit <= result.Points[i-1].TotalProfit {
			t.Fatalf("profit must increase with occupancy, got %+v", result.Points)
		}
		if result.Points[i].OverallROI <= result.Points[i-1].OverallROI {
			t.Fatalf("ROI must increase with occupancy")
		}
	}
}

func TestSweepParameters(t *testing.T) {
	model := newTestModel(t)
	base := model.BaseInputs()

	tests := []struct {
		name       string
		param      string
		sweep      config.SweepRange
		increasing bool
	}{
		{"Price raises profit", ParamPricePerNight, config.SweepRange{Min: 15000, Max: 40000, Steps: 6}, true},
		{"Owned properties raise profit", ParamOwnedProperties, config.SweepRange{Min: 5, Max: 30, Steps: 6}, true},
		{"Rental properties raise profit", ParamRentalProperties, config.SweepRange{Min: 5, Max: 30, Steps: 6}, true},
		{"Rent lowers profit", ParamMonthlyRent, config.SweepRange{Min: 50000, Max: 100000, Steps: 6}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := model.Sweep(tt.param, base, tt.sweep)
			if err != nil {
				t.Fatalf("Sweep() error = %v", err)
			}
			for i := 1; i < len(result.Points); i++ {
				prev, cur := result.Points[i-1].TotalProfit, result.Points[i].TotalProfit
				if tt.increasing && cur <= prev {
					t.Fatalf("expected increasing profit, got %v then %v", prev, cur)
				}
				if !tt.increasing && cur >= prev {
					t.Fatalf("expected decreasing profit, got %v then %v", prev, cur)
				}
			}
		})
	}
}

func TestSweepInvestmentChangesPaybackOnly(t *testing.T) {
	model := newTestModel(t)

	result, err := model.Sweep(ParamOwnedInitialInvestment, model.BaseInputs(), config.SweepRange{Min: 10_000_000, Max: 30_000_000, Steps: 3})
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	first, last := result.Points[0], result.Points[2]
	if !mathutil.WithinTolerance(first.TotalProfit, last.TotalProfit, yenTolerance) {
		t.Errorf("investment must not change profit: %v vs %v", first.TotalProfit, last.TotalProfit)
	}
	if *last.PaybackYears <= *first.PaybackYears {
		t.Errorf("payback must grow with investment: %v vs %v", *first.PaybackYears, *last.PaybackYears)
	}
	if model.Params().OwnedInitialInvestment != 18_900_000 {
		t.Errorf("sweep mutated the model")
	}
}

func TestSweepErrors(t *testing.T) {
	model := newTestModel(t)
	base := model.BaseInputs()

	if _, err := model.Sweep("depreciationMethod", base, config.SweepRange{Min: 1, Max: 2, Steps: 2}); !errors.Is(err, ErrUnknownParameter) {
		t.Errorf("expected ErrUnknownParameter, got %v", err)
	}
	if _, err := model.Sweep(ParamPricePerNight, base, config.SweepRange{Min: 1, Max: 2, Steps: 0}); err == nil {
		t.Error("expected error for zero steps")
	}
	if _, err := model.Sweep(ParamPricePerNight, base, config.SweepRange{Min: 3, Max: 2, Steps: 2}); err == nil {
		t.Error("expected error for inverted range")
	}
}

func TestSweepRejectsOutOfDomainRanges(t *testing.T) {
	model := newTestModel(t)
	base := model.BaseInputs()

	tests := []struct {
		name  string
		param string
		sweep config.SweepRange
	}{
		{"Too many steps", ParamPricePerNight, config.SweepRange{Min: 1, Max: 2, Steps: constants.MaxSensitivitySteps + 1}},
		{"NaN bounds", ParamOccupancyRate, config.SweepRange{Min: math.NaN(), Max: math.NaN(), Steps: 3}},
		{"Infinite max", ParamPricePerNight, config.SweepRange{Min: 0, Max: math.Inf(1), Steps: 3}},
		{"Occupancy above one", ParamOccupancyRate, config.SweepRange{Min: 0.5, Max: 1.5, Steps: 3}},
		{"Negative property count", ParamOwnedProperties, config.SweepRange{Min: -5, Max: 10, Steps: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := model.Sweep(tt.param, base, tt.sweep); !errors.Is(err, ErrInvalidSweep) {
				t.Errorf("expected ErrInvalidSweep, got %v", err)
			}
		})
	}

	result, err := model.Sweep(ParamOccupancyRate, base, config.SweepRange{Min: 0, Max: 1, Steps: constants.MaxSensitivitySteps})
	if err != nil {
		t.Fatalf("Sweep() at the step limit error = %v", err)
	}
	if len(result.Points) != constants.MaxSensitivitySteps {
		t.Errorf("expected %d points, got %d", constants.MaxSensitivitySteps, len(result.Points))
	}
}

func TestCompareScenarios(t *testing.T) {
	model := newTestModel(t)
	conf := config.DefaultConfiguration()
	conf.Scenarios = append(conf.Scenarios, config.Scenario{Name: "inactive", OccupancyRate: 0.9, PricePerNight: 90000})

	results := model.CompareScenarios(conf.Scenarios, model.BaseInputs())
	if len(results) != 4 {
		t.Fatalf("expected 4 active scenarios, got %d", len(results))
	}

	base := model.Total(model.BaseInputs())
	for _, result := range results {
		if result.Name == "基本" && !mathutil.WithinTolerance(result.Metrics.TotalProfit, base.TotalProfit, yenTolerance) {
			t.Errorf("base scenario profit %v differs from base metrics %v", result.Metrics.TotalProfit, base.TotalProfit)
		}
		for _, score := range []float64{result.Radar.ROI, result.Radar.Profit, result.Radar.Payback} {
			if score < 0 || score > 100 {
				t.Errorf("scenario %s radar score %v outside [0, 100]", result.Name, score)
			}
		}
	}

	optimistic := results[0]
	if optimistic.Name != "楽観" {
		t.Fatalf("expected configuration order, got %s first", optimistic.Name)
	}
	if optimistic.Radar.Profit != 100 {
		t.Errorf("expected optimistic profit score capped at 100, got %v", optimistic.Radar.Profit)
	}
	if !mathutil.WithinTolerance(optimistic.RiskIndex, 50, 1e-9) {
		t.Errorf("expected risk index 50, got %v", optimistic.RiskIndex)
	}
	worst := results[3]
	if worst.Metrics.TotalProfit >= optimistic.Metrics.TotalProfit {
		t.Errorf("worst case should earn less than optimistic")
	}
}

func TestPaybackHeatmap(t *testing.T) {
	model := newTestModel(t)
	hm := model.PaybackHeatmap(model.BaseInputs())

	if len(hm.Occupancies) != 11 || len(hm.Prices) != 7 {
		t.Fatalf("expected 11x7 grid, got %dx%d", len(hm.Occupancies), len(hm.Prices))
	}
	if len(hm.Years) != 11 || len(hm.Years[0]) != 7 {
		t.Fatalf("grid values do not match axes")
	}
	if hm.Years[0][0] != 15 {
		t.Errorf("expected capped payback at 20%%/¥20,000, got %v", hm.Years[0][0])
	}
	for j := range hm.Prices {
		if hm.Years[10][j] > hm.Years[0][j] {
			t.Errorf("payback must not grow with occupancy at price %v", hm.Prices[j])
		}
	}
	for i := range hm.Years {
		for j := range hm.Years[i] {
			if hm.Years[i][j] <= 0 || hm.Years[i][j] > 15 {
				t.Fatalf("payback %v outside (0, 15]", hm.Years[i][j])
			}
		}
	}
}

func TestPropertySweep(t *testing.T) {
	model := newTestModel(t)
	points := model.PropertySweep(model.BaseInputs(), 10, 50, 5)

	if len(points) != 9 {
		t.Fatalf("expected 9 points, got %d", len(points))
	}
	for _, p := range points {
		if p.OwnedProperties+p.RentalProperties != p.TotalProperties {
			t.Errorf("split %d+%d != %d", p.OwnedProperties, p.RentalProperties, p.TotalProperties)
		}
	}
	if points[1].OwnedProperties != 7 || points[1].RentalProperties != 8 {
		t.Errorf("expected 15 to split 7/8, got %d/%d", points[1].OwnedProperties, points[1].RentalProperties)
	}
	for i := 1; i < len(points); i++ {
		if points[i].TotalProfit <= points[i-1].TotalProfit {
			t.Errorf("profit must increase with properties")
		}
	}
	if model.PropertySweep(model.BaseInputs(), 10, 5, 5) != nil {
		t.Error("expected nil for inverted range")
	}
}

func TestBreakEven(t *testing.T) {
	model := newTestModel(t)
	be := model.BreakEven(model.BaseInputs(), 100)

	if !mathutil.WithinTolerance(be.FixedCosts, 35_700_000, yenTolerance) {
		t.Errorf("fixed costs = %v", be.FixedCosts)
	}
	if be.OccupancyPercent == nil || !mathutil.WithinTolerance(*be.OccupancyPercent, 13.0411, 0.001) {
		t.Errorf("break-even occupancy = %v, expected ≈13.04", be.OccupancyPercent)
	}
	if be.SafetyMargin == nil || !mathutil.WithinTolerance(*be.SafetyMargin, 19.9589, 0.001) {
		t.Errorf("safety margin = %v, expected ≈19.96", be.SafetyMargin)
	}
	if len(be.Curve) != 100 {
		t.Fatalf("expected 100 curve samples, got %d", len(be.Curve))
	}
	if be.Curve[0].OccupancyPercent != 10 || be.Curve[99].OccupancyPercent != 70 {
		t.Errorf("curve must span 10%%..70%%")
	}

	empty := model.BreakEven(Inputs{OccupancyRate: 0.33, PricePerNight: 25000}, 10)
	if empty.OccupancyPercent != nil || empty.SafetyMargin != nil {
		t.Errorf("expected undefined break-even without properties")
	}
}

func TestCostBreakdown(t *testing.T) {
	model := newTestModel(t)
	in := model.BaseInputs()
	breakdown := model.CostBreakdown(in)

	var ownedCash, rentalCash float64
	for _, line := range breakdown.Owned {
		if !line.NonCash {
			ownedCash += line.Amount
		}
	}
	for _, line := range breakdown.Rental {
		rentalCash += line.Amount
	}

	if !mathutil.WithinTolerance(ownedCash, model.Owned(in).OperatingCosts, yenTolerance) {
		t.Errorf("owned cash lines %v do not sum to operating costs", ownedCash)
	}
	if !mathutil.WithinTolerance(rentalCash, model.Rental(in).TotalCosts, yenTolerance) {
		t.Errorf("rental lines %v do not sum to total costs", rentalCash)
	}
	last := breakdown.Owned[len(breakdown.Owned)-1]
	if !last.NonCash || !mathutil.WithinTolerance(last.Amount, 40_500_000, yenTolerance) {
		t.Errorf("expected non-cash depreciation line, got %+v", last)
	}
}

func TestRiskFactors(t *testing.T) {
	model := newTestModel(t)
	report := model.RiskFactors(model.BaseInputs(), config.DefaultConfiguration().Risk)

	if len(report.Factors) != 4 {
		t.Fatalf("expected 4 risk factors, got %d", len(report.Factors))
	}

	byName := make(map[string]RiskFactor)
	for _, f := range report.Factors {
		if f.ProfitImpact == nil {
			t.Fatalf("expected profit impact for %s", f.Name)
		}
		byName[f.Name] = f
	}

	shock := byName[RiskCostShock]
	if !mathutil.WithinTolerance(shock.Metrics.TotalProfit, 48_563_850-9_147_915, yenTolerance) {
		t.Errorf("cost shock profit = %.2f", shock.Metrics.TotalProfit)
	}
	if !mathutil.WithinTolerance(*shock.ProfitImpact, -18.837, 0.01) {
		t.Errorf("cost shock impact = %v", *shock.ProfitImpact)
	}

	savings := byName[RiskCostSavings]
	if !mathutil.WithinTolerance(savings.Metrics.TotalProfit, 48_563_850+2_787_600, yenTolerance) {
		t.Errorf("cost savings profit = %.2f, expected savings applied to the base model", savings.Metrics.TotalProfit)
	}

	downside := byName[RiskRevenueDownside]
	if !mathutil.WithinTolerance(downside.Metrics.TotalProfit, 4_419_000, yenTolerance) {
		t.Errorf("downside profit = %.2f", downside.Metrics.TotalProfit)
	}
	if downside.ROIDelta >= 0 || byName[RiskRevenueUpside].ROIDelta <= 0 {
		t.Errorf("expected downside to lower and upside to raise ROI")
	}
}

func TestRiskFactorsWithZeroBaseProfit(t *testing.T) {
	model := newTestModel(t)
	report := model.RiskFactors(Inputs{OccupancyRate: 0.33, PricePerNight: 25000}, config.DefaultConfiguration().Risk)

	for _, f := range report.Factors {
		if f.ProfitImpact != nil {
			t.Errorf("expected undefined impact for %s without base profit", f.Name)
		}
	}
}

func TestWithCostAdjustmentZeroMultipliersKeepCosts(t *testing.T) {
	model := newTestModel(t)
	adjusted := model.WithCostAdjustment(config.CostAdjustment{Rent: 2})

	if adjusted.Params().FixedCosts.Rental.Rent != 1_680_000 {
		t.Errorf("expected doubled rent, got %v", adjusted.Params().FixedCosts.Rental.Rent)
	}
	if adjusted.Params().FixedCosts.Owned.Utilities != 80_000 {
		t.Errorf("expected unchanged utilities, got %v", adjusted.Params().FixedCosts.Owned.Utilities)
	}
}

func TestAnalyze(t *testing.T) {
	model := newTestModel(t)
	conf := config.DefaultConfiguration()

	report, err := model.Analyze(model.BaseInputs(), conf)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if len(report.OccupancySensitivity.Points) != 20 || len(report.PriceSensitivity.Points) != 20 {
		t.Errorf("expected 20-point sensitivity sweeps")
	}
	if len(report.Scenarios) != 4 || len(report.Risk.Factors) != 4 {
		t.Errorf("expected 4 scenarios and 4 risk factors")
	}
	if len(report.PropertySweep) != 9 || len(report.BreakEven.Curve) != 100 {
		t.Errorf("unexpected sweep or curve length")
	}

	if _, err := model.Analyze(Inputs{OccupancyRate: 2}, conf); err == nil {
		t.Error("expected validation error")
	}
}

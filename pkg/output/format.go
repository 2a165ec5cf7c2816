// Package output provides utilities for formatting and displaying analysis results.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/eightweeks/fujimi-forecast/internal/analysis"
	"github.com/eightweeks/fujimi-forecast/internal/projection"
	"github.com/eightweeks/fujimi-forecast/pkg/constants"
	"github.com/eightweeks/fujimi-forecast/pkg/format"
)

// Summary is everything the CLI prints for one run.
type Summary struct {
	Projection projection.Projection
	Growth     projection.ChartSeries
	Report     *analysis.Report
}

// PrettyFormat writes a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, s Summary) error {
	pw := &printer{w: w}
	display := s.Projection.Display()

	pw.printf("--- 収支シミュレーション (%d件 / 稼働率%s) ---\n", s.Projection.PropertyCount, format.Rate(s.Projection.OccupancyRate))
	pw.printf("所有 %d件 | 賃貸 %d件\n", s.Projection.OwnedCount, s.Projection.RentedCount)
	pw.printf("年間売上   | %s\n", display.Revenue)
	pw.printf("年間利益   | %s\n", display.Profit)
	pw.printf("初期投資   | %s\n", format.ManYen(s.Projection.TotalInvestment))
	pw.printf("投資回収   | %s\n\n", display.Payback)

	if len(s.Growth.Labels) > 0 {
		pw.printf("--- 成長予測 ---\n")
		pw.printf("年     | 売上          | 利益\n")
		pw.printf("____   | _____________ | _____________\n")
		for i, label := range s.Growth.Labels {
			pw.printf("%s | %s | %s\n", label, format.ManYen(s.Growth.Revenue[i]), format.ManYen(s.Growth.Profit[i]))
		}
		pw.printf("\n")
	}

	if s.Report == nil {
		return pw.err
	}
	r := s.Report

	pw.printf("--- 事業モデル (%s / %s / 所有%d件 賃貸%d件) ---\n",
		format.Rate(r.Metrics.Inputs.OccupancyRate), format.Yen(r.Metrics.Inputs.PricePerNight),
		r.Metrics.Inputs.OwnedProperties, r.Metrics.Inputs.RentalProperties)
	pw.printf("総売上     | %s\n", format.Yen(r.Metrics.TotalRevenue))
	pw.printf("総利益     | %s\n", format.Yen(r.Metrics.TotalProfit))
	pw.printf("総投資額   | %s\n", format.Yen(r.Metrics.TotalInvestment))
	pw.printf("ROI        | %s\n", format.Percent(r.Metrics.OverallROI))
	pw.printf("利益率     | %s\n", format.Percent(r.Metrics.ProfitMargin))
	pw.printf("投資回収   | %s\n\n", format.PaybackPtr(r.Metrics.OverallPayback))

	pw.printf("--- シナリオ比較 ---\n")
	pw.printf("シナリオ | 稼働率 | 単価 | 年間利益 | ROI | 回収期間\n")
	pw.printf("________ | ______ | ____ | ________ | ___ | ________\n")
	for _, sc := range r.Scenarios {
		pw.printf("%s | %s | %s | %s | %s | %s\n", sc.Name,
			format.Rate(sc.Metrics.Inputs.OccupancyRate), format.Yen(sc.Metrics.Inputs.PricePerNight),
			format.Yen(sc.Metrics.TotalProfit), format.Percent(sc.Metrics.OverallROI),
			format.PaybackPtr(sc.Metrics.OverallPayback))
	}
	pw.printf("\n")

	for _, sens := range []analysis.Sensitivity{r.OccupancySensitivity, r.PriceSensitivity} {
		pw.printf("--- 感度分析: %s ---\n", sens.Parameter)
		pw.printf("値 | 年間利益 | ROI | 回収期間\n")
		for _, p := range sens.Points {
			pw.printf("%s | %s | %s | %s\n", sensitivityValue(sens.Parameter, p.Value),
				format.Yen(p.TotalProfit), format.Percent(p.OverallROI), format.PaybackPtr(p.PaybackYears))
		}
		pw.printf("\n")
	}

	pw.printf("--- 損益分岐点 ---\n")
	pw.printf("固定費     | %s\n", format.Yen(r.BreakEven.FixedCosts))
	if r.BreakEven.OccupancyPercent != nil {
		pw.printf("損益分岐稼働率 | %s\n", format.Percent(*r.BreakEven.OccupancyPercent))
		pw.printf("安全余裕度 | %s\n", format.SignedPoints(*r.BreakEven.SafetyMargin))
	} else {
		pw.printf("損益分岐稼働率 | %s\n", constants.NotApplicable)
	}
	pw.printf("\n")

	pw.printf("--- リスク要因 ---\n")
	for _, f := range r.Risk.Factors {
		impact := constants.NotApplicable
		if f.ProfitImpact != nil {
			impact = format.SignedPercent(*f.ProfitImpact)
		}
		pw.printf("%s | 利益 %s | 影響 %s | ROI %s\n", f.Name, format.Yen(f.Metrics.TotalProfit), impact, format.SignedPoints(f.ROIDelta))
	}
	return pw.err
}

// CsvFormat writes the scenario and sensitivity tables as one long-form CSV table.
func CsvFormat(w io.Writer, r *analysis.Report) error {
	cw := csv.NewWriter(w)
	header := []string{"table", "label", "occupancyRate", "pricePerNight", "totalProfit", "overallRoi", "paybackYears"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, sc := range r.Scenarios {
		in := sc.Metrics.Inputs
		record := []string{"scenario", sc.Name, decimal(in.OccupancyRate), decimal(in.PricePerNight),
			money(sc.Metrics.TotalProfit), money(sc.Metrics.OverallROI), optional(sc.Metrics.OverallPayback)}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	base := r.Metrics.Inputs
	for _, sens := range []analysis.Sensitivity{r.OccupancySensitivity, r.PriceSensitivity} {
		for _, p := range sens.Points {
			occupancy, price := base.OccupancyRate, base.PricePerNight
			switch sens.Parameter {
			case analysis.ParamOccupancyRate:
				occupancy = p.Value
			case analysis.ParamPricePerNight:
				price = p.Value
			}
			record := []string{"sensitivity", sens.Parameter, decimal(occupancy), decimal(price),
				money(p.TotalProfit), money(p.OverallROI), optional(p.PaybackYears)}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func sensitivityValue(param string, value float64) string {
	switch param {
	case analysis.ParamOccupancyRate:
		return format.Rate(value)
	case analysis.ParamOwnedProperties, analysis.ParamRentalProperties:
		return fmt.Sprintf("%.0f件", value)
	default:
		return format.Yen(value)
	}
}

func decimal(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func optional(v *float64) string {
	if v == nil {
		return ""
	}
	return money(*v)
}

// printer remembers the first write error so report code can stay linear.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(f string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, f, args...)
}

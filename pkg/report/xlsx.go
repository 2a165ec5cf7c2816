// Package report exports analysis results as spreadsheet and PDF documents.
package report

import (
	"fmt"
	"io"

	"github.com/eightweeks/fujimi-forecast/internal/analysis"
	"github.com/xuri/excelize/v2"
)

// Workbook sheet names.
const (
	SheetScenarios   = "Scenarios"
	SheetSensitivity = "Sensitivity"
	SheetBreakEven   = "BreakEven"
)

// WriteWorkbook writes r as an XLSX workbook with one sheet per table.
func WriteWorkbook(w io.Writer, r *analysis.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetScenarios)
	if err != nil {
		return fmt.Errorf("create %s sheet: %w", SheetScenarios, err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E5E9F0"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	scenarioRows := make([][]any, 0, len(r.Scenarios))
	for _, sc := range r.Scenarios {
		scenarioRows = append(scenarioRows, []any{
			sc.Name,
			sc.Metrics.Inputs.OccupancyRate,
			sc.Metrics.Inputs.PricePerNight,
			sc.Metrics.TotalRevenue,
			sc.Metrics.TotalProfit,
			sc.Metrics.OverallROI,
			cell(sc.Metrics.OverallPayback),
		})
	}
	if err := writeTable(f, SheetScenarios, headerStyle,
		[]string{"Scenario", "Occupancy", "Price/Night", "Revenue", "Profit", "ROI %", "Payback (years)"},
		scenarioRows); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetSensitivity); err != nil {
		return fmt.Errorf("create %s sheet: %w", SheetSensitivity, err)
	}
	var sensitivityRows [][]any
	for _, sens := range []analysis.Sensitivity{r.OccupancySensitivity, r.PriceSensitivity} {
		for _, p := range sens.Points {
			sensitivityRows = append(sensitivityRows, []any{sens.Parameter, p.Value, p.TotalProfit, p.OverallROI, cell(p.PaybackYears)})
		}
	}
	if err := writeTable(f, SheetSensitivity, headerStyle,
		[]string{"Parameter", "Value", "Profit", "ROI %", "Payback (years)"},
		sensitivityRows); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetBreakEven); err != nil {
		return fmt.Errorf("create %s sheet: %w", SheetBreakEven, err)
	}
	breakEvenRows := make([][]any, 0, len(r.BreakEven.Curve))
	for _, p := range r.BreakEven.Curve {
		breakEvenRows = append(breakEvenRows, []any{p.OccupancyPercent, p.Revenue, p.FixedCosts})
	}
	if err := writeTable(f, SheetBreakEven, headerStyle,
		[]string{"Occupancy %", "Revenue", "Fixed Costs"},
		breakEvenRows); err != nil {
		return err
	}
	summary := [][]any{
		{"Break-even occupancy %", cell(r.BreakEven.OccupancyPercent)},
		{"Safety margin (pt)", cell(r.BreakEven.SafetyMargin)},
	}
	for i, row := range summary {
		if err := f.SetSheetRow(SheetBreakEven, fmt.Sprintf("E%d", i+1), &row); err != nil {
			return fmt.Errorf("write break-even summary: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeTable(f *excelize.File, sheet string, headerStyle int, header []string, rows [][]any) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("style %s header: %w", sheet, err)
	}
	for i, row := range rows {
		start, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, start, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// cell returns an empty cell for undefined values.
func cell(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}

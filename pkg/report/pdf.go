package report

import (
	"fmt"
	"io"
	"time"

	"github.com/eightweeks/fujimi-forecast/internal/analysis"
	"github.com/eightweeks/fujimi-forecast/pkg/format"
	"github.com/jung-kurt/gofpdf"
)

// Core PDF fonts carry no CJK glyphs, so scenario names are transliterated.
var scenarioLabels = map[string]string{
	"楽観":   "Optimistic",
	"基本":   "Base",
	"悲観":   "Pessimistic",
	"最悪":   "Worst",
	"売上激減": "Revenue downside",
	"売上好調": "Revenue upside",
	"費用上昇": "Cost shock",
	"費用削減": "Cost savings",
}

func label(name string) string {
	if l, ok := scenarioLabels[name]; ok {
		return l
	}
	for _, r := range name {
		if r > 0x7e {
			return "Scenario"
		}
	}
	return name
}

// WritePDF writes a one-page summary of r.
func WritePDF(w io.Writer, r *analysis.Report, generated time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 20)
	pdf.Cell(190, 10, "Fujimi Landscape - Business Analysis")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(190, 6, "Generated on: "+generated.Format("2006-01-02 15:04"))
	pdf.Ln(10)

	m := r.Metrics
	section(pdf, "Base Case")
	rows := [][2]string{
		{"Occupancy", fmt.Sprintf("%.0f%%", m.Inputs.OccupancyRate*100)},
		{"Price per night", yen(m.Inputs.PricePerNight)},
		{"Properties (owned / rental)", fmt.Sprintf("%d / %d", m.Inputs.OwnedProperties, m.Inputs.RentalProperties)},
		{"Total revenue", yen(m.TotalRevenue)},
		{"Total profit", yen(m.TotalProfit)},
		{"Total investment", yen(m.TotalInvestment)},
		{"ROI", fmt.Sprintf("%.1f%%", m.OverallROI)},
		{"Payback", years(m.OverallPayback)},
	}
	pdf.SetFont("Arial", "", 10)
	for _, row := range rows {
		pdf.Cell(70, 6, row[0])
		pdf.Cell(60, 6, row[1])
		pdf.Ln(6)
	}
	pdf.Ln(4)

	section(pdf, "Scenario Comparison")
	widths := []float64{40, 25, 30, 40, 25, 30}
	header := []string{"Scenario", "Occupancy", "Price", "Profit", "ROI", "Payback"}
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range header {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 10)
	for _, sc := range r.Scenarios {
		cells := []string{
			label(sc.Name),
			fmt.Sprintf("%.0f%%", sc.Metrics.Inputs.OccupancyRate*100),
			yen(sc.Metrics.Inputs.PricePerNight),
			yen(sc.Metrics.TotalProfit),
			fmt.Sprintf("%.1f%%", sc.Metrics.OverallROI),
			years(sc.Metrics.OverallPayback),
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, c, "1", 0, "R", false, 0, "")
		}
		pdf.Ln(6)
	}
	pdf.Ln(4)

	section(pdf, "Break-even")
	pdf.SetFont("Arial", "", 10)
	if be := r.BreakEven; be.OccupancyPercent != nil {
		pdf.Cell(190, 6, fmt.Sprintf("Break-even occupancy %.1f%%, safety margin %+.1f pt", *be.OccupancyPercent, *be.SafetyMargin))
	} else {
		pdf.Cell(190, 6, "Break-even occupancy N/A")
	}
	pdf.Ln(10)

	section(pdf, "Risk Factors")
	pdf.SetFont("Arial", "", 10)
	for _, f := range r.Risk.Factors {
		impact := "N/A"
		if f.ProfitImpact != nil {
			impact = fmt.Sprintf("%+.1f%%", *f.ProfitImpact)
		}
		pdf.Cell(60, 6, label(f.Name))
		pdf.Cell(50, 6, yen(f.Metrics.TotalProfit))
		pdf.Cell(40, 6, impact)
		pdf.Cell(40, 6, fmt.Sprintf("%+.1f pt", f.ROIDelta))
		pdf.Ln(6)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(190, 8, title)
	pdf.Ln(10)
}

func yen(v float64) string {
	return "JPY " + format.Grouped(v)
}

func years(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f yrs", *v)
}

// Package format renders amounts, rates and periods for display.
package format

import (
	"math"

	"github.com/eightweeks/fujimi-forecast/pkg/constants"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func printer() *message.Printer {
	return message.NewPrinter(language.Japanese)
}

// Grouped returns amount rounded to an integer with locale thousands separators (e.g., "12,200").
func Grouped(amount float64) string {
	return printer().Sprintf("%d", int64(math.Round(amount)))
}

// ManYen returns an amount expressed in 万円 with separators (e.g., "3,000万円").
func ManYen(amount float64) string {
	return Grouped(amount) + constants.ManYenSuffix
}

// Yen returns a yen amount with the yen sign and separators (e.g., "-¥1,234").
func Yen(amount float64) string {
	rounded := int64(math.Round(math.Abs(amount)))
	formatted := printer().Sprintf("¥%d", rounded)
	if amount < 0 && rounded != 0 {
		return "-" + formatted
	}
	return formatted
}

// Payback returns a payback period with one decimal and the year suffix
// (e.g., "6.3年"), or the N/A sentinel when the period is undefined.
func Payback(years float64, defined bool) string {
	if !defined || math.IsNaN(years) || math.IsInf(years, 0) {
		return constants.NotApplicable
	}
	return printer().Sprintf("%.1f%s", years, constants.YearSuffix)
}

// PaybackPtr is Payback for optional values where nil means undefined.
func PaybackPtr(years *float64) string {
	if years == nil {
		return constants.NotApplicable
	}
	return Payback(*years, true)
}

// Percent returns value (already multiplied by 100) with one decimal and a percent sign.
func Percent(value float64) string {
	return printer().Sprintf("%.1f%%", value)
}

// Rate returns a fraction as a whole percentage (e.g., 0.33 -> "33%").
func Rate(fraction float64) string {
	return printer().Sprintf("%.0f%%", fraction*constants.PercentageMultiplier)
}

// SignedPercent returns value with an explicit sign (e.g., "+12.5%").
func SignedPercent(value float64) string {
	return printer().Sprintf("%+.1f%%", value)
}

// SignedPoints returns a percentage point delta with an explicit sign (e.g., "-3.2%pt").
func SignedPoints(value float64) string {
	return printer().Sprintf("%+.1f%%pt", value)
}

// Package testutil provides common utility functions for testing.
package testutil

import (
	"testing"

	"github.com/eightweeks/fujimi-forecast/internal/analysis"
	"github.com/eightweeks/fujimi-forecast/internal/config"
)

// FindScenario finds a scenario by name in the results slice.
// Returns a pointer to the result if found, nil otherwise.
func FindScenario(results []analysis.ScenarioResult, name string) *analysis.ScenarioResult {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}

// DefaultReport runs the full analysis over the default configuration.
func DefaultReport(tb testing.TB) *analysis.Report {
	tb.Helper()

	conf := config.DefaultConfiguration()
	model, err := analysis.NewModel(nil, conf.Model)
	if err != nil {
		tb.Fatalf("NewModel() error = %v", err)
	}
	r, err := model.Analyze(model.BaseInputs(), conf)
	if err != nil {
		tb.Fatalf("Analyze() error = %v", err)
	}
	return r
}

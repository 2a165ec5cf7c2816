package validation

import (
	"fmt"

	"github.com/eightweeks/fujimi-forecast/pkg/constants"
)

// ValidatePropertyCount checks a property count against the slider bounds.
func ValidatePropertyCount(count int) error {
	if count < constants.MinPropertyCount || count > constants.MaxPropertyCount {
		return fmt.Errorf("property count must be between %d and %d, got %d",
			constants.MinPropertyCount, constants.MaxPropertyCount, count)
	}
	return nil
}

// ValidateOccupancyPercent checks an occupancy percentage against the slider bounds.
func ValidateOccupancyPercent(percent float64) error {
	if !(percent >= constants.MinOccupancyPercent && percent <= constants.MaxOccupancyPercent) {
		return fmt.Errorf("occupancy rate must be between %d%% and %d%%, got %g%%",
			constants.MinOccupancyPercent, constants.MaxOccupancyPercent, percent)
	}
	return nil
}

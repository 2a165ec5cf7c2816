package config

import "github.com/eightweeks/fujimi-forecast/pkg/constants"

// DefaultConfiguration returns the configuration the business plan is quoted at.
func DefaultConfiguration() Configuration {
	return Configuration{
		Calculator: CalculatorConfig{
			BaseOccupancyRate:       constants.BaseOccupancyRate,
			RevenuePerProperty:      constants.BaseRevenuePerProperty,
			OwnedProfitPerProperty:  constants.OwnedNOIPerProperty,
			RentedProfitPerProperty: constants.RentedProfitPerProperty,
			OwnedInvestment:         constants.OwnedInvestmentPerProperty,
			RentedInvestment:        constants.RentedInvestmentPerProperty,
			Rollout:                 []int{10, 20, 30, 40, 50},
		},
		Model: ModelConfig{
			OwnedInitialInvestment:  18_900_000,
			RentalInitialInvestment: 5_500_000,
			BaseOccupancyRate:       constants.BaseOccupancyRate,
			AveragePricePerNight:    25_000,
			OwnedProperties:         15,
			RentalProperties:        15,
			DepreciationYears:       7,
			MonthlyRent:             70_000,
			FixedCosts: FixedCosts{
				Owned: FixedCostSet{
					Operations: 400_000,
					Utilities:  80_000,
					Insurance:  60_000,
				},
				Rental: FixedCostSet{
					Rent:       840_000,
					Operations: 900_000,
					Utilities:  60_000,
					Insurance:  40_000,
				},
			},
			VariableCosts: VariableCosts{
				Owned: VariableCostSet{
					Operations: 240_000 * constants.BaseOccupancyRate,
					Utilities:  68_000 * constants.BaseOccupancyRate,
					Cleaning:   120_000 * constants.BaseOccupancyRate,
				},
				Rental: VariableCostSet{
					Operations: 594_000 * constants.BaseOccupancyRate,
					Utilities:  55_000 * constants.BaseOccupancyRate,
					Cleaning:   150_000 * constants.BaseOccupancyRate,
				},
			},
		},
		Scenarios: []Scenario{
			{Name: "楽観", Active: true, OccupancyRate: 0.50, PricePerNight: 30_000, Color: "#A3BE8C"},
			{Name: "基本", Active: true, OccupancyRate: 0.33, PricePerNight: 25_000, Color: "#5E81AC"},
			{Name: "悲観", Active: true, OccupancyRate: 0.25, PricePerNight: 22_000, Color: "#D08770"},
			{Name: "最悪", Active: true, OccupancyRate: 0.20, PricePerNight: 20_000, Color: "#BF616A"},
		},
		Sensitivity: SensitivityConfig{
			Occupancy: SweepRange{Min: 0.15, Max: 0.70, Steps: 20},
			Price:     SweepRange{Min: 15_000, Max: 40_000, Steps: 20},
		},
		Risk: RiskConfig{
			RevenueDownside: MarketCase{OccupancyRate: 0.20, PricePerNight: 20_000},
			RevenueUpside:   MarketCase{OccupancyRate: 0.55, PricePerNight: 32_000},
			CostShock: CostAdjustment{
				UtilitiesFixed:     1.4,
				UtilitiesVariable:  1.5,
				OperationsFixed:    1.25,
				OperationsVariable: 1.3,
				Rent:               1.15,
			},
			CostSavings: CostAdjustment{
				UtilitiesFixed:     0.85,
				UtilitiesVariable:  0.8,
				OperationsFixed:    0.92,
				OperationsVariable: 0.9,
				Rent:               0.97,
			},
		},
		Cache: CacheConfig{
			Backend: "memory",
			TTL:     constants.DefaultCacheTTL,
		},
		Output: OutputConfig{
			Format: constants.OutputFormatPretty,
		},
	}
}

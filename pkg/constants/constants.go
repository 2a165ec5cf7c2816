// Package constants provides shared constants for the fujimi-forecast application.
package constants

import "time"

// Landing page calculator constants. Monetary values are in 万円 (10,000 yen).
const (
	// BaseOccupancyRate is the reference occupancy every per-property figure is quoted at.
	BaseOccupancyRate = 0.33

	// BaseRevenuePerProperty is the annual revenue of one property at the base occupancy.
	BaseRevenuePerProperty = 300.0

	// OwnedNOIPerProperty is the annual net operating income of one owned property.
	OwnedNOIPerProperty = 236.0

	// RentedProfitPerProperty is the annual operating profit of one leased property.
	RentedProfitPerProperty = 150.6

	// OwnedInvestmentPerProperty is the initial investment for one owned property.
	OwnedInvestmentPerProperty = 1890.0

	// RentedInvestmentPerProperty is the initial investment for one leased property.
	RentedInvestmentPerProperty = 550.0
)

// Slider bounds and defaults on the landing page.
const (
	MinPropertyCount     = 1
	MaxPropertyCount     = 50
	DefaultPropertyCount = 10

	MinOccupancyPercent     = 10
	MaxOccupancyPercent     = 80
	DefaultOccupancyPercent = 33
)

// Display suffixes and sentinels.
const (
	// ManYenSuffix is appended to amounts expressed in 万円.
	ManYenSuffix = "万円"

	// YearSuffix is appended to payback periods.
	YearSuffix = "年"

	// NotApplicable is displayed when a payback period is undefined.
	NotApplicable = "N/A"
)

// Animation and scroll constants.
const (
	// DefaultCountUpDuration is the duration of the hero statistic count-up.
	DefaultCountUpDuration = 2000 * time.Millisecond

	// RevealThreshold is the visible fraction at which an element reveals.
	RevealThreshold = 0.3

	// RevealBottomMargin shrinks the viewport from the bottom before intersecting (px).
	RevealBottomMargin = 50.0

	// NavVisibilityOffset is the scroll offset past which the navbar is shown (px).
	NavVisibilityOffset = 100.0

	// ParallaxFactor scales the scroll offset applied to the hero banner.
	ParallaxFactor = 0.5

	// ResizeDebounce is the trailing-edge debounce applied to resize handling.
	ResizeDebounce = 250 * time.Millisecond
)

// Gallery constants.
const (
	// GalleryFilterAll shows every item.
	GalleryFilterAll = "all"

	// GalleryHideDelay is the delay between the fade-out and display:none.
	GalleryHideDelay = 300 * time.Millisecond

	// GalleryLoadMoreBatch is the number of hidden items revealed per load-more click.
	GalleryLoadMoreBatch = 6

	// GalleryStaggerStep is the per-item reveal delay increment on load-more.
	GalleryStaggerStep = 100 * time.Millisecond

	// GalleryInitialVisible is the number of items shown before any load-more click.
	GalleryInitialVisible = 9
)

// Business model constants.
const (
	// DaysPerYear is used to annualise nightly prices.
	DaysPerYear = 365

	// PaybackCapYears caps payback periods on heatmaps and charts.
	PaybackCapYears = 15.0

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// ProfitNormalisation is the profit (yen) mapped to 100 on the scenario radar.
	ProfitNormalisation = 100_000_000.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix prefixes environment overrides of the analysis configuration.
	EnvPrefix = "FUJIMI"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultRateLimitCapacity is the number of API requests allowed per refill window.
	DefaultRateLimitCapacity = 120

	// DefaultRateLimitRefill is the refill window of the per-client token bucket.
	DefaultRateLimitRefill = time.Minute

	// DefaultCacheTTL is how long analysis results stay cached.
	DefaultCacheTTL = 10 * time.Minute

	// MaxSensitivitySteps bounds the number of points in one sensitivity sweep.
	MaxSensitivitySteps = 200

	// DefaultMemoryCacheEntries bounds the in-process analysis cache.
	DefaultMemoryCacheEntries = 1024
)

// Validation constants
const (
	// CurrencyTolerance is the tolerance for currency comparisons
	CurrencyTolerance = 0.01
)

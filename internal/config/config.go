// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/eightweeks/fujimi-forecast/pkg/constants"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for fujimi-forecast.
type Configuration struct {
	Calculator  CalculatorConfig  `yaml:"calculator"`
	Model       ModelConfig       `yaml:"model"`
	Scenarios   []Scenario        `yaml:"scenarios"`
	Sensitivity SensitivityConfig `yaml:"sensitivity"`
	Risk        RiskConfig        `yaml:"risk"`
	Cache       CacheConfig       `yaml:"cache,omitempty"`
	Logging     LoggingConfig     `yaml:"logging,omitempty"`
	Output      OutputConfig      `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// CacheConfig selects where analysis results are cached.
type CacheConfig struct {
	Backend       string        `yaml:"backend,omitempty"` // memory, redis, none
	RedisAddress  string        `yaml:"redisAddress,omitempty"`
	RedisPassword string        `yaml:"redisPassword,omitempty"`
	RedisDB       int           `yaml:"redisDB,omitempty"`
	TTL           time.Duration `yaml:"ttl,omitempty"`
}

// CalculatorConfig holds the landing page calculator constants. Amounts are
// in 万円 per property per year.
type CalculatorConfig struct {
	BaseOccupancyRate       float64 `yaml:"baseOccupancyRate"`
	RevenuePerProperty      float64 `yaml:"revenuePerProperty"`
	OwnedProfitPerProperty  float64 `yaml:"ownedProfitPerProperty"`
	RentedProfitPerProperty float64 `yaml:"rentedProfitPerProperty"`
	OwnedInvestment         float64 `yaml:"ownedInvestment"`
	RentedInvestment        float64 `yaml:"rentedInvestment"`
	// Rollout is the property count for each year of the growth chart.
	Rollout []int `yaml:"rollout"`
}

// ModelConfig holds the business model parameters in yen.
type ModelConfig struct {
	OwnedInitialInvestment  float64       `yaml:"ownedInitialInvestment"`
	RentalInitialInvestment float64       `yaml:"rentalInitialInvestment"`
	BaseOccupancyRate       float64       `yaml:"baseOccupancyRate"`
	AveragePricePerNight    float64       `yaml:"averagePricePerNight"`
	OwnedProperties         int           `yaml:"ownedProperties"`
	RentalProperties        int           `yaml:"rentalProperties"`
	DepreciationYears       int           `yaml:"depreciationYears"`
	MonthlyRent             float64       `yaml:"monthlyRent"`
	FixedCosts              FixedCosts    `yaml:"fixedCosts"`
	VariableCosts           VariableCosts `yaml:"variableCosts"`
}

// FixedCosts holds annual per-property costs that do not depend on occupancy.
type FixedCosts struct {
	Owned  FixedCostSet `yaml:"owned"`
	Rental FixedCostSet `yaml:"rental"`
}

// FixedCostSet is one property type's fixed costs. Owned properties carry no rent.
type FixedCostSet struct {
	Rent       float64 `yaml:"rent,omitempty"`
	Operations float64 `yaml:"operations"`
	Utilities  float64 `yaml:"utilities"`
	Insurance  float64 `yaml:"insurance"`
}

// Total sums the fixed costs of one property.
func (f FixedCostSet) Total() float64 {
	return f.Rent + f.Operations + f.Utilities + f.Insurance
}

// VariableCosts holds annual per-property costs quoted at the base occupancy.
type VariableCosts struct {
	Owned  VariableCostSet `yaml:"owned"`
	Rental VariableCostSet `yaml:"rental"`
}

// VariableCostSet is one property type's variable costs at the base occupancy.
type VariableCostSet struct {
	Operations float64 `yaml:"operations"`
	Utilities  float64 `yaml:"utilities"`
	Cleaning   float64 `yaml:"cleaning"`
}

// Total sums the variable costs of one property at the base occupancy.
func (v VariableCostSet) Total() float64 {
	return v.Operations + v.Utilities + v.Cleaning
}

// Scenario is a named occupancy and price combination to compare.
type Scenario struct {
	Name          string  `yaml:"name"`
	Active        bool    `yaml:"active"`
	OccupancyRate float64 `yaml:"occupancyRate"`
	PricePerNight float64 `yaml:"pricePerNight"`
	Color         string  `yaml:"color,omitempty"`
}

// SweepRange describes an evenly spaced sweep.
type SweepRange struct {
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
	Steps int     `yaml:"steps"`
}

// SensitivityConfig holds the default sweeps for the sensitivity analysis.
type SensitivityConfig struct {
	Occupancy SweepRange `yaml:"occupancy"`
	Price     SweepRange `yaml:"price"`
}

// MarketCase is an occupancy and price pair used by the revenue risk factors.
type MarketCase struct {
	OccupancyRate float64 `yaml:"occupancyRate"`
	PricePerNight float64 `yaml:"pricePerNight"`
}

// CostAdjustment multiplies individual cost lines. A zero multiplier is
// treated as 1 (unchanged).
type CostAdjustment struct {
	UtilitiesFixed     float64 `yaml:"utilitiesFixed"`
	UtilitiesVariable  float64 `yaml:"utilitiesVariable"`
	OperationsFixed    float64 `yaml:"operationsFixed"`
	OperationsVariable float64 `yaml:"operationsVariable"`
	Rent               float64 `yaml:"rent"`
}

// RiskConfig holds the risk factor cases.
type RiskConfig struct {
	RevenueDownside MarketCase     `yaml:"revenueDownside"`
	RevenueUpside   MarketCase     `yaml:"revenueUpside"`
	CostShock       CostAdjustment `yaml:"costShock"`
	CostSavings     CostAdjustment `yaml:"costSavings"`
}

// ErrInvalidBaseOccupancy is returned when a base occupancy would divide by zero.
var ErrInvalidBaseOccupancy = errors.New("base occupancy rate must be greater than zero")

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there on top of the defaults. An empty path returns the
// defaults with environment overrides applied.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	if configPath == "" {
		return decode(v)
	}

	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML configuration from r on top of the defaults.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only reaches keys viper knows about, so every default
	// scalar is registered even when the file omits it.
	registerDefaults(v, "", reflect.ValueOf(DefaultConfiguration()))
	return v
}

// registerDefaults walks a configuration struct and registers each scalar
// under its yaml key. Lists keep their struct defaults and are not
// overridable from the environment.
func registerDefaults(v *viper.Viper, prefix string, value reflect.Value) {
	t := value.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			name = field.Name
		}
		key := name
		if prefix != "" {
			key = prefix + "." + name
		}

		fv := value.Field(i)
		switch fv.Kind() {
		case reflect.Struct:
			registerDefaults(v, key, fv)
		case reflect.Slice, reflect.Map:
		default:
			v.SetDefault(key, fv.Interface())
		}
	}
}

func decode(v *viper.Viper) (*Configuration, error) {
	configuration := DefaultConfiguration()
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	// Decoding onto a populated slice keeps surplus default elements, so
	// lists present in the file replace the defaults wholesale.
	if v.IsSet("scenarios") {
		configuration.Scenarios = nil
		if err := v.UnmarshalKey("scenarios", &configuration.Scenarios); err != nil {
			return nil, fmt.Errorf("unable to decode scenarios, %s", err)
		}
	}
	if v.IsSet("calculator.rollout") {
		configuration.Calculator.Rollout = nil
		if err := v.UnmarshalKey("calculator.rollout", &configuration.Calculator.Rollout); err != nil {
			return nil, fmt.Errorf("unable to decode calculator rollout, %s", err)
		}
	}

	if err := configuration.Validate(); err != nil {
		return nil, err
	}
	return &configuration, nil
}

// Validate reports configuration errors that make the arithmetic undefined.
func (c *Configuration) Validate() error {
	if c.Calculator.BaseOccupancyRate <= 0 {
		return fmt.Errorf("calculator: %w", ErrInvalidBaseOccupancy)
	}
	if c.Model.BaseOccupancyRate <= 0 {
		return fmt.Errorf("model: %w", ErrInvalidBaseOccupancy)
	}
	return nil
}

// ActiveScenarios returns the scenarios flagged active, in configuration order.
func (c *Configuration) ActiveScenarios() []Scenario {
	active := make([]Scenario, 0, len(c.Scenarios))
	for _, scenario := range c.Scenarios {
		if scenario.Active {
			active = append(active, scenario)
		}
	}
	return active
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if c.Model.DepreciationYears <= 0 {
		warnings = append(warnings, fmt.Sprintf("Depreciation years is %d - depreciation will be reported as zero", c.Model.DepreciationYears))
	}
	if c.Model.OwnedProperties < 0 || c.Model.RentalProperties < 0 {
		warnings = append(warnings, "Property counts must not be negative")
	}
	if c.Model.OwnedProperties+c.Model.RentalProperties == 0 {
		warnings = append(warnings, "No properties configured - break-even occupancy is undefined")
	}
	if c.Model.AveragePricePerNight <= 0 {
		warnings = append(warnings, fmt.Sprintf("Average price per night is %.0f - revenue will be zero", c.Model.AveragePricePerNight))
	}
	if len(c.ActiveScenarios()) == 0 {
		warnings = append(warnings, "No active scenarios - scenario comparison will be empty")
	}

	names := make(map[string]struct{}, len(c.Scenarios))
	for _, scenario := range c.Scenarios {
		if _, dup := names[scenario.Name]; dup {
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' is defined more than once", scenario.Name))
		}
		names[scenario.Name] = struct{}{}

		if !scenario.Active {
			continue
		}
		if scenario.OccupancyRate < 0 || scenario.OccupancyRate > 1 {
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' occupancy rate %.2f is outside [0, 1]", scenario.Name, scenario.OccupancyRate))
		}
		if scenario.PricePerNight <= 0 {
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' has a non-positive price per night", scenario.Name))
		}
	}

	sweeps := []struct {
		label string
		sweep SweepRange
	}{
		{"occupancy", c.Sensitivity.Occupancy},
		{"price", c.Sensitivity.Price},
	}
	for _, s := range sweeps {
		if s.sweep.Steps < 2 {
			warnings = append(warnings, fmt.Sprintf("Sensitivity %s sweep has %d steps - at least 2 are needed for a curve", s.label, s.sweep.Steps))
		}
		if s.sweep.Steps > constants.MaxSensitivitySteps {
			warnings = append(warnings, fmt.Sprintf("Sensitivity %s sweep has %d steps - sweeps above %d steps are rejected", s.label, s.sweep.Steps, constants.MaxSensitivitySteps))
		}
		if s.sweep.Max < s.sweep.Min {
			warnings = append(warnings, fmt.Sprintf("Sensitivity %s sweep max %.2f is below min %.2f", s.label, s.sweep.Max, s.sweep.Min))
		}
	}

	if len(c.Calculator.Rollout) == 0 {
		warnings = append(warnings, "Calculator rollout is empty - growth chart will be empty")
	}

	return warnings
}

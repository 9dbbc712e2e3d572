package contract

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/huangsam/readiness/schema"
)

// Default values for configuration.
const (
	DefaultLookbackDays   = 30
	DefaultResultLimit    = 30
	MaxResultLimit        = 1000
	DefaultPrecision      = 1
	DefaultTransitionDays = 30
	DefaultLogLevel       = "warn"
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// WeightsRawInput holds custom rules weights from the YAML config file.
// Use float64 pointers for optional fields.
type WeightsRawInput struct {
	HRV              *float64 `mapstructure:"hrv"`
	Sleep            *float64 `mapstructure:"sleep"`
	Energy           *float64 `mapstructure:"energy"`
	RestingHeartRate *float64 `mapstructure:"resting_hr"`
}

// Config holds the runtime configuration.
// This struct remains the "final, validated" config.
type Config struct {
	Date        time.Time // calendar day a command acts on
	EnergyLevel *int      // nil when not reported
	Slot        schema.CheckInSlot

	StartTime   time.Time
	EndTime     time.Time
	ResultLimit int

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseEmojis  bool
	UseColors  bool

	Backend   schema.DatabaseBackend
	DBConnect string // Please use env var as this is plaintext

	TransitionDays int

	LogLevel    string
	LogFile     string
	MetricsFile string

	// Weights is the final rules weights map, computed from defaults + custom overrides
	Weights map[schema.BreakdownKey]float64
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Precision      int    `mapstructure:"precision"`
	Width          int    `mapstructure:"width"`
	Emoji          string `mapstructure:"emoji"`
	Color          string `mapstructure:"color"`
	Backend        string `mapstructure:"backend"`
	DBConnect      string `mapstructure:"db-connect"`
	TransitionDays int    `mapstructure:"transition-days"`
	LogLevel       string `mapstructure:"log-level"`
	LogFile        string `mapstructure:"log-file"`
	MetricsFile    string `mapstructure:"metrics-file"`

	// --- Fields from day-scoped commands ---
	Date   string `mapstructure:"date"`
	Energy int    `mapstructure:"energy"`
	Slot   string `mapstructure:"slot"`

	// --- Fields from history commands ---
	Start string `mapstructure:"start"`
	End   string `mapstructure:"end"`
	Limit int    `mapstructure:"limit"`

	// --- Custom weights from config file ---
	Weights WeightsRawInput `mapstructure:"weights"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput, now time.Time) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}
	if err := processDayInputs(cfg, input, now); err != nil {
		return err
	}
	if err := processTimeRange(cfg, input, now); err != nil {
		return err
	}
	if err := processCustomWeights(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfig validates the storage backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.Backend = schema.DatabaseBackend(strings.ToLower(input.Backend))
	if cfg.Backend == "" {
		cfg.Backend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.Backend]; !ok {
		return fmt.Errorf("invalid backend '%s'. must be sqlite, mysql, postgresql, none", input.Backend)
	}
	cfg.DBConnect = input.DBConnect
	return ValidateDatabaseConnectionString(cfg.Backend, cfg.DBConnect)
}

// validateSimpleInputs processes and validates the presentation and runtime fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.LogFile = input.LogFile
	cfg.MetricsFile = input.MetricsFile

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", cfg.Output)
	}

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.TransitionDays < 1 {
		return fmt.Errorf("transition-days must be at least 1 (received %d)", input.TransitionDays)
	}
	cfg.TransitionDays = input.TransitionDays

	cfg.LogLevel = strings.ToLower(input.LogLevel)
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if _, err := ParseLogLevel(cfg.LogLevel); err != nil {
		return err
	}
	return nil
}

// processDayInputs resolves the target day, energy level and check-in slot.
func processDayInputs(cfg *Config, input *ConfigRawInput, now time.Time) error {
	day, err := ParseDayNotAfter(input.Date, now)
	if err != nil {
		return err
	}
	cfg.Date = day

	// Zero means the energy level was not reported
	switch {
	case input.Energy == 0:
		cfg.EnergyLevel = nil
	case input.Energy < 1 || input.Energy > 5:
		return fmt.Errorf("energy must be between 1 and 5 (received %d)", input.Energy)
	default:
		cfg.EnergyLevel = schema.IntPtr(input.Energy)
	}

	cfg.Slot = schema.CheckInSlot(strings.ToLower(input.Slot))
	if cfg.Slot == "" {
		cfg.Slot = DefaultSlot(now)
	}
	if _, ok := schema.ValidCheckInSlots[cfg.Slot]; !ok {
		return fmt.Errorf("invalid slot '%s'. must be morning, evening", input.Slot)
	}
	return nil
}

// DefaultSlot picks the check-in slot for the time of day.
func DefaultSlot(now time.Time) schema.CheckInSlot {
	if now.Hour() < 15 {
		return schema.MorningSlot
	}
	return schema.EveningSlot
}

// processTimeRange handles the history window parsing and validation.
func processTimeRange(cfg *Config, input *ConfigRawInput, now time.Time) error {
	cfg.EndTime = schema.DayStart(now)
	cfg.StartTime = cfg.EndTime.AddDate(0, 0, -DefaultLookbackDays)

	if input.Start != "" {
		t, err := ParseDay(input.Start, now)
		if err != nil {
			return fmt.Errorf("invalid start date: %w", err)
		}
		cfg.StartTime = t
	}
	if input.End != "" {
		t, err := ParseDay(input.End, now)
		if err != nil {
			return fmt.Errorf("invalid end date: %w", err)
		}
		cfg.EndTime = t
	}

	if cfg.StartTime.After(cfg.EndTime) {
		return fmt.Errorf("start date (%s) cannot be after end date (%s)", schema.DayKey(cfg.StartTime), schema.DayKey(cfg.EndTime))
	}
	return nil
}

// ProcessWeightsRawInput merges custom weights over the defaults.
// If validateSum is true, it validates that the final weights sum to 1.0.
func ProcessWeightsRawInput(weights WeightsRawInput, validateSum bool) (map[schema.BreakdownKey]float64, error) {
	result := schema.GetDefaultWeights()
	overrides := map[schema.BreakdownKey]*float64{
		schema.BreakdownHRV:       weights.HRV,
		schema.BreakdownSleep:     weights.Sleep,
		schema.BreakdownEnergy:    weights.Energy,
		schema.BreakdownRestingHR: weights.RestingHeartRate,
	}

	for _, key := range schema.AllBreakdownKeys {
		w := overrides[key]
		if w == nil {
			continue
		}
		if *w < 0 || math.IsNaN(*w) || math.IsInf(*w, 0) {
			return nil, fmt.Errorf("weight for %s must be a non-negative number (received %v)", key, *w)
		}
		result[key] = *w
	}

	if validateSum {
		sum := 0.0
		for _, w := range result {
			sum += w
		}
		if sum < 0.999 || sum > 1.001 {
			return nil, fmt.Errorf("weights must sum to 1.0 (received %.3f)", sum)
		}
	}
	return result, nil
}

// processCustomWeights applies config file weights to cfg.
func processCustomWeights(cfg *Config, input *ConfigRawInput) error {
	weights, err := ProcessWeightsRawInput(input.Weights, true)
	if err != nil {
		return fmt.Errorf("invalid weights: %w", err)
	}
	cfg.Weights = weights
	return nil
}

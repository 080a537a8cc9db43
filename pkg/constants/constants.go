// Package constants provides shared constants for the ltv-leverage application.
package constants

// Reference curve domain
const (
	// MinLeverage is the lower bound of the plotted leverage domain
	MinLeverage = 1.0

	// MaxLeverage is the upper bound of the plotted leverage domain
	MaxLeverage = 11.0

	// DefaultCurveSamples is the number of evenly spaced samples on the reference curve
	DefaultCurveSamples = 100
)

// Slider bounds for the effective LTV mode
const (
	LTVSliderMin     = 0.0
	LTVSliderMax     = 0.99
	LTVSliderDefault = 0.5
	LTVSliderStep    = 0.01
)

// Slider bounds for the leverage mode
const (
	LeverageSliderMin     = 1.0
	LeverageSliderMax     = 11.0
	LeverageSliderDefault = 2.0
	LeverageSliderStep    = 0.1
)

// Slider bounds for the weights mode. Both weights share the range and step.
const (
	WeightSliderMin           = 0.0
	WeightSliderMax           = 1.0
	WeightSliderStep          = 0.01
	SupplyWeightSliderDefault = 0.5
	BorrowWeightSliderDefault = 1.0
)

// Chart labels
const (
	XAxisLabel        = "Leverage"
	YAxisLabel        = "Effective LTV"
	YTickFormat       = ".0%"
	CurveSeriesName   = "Effective LTV"
	PointSeriesName   = "Current Point"
	PointMarkerSize   = 10
	PointMarkerColor  = "red"
	SeriesStyleLines  = "lines"
	SeriesStyleMarker = "markers"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the indented JSON chart payload
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix is the prefix for environment overrides (LTV_LEVERAGE_OUTPUT_FORMAT, ...)
	EnvPrefix = "LTV_LEVERAGE"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxRequestSizeBytes is the default maximum JSON request body (64 KB)
	DefaultMaxRequestSizeBytes int64 = 64 * 1024

	// DefaultMaxSessions caps the number of live interactive sessions
	DefaultMaxSessions = 1024

	// DefaultShutdownTimeoutSeconds bounds graceful shutdown
	DefaultShutdownTimeoutSeconds = 10

	// MetricsNamespace prefixes every exported prometheus metric
	MetricsNamespace = "ltv_leverage"
)

// Validation constants
const (
	// RoundTripTolerance is the tolerance for leverage/LTV round trips
	RoundTripTolerance = 1e-9

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

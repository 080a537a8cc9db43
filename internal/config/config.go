// Package config defines the configuration structures for ltv-leverage and
// loads them through viper.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/iwvelando/ltv-leverage/internal/mode"
	"github.com/iwvelando/ltv-leverage/pkg/constants"
	"github.com/iwvelando/ltv-leverage/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for ltv-leverage.
type Configuration struct {
	Logging     LoggingConfig     `yaml:"logging,omitempty" mapstructure:"logging"`
	Output      OutputConfig      `yaml:"output,omitempty" mapstructure:"output"`
	Calculation CalculationConfig `yaml:"calculation,omitempty" mapstructure:"calculation"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv, json
}

// CalculationConfig holds the starting mode and raw inputs for a computation.
type CalculationConfig struct {
	Mode         string  `yaml:"mode,omitempty" mapstructure:"mode"`
	EffectiveLTV float64 `yaml:"effectiveLTV" mapstructure:"effectiveLTV"`
	Leverage     float64 `yaml:"leverage" mapstructure:"leverage"`
	SupplyWeight float64 `yaml:"supplyWeight" mapstructure:"supplyWeight"`
	BorrowWeight float64 `yaml:"borrowWeight" mapstructure:"borrowWeight"`
	CurveSamples int     `yaml:"curveSamples,omitempty" mapstructure:"curveSamples"`
}

// ModeValue parses the configured mode name.
func (c CalculationConfig) ModeValue() (mode.Mode, error) {
	return mode.ParseMode(c.Mode)
}

// Inputs returns the configured raw inputs.
func (c CalculationConfig) Inputs() mode.Inputs {
	return mode.Inputs{
		EffectiveLTV: c.EffectiveLTV,
		Leverage:     c.Leverage,
		SupplyWeight: c.SupplyWeight,
		BorrowWeight: c.BorrowWeight,
	}
}

// Default returns the configuration used when no file is present.
func Default() *Configuration {
	v := newViper()
	var configuration Configuration
	// Decoding viper's own defaults cannot fail.
	_ = v.Unmarshal(&configuration)
	return &configuration
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("calculation.mode", mode.AdjustLTV.String())
	v.SetDefault("calculation.effectiveLTV", constants.LTVSliderDefault)
	v.SetDefault("calculation.leverage", constants.LeverageSliderDefault)
	v.SetDefault("calculation.supplyWeight", constants.SupplyWeightSliderDefault)
	v.SetDefault("calculation.borrowWeight", constants.BorrowWeightSliderDefault)
	v.SetDefault("calculation.curveSamples", constants.DefaultCurveSamples)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigType("yml")
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationIfExists behaves like LoadConfiguration but returns the
// defaults when configPath does not exist.
func LoadConfigurationIfExists(configPath string) (*Configuration, error) {
	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return LoadConfiguration(configPath)
}

// LoadConfigurationFromReader loads the YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// ValidateConfiguration returns warnings for settings that will be adjusted
// at runtime. Hard errors are left to the individual validators.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if err := validation.ValidateLogLevel(c.Logging.Level); err != nil {
		warnings = append(warnings, err.Error())
	}
	if err := validation.ValidateLogFormat(c.Logging.Format); err != nil {
		warnings = append(warnings, err.Error())
	}
	if err := validation.ValidateCurveSamples(c.Calculation.CurveSamples); err != nil {
		warnings = append(warnings, fmt.Sprintf("%v - using %d", err, constants.DefaultCurveSamples))
	}

	m, err := c.Calculation.ModeValue()
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("calculation mode: %v", err))
		return warnings
	}

	d, err := mode.Describe(m)
	if err != nil {
		return append(warnings, err.Error())
	}
	inputs := c.Calculation.Inputs()
	for _, s := range d.Sliders {
		v, _ := inputs.Get(s.Field)
		if !s.Contains(v) {
			warnings = append(warnings, fmt.Sprintf("%s %g is outside [%g, %g] and will be clamped to %g",
				s.Field, v, s.Min, s.Max, s.Clamp(v)))
		}
	}

	return warnings
}

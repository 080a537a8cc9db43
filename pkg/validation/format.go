// Package validation provides common validation utilities.
package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/ltv-leverage/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON:
		return nil
	}
	return fmt.Errorf("expected output format of %s, %s or %s, got %s",
		constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON, format)
}

// ValidateLogLevel checks a zap level name. Empty means the default.
func ValidateLogLevel(level string) error {
	switch strings.ToLower(level) {
	case "", "debug", "info", "warn", "warning", "error":
		return nil
	}
	return fmt.Errorf("invalid log level: %s", level)
}

// ValidateLogFormat checks a zap encoder name. Empty means the default.
func ValidateLogFormat(format string) error {
	switch format {
	case "", "json", "console":
		return nil
	}
	return fmt.Errorf("invalid log format: %s", format)
}

// ValidateCurveSamples checks that the reference curve has at least both endpoints.
func ValidateCurveSamples(samples int) error {
	if samples < 2 {
		return fmt.Errorf("curve samples must be at least 2, got %d", samples)
	}
	return nil
}

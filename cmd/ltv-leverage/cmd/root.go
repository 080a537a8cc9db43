// Package cmd implements the ltv-leverage command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/iwvelando/ltv-leverage/internal/config"
	"github.com/iwvelando/ltv-leverage/internal/mode"
	"github.com/iwvelando/ltv-leverage/pkg/constants"
	"github.com/iwvelando/ltv-leverage/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X .../cmd.version=..."
var version = "dev"

type app struct {
	configPath   string
	logLevel     string
	outputFormat string

	conf   *config.Configuration
	logger *zap.Logger
}

// controller returns a mode controller sampling the configured curve.
func (a *app) controller() *mode.Controller {
	return mode.NewController(a.logger, a.conf.Calculation.CurveSamples)
}

// format resolves the output format, CLI override first.
func (a *app) format() (string, error) {
	outputFormat := a.conf.Output.Format
	if a.outputFormat != "" {
		outputFormat = a.outputFormat
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return "", err
	}
	return outputFormat, nil
}

func (a *app) setup(cmd *cobra.Command) error {
	var err error
	if cmd.Flags().Changed("config") {
		a.conf, err = config.LoadConfiguration(a.configPath)
	} else {
		a.conf, err = config.LoadConfigurationIfExists(a.configPath)
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration at %s: %w", a.configPath, err)
	}

	a.logger, err = initializeLogger(a.conf.Logging, a.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	for _, warning := range a.conf.ValidateConfiguration() {
		a.logger.Warn("Configuration warning: "+warning,
			zap.String("op", "cmd.setup"),
		)
	}
	return nil
}

func (a *app) teardown() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "ltv-leverage",
		Short: "Explore the relationship between leverage and effective LTV",
		Long: `ltv-leverage relates leverage, effective loan-to-value and supply/borrow
weight pairs:

  Effective LTV = 1 - (1 / Leverage)
  Leverage      = 1 / (1 - Effective LTV)
  Effective LTV = Supply Weight * Borrow Weight

Each command produces the derived (leverage, effective LTV) pair and the chart
payload of the reference curve with the current point highlighted.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.teardown()
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", constants.DefaultConfigFile, "path to configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	root.PersistentFlags().StringVarP(&a.outputFormat, "output-format", "o", "", "type of output override: pretty, csv, json")

	root.AddCommand(
		newComputeCmd(a),
		newCurveCmd(a),
		newModesCmd(a),
		newInteractiveCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command against os.Args.
func Execute() error {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}

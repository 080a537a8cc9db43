package cmd

import (
	"github.com/iwvelando/ltv-leverage/internal/mode"
	"github.com/iwvelando/ltv-leverage/pkg/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type computeFlags struct {
	mode         string
	effectiveLTV float64
	leverage     float64
	supplyWeight float64
	borrowWeight float64
}

func newComputeCmd(a *app) *cobra.Command {
	var f computeFlags

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute leverage and effective LTV for one mode",
		Long: `Compute the derived state for one input mode.

Inputs default to the calculation section of the configuration file; flags
override it. Values are clamped to the slider ranges of the mode:

  ltv       --ltv            [0, 0.99]  step 0.01
  leverage  --leverage       [1, 11]    step 0.1
  weights   --supply-weight  [0, 1]     step 0.01
            --borrow-weight  [0, 1]     step 0.01

Example:
  ltv-leverage compute --mode weights --supply-weight 0.5 --borrow-weight 0.8`,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, err := a.format()
			if err != nil {
				return err
			}

			m, inputs, err := resolveCalculation(cmd, a, f)
			if err != nil {
				return err
			}

			state, err := a.controller().ComputeClamped(m, inputs)
			if err != nil {
				a.logger.Error("failed to compute derived state",
					zap.String("op", "cmd.compute"),
					zap.Stringer("mode", m),
					zap.Error(err),
				)
				return err
			}

			return output.Write(cmd.OutOrStdout(), outputFormat, state)
		},
	}

	cmd.Flags().StringVarP(&f.mode, "mode", "m", "", "input mode: ltv, leverage, weights")
	cmd.Flags().Float64Var(&f.effectiveLTV, "ltv", 0, "effective LTV as a fraction (ltv mode)")
	cmd.Flags().Float64Var(&f.leverage, "leverage", 0, "leverage multiplier (leverage mode)")
	cmd.Flags().Float64Var(&f.supplyWeight, "supply-weight", 0, "supply weight (weights mode)")
	cmd.Flags().Float64Var(&f.borrowWeight, "borrow-weight", 0, "borrow weight (weights mode)")
	return cmd
}

// resolveCalculation merges the configured calculation with any flags the
// user set explicitly.
func resolveCalculation(cmd *cobra.Command, a *app, f computeFlags) (mode.Mode, mode.Inputs, error) {
	calc := a.conf.Calculation
	if cmd.Flags().Changed("mode") {
		calc.Mode = f.mode
	}
	m, err := calc.ModeValue()
	if err != nil {
		return 0, mode.Inputs{}, err
	}

	inputs := calc.Inputs()
	overrides := []struct {
		flag  string
		field mode.Field
		value float64
	}{
		{"ltv", mode.FieldEffectiveLTV, f.effectiveLTV},
		{"leverage", mode.FieldLeverage, f.leverage},
		{"supply-weight", mode.FieldSupplyWeight, f.supplyWeight},
		{"borrow-weight", mode.FieldBorrowWeight, f.borrowWeight},
	}
	for _, o := range overrides {
		if !cmd.Flags().Changed(o.flag) {
			continue
		}
		if inputs, err = inputs.With(o.field, o.value); err != nil {
			return 0, mode.Inputs{}, err
		}
	}
	return m, inputs, nil
}

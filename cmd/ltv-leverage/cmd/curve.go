package cmd

import (
	"fmt"

	"github.com/iwvelando/ltv-leverage/internal/chart"
	"github.com/iwvelando/ltv-leverage/pkg/constants"
	"github.com/iwvelando/ltv-leverage/pkg/format"
	"github.com/iwvelando/ltv-leverage/pkg/output"
	"github.com/spf13/cobra"
)

func newCurveCmd(a *app) *cobra.Command {
	var samples int

	cmd := &cobra.Command{
		Use:   "curve",
		Short: "Print the reference curve effective LTV = 1 - 1/leverage",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, err := a.format()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("samples") {
				samples = a.conf.Calculation.CurveSamples
			}

			reference := chart.NewGenerator(samples).Reference()
			w := cmd.OutOrStdout()
			switch outputFormat {
			case constants.OutputFormatCSV:
				return output.CsvFormat(w, reference)
			case constants.OutputFormatJSON:
				return output.JSONFormat(w, reference)
			}

			fmt.Fprintf(w, "--- Reference curve (%d samples) ---\n", len(reference.Series[0].Points))
			fmt.Fprintf(w, "Leverage | Effective LTV\n")
			fmt.Fprintf(w, "________ | _____________\n")
			for _, p := range reference.Series[0].Points {
				fmt.Fprintf(w, "%-8s | %s\n", format.Leverage(p.Leverage), format.Percent(p.EffectiveLTV))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&samples, "samples", "n", constants.DefaultCurveSamples, "number of evenly spaced samples over [1, 11]")
	return cmd
}

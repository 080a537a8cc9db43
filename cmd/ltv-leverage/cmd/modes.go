package cmd

import (
	"github.com/iwvelando/ltv-leverage/internal/mode"
	"github.com/iwvelando/ltv-leverage/pkg/constants"
	"github.com/iwvelando/ltv-leverage/pkg/output"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type modeListing struct {
	Name        string        `json:"name" yaml:"name"`
	Title       string        `json:"title" yaml:"title"`
	Sliders     []mode.Slider `json:"sliders" yaml:"sliders"`
	DerivedFrom string        `json:"derives" yaml:"derives"`
}

var derivations = map[mode.Mode]string{
	mode.AdjustLTV:      "leverage = 1 / (1 - effectiveLTV)",
	mode.AdjustLeverage: "effectiveLTV = 1 - 1 / leverage",
	mode.AdjustWeights:  "effectiveLTV = supplyWeight * borrowWeight; leverage = 1 / (1 - effectiveLTV)",
}

func listModes() []modeListing {
	descriptors := mode.Descriptors()
	listing := make([]modeListing, 0, len(descriptors))
	for _, d := range descriptors {
		listing = append(listing, modeListing{
			Name:        d.Mode.String(),
			Title:       d.Title,
			Sliders:     d.Sliders,
			DerivedFrom: derivations[d.Mode],
		})
	}
	return listing
}

func newModesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "List the input modes and their slider ranges",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, err := a.format()
			if err != nil {
				return err
			}

			listing := listModes()
			if outputFormat == constants.OutputFormatJSON {
				return output.JSONFormat(cmd.OutOrStdout(), listing)
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(listing); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}

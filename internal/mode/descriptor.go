package mode

import (
	"fmt"

	"github.com/iwvelando/ltv-leverage/pkg/constants"
)

// Descriptor is one row of the mode table.
type Descriptor struct {
	Mode    Mode     `json:"mode" yaml:"mode"`
	Title   string   `json:"title" yaml:"title"`
	Sliders []Slider `json:"sliders" yaml:"sliders"`

	derive  func(Inputs) (lev, ltv float64, err error)
	summary func(lev, ltv float64) []string
}

// Owns reports whether field is one of the descriptor's inputs.
func (d Descriptor) Owns(field Field) bool {
	_, ok := d.Slider(field)
	return ok
}

// Slider returns the slider for field.
func (d Descriptor) Slider(field Field) (Slider, bool) {
	for _, s := range d.Sliders {
		if s.Field == field {
			return s, true
		}
	}
	return Slider{}, false
}

// own zeroes every field of in that the mode does not read.
func (d Descriptor) own(in Inputs) Inputs {
	var out Inputs
	for _, s := range d.Sliders {
		v, _ := in.Get(s.Field)
		out, _ = out.With(s.Field, v)
	}
	return out
}

var descriptors = [...]Descriptor{
	AdjustLTV: {
		Mode:  AdjustLTV,
		Title: "Adjust Effective LTV to get Leverage",
		Sliders: []Slider{
			{Field: FieldEffectiveLTV, Label: "Effective LTV", Min: constants.LTVSliderMin, Max: constants.LTVSliderMax, Default: constants.LTVSliderDefault, Step: constants.LTVSliderStep},
		},
		derive:  deriveFromLTV,
		summary: ltvFirst,
	},
	AdjustLeverage: {
		Mode:  AdjustLeverage,
		Title: "Adjust Leverage to get Effective LTV",
		Sliders: []Slider{
			{Field: FieldLeverage, Label: "Leverage", Min: constants.LeverageSliderMin, Max: constants.LeverageSliderMax, Default: constants.LeverageSliderDefault, Step: constants.LeverageSliderStep},
		},
		derive:  deriveFromLeverage,
		summary: leverageFirst,
	},
	AdjustWeights: {
		Mode:  AdjustWeights,
		Title: "Calculate from Supply and Borrow Weights",
		Sliders: []Slider{
			{Field: FieldSupplyWeight, Label: "Supply Weight", Min: constants.WeightSliderMin, Max: constants.WeightSliderMax, Default: constants.SupplyWeightSliderDefault, Step: constants.WeightSliderStep},
			{Field: FieldBorrowWeight, Label: "Borrow Weight", Min: constants.WeightSliderMin, Max: constants.WeightSliderMax, Default: constants.BorrowWeightSliderDefault, Step: constants.WeightSliderStep},
		},
		derive:  deriveFromWeights,
		summary: ltvFirst,
	},
}

// Describe returns the table row for m.
func Describe(m Mode) (Descriptor, error) {
	if !m.valid() {
		return Descriptor{}, fmt.Errorf("%w: %d", ErrUnknownMode, int(m))
	}
	d := descriptors[m]
	d.Sliders = append([]Slider(nil), d.Sliders...)
	return d, nil
}

// Descriptors returns every table row in tab order.
func Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(descriptors))
	for _, m := range Modes() {
		d, _ := Describe(m)
		out = append(out, d)
	}
	return out
}

// OwnerOf returns the mode that reads field.
func OwnerOf(field Field) (Mode, error) {
	for _, m := range Modes() {
		if descriptors[m].Owns(field) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownField, field)
}

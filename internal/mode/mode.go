// Package mode holds the three input modes of the calculator and turns each
// mode's raw slider inputs into a derived (leverage, effective LTV) state.
package mode

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iwvelando/ltv-leverage/internal/chart"
	"github.com/iwvelando/ltv-leverage/pkg/constants"
	"github.com/iwvelando/ltv-leverage/pkg/format"
	"github.com/iwvelando/ltv-leverage/pkg/leverage"
	"github.com/iwvelando/ltv-leverage/pkg/mathutil"
)

// Mode selects which raw inputs are authoritative.
type Mode int

const (
	AdjustLTV Mode = iota
	AdjustLeverage
	AdjustWeights
)

var (
	// ErrUnknownMode is returned for mode names or values outside the table.
	ErrUnknownMode = errors.New("unknown mode")

	// ErrUnknownField is returned for input field names no mode owns.
	ErrUnknownField = errors.New("unknown input field")

	// ErrFieldNotInMode is returned when writing a field the active mode does not own.
	ErrFieldNotInMode = errors.New("field is not an input of this mode")
)

var modeNames = [...]string{
	AdjustLTV:      "ltv",
	AdjustLeverage: "leverage",
	AdjustWeights:  "weights",
}

// Modes returns every mode in tab order.
func Modes() []Mode {
	return []Mode{AdjustLTV, AdjustLeverage, AdjustWeights}
}

func (m Mode) valid() bool {
	return m >= AdjustLTV && m <= AdjustWeights
}

func (m Mode) String() string {
	if !m.valid() {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode accepts the short names ("ltv", "leverage", "weights") case-insensitively.
func ParseMode(name string) (Mode, error) {
	trimmed := strings.ToLower(strings.TrimSpace(name))
	for i, n := range modeNames {
		if n == trimmed {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, name)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Field names one raw input.
type Field string

const (
	FieldEffectiveLTV Field = "effectiveLTV"
	FieldLeverage     Field = "leverage"
	FieldSupplyWeight Field = "supplyWeight"
	FieldBorrowWeight Field = "borrowWeight"
)

// ParseField matches a field name case-insensitively.
func ParseField(name string) (Field, error) {
	trimmed := strings.TrimSpace(name)
	for _, f := range []Field{FieldEffectiveLTV, FieldLeverage, FieldSupplyWeight, FieldBorrowWeight} {
		if strings.EqualFold(string(f), trimmed) {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// Slider is the numeric range control for one field.
type Slider struct {
	Field   Field   `json:"field" yaml:"field"`
	Label   string  `json:"label" yaml:"label"`
	Min     float64 `json:"min" yaml:"min"`
	Max     float64 `json:"max" yaml:"max"`
	Default float64 `json:"default" yaml:"default"`
	Step    float64 `json:"step" yaml:"step"`
}

// Clamp enforces the slider semantics on v: bound to [Min, Max] and snap to Step.
func (s Slider) Clamp(v float64) float64 {
	snapped := mathutil.Snap(mathutil.Clamp(v, s.Min, s.Max), s.Min, s.Step)
	return mathutil.Clamp(snapped, s.Min, s.Max)
}

// Contains reports whether v is inside [Min, Max].
func (s Slider) Contains(v float64) bool {
	return v >= s.Min && v <= s.Max
}

// Inputs carries the raw inputs of every mode. Each mode only reads its own fields.
type Inputs struct {
	EffectiveLTV float64 `json:"effectiveLTV" yaml:"effectiveLTV"`
	Leverage     float64 `json:"leverage" yaml:"leverage"`
	SupplyWeight float64 `json:"supplyWeight" yaml:"supplyWeight"`
	BorrowWeight float64 `json:"borrowWeight" yaml:"borrowWeight"`
}

// DefaultInputs returns the slider defaults.
func DefaultInputs() Inputs {
	return Inputs{
		EffectiveLTV: constants.LTVSliderDefault,
		Leverage:     constants.LeverageSliderDefault,
		SupplyWeight: constants.SupplyWeightSliderDefault,
		BorrowWeight: constants.BorrowWeightSliderDefault,
	}
}

// Get returns the value of field.
func (in Inputs) Get(field Field) (float64, error) {
	switch field {
	case FieldEffectiveLTV:
		return in.EffectiveLTV, nil
	case FieldLeverage:
		return in.Leverage, nil
	case FieldSupplyWeight:
		return in.SupplyWeight, nil
	case FieldBorrowWeight:
		return in.BorrowWeight, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownField, field)
}

// With returns a copy of in with field set to v.
func (in Inputs) With(field Field, v float64) (Inputs, error) {
	switch field {
	case FieldEffectiveLTV:
		in.EffectiveLTV = v
	case FieldLeverage:
		in.Leverage = v
	case FieldSupplyWeight:
		in.SupplyWeight = v
	case FieldBorrowWeight:
		in.BorrowWeight = v
	default:
		return in, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return in, nil
}

// Clamp returns a copy of in with the fields owned by m passed through their
// sliders. Fields of other modes are left untouched.
func (in Inputs) Clamp(m Mode) (Inputs, error) {
	d, err := Describe(m)
	if err != nil {
		return in, err
	}
	for _, s := range d.Sliders {
		v, _ := in.Get(s.Field)
		in, _ = in.With(s.Field, s.Clamp(v))
	}
	return in, nil
}

// DerivedState is the result of one recomputation.
type DerivedState struct {
	Mode         Mode        `json:"mode"`
	Title        string      `json:"title"`
	Inputs       Inputs      `json:"inputs"`
	Leverage     float64     `json:"leverage"`
	EffectiveLTV float64     `json:"effectiveLTV"`
	Summary      []string    `json:"summary"`
	Chart        chart.Chart `json:"chart"`
}

// Point returns the derived pair as a chart point.
func (s DerivedState) Point() chart.Point {
	return chart.Highlight(s.Leverage, s.EffectiveLTV)
}

// defaultCharts is read-only after init.
var defaultCharts = chart.NewGenerator(constants.DefaultCurveSamples)

// ComputeDerivedState derives the (leverage, effective LTV) pair for mode from
// its raw inputs and builds the chart for it. Inputs are used as given; a
// DomainError from the conversion is returned wrapped.
func ComputeDerivedState(m Mode, inputs Inputs) (DerivedState, error) {
	return computeWith(defaultCharts, m, inputs)
}

func computeWith(charts *chart.Generator, m Mode, inputs Inputs) (DerivedState, error) {
	d, err := Describe(m)
	if err != nil {
		return DerivedState{}, err
	}

	lev, ltv, err := d.derive(inputs)
	if err != nil {
		return DerivedState{}, fmt.Errorf("compute %s: %w", m, err)
	}

	return DerivedState{
		Mode:         m,
		Title:        d.Title,
		Inputs:       d.own(inputs),
		Leverage:     lev,
		EffectiveLTV: ltv,
		Summary:      d.summary(lev, ltv),
		Chart:        charts.Build(chart.Highlight(lev, ltv)),
	}, nil
}

func deriveFromLTV(in Inputs) (float64, float64, error) {
	lev, err := leverage.LeverageFromEffectiveLTV(in.EffectiveLTV)
	return lev, in.EffectiveLTV, err
}

func deriveFromLeverage(in Inputs) (float64, float64, error) {
	ltv, err := leverage.EffectiveLTVFromLeverage(in.Leverage)
	return in.Leverage, ltv, err
}

func deriveFromWeights(in Inputs) (float64, float64, error) {
	ltv := leverage.EffectiveLTVFromWeights(in.SupplyWeight, in.BorrowWeight)
	lev, err := leverage.LeverageFromEffectiveLTV(ltv)
	return lev, ltv, err
}

func ltvFirst(lev, ltv float64) []string {
	return []string{format.EffectiveLTVLine(ltv), format.LeverageLine(lev)}
}

func leverageFirst(lev, ltv float64) []string {
	return []string{format.LeverageLine(lev), format.EffectiveLTVLine(ltv)}
}

package mode

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/iwvelando/ltv-leverage/pkg/constants"
	"github.com/iwvelando/ltv-leverage/pkg/leverage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input    string
		expected Mode
		wantErr  bool
	}{
		{"ltv", AdjustLTV, false},
		{"LEVERAGE", AdjustLeverage, false},
		{" weights ", AdjustWeights, false},
		{"collateral", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnknownMode))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestModeTextRoundTrip(t *testing.T) {
	for _, m := range Modes() {
		data, err := json.Marshal(m)
		require.NoError(t, err)

		var decoded Mode
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, m, decoded)
	}

	_, err := json.Marshal(Mode(7))
	assert.Error(t, err)
	assert.Equal(t, "Mode(7)", Mode(7).String())
}

func TestDefaultInputs(t *testing.T) {
	in := DefaultInputs()
	assert.Equal(t, 0.5, in.EffectiveLTV)
	assert.Equal(t, 2.0, in.Leverage)
	assert.Equal(t, 0.5, in.SupplyWeight)
	assert.Equal(t, 1.0, in.BorrowWeight)
}

func TestDescriptorsMatchSliderTable(t *testing.T) {
	ds := Descriptors()
	require.Len(t, ds, 3)

	ltv := ds[AdjustLTV]
	require.Len(t, ltv.Sliders, 1)
	assert.Equal(t, Slider{Field: FieldEffectiveLTV, Label: "Effective LTV", Min: 0, Max: 0.99, Default: 0.5, Step: 0.01}, ltv.Sliders[0])

	lev := ds[AdjustLeverage]
	require.Len(t, lev.Sliders, 1)
	assert.Equal(t, Slider{Field: FieldLeverage, Label: "Leverage", Min: 1, Max: 11, Default: 2, Step: 0.1}, lev.Sliders[0])

	weights := ds[AdjustWeights]
	require.Len(t, weights.Sliders, 2)
	assert.Equal(t, Slider{Field: FieldSupplyWeight, Label: "Supply Weight", Min: 0, Max: 1, Default: 0.5, Step: 0.01}, weights.Sliders[0])
	assert.Equal(t, Slider{Field: FieldBorrowWeight, Label: "Borrow Weight", Min: 0, Max: 1, Default: 1, Step: 0.01}, weights.Sliders[1])
}

func TestDescribeReturnsCopy(t *testing.T) {
	d, err := Describe(AdjustLTV)
	require.NoError(t, err)
	d.Sliders[0].Max = 5

	again, err := Describe(AdjustLTV)
	require.NoError(t, err)
	assert.Equal(t, 0.99, again.Sliders[0].Max)

	_, err = Describe(Mode(-1))
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestSliderClamp(t *testing.T) {
	ltv, _ := Describe(AdjustLTV)
	s := ltv.Sliders[0]
	assert.Equal(t, 0.99, s.Clamp(1.0))
	assert.Equal(t, 0.99, s.Clamp(5))
	assert.Equal(t, 0.0, s.Clamp(-0.2))
	assert.Equal(t, 0.42, s.Clamp(0.4213))

	lev, _ := Describe(AdjustLeverage)
	ls := lev.Sliders[0]
	assert.Equal(t, 1.0, ls.Clamp(0))
	assert.Equal(t, 11.0, ls.Clamp(12.5))
	assert.Equal(t, 4.3, ls.Clamp(4.26))
}

func TestInputsClampOnlyTouchesOwnFields(t *testing.T) {
	in := Inputs{EffectiveLTV: 2, Leverage: 50, SupplyWeight: 3, BorrowWeight: -1}

	clamped, err := in.Clamp(AdjustWeights)
	require.NoError(t, err)
	assert.Equal(t, Inputs{EffectiveLTV: 2, Leverage: 50, SupplyWeight: 1, BorrowWeight: 0}, clamped)

	clamped, err = in.Clamp(AdjustLeverage)
	require.NoError(t, err)
	assert.Equal(t, 11.0, clamped.Leverage)
	assert.Equal(t, 2.0, clamped.EffectiveLTV)
}

func TestInputsGetWith(t *testing.T) {
	in, err := DefaultInputs().With(FieldBorrowWeight, 0.8)
	require.NoError(t, err)
	v, err := in.Get(FieldBorrowWeight)
	require.NoError(t, err)
	assert.Equal(t, 0.8, v)

	_, err = in.With(Field("collateral"), 1)
	assert.ErrorIs(t, err, ErrUnknownField)
	_, err = in.Get(Field("collateral"))
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestParseFieldAndOwner(t *testing.T) {
	f, err := ParseField("supplyweight")
	require.NoError(t, err)
	assert.Equal(t, FieldSupplyWeight, f)

	owner, err := OwnerOf(FieldLeverage)
	require.NoError(t, err)
	assert.Equal(t, AdjustLeverage, owner)

	_, err = ParseField("price")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestComputeAdjustLTV(t *testing.T) {
	state, err := ComputeDerivedState(AdjustLTV, Inputs{EffectiveLTV: 0.5})
	require.NoError(t, err)

	assert.Equal(t, 2.0, state.Leverage)
	assert.Equal(t, 0.5, state.EffectiveLTV)
	assert.Equal(t, []string{"Effective LTV: 50.00%", "Leverage: 2.00x"}, state.Summary)
	assert.True(t, state.Point().OnReferenceCurve(1e-12))

	point, ok := state.Chart.FindSeries(constants.PointSeriesName)
	require.True(t, ok)
	require.Len(t, point.Points, 1)
	assert.Equal(t, 2.0, point.Points[0].Leverage)
	assert.Equal(t, 0.5, point.Points[0].EffectiveLTV)
}

func TestComputeAdjustLeverage(t *testing.T) {
	state, err := ComputeDerivedState(AdjustLeverage, Inputs{Leverage: 4.0})
	require.NoError(t, err)

	assert.Equal(t, 0.75, state.EffectiveLTV)
	assert.Equal(t, []string{"Leverage: 4.00x", "Effective LTV: 75.00%"}, state.Summary)
}

func TestComputeAdjustWeights(t *testing.T) {
	state, err := ComputeDerivedState(AdjustWeights, Inputs{SupplyWeight: 0.5, BorrowWeight: 0.8})
	require.NoError(t, err)

	assert.Equal(t, 0.4, state.EffectiveLTV)
	assert.InDelta(t, 1.6667, state.Leverage, 1e-4)
	assert.Equal(t, []string{"Effective LTV: 40.00%", "Leverage: 1.67x"}, state.Summary)
}

func TestComputeIgnoresOtherModesInputs(t *testing.T) {
	in := Inputs{EffectiveLTV: 0.9, Leverage: 4, SupplyWeight: 0.5, BorrowWeight: 0.8}

	state, err := ComputeDerivedState(AdjustLeverage, in)
	require.NoError(t, err)
	assert.Equal(t, Inputs{Leverage: 4}, state.Inputs)
	assert.Equal(t, 0.75, state.EffectiveLTV)
}

func TestComputeWeightsFullProductIsDomainError(t *testing.T) {
	_, err := ComputeDerivedState(AdjustWeights, Inputs{SupplyWeight: 1, BorrowWeight: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, leverage.ErrDomain)

	var domainErr *leverage.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "LeverageFromEffectiveLTV", domainErr.Op)
}

func TestComputeUnclampedInputIsNotClamped(t *testing.T) {
	_, err := ComputeDerivedState(AdjustLTV, Inputs{EffectiveLTV: 1})
	assert.ErrorIs(t, err, leverage.ErrDomain)

	state, err := NewController(nil, 0).ComputeClamped(AdjustLTV, Inputs{EffectiveLTV: 1})
	require.NoError(t, err)
	assert.Equal(t, 0.99, state.EffectiveLTV)
	assert.InDelta(t, 100, state.Leverage, 1e-9)
}

func TestComputeOffAxisPointIsEmitted(t *testing.T) {
	state, err := ComputeDerivedState(AdjustWeights, Inputs{SupplyWeight: 0.99, BorrowWeight: 0.99})
	require.NoError(t, err)
	assert.Greater(t, state.Leverage, constants.MaxLeverage)

	point, ok := state.Chart.FindSeries(constants.PointSeriesName)
	require.True(t, ok)
	assert.Equal(t, state.Leverage, point.Points[0].Leverage)
}

func TestComputeUnknownMode(t *testing.T) {
	_, err := ComputeDerivedState(Mode(3), DefaultInputs())
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestControllerUsesConfiguredSamples(t *testing.T) {
	c := NewController(nil, 11)
	state, err := c.Compute(AdjustLeverage, DefaultInputs())
	require.NoError(t, err)

	curve, ok := state.Chart.FindSeries(constants.CurveSeriesName)
	require.True(t, ok)
	assert.Len(t, curve.Points, 11)
}

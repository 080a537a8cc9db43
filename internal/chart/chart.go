// Package chart builds the reference curve and highlighted point payload
// handed to a plotting surface. It knows nothing about any rendering library.
package chart

import (
	"fmt"

	"github.com/iwvelando/ltv-leverage/pkg/constants"
	"github.com/iwvelando/ltv-leverage/pkg/format"
	"github.com/iwvelando/ltv-leverage/pkg/leverage"
	"github.com/iwvelando/ltv-leverage/pkg/mathutil"
)

// Point is one (leverage, effective LTV) pair.
type Point struct {
	Leverage     float64 `json:"leverage"`
	EffectiveLTV float64 `json:"effectiveLTV"`
}

// OnReferenceCurve reports whether the point satisfies effectiveLTV = 1 - 1/leverage
// within tolerance.
func (p Point) OnReferenceCurve(tolerance float64) bool {
	expected, err := leverage.EffectiveLTVFromLeverage(p.Leverage)
	if err != nil {
		return false
	}
	return mathutil.WithinTolerance(p.EffectiveLTV, expected, tolerance)
}

// Tick is an x-axis tick.
type Tick struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// Series is a named sequence of points with rendering hints.
type Series struct {
	Name       string  `json:"name"`
	Style      string  `json:"style"`
	MarkerSize int     `json:"markerSize,omitempty"`
	Color      string  `json:"color,omitempty"`
	Points     []Point `json:"points"`
}

// Chart is the complete payload for one render request.
type Chart struct {
	XAxisLabel          string   `json:"xAxisLabel"`
	YAxisLabel          string   `json:"yAxisLabel"`
	YAxisLabelAsPercent bool     `json:"yAxisLabelAsPercent"`
	YTickFormat         string   `json:"yTickFormat"`
	XTicks              []Tick   `json:"xTicks"`
	Series              []Series `json:"series"`
}

// FindSeries returns the series with the given name.
func (c Chart) FindSeries(name string) (Series, bool) {
	for _, s := range c.Series {
		if s.Name == name {
			return s, true
		}
	}
	return Series{}, false
}

// Generator produces charts over the fixed leverage domain. The reference
// curve only depends on the sample count, so it is computed once.
type Generator struct {
	samples int
	curve   []Point
	ticks   []Tick
}

// NewGenerator returns a Generator sampling the reference curve at the given
// number of points. Fewer than two samples falls back to the default.
func NewGenerator(samples int) *Generator {
	if samples < 2 {
		samples = constants.DefaultCurveSamples
	}
	return &Generator{
		samples: samples,
		curve:   ReferenceCurve(samples),
		ticks:   XTicks(),
	}
}

// Samples returns the reference curve sample count.
func (g *Generator) Samples() int {
	return g.samples
}

// Curve returns a copy of the reference curve.
func (g *Generator) Curve() []Point {
	return append([]Point(nil), g.curve...)
}

// Reference returns a chart holding only the reference curve.
func (g *Generator) Reference() Chart {
	c := g.base()
	c.Series = []Series{g.curveSeries()}
	return c
}

// Build returns the reference curve with highlighted overlaid as the current point.
func (g *Generator) Build(highlighted Point) Chart {
	c := g.base()
	c.Series = []Series{
		g.curveSeries(),
		{
			Name:       constants.PointSeriesName,
			Style:      constants.SeriesStyleMarker,
			MarkerSize: constants.PointMarkerSize,
			Color:      constants.PointMarkerColor,
			Points:     []Point{highlighted},
		},
	}
	return c
}

func (g *Generator) base() Chart {
	return Chart{
		XAxisLabel:          constants.XAxisLabel,
		YAxisLabel:          constants.YAxisLabel,
		YAxisLabelAsPercent: true,
		YTickFormat:         constants.YTickFormat,
		XTicks:              append([]Tick(nil), g.ticks...),
	}
}

func (g *Generator) curveSeries() Series {
	return Series{
		Name:   constants.CurveSeriesName,
		Style:  constants.SeriesStyleLines,
		Points: g.Curve(),
	}
}

// ReferenceCurve samples effectiveLTV = 1 - 1/leverage at n evenly spaced
// leverages over [MinLeverage, MaxLeverage], ascending.
func ReferenceCurve(n int) []Point {
	leverages := mathutil.Linspace(constants.MinLeverage, constants.MaxLeverage, n)
	points := make([]Point, 0, len(leverages))
	for _, lev := range leverages {
		ltv, err := leverage.EffectiveLTVFromLeverage(lev)
		if err != nil {
			// The domain starts at 1, so this cannot happen.
			panic(fmt.Sprintf("reference curve sample %v: %v", lev, err))
		}
		points = append(points, Point{Leverage: lev, EffectiveLTV: ltv})
	}
	return points
}

// Highlight wraps a derived pair as a point. No domain check is applied, a
// point outside [1, 11] is emitted as-is.
func Highlight(lev, effectiveLTV float64) Point {
	return Point{Leverage: lev, EffectiveLTV: effectiveLTV}
}

// XTicks returns one tick per integer leverage over the domain, labeled "1x".."11x".
func XTicks() []Tick {
	ticks := make([]Tick, 0, int(constants.MaxLeverage-constants.MinLeverage)+1)
	for v := int(constants.MinLeverage); v <= int(constants.MaxLeverage); v++ {
		ticks = append(ticks, Tick{Value: float64(v), Label: format.TickLabel(v)})
	}
	return ticks
}

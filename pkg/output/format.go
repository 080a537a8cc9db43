// Package output provides utilities for formatting and displaying derived states.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/ltv-leverage/internal/chart"
	"github.com/iwvelando/ltv-leverage/internal/mode"
	"github.com/iwvelando/ltv-leverage/pkg/constants"
	"github.com/iwvelando/ltv-leverage/pkg/format"
	"github.com/iwvelando/ltv-leverage/pkg/leverage"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Write renders state in the named format.
func Write(w io.Writer, outputFormat string, state mode.DerivedState) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		return PrettyFormat(w, state)
	case constants.OutputFormatCSV:
		return CsvFormat(w, state.Chart)
	case constants.OutputFormatJSON:
		return JSONFormat(w, state)
	}
	return fmt.Errorf("unsupported output format %q", outputFormat)
}

// PrettyFormat outputs a human-readable summary followed by the reference
// curve evaluated at each x-axis tick.
func PrettyFormat(w io.Writer, state mode.DerivedState) error {
	p := message.NewPrinter(language.English)
	var b strings.Builder

	fmt.Fprintf(&b, "--- %s ---\n", state.Title)
	for _, line := range state.Summary {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	point := state.Point()
	placement := "off the reference curve"
	if point.OnReferenceCurve(constants.RoundTripTolerance) {
		placement = "on the reference curve"
	}
	if point.Leverage < constants.MinLeverage || point.Leverage > constants.MaxLeverage {
		placement += ", outside the plotted leverage range"
	}
	_, _ = p.Fprintf(&b, "Current point: (%.2fx, %s) %s\n", point.Leverage, format.Percent(point.EffectiveLTV), placement)

	b.WriteString("\n")
	b.WriteString("Leverage | Effective LTV\n")
	b.WriteString("________ | _____________\n")
	for _, tick := range state.Chart.XTicks {
		ltv, err := leverage.EffectiveLTVFromLeverage(tick.Value)
		if err != nil {
			return err
		}
		fmt.Fprintf(&b, "%-8s | %s\n", tick.Label, format.Percent(ltv))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// CsvString returns every point of every series as CSV.
func CsvString(c chart.Chart) (string, error) {
	var b strings.Builder
	if err := CsvFormat(&b, c); err != nil {
		return "", err
	}
	return b.String(), nil
}

// CsvFormat outputs every point of every series in comma-separated value format.
func CsvFormat(w io.Writer, c chart.Chart) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"series", "leverage", "effectiveLTV"}); err != nil {
		return err
	}
	for _, series := range c.Series {
		for _, pt := range series.Points {
			record := []string{
				series.Name,
				strconv.FormatFloat(pt.Leverage, 'f', -1, 64),
				strconv.FormatFloat(pt.EffectiveLTV, 'f', -1, 64),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// JSONFormat outputs v as indented JSON.
func JSONFormat(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

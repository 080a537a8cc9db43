// Package testutil provides common utility functions for testing.
package testutil

import (
	"strings"
	"testing"

	"github.com/iwvelando/ltv-leverage/internal/mode"
)

// MustCompute derives the state for m or fails the test.
func MustCompute(t testing.TB, m mode.Mode, inputs mode.Inputs) mode.DerivedState {
	t.Helper()
	state, err := mode.ComputeDerivedState(m, inputs)
	if err != nil {
		t.Fatalf("ComputeDerivedState(%s) error = %v", m, err)
	}
	return state
}

// FindSummaryLine finds the summary line starting with prefix.
// Returns the line if found, "" otherwise.
func FindSummaryLine(state mode.DerivedState, prefix string) string {
	if prefix == "" {
		return ""
	}
	for _, line := range state.Summary {
		if strings.HasPrefix(line, prefix) {
			return line
		}
	}
	return ""
}

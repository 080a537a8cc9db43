package integration

import (
	"os"
	"testing"
	"time"

	"github.com/iwvelando/ltv-leverage/internal/chart"
	"github.com/iwvelando/ltv-leverage/internal/mode"
	"github.com/iwvelando/ltv-leverage/pkg/constants"
	"go.uber.org/zap"
)

// TestRunner is a simple test runner for debugging
func TestMain(m *testing.M) {
	code := m.Run()
	os.Exit(code)
}

// TestPerformance tests that a session recompute stays interactive.
func TestPerformance(t *testing.T) {
	controller := mode.NewController(zap.NewNop(), constants.DefaultCurveSamples)
	session := controller.NewSession()

	start := time.Now()
	const iterations = 1000
	for i := 0; i < iterations; i++ {
		if _, err := session.Set(mode.FieldEffectiveLTV, float64(i%99)/100); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		if _, err := session.Current(); err != nil {
			t.Fatalf("Current() error = %v", err)
		}
	}
	duration := time.Since(start)

	if duration > 5*time.Second {
		t.Errorf("%d recomputes took %v, expected under 5s", iterations, duration)
	}
	t.Logf("%d recomputes took %v", iterations, duration)
}

func BenchmarkComputeDerivedState(b *testing.B) {
	inputs := mode.Inputs{SupplyWeight: 0.5, BorrowWeight: 0.8}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := mode.ComputeDerivedState(mode.AdjustWeights, inputs); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkReferenceCurve(b *testing.B) {
	for i := 0; i < b.N; i++ {
		chart.ReferenceCurve(constants.DefaultCurveSamples)
	}
}

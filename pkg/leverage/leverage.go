// Package leverage converts between leverage, effective loan-to-value and
// supply/borrow weight pairs.
//
// The relations are
//
//	effectiveLTV = 1 - 1/leverage
//	leverage     = 1 / (1 - effectiveLTV)
//	effectiveLTV = supplyWeight * borrowWeight
//
// The first two are inverses on leverage > 0 and effectiveLTV < 1. Callers are
// responsible for keeping inputs inside those domains; nothing here clamps.
package leverage

import (
	"errors"
	"fmt"
	"math"
)

// ErrDomain is matched by every DomainError through errors.Is.
var ErrDomain = errors.New("value outside conversion domain")

// DomainError reports a conversion whose precondition does not hold.
type DomainError struct {
	Op     string
	Value  float64
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s(%g): %s", e.Op, e.Value, e.Reason)
}

// Is lets errors.Is(err, ErrDomain) match any DomainError.
func (e *DomainError) Is(target error) bool {
	return target == ErrDomain
}

// EffectiveLTVFromLeverage returns 1 - 1/leverage. Leverage must be a finite
// value greater than zero; for leverage in [1, +Inf) the result lies in [0, 1).
func EffectiveLTVFromLeverage(leverage float64) (float64, error) {
	const op = "EffectiveLTVFromLeverage"
	switch {
	case math.IsNaN(leverage) || math.IsInf(leverage, 0):
		return 0, &DomainError{Op: op, Value: leverage, Reason: "leverage must be finite"}
	case leverage <= 0:
		return 0, &DomainError{Op: op, Value: leverage, Reason: "leverage must be greater than zero"}
	}
	return 1 - 1/leverage, nil
}

// LeverageFromEffectiveLTV returns 1 / (1 - effectiveLTV). An effective LTV of
// one or more has no finite leverage and is reported as a DomainError.
func LeverageFromEffectiveLTV(effectiveLTV float64) (float64, error) {
	const op = "LeverageFromEffectiveLTV"
	switch {
	case math.IsNaN(effectiveLTV):
		return 0, &DomainError{Op: op, Value: effectiveLTV, Reason: "effective LTV must be a number"}
	case effectiveLTV >= 1:
		return 0, &DomainError{Op: op, Value: effectiveLTV, Reason: "effective LTV must be below 1 (leverage would be infinite)"}
	}
	return 1 / (1 - effectiveLTV), nil
}

// EffectiveLTVFromWeights returns supplyWeight * borrowWeight. Weights inside
// [0, 1] give a result inside [0, 1] but the range is not enforced.
func EffectiveLTVFromWeights(supplyWeight, borrowWeight float64) float64 {
	return supplyWeight * borrowWeight
}

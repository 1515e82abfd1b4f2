package krd

import (
	"fmt"
	"math"
)

// Broadcast expands yields to n elements.
//
// A single yield is a flat term structure and is replicated n times. A vector of n
// yields is copied as is. Any other length is an ErrDimension.
func Broadcast(yields []float64, n int) ([]float64, error) {
	switch len(yields) {
	case n:
		out := make([]float64, n)
		copy(out, yields)
		return out, nil
	case 1:
		out := make([]float64, n)
		for i := range out {
			out[i] = yields[0]
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: cannot broadcast %d yields to %d terms", ErrDimension, len(yields), n)
	}
}

// checkVectors validates terms, cash flows and yields before discounting.
func checkVectors(terms, cashflows, yields []float64) error {
	if len(terms) != len(cashflows) || len(terms) != len(yields) {
		return fmt.Errorf("%w: %d terms, %d cash flows and %d yields", ErrDimension, len(terms), len(cashflows), len(yields))
	}
	for i := range terms {
		if !isFinite(terms[i]) || terms[i] < 0 {
			return fmt.Errorf("%w: term #%d is %v", ErrNumeric, i, terms[i])
		}
		if !isFinite(cashflows[i]) {
			return fmt.Errorf("%w: cash flow #%d is %v", ErrNumeric, i, cashflows[i])
		}
		if !isFinite(yields[i]) {
			return fmt.Errorf("%w: yield #%d is %v", ErrNumeric, i, yields[i])
		}
	}
	return nil
}

func isFinite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

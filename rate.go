package krd

import (
	"fmt"
	"math"
)

// Annualize converts an effective periodic rate into the annualized rate expected by
// the valuation functions.
//
// Under Discrete compounding it returns n·((1+effective)^(1/n) - 1), the nominal annual
// rate compounded n times a year. Under Continuous compounding rates are already
// continuously compounded zero rates, and effective is returned unchanged.
func Annualize(effective float64, periodsPerYear int, mode Compounding) (float64, error) {
	if math.IsNaN(effective) || math.IsInf(effective, 0) {
		return 0, fmt.Errorf("%w: rate %v is not finite", ErrNumeric, effective)
	}
	switch mode {
	case Continuous:
		return effective, nil
	case Discrete:
		if periodsPerYear <= 0 {
			return 0, fmt.Errorf("%w: periods per year must be positive, got %d", ErrNumeric, periodsPerYear)
		}
		if 1+effective <= 0 {
			return 0, fmt.Errorf("%w: rate %v has a non positive compounding base", ErrNumeric, effective)
		}
		n := float64(periodsPerYear)
		return n * (math.Pow(1+effective, 1/n) - 1), nil
	default:
		return 0, fmt.Errorf("unsupported compounding %v", mode)
	}
}

// AnnualizeAll applies Annualize to every rate, it returns a new slice.
func AnnualizeAll(effective []float64, periodsPerYear int, mode Compounding) ([]float64, error) {
	annualized := make([]float64, len(effective))
	for i, r := range effective {
		a, err := Annualize(r, periodsPerYear, mode)
		if err != nil {
			return nil, fmt.Errorf("rate #%d: %w", i, err)
		}
		annualized[i] = a
	}
	return annualized, nil
}

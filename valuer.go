package krd

import (
	"fmt"
	"math"
)

// Valuer discounts cash flow vectors under a Convention.
//
// Yields are annualized rates, see Annualize.
type Valuer struct {
	Convention Convention
}

// NewValuer returns a Valuer for the convention c.
func NewValuer(c Convention) (*Valuer, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &Valuer{Convention: c}, nil
}

// PresentValue of cash flows with the default convention. See Valuer.PresentValue.
func PresentValue(terms, cashflows, yields []float64, mode Compounding) (float64, error) {
	return (&Valuer{Convention: DefaultConvention}).PresentValue(terms, cashflows, yields, mode)
}

// KeyRateDurations with the default convention. See Valuer.KeyRateDurations.
func KeyRateDurations(terms, cashflows, yields []float64, mode Compounding) ([]float64, error) {
	return (&Valuer{Convention: DefaultConvention}).KeyRateDurations(terms, cashflows, yields, mode)
}

// DiscountFactor returns the value today of one unit paid at term t, discounted at the
// annualized yield y:
//
//	Continuous: exp(-y·t)
//	Discrete:   (1+y/n)^(-n·t)
func (v *Valuer) DiscountFactor(t, y float64, mode Compounding) (float64, error) {
	return v.discount(t, y, 0, mode)
}

// discount returns the discount factor at term t with shift extra periods added to the
// exponent. A shift of 1 in Discrete compounding gives the derivative term
// (1+y/n)^(-(n·t+1)); in Continuous compounding the shift is ignored as the
// exponential is its own derivative.
func (v *Valuer) discount(t, y float64, shift float64, mode Compounding) (float64, error) {
	switch mode {
	case Continuous:
		return math.Exp(-y * t), nil
	case Discrete:
		n := float64(v.Convention.PeriodsPerYear)
		if n <= 0 {
			return 0, fmt.Errorf("%w: periods per year must be positive, got %v", ErrNumeric, n)
		}
		base := 1 + y/n
		if base <= 0 {
			return 0, fmt.Errorf("%w: yield %v has a non positive discount base", ErrNumeric, y)
		}
		return math.Pow(base, -(n*t + shift)), nil
	default:
		return 0, fmt.Errorf("unsupported compounding %v", mode)
	}
}

// PresentValue returns Σ CFᵢ·DF(Tᵢ,Yᵢ).
//
// terms, cashflows and yields must have the same length. Terms must be non negative.
// The sign of cash flows is not checked. A sum that overflows is an ErrNumeric.
func (v *Valuer) PresentValue(terms, cashflows, yields []float64, mode Compounding) (float64, error) {
	if err := checkVectors(terms, cashflows, yields); err != nil {
		return 0, err
	}
	var pv float64
	for i := range terms {
		df, err := v.discount(terms[i], yields[i], 0, mode)
		if err != nil {
			return 0, fmt.Errorf("term #%d: %w", i, err)
		}
		pv += cashflows[i] * df
	}
	if !isFinite(pv) {
		return 0, fmt.Errorf("%w: present value %v is not finite", ErrNumeric, pv)
	}
	return pv, nil
}

// KeyRateDurations returns, for each term bucket, the sensitivity of the present value
// to a unit shift of the zero rate at that term, normalized by the present value P:
//
//	Continuous: KRDᵢ = CFᵢ·Tᵢ·exp(-Yᵢ·Tᵢ) / P
//	Discrete:   KRDᵢ = CFᵢ·Tᵢ·(1+Yᵢ/n)^(-(n·Tᵢ+1)) / P
//
// It fails with ErrZeroPresentValue when P is zero, and with ErrNumeric when P or a
// duration overflows.
func (v *Valuer) KeyRateDurations(terms, cashflows, yields []float64, mode Compounding) ([]float64, error) {
	p, err := v.PresentValue(terms, cashflows, yields, mode)
	if err != nil {
		return nil, err
	}
	if p == 0 {
		return nil, fmt.Errorf("cannot normalize %d key rate durations: %w", len(terms), ErrZeroPresentValue)
	}

	krd := make([]float64, len(terms))
	for i := range terms {
		d, err := v.discount(terms[i], yields[i], 1, mode)
		if err != nil {
			return nil, fmt.Errorf("term #%d: %w", i, err)
		}
		krd[i] = cashflows[i] * terms[i] * d / p
		if !isFinite(krd[i]) {
			return nil, fmt.Errorf("%w: key rate duration #%d is %v", ErrNumeric, i, krd[i])
		}
	}
	return krd, nil
}

package krd

import "errors"

// Errors returned by the valuation and aggregation functions. They are always wrapped
// with some context, use errors.Is to test for them.
var (
	// ErrDimension reports vectors of mismatched lengths, within a bond or across the
	// bonds of a portfolio.
	ErrDimension = errors.New("dimension mismatch")
	// ErrNumeric reports an input that cannot be discounted: a negative or non finite
	// term, a non finite amount, or a rate whose discount base is not positive.
	ErrNumeric = errors.New("illegal numeric input")
	// ErrZeroPresentValue reports a present value of exactly zero, that cannot
	// normalize key rate durations.
	ErrZeroPresentValue = errors.New("zero present value")
	// ErrEmptyPortfolio reports an aggregation over no bonds at all.
	ErrEmptyPortfolio = errors.New("empty portfolio")
)

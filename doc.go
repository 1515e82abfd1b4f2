// Package krd computes key rate durations: the sensitivity of the present value of a
// bond, or of a portfolio of bonds, to a shift of the zero rate at each of its payment
// dates.
//
// The computation works on vectors of equal length N:
//   - terms T, in years from the valuation date,
//   - cash flows CF, zero where nothing is paid,
//   - annualized yields Y, a single yield being broadcast to N.
//
// A [Valuer] computes present values and key rate durations of such vectors under
// [Discrete] or [Continuous] compounding, and an [Aggregator] combines the key rate
// durations of many positions into the weighted key rate durations of a portfolio.
//
// Bonds are recorded in JSONL bonds files (see [DecodeBook]) with dated coupons and
// effective periodic rates. A [Book] aligns its bonds on the union of their payment
// dates, annualizes their rates and turns them into positions, and [NewReport] computes
// the full report of a book.
//
// This package serves as the foundational logic for the `krd` command-line tool and
// its HTTP API.
package krd

package krd

import (
	"fmt"

	"github.com/etnz/krd/date"
)

const (
	// DefaultPeriodsPerYear is the number of compounding periods per year under
	// Discrete compounding.
	DefaultPeriodsPerYear = 365
	// DefaultDaysPerYear converts day counts into terms in years.
	DefaultDaysPerYear = 365
)

// Convention gathers the numerical constants used to turn dates and rates into
// discountable terms.
type Convention struct {
	// PeriodsPerYear is n in (1+y/n)^(-n·t), and in the annualization of effective rates.
	PeriodsPerYear int `json:"periodsPerYear"`
	// DaysPerYear scales a number of days into a term in years.
	DaysPerYear float64 `json:"daysPerYear"`
}

// DefaultConvention is 365 compounding periods a year, and terms in days/365.
var DefaultConvention = Convention{PeriodsPerYear: DefaultPeriodsPerYear, DaysPerYear: DefaultDaysPerYear}

// Validate checks that the convention can be used in computations.
func (c Convention) Validate() error {
	if c.PeriodsPerYear <= 0 {
		return fmt.Errorf("%w: periods per year must be positive, got %d", ErrNumeric, c.PeriodsPerYear)
	}
	if !(c.DaysPerYear > 0) {
		return fmt.Errorf("%w: days per year must be positive, got %v", ErrNumeric, c.DaysPerYear)
	}
	return nil
}

// Term returns the year fraction between asOf and on: days(asOf, on) / DaysPerYear.
//
// It is negative when on is before asOf.
func (c Convention) Term(asOf, on date.Date) float64 {
	return float64(date.Days(asOf, on)) / c.DaysPerYear
}

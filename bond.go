package krd

import (
	"errors"
	"fmt"
	"slices"

	"github.com/etnz/krd/date"
	"github.com/shopspring/decimal"
)

// Coupon is a single dated cash payment of a bond: coupon, principal or both.
//
// Amounts are in currency units, not price-per-100.
type Coupon struct {
	Date   date.Date       `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// Bond is a bond position as recorded in a bonds file.
//
// Yields are effective periodic rates: either a single flat Rate, or one rate per
// coupon in Rates.
type Bond struct {
	Name     string
	Currency string
	// AsOf is the valuation date, terms are measured from it.
	AsOf    date.Date
	Coupons []Coupon
	Rate    *decimal.Decimal
	Rates   []decimal.Decimal
	// Weight is the share of this bond in the portfolio.
	Weight decimal.Decimal
}

// NewBond returns a bond with a flat effective rate.
func NewBond(name, currency string, asOf date.Date, rate, weight float64, coupons ...Coupon) Bond {
	r := decimal.NewFromFloat(rate)
	return Bond{
		Name:     name,
		Currency: currency,
		AsOf:     asOf,
		Coupons:  coupons,
		Rate:     &r,
		Weight:   decimal.NewFromFloat(weight),
	}
}

// C returns a Coupon paying amount on day.
func C(day date.Date, amount float64) Coupon {
	return Coupon{Date: day, Amount: decimal.NewFromFloat(amount)}
}

// Validate checks the bond for correctness. All the problems found are reported.
func (b Bond) Validate() error {
	var errs error
	if b.Name == "" {
		errs = errors.Join(errs, errors.New("missing name"))
	}
	if b.AsOf.IsZero() {
		errs = errors.Join(errs, errors.New("missing asOf date"))
	}
	if len(b.Coupons) == 0 {
		errs = errors.Join(errs, errors.New("no coupon"))
	}
	for i, c := range b.Coupons {
		if c.Date.Before(b.AsOf) {
			errs = errors.Join(errs, fmt.Errorf("%w: coupon #%d on %s is before asOf %s", ErrNumeric, i, c.Date, b.AsOf))
		}
		if i > 0 && !b.Coupons[i-1].Date.Before(c.Date) {
			errs = errors.Join(errs, fmt.Errorf("coupon #%d on %s is not after %s", i, c.Date, b.Coupons[i-1].Date))
		}
	}
	switch {
	case b.Rate == nil && len(b.Rates) == 0:
		errs = errors.Join(errs, errors.New("missing rate"))
	case b.Rate != nil && len(b.Rates) > 0:
		errs = errors.Join(errs, errors.New("rate and rates cannot be used together"))
	case len(b.Rates) > 0 && len(b.Rates) != len(b.Coupons):
		errs = errors.Join(errs, fmt.Errorf("%w: %d rates for %d coupons", ErrDimension, len(b.Rates), len(b.Coupons)))
	}
	if errs != nil {
		return fmt.Errorf("invalid bond %q: %w", b.Name, errs)
	}
	return nil
}

// EffectiveRates returns the effective periodic rates as recorded: one for a flat rate,
// one per coupon otherwise.
func (b Bond) EffectiveRates() []float64 {
	if b.Rate != nil {
		return []float64{b.Rate.InexactFloat64()}
	}
	rates := make([]float64, len(b.Rates))
	for i, r := range b.Rates {
		rates[i] = r.InexactFloat64()
	}
	return rates
}

// Dates returns the payment dates of the bond.
func (b Bond) Dates() []date.Date {
	dates := make([]date.Date, len(b.Coupons))
	for i, c := range b.Coupons {
		dates[i] = c.Date
	}
	return dates
}

// Position prepares the bond for valuation: terms are the year fractions from AsOf to
// each coupon date, cash flows the coupon amounts, and yields the annualized rates
// broadcast to every coupon.
func (b Bond) Position(c Convention, mode Compounding) (Position, error) {
	if err := b.Validate(); err != nil {
		return Position{}, err
	}
	p := Position{
		Name:      b.Name,
		Terms:     make([]float64, len(b.Coupons)),
		Cashflows: make([]float64, len(b.Coupons)),
		Weight:    b.Weight.InexactFloat64(),
	}
	for i, cp := range b.Coupons {
		p.Terms[i] = c.Term(b.AsOf, cp.Date)
		p.Cashflows[i] = cp.Amount.InexactFloat64()
	}
	annualized, err := AnnualizeAll(b.EffectiveRates(), c.PeriodsPerYear, mode)
	if err != nil {
		return Position{}, fmt.Errorf("bond %q: %w", b.Name, err)
	}
	if p.Yields, err = Broadcast(annualized, len(p.Terms)); err != nil {
		return Position{}, fmt.Errorf("bond %q: %w", b.Name, err)
	}
	return p, nil
}

// pad returns a copy of b with a coupon on every date of grid, zero where b pays
// nothing. grid must be sorted and contain every date of b.
//
// With per coupon rates, a padded date carries the rate of the previous coupon (or of
// the first one), its cash flow being zero the rate does not change the valuation.
func (b Bond) pad(grid []date.Date) Bond {
	padded := b
	padded.Coupons = make([]Coupon, 0, len(grid))
	if len(b.Rates) > 0 {
		padded.Rates = make([]decimal.Decimal, 0, len(grid))
	}

	j := 0
	for _, d := range grid {
		if j < len(b.Coupons) && b.Coupons[j].Date == d {
			padded.Coupons = append(padded.Coupons, b.Coupons[j])
			if len(b.Rates) > 0 {
				padded.Rates = append(padded.Rates, b.Rates[j])
			}
			j++
			continue
		}
		padded.Coupons = append(padded.Coupons, Coupon{Date: d, Amount: decimal.Zero})
		if len(b.Rates) > 0 {
			padded.Rates = append(padded.Rates, b.Rates[max(j-1, 0)])
		}
	}
	return padded
}

// Align zero pads every bond to the union of all payment dates, so that all bonds
// share the same term buckets. Bonds must share the same AsOf date.
//
// It returns the aligned bonds and the common payment dates. The input is not modified.
func Align(bonds []Bond) ([]Bond, []date.Date, error) {
	if len(bonds) == 0 {
		return nil, nil, ErrEmptyPortfolio
	}
	series := make([][]date.Date, len(bonds))
	for i, b := range bonds {
		if b.AsOf != bonds[0].AsOf {
			return nil, nil, fmt.Errorf("%w: bond %q is as of %s, bond %q as of %s", ErrDimension, b.Name, b.AsOf, bonds[0].Name, bonds[0].AsOf)
		}
		for k := 1; k < len(b.Coupons); k++ {
			if !b.Coupons[k-1].Date.Before(b.Coupons[k].Date) {
				return nil, nil, fmt.Errorf("bond %q: coupon dates are not strictly increasing", b.Name)
			}
		}
		series[i] = b.Dates()
	}
	grid := slices.Collect(date.Union(series...))

	aligned := make([]Bond, len(bonds))
	for i, b := range bonds {
		aligned[i] = b.pad(grid)
	}
	return aligned, grid, nil
}

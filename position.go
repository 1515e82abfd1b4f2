package krd

// Position is the discountable view of a bond held in a portfolio.
//
// Terms, Cashflows and Yields have the same length, Yields are annualized. A Position is
// never modified by the computations that read it.
type Position struct {
	Name      string    `json:"name"`
	Terms     []float64 `json:"terms"`
	Cashflows []float64 `json:"cashflows"`
	Yields    []float64 `json:"yields"`
	// Weight is the share of this position in the portfolio. Weights are not
	// required to sum to one.
	Weight float64 `json:"weight"`
}

// Len returns the number of term buckets of this position.
func (p Position) Len() int { return len(p.Terms) }

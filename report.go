package krd

import (
	"context"
	"fmt"

	"github.com/etnz/krd/date"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReportOptions configures NewReport.
type ReportOptions struct {
	Convention Convention
	Mode       Compounding
	// Workers bounds the bonds valued concurrently, zero means GOMAXPROCS.
	Workers int
	Logger  *zap.Logger
	// Currency is the reporting currency of books whose bonds do not declare one.
	Currency string
}

// Bucket is a term bucket of a report: a payment date and its term in years.
type Bucket struct {
	Date date.Date `json:"date"`
	Term float64   `json:"term"`
}

// BondKRD holds the key rate durations of a single bond.
type BondKRD struct {
	Name         string    `json:"name"`
	Weight       float64   `json:"weight"`
	PresentValue Money     `json:"presentValue"`
	KRD          []float64 `json:"krd"`
	// Duration is the sum of the key rate durations.
	Duration float64 `json:"duration"`
}

// Report is the key rate duration report of a book, ordered by ascending term.
type Report struct {
	ID          string      `json:"id"`
	Name        string      `json:"name,omitempty"`
	AsOf        date.Date   `json:"asOf"`
	Compounding Compounding `json:"compounding"`
	Convention  Convention  `json:"convention"`
	Currency    string      `json:"currency,omitempty"`
	Buckets     []Bucket    `json:"buckets"`
	Bonds       []BondKRD   `json:"bonds"`
	// Portfolio is the weighted sum of the bonds key rate durations.
	Portfolio []float64 `json:"portfolio"`
	Duration  float64   `json:"duration"`
}

// NewReport computes the key rate durations of every bond in the book, and of the
// book as a portfolio.
func NewReport(ctx context.Context, book *Book, opts ReportOptions) (*Report, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	id := uuid.New().String()
	log = log.With(zap.String("report", id), zap.String("book", book.Name()))

	if book.Len() == 0 {
		return nil, ErrEmptyPortfolio
	}
	cur, err := book.Currency()
	if err != nil {
		return nil, err
	}
	if cur == "" {
		cur = opts.Currency
	}
	v, err := NewValuer(opts.Convention)
	if err != nil {
		return nil, err
	}
	positions, grid, err := book.Positions(opts.Convention, opts.Mode)
	if err != nil {
		return nil, err
	}
	log.Debug("book aligned", zap.Int("bonds", len(positions)), zap.Int("buckets", len(grid)))

	a := NewAggregator(v, opts.Mode)
	a.Workers = opts.Workers
	a.Logger = log
	res, err := a.Result(ctx, positions)
	if err != nil {
		return nil, fmt.Errorf("could not aggregate book %q: %w", book.Name(), err)
	}

	var total float64
	for i, p := range positions {
		total += p.Weight * res.PresentValues[i]
	}
	if !isFinite(total) {
		return nil, fmt.Errorf("could not aggregate book %q: %w: total present value %v is not finite", book.Name(), ErrNumeric, total)
	}

	bonds := book.Bonds()
	r := &Report{
		ID:          id,
		Name:        book.Name(),
		AsOf:        bonds[0].AsOf,
		Compounding: opts.Mode,
		Convention:  opts.Convention,
		Currency:    cur,
		Buckets:     make([]Bucket, len(grid)),
		Bonds:       make([]BondKRD, len(positions)),
		Portfolio:   res.Portfolio,
		Duration:    sum(res.Portfolio),
	}
	for i, d := range grid {
		r.Buckets[i] = Bucket{Date: d, Term: positions[0].Terms[i]}
	}
	for i, p := range positions {
		r.Bonds[i] = BondKRD{
			Name:         p.Name,
			Weight:       p.Weight,
			PresentValue: M(res.PresentValues[i], cur),
			KRD:          res.Matrix[i],
			Duration:     sum(res.Matrix[i]),
		}
	}
	log.Info("report computed", zap.Float64("duration", r.Duration))
	return r, nil
}

// TotalPresentValue returns Σ weight·PV over the bonds of the report.
func (r *Report) TotalPresentValue() Money {
	var total float64
	for _, b := range r.Bonds {
		total += b.Weight * b.PresentValue.Float64()
	}
	return M(total, r.Currency)
}

func sum(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x
	}
	return s
}

package krd

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Aggregator computes key rate durations of a portfolio of positions.
//
// The zero value values positions with the DefaultConvention under Discrete compounding.
type Aggregator struct {
	Valuer *Valuer
	Mode   Compounding
	// Workers bounds the number of positions valued concurrently. Zero means GOMAXPROCS.
	Workers int
	Logger  *zap.Logger
}

// NewAggregator returns an Aggregator valuing positions with v under mode.
func NewAggregator(v *Valuer, mode Compounding) *Aggregator {
	return &Aggregator{Valuer: v, Mode: mode, Logger: zap.NewNop()}
}

// Result holds the outcome of a portfolio aggregation.
type Result struct {
	// Matrix has one row per position, in positions order: its key rate durations.
	Matrix [][]float64 `json:"matrix"`
	// PresentValues of each position.
	PresentValues []float64 `json:"presentValues"`
	// Portfolio is Σ weight·KRD per term bucket.
	Portfolio []float64 `json:"portfolio"`
}

// BuildKRDMatrix returns the key rate durations of every position, one row each.
//
// All positions must have the same number of term buckets as the first one, otherwise
// it fails with ErrDimension before any valuation. When positions fail, the error of
// the first failing one in positions order is returned.
func (a *Aggregator) BuildKRDMatrix(ctx context.Context, positions []Position) ([][]float64, error) {
	r, err := a.value(ctx, positions)
	if err != nil {
		return nil, err
	}
	return r.Matrix, nil
}

// Aggregate returns the portfolio key rate durations: Σ weight·KRD per term bucket.
//
// It fails with ErrEmptyPortfolio when there is no position.
func (a *Aggregator) Aggregate(ctx context.Context, positions []Position) ([]float64, error) {
	r, err := a.Result(ctx, positions)
	if err != nil {
		return nil, err
	}
	return r.Portfolio, nil
}

// Result computes the matrix, the present values and the portfolio vector at once.
func (a *Aggregator) Result(ctx context.Context, positions []Position) (*Result, error) {
	if len(positions) == 0 {
		return nil, ErrEmptyPortfolio
	}
	r, err := a.value(ctx, positions)
	if err != nil {
		return nil, err
	}

	// Accumulate in positions order so that results are reproducible.
	r.Portfolio = make([]float64, positions[0].Len())
	for i, row := range r.Matrix {
		w := positions[i].Weight
		for j, k := range row {
			r.Portfolio[j] += w * k
		}
	}
	for j, k := range r.Portfolio {
		if !isFinite(k) {
			return nil, fmt.Errorf("%w: portfolio key rate duration #%d is %v", ErrNumeric, j, k)
		}
	}
	return r, nil
}

// value checks the shape of the portfolio and values each position.
func (a *Aggregator) value(ctx context.Context, positions []Position) (*Result, error) {
	if len(positions) == 0 {
		return nil, ErrEmptyPortfolio
	}
	n := positions[0].Len()
	for i, p := range positions {
		if p.Len() != n {
			return nil, fmt.Errorf("%w: position #%d %q has %d term buckets, position #0 %q has %d", ErrDimension, i, p.Name, p.Len(), positions[0].Name, n)
		}
	}

	log := a.logger()
	v := a.valuer()
	r := &Result{
		Matrix:        make([][]float64, len(positions)),
		PresentValues: make([]float64, len(positions)),
	}
	// errs[i] is the failure of position i, so that the reported error does not
	// depend on scheduling.
	errs := make([]error, len(positions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers())
	for i, p := range positions {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			pv, err := v.PresentValue(p.Terms, p.Cashflows, p.Yields, a.Mode)
			if err != nil {
				log.Warn("cannot value position", zap.String("position", p.Name), zap.Error(err))
				errs[i] = fmt.Errorf("position %q: %w", p.Name, err)
				return nil
			}
			krd, err := v.KeyRateDurations(p.Terms, p.Cashflows, p.Yields, a.Mode)
			if err != nil {
				log.Warn("cannot compute key rate durations", zap.String("position", p.Name), zap.Error(err))
				errs[i] = fmt.Errorf("position %q: %w", p.Name, err)
				return nil
			}
			// each goroutine owns its own index.
			r.Matrix[i] = krd
			r.PresentValues[i] = pv
			log.Debug("position valued", zap.String("position", p.Name), zap.Float64("pv", pv), zap.Int("buckets", len(krd)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (a *Aggregator) workers() int {
	if a.Workers > 0 {
		return a.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (a *Aggregator) valuer() *Valuer {
	if a.Valuer == nil {
		return &Valuer{Convention: DefaultConvention}
	}
	return a.Valuer
}

func (a *Aggregator) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

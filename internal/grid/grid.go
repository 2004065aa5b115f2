// Package grid sweeps the binomial pricer over ranges of spot price and
// volatility, producing the call/put price matrices behind the heatmap
// view. Strike, maturity, rate and step count are held constant across
// the sweep.
package grid

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/contactkeval/option-lattice/internal/logger"
	"github.com/contactkeval/option-lattice/internal/pricing"
)

// DefaultSize is the per-axis resolution when the spec leaves it unset.
const DefaultSize = 10

// Spec describes a heatmap sweep.
type Spec struct {
	Base pricing.Request `json:"base"` // strike/maturity/rate/steps held constant

	SpotMin float64 `json:"spot_min"`
	SpotMax float64 `json:"spot_max"`
	VolMin  float64 `json:"vol_min"`
	VolMax  float64 `json:"vol_max"`

	SpotSteps int `json:"spot_steps,omitempty"` // columns, default 10
	VolSteps  int `json:"vol_steps,omitempty"`  // rows, default 10
}

// ApplyDefaults fills unset ranges the way the form does: spots at
// 80-120% of the base spot, vols at 50-150% of the base vol, 10x10 cells.
func (s *Spec) ApplyDefaults() {
	if s.SpotMin == 0 && s.SpotMax == 0 {
		s.SpotMin = s.Base.CurrentPrice * 0.8
		s.SpotMax = s.Base.CurrentPrice * 1.2
	}
	if s.VolMin == 0 && s.VolMax == 0 {
		s.VolMin = s.Base.Volatility * 0.5
		s.VolMax = s.Base.Volatility * 1.5
	}
	if s.SpotSteps == 0 {
		s.SpotSteps = DefaultSize
	}
	if s.VolSteps == 0 {
		s.VolSteps = DefaultSize
	}
}

// Validate checks the sweep ranges. The base request is validated by the
// pricer itself on the first cell.
func (s Spec) Validate() error {
	if !(s.SpotMin > 0) || s.SpotMax < s.SpotMin {
		return fmt.Errorf("%w: spot range [%v, %v]", pricing.ErrInvalidParameter, s.SpotMin, s.SpotMax)
	}
	if !(s.VolMin > 0) || s.VolMax < s.VolMin {
		return fmt.Errorf("%w: vol range [%v, %v]", pricing.ErrInvalidParameter, s.VolMin, s.VolMax)
	}
	if s.SpotSteps < 2 || s.VolSteps < 2 {
		return fmt.Errorf("%w: grid must be at least 2x2, got %dx%d", pricing.ErrInvalidParameter, s.VolSteps, s.SpotSteps)
	}
	return nil
}

// Summary aggregates one price matrix.
type Summary struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// Result holds the sweep output. Call[i][j] is the call price at
// Vols[i] and Spots[j]; same layout for Put.
type Result struct {
	Spots []float64 `json:"spots"`
	Vols  []float64 `json:"vols"`

	Call [][]float64 `json:"call"`
	Put  [][]float64 `json:"put"`

	CallSummary Summary `json:"call_summary"`
	PutSummary  Summary `json:"put_summary"`
}

// Run prices every cell of the sweep. Each cell is an independent
// invocation of the pricer with the cell's spot and vol substituted into
// the base request.
func Run(spec Spec) (*Result, error) {
	spec.ApplyDefaults()
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	res := &Result{
		Spots: linspace(spec.SpotMin, spec.SpotMax, spec.SpotSteps),
		Vols:  linspace(spec.VolMin, spec.VolMax, spec.VolSteps),
	}
	logger.Debugf("heatmap sweep %dx%d spots=[%.2f,%.2f] vols=[%.2f,%.2f]",
		spec.VolSteps, spec.SpotSteps, spec.SpotMin, spec.SpotMax, spec.VolMin, spec.VolMax)

	for _, vol := range res.Vols {
		callRow := make([]float64, 0, len(res.Spots))
		putRow := make([]float64, 0, len(res.Spots))
		for _, spot := range res.Spots {
			req := spec.Base
			req.CurrentPrice = spot
			req.Volatility = vol
			cell, err := pricing.Compute(req)
			if err != nil {
				return nil, fmt.Errorf("cell spot=%v vol=%v: %w", spot, vol, err)
			}
			callRow = append(callRow, cell.CallPrice)
			putRow = append(putRow, cell.PutPrice)
		}
		res.Call = append(res.Call, callRow)
		res.Put = append(res.Put, putRow)
	}

	var err error
	if res.CallSummary, err = summarize(res.Call); err != nil {
		return nil, err
	}
	if res.PutSummary, err = summarize(res.Put); err != nil {
		return nil, err
	}
	return res, nil
}

func summarize(matrix [][]float64) (Summary, error) {
	var flat []float64
	for _, row := range matrix {
		flat = append(flat, row...)
	}

	min, err := stats.Min(flat)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to calculate min: %w", err)
	}
	max, err := stats.Max(flat)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to calculate max: %w", err)
	}
	mean, err := stats.Mean(flat)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to calculate mean: %w", err)
	}
	sd, err := stats.StandardDeviation(flat)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to calculate standard deviation: %w", err)
	}
	return Summary{Min: min, Max: max, Mean: mean, StdDev: sd}, nil
}

func linspace(from, to float64, n int) []float64 {
	out := make([]float64, n)
	step := (to - from) / float64(n-1)
	for i := range out {
		out[i] = from + float64(i)*step
	}
	return out
}

// Package pricing implements option pricing models.
//
// The main entry point is Compute, which prices a European call and put
// pair on a Cox-Ross-Rubinstein binomial lattice and derives Delta and
// Gamma from the nodes nearest the root. A closed-form Black-Scholes
// model (bs.go) is kept alongside as the analytic reference.
package pricing

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParameter is returned when a Request fails validation.
// Callers can test for it with errors.Is.
var ErrInvalidParameter = errors.New("invalid parameter")

// Request holds the six inputs of a pricing run. It is a plain value:
// construct it, validate it, pass it to Compute. Nothing mutates it.
type Request struct {
	CurrentPrice   float64 `json:"current_price" schema:"current_price"`     // spot price of the underlying
	Strike         float64 `json:"strike" schema:"strike"`                   // option strike
	TimeToMaturity float64 `json:"time_to_maturity" schema:"time_to_maturity"` // years
	Volatility     float64 `json:"volatility" schema:"volatility"`           // annualized, e.g. 0.20
	InterestRate   float64 `json:"interest_rate" schema:"interest_rate"`     // annualized, may be negative
	Steps          int     `json:"steps" schema:"steps"`                     // lattice time steps
}

// Validate checks the Request domain. Steps must be at least 2 because
// Gamma needs the second lattice layer; see DESIGN.md for the rationale.
func (r Request) Validate() error {
	if !(r.CurrentPrice > 0) {
		return fmt.Errorf("%w: current_price must be positive, got %v", ErrInvalidParameter, r.CurrentPrice)
	}
	if !(r.Strike > 0) {
		return fmt.Errorf("%w: strike must be positive, got %v", ErrInvalidParameter, r.Strike)
	}
	if !(r.TimeToMaturity > 0) {
		return fmt.Errorf("%w: time_to_maturity must be positive, got %v", ErrInvalidParameter, r.TimeToMaturity)
	}
	if !(r.Volatility >= 0) {
		return fmt.Errorf("%w: volatility must be non-negative, got %v", ErrInvalidParameter, r.Volatility)
	}
	if math.IsNaN(r.InterestRate) || math.IsInf(r.InterestRate, 0) {
		return fmt.Errorf("%w: interest_rate must be finite, got %v", ErrInvalidParameter, r.InterestRate)
	}
	if r.Steps < 2 {
		return fmt.Errorf("%w: steps must be at least 2, got %d", ErrInvalidParameter, r.Steps)
	}
	return nil
}

// Result holds the outputs of a pricing run: the derived lattice factors
// and the call/put prices and Greeks. All fields are finite for a valid
// Request.
type Result struct {
	Up          float64 `json:"up"`          // per-step up factor
	Down        float64 `json:"down"`        // per-step down factor
	Probability float64 `json:"probability"` // risk-neutral up probability

	CallPrice float64 `json:"call_price"`
	PutPrice  float64 `json:"put_price"`
	CallDelta float64 `json:"call_delta"`
	PutDelta  float64 `json:"put_delta"`
	CallGamma float64 `json:"call_gamma"`
	PutGamma  float64 `json:"put_gamma"`
}

// Compute prices the European call and put described by req on a CRR
// binomial lattice.
//
// The lattice uses u = exp(sigma*sqrt(dt)), d = 1/u and risk-neutral
// probability p = (exp(r*dt) - d)/(u - d). Terminal payoffs are rolled
// back to the root by discounted expectation. Delta comes from the two
// step-1 nodes, Gamma from the three step-2 nodes, both as finite
// differences over the asset price.
//
// Compute is pure: identical requests always yield identical results,
// and no state survives the call.
func Compute(req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Volatility == 0 {
		return computeZeroVol(req), nil
	}

	n := req.Steps
	spot := req.CurrentPrice
	dt := req.TimeToMaturity / float64(n)
	up := math.Exp(req.Volatility * math.Sqrt(dt))
	down := 1 / up
	disc := math.Exp(-req.InterestRate * dt)
	p := (math.Exp(req.InterestRate*dt) - down) / (up - down)

	// Node index i counts down-moves, so i=0 is the topmost node of a layer.
	call := make([]float64, n+1)
	put := make([]float64, n+1)
	for i := 0; i <= n; i++ {
		s := spot * math.Pow(up, float64(n-i)) * math.Pow(down, float64(i))
		call[i] = math.Max(s-req.Strike, 0)
		put[i] = math.Max(req.Strike-s, 0)
	}

	// Snapshots of the layers the Greeks read from.
	var call1, put1 [2]float64
	var call2, put2 [3]float64
	if n == 2 {
		copy(call2[:], call[:3])
		copy(put2[:], put[:3])
	}

	for t := n - 1; t >= 0; t-- {
		for i := 0; i <= t; i++ {
			call[i] = disc * (p*call[i] + (1-p)*call[i+1])
			put[i] = disc * (p*put[i] + (1-p)*put[i+1])
		}
		switch t {
		case 2:
			copy(call2[:], call[:3])
			copy(put2[:], put[:3])
		case 1:
			copy(call1[:], call[:2])
			copy(put1[:], put[:2])
		}
	}

	res := &Result{
		Up:          up,
		Down:        down,
		Probability: p,
		CallPrice:   call[0],
		PutPrice:    put[0],
	}

	su, sd := spot*up, spot*down
	suu, sdd := spot*up*up, spot*down*down

	res.CallDelta = (call1[0] - call1[1]) / (su - sd)
	res.PutDelta = (put1[0] - put1[1]) / (su - sd)

	// Gamma: difference of the two one-step deltas around the root,
	// normalized by half the step-2 price span.
	half := 0.5 * (suu - sdd)
	res.CallGamma = ((call2[0]-call2[1])/(suu-spot) - (call2[1]-call2[2])/(spot-sdd)) / half
	res.PutGamma = ((put2[0]-put2[1])/(suu-spot) - (put2[1]-put2[2])/(spot-sdd)) / half

	return res, nil
}

// computeZeroVol handles sigma = 0, where the lattice collapses to a single
// deterministic path: the spot grows at the risk-free rate and the option
// is worth its discounted terminal payoff. Delta is the discounted payoff
// slope and Gamma is zero everywhere except the kink at the strike.
func computeZeroVol(req Request) *Result {
	fwd := req.CurrentPrice * math.Exp(req.InterestRate*req.TimeToMaturity)
	disc := math.Exp(-req.InterestRate * req.TimeToMaturity)

	res := &Result{
		Up:          1,
		Down:        1,
		Probability: 1,
		CallPrice:   disc * math.Max(fwd-req.Strike, 0),
		PutPrice:    disc * math.Max(req.Strike-fwd, 0),
	}
	if fwd > req.Strike {
		res.CallDelta = 1
	}
	if fwd < req.Strike {
		res.PutDelta = -1
	}
	return res
}

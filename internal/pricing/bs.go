package pricing

import "math"

const sqrt2Pi = 2.5066282746310002

// BlackScholesPrice returns the closed-form Black-Scholes price of a
// European option. It is the analytic limit of the binomial lattice as
// the step count grows, and the convergence tests lean on it.
//
// Parameters:
//   - isCall: true for call, false for put
//   - S: spot price of the underlying
//   - K: strike
//   - T: time to expiry in years
//   - r: risk-free rate (annual)
//   - sigma: volatility (annual, as a decimal)
//
// If T or sigma is zero or negative the option is worth its intrinsic
// value and that is returned instead.
func BlackScholesPrice(
	isCall bool,
	S float64,
	K float64,
	T float64,
	r float64,
	sigma float64,
) float64 {

	if T <= 0 || sigma <= 0 {
		if isCall {
			return math.Max(0, S-K)
		}
		return math.Max(0, K-S)
	}

	d1 := (math.Log(S/K) + (r+0.5*sigma*sigma)*T) / (sigma * math.Sqrt(T))
	d2 := d1 - sigma*math.Sqrt(T)

	if isCall {
		return S*normCDF(d1) - K*math.Exp(-r*T)*normCDF(d2)
	}
	return K*math.Exp(-r*T)*normCDF(-d2) - S*normCDF(-d1)
}

// BlackScholesDelta returns the analytic Delta: N(d1) for a call,
// N(d1)-1 for a put. Returns 0 when T or sigma is non-positive.
func BlackScholesDelta(
	isCall bool,
	S float64,
	K float64,
	T float64,
	r float64,
	sigma float64,
) float64 {

	if T <= 0 || sigma <= 0 {
		return 0
	}

	d1 := (math.Log(S/K) + (r+0.5*sigma*sigma)*T) / (sigma * math.Sqrt(T))
	if isCall {
		return normCDF(d1)
	}
	return normCDF(d1) - 1
}

// BlackScholesGamma returns the analytic Gamma, identical for calls and
// puts. Returns 0 when T or sigma is non-positive.
func BlackScholesGamma(
	S float64,
	K float64,
	T float64,
	r float64,
	sigma float64,
) float64 {

	if T <= 0 || sigma <= 0 {
		return 0
	}

	d1 := (math.Log(S/K) + (r+0.5*sigma*sigma)*T) / (sigma * math.Sqrt(T))
	return normPDF(d1) / (S * sigma * math.Sqrt(T))
}

// normPDF is the standard normal density: exp(-x^2/2) / sqrt(2 pi).
func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / sqrt2Pi
}

// normCDF is the standard normal cumulative distribution function,
// computed via the error function.
func normCDF(x float64) float64 {
	return 0.5 * (1.0 + math.Erf(x/math.Sqrt2))
}

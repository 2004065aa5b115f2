// Package data provides market data providers used to pre-fill a pricing
// request from a ticker: the current spot price and a historical
// volatility estimate. The pricer itself never touches this package; the
// CLI and server wire a Provider in when the user names a ticker instead
// of typing the inputs.
package data

import (
	"math"
	"time"
)

// Provider supplies market data for an underlying.
type Provider interface {
	// GetDailyBars returns daily OHLC bars for the ticker, oldest first.
	GetDailyBars(ticker string, fromDate, toDate time.Time) ([]Bar, error)
	// GetSpot returns the most recent close for the ticker.
	GetSpot(ticker string) (float64, error)
	// Secondary returns the fallback provider, if any.
	Secondary() Provider
}

// Bar simplified OHLC
type Bar struct {
	Date  time.Time
	Open  float64
	High  float64
	Low   float64
	Close float64
	Vol   float64
}

// AnnualizedVolatility estimates annualized volatility from daily closes
// via the sample standard deviation of log returns, scaled by sqrt(252).
// With fewer than two closes it falls back to a 30% default.
func AnnualizedVolatility(closes []float64) float64 {
	if len(closes) < 2 {
		return 0.30
	}
	var rets []float64
	for i := 1; i < len(closes); i++ {
		rets = append(rets, math.Log(closes[i]/closes[i-1]))
	}
	mean := 0.0
	for _, v := range rets {
		mean += v
	}
	mean /= float64(len(rets))
	sd := 0.0
	for _, v := range rets {
		sd += (v - mean) * (v - mean)
	}
	sd = math.Sqrt(sd / float64(len(rets)-1))
	return sd * math.Sqrt(252.0)
}

// Closes extracts the close series from bars.
func Closes(bars []Bar) []float64 {
	var closes []float64
	for _, b := range bars {
		closes = append(closes, b.Close)
	}
	return closes
}

// LatestClose returns the close of the last bar, or an error value of 0
// with ok=false when bars is empty.
func LatestClose(bars []Bar) (float64, bool) {
	if len(bars) == 0 {
		return 0, false
	}
	return bars[len(bars)-1].Close, true
}

package data

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// synthDataProvider implements Provider generating synthetic data. Used
// when no API key is configured, so the tool stays usable offline.
type synthDataProvider struct {
	rng       *rand.Rand
	secondary Provider
}

// NewSyntheticProvider returns a random-walk provider. A non-zero seed
// makes the walk reproducible.
func NewSyntheticProvider(seed int64) Provider {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &synthDataProvider{rng: rand.New(rand.NewSource(seed))}
}

func (synthDataProv *synthDataProvider) Secondary() Provider {
	return synthDataProv.secondary
}

func (synthDataProv *synthDataProvider) GetDailyBars(ticker string, fromDate, toDate time.Time) ([]Bar, error) {
	if fromDate.After(toDate) {
		return nil, fmt.Errorf("from date %s after to date %s", fromDate.Format("2006-01-02"), toDate.Format("2006-01-02"))
	}
	cur := fromDate
	price := 100.0 + float64(synthDataProv.rng.Intn(200))
	var out []Bar
	for !cur.After(toDate) {
		if cur.Weekday() != time.Saturday && cur.Weekday() != time.Sunday {
			delta := synthDataProv.rng.NormFloat64() * 0.01 * price
			open := price
			close := price + delta
			high := math.Max(open, close) + math.Abs(synthDataProv.rng.NormFloat64()*0.3)
			low := math.Min(open, close) - math.Abs(synthDataProv.rng.NormFloat64()*0.3)
			out = append(out, Bar{Date: cur, Open: open, High: high, Low: low, Close: close, Vol: float64(1000 + synthDataProv.rng.Intn(5000))})
			price = close
		}
		cur = cur.AddDate(0, 0, 1)
	}
	return out, nil
}

func (synthDataProv *synthDataProvider) GetSpot(ticker string) (float64, error) {
	to := time.Now().UTC()
	bars, err := synthDataProv.GetDailyBars(ticker, to.AddDate(0, 0, -7), to)
	if err != nil {
		return 0, err
	}
	spot, ok := LatestClose(bars)
	if !ok {
		return 0, fmt.Errorf("no synthetic bars generated for %s", ticker)
	}
	return spot, nil
}

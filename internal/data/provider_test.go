package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactkeval/option-lattice/internal/testutil"
)

func testDateRange() (time.Time, time.Time) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	return start, end
}

func TestSyntheticProvider_GetDailyBars(t *testing.T) {
	start, end := testDateRange()
	prov := NewSyntheticProvider(42)

	bars, err := prov.GetDailyBars("AAPL", start, end)
	require.NoError(t, err)
	require.NotEmpty(t, bars)

	for _, b := range bars {
		assert.False(t, b.Date.Before(start) || b.Date.After(end), "bar date out of range: %v", b.Date)
		assert.NotEqual(t, time.Saturday, b.Date.Weekday())
		assert.NotEqual(t, time.Sunday, b.Date.Weekday())
		assert.GreaterOrEqual(t, b.High, b.Low)
	}
}

func TestSyntheticProvider_Reproducible(t *testing.T) {
	start, end := testDateRange()

	first, err := NewSyntheticProvider(7).GetDailyBars("SPY", start, end)
	require.NoError(t, err)
	second, err := NewSyntheticProvider(7).GetDailyBars("SPY", start, end)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSyntheticProvider_GetSpot(t *testing.T) {
	spot, err := NewSyntheticProvider(1).GetSpot("AAPL")
	require.NoError(t, err)
	assert.Greater(t, spot, 0.0)
}

func TestLocalFileProvider_GetDailyBars(t *testing.T) {
	start, end := testDateRange()
	dir := t.TempDir()
	testutil.WriteBarsCSV(t, dir, "AAPL", [][]string{
		{"date", "open", "high", "low", "close", "volume"},
		{"2025-01-02", "100", "102", "99", "101", "1200"},
		{"2025-01-03", "101", "103", "100", "102.5", "900"},
		{"2025-01-13", "105", "106", "104", "105.5", "800"}, // outside range
	})

	prov := NewLocalFileDataProvider(dir, nil)
	bars, err := prov.GetDailyBars("aapl", start, end)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 101.0, bars[0].Close)
	assert.Equal(t, 102.5, bars[1].Close)
}

func TestLocalFileProvider_FallsBackToSecondary(t *testing.T) {
	start, end := testDateRange()
	prov := NewLocalFileDataProvider(t.TempDir(), NewSyntheticProvider(42))

	bars, err := prov.GetDailyBars("MSFT", start, end)
	require.NoError(t, err)
	assert.NotEmpty(t, bars)
}

func TestAnnualizedVolatility(t *testing.T) {
	assert.Equal(t, 0.30, AnnualizedVolatility(nil), "default when series too short")
	assert.Equal(t, 0.30, AnnualizedVolatility([]float64{100}))
	assert.Equal(t, 0.0, AnnualizedVolatility([]float64{100, 100, 100, 100}), "flat series has no volatility")

	vol := AnnualizedVolatility([]float64{100, 101, 99.5, 102, 100.8, 101.7})
	assert.Greater(t, vol, 0.0)
	assert.Less(t, vol, 5.0)
}

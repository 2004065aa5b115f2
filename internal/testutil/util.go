// Package testutil holds helpers shared by package tests.
package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/contactkeval/option-lattice/internal/pricing"
)

// ScenarioRequest returns the canonical pricing scenario used across
// tests: spot 100, strike 90, two years, 20% vol, 5% rate, 100 steps.
func ScenarioRequest() pricing.Request {
	return pricing.Request{
		CurrentPrice:   100,
		Strike:         90,
		TimeToMaturity: 2,
		Volatility:     0.2,
		InterestRate:   0.05,
		Steps:          100,
	}
}

// WriteBarsCSV writes rows to <dir>/<TICKER>.csv for the local file
// provider tests.
func WriteBarsCSV(t *testing.T, dir, ticker string, rows [][]string) {
	t.Helper()
	path := filepath.Join(dir, strings.ToUpper(ticker)+".csv")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			t.Fatalf("failed to write csv row: %v", err)
		}
	}
}

package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/contactkeval/option-lattice/internal/logger"
)

// localFileDataProvider implements Provider from local CSV files, one
// file per ticker: <dir>/<TICKER>.csv with rows of
// date,open,high,low,close,volume and an optional header line.
type localFileDataProvider struct {
	dir       string
	secondary Provider
}

// NewLocalFileDataProvider convenience constructor.
func NewLocalFileDataProvider(dir string, secondary Provider) Provider {
	return &localFileDataProvider{dir: dir, secondary: secondary}
}

func (localFileDataProv *localFileDataProvider) Secondary() Provider {
	return localFileDataProv.secondary
}

func (localFileDataProv *localFileDataProvider) GetDailyBars(ticker string, fromDate, toDate time.Time) ([]Bar, error) {
	path := filepath.Join(localFileDataProv.dir, strings.ToUpper(ticker)+".csv")
	f, err := os.Open(path)
	if err != nil {
		if localFileDataProv.secondary != nil {
			logger.Debugf("no local file %s, falling back: %v", path, err)
			return localFileDataProv.secondary.GetDailyBars(ticker, fromDate, toDate)
		}
		return nil, fmt.Errorf("open bars file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", path, err)
	}

	var bars []Bar
	for _, row := range records {
		if len(row) < 5 {
			continue
		}
		dt, err := time.Parse("2006-01-02", strings.TrimSpace(row[0]))
		if err != nil {
			// header or malformed row
			continue
		}
		if dt.Before(fromDate) || dt.After(toDate) {
			continue
		}
		open, err1 := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		high, err2 := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		low, err3 := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
		close, err4 := strconv.ParseFloat(strings.TrimSpace(row[4]), 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			continue
		}
		vol := 0.0
		if len(row) > 5 {
			vol, _ = strconv.ParseFloat(strings.TrimSpace(row[5]), 64)
		}
		bars = append(bars, Bar{Date: dt, Open: open, High: high, Low: low, Close: close, Vol: vol})
	}
	return bars, nil
}

func (localFileDataProv *localFileDataProvider) GetSpot(ticker string) (float64, error) {
	to := time.Now().UTC()
	bars, err := localFileDataProv.GetDailyBars(ticker, to.AddDate(-5, 0, 0), to)
	if err != nil {
		return 0, err
	}
	spot, ok := LatestClose(bars)
	if !ok {
		if localFileDataProv.secondary != nil {
			return localFileDataProv.secondary.GetSpot(ticker)
		}
		return 0, fmt.Errorf("no bars in local file for %s", ticker)
	}
	return spot, nil
}

package data

import (
	"context"
	"fmt"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"

	"github.com/contactkeval/option-lattice/internal/logger"
)

// polygonDataProvider implements Provider using the Polygon.io REST API.
type polygonDataProvider struct {
	client    *polygon.Client
	secondary Provider
}

// NewPolygonProvider constructs a Polygon-backed data provider. An
// optional secondary provider serves as fallback when the API returns
// nothing (weekends, unknown tickers, plan limits).
func NewPolygonProvider(apiKey string, secondary Provider) Provider {
	logger.Infof("initializing Polygon data provider")
	return &polygonDataProvider{client: polygon.New(apiKey), secondary: secondary}
}

func (polygonDataProv *polygonDataProvider) Secondary() Provider {
	return polygonDataProv.secondary
}

func (polygonDataProv *polygonDataProvider) GetDailyBars(ticker string, fromDate, toDate time.Time) ([]Bar, error) {
	params := models.ListAggsParams{
		Ticker:     ticker,
		Multiplier: 1,
		Timespan:   "day",
		From:       models.Millis(fromDate),
		To:         models.Millis(toDate),
	}.WithOrder(models.Asc).WithAdjusted(true)

	iter := polygonDataProv.client.ListAggs(context.Background(), params)

	var bars []Bar
	for iter.Next() {
		item := iter.Item()
		bars = append(bars, Bar{
			Date:  time.Time(item.Timestamp).UTC(),
			Open:  item.Open,
			High:  item.High,
			Low:   item.Low,
			Close: item.Close,
			Vol:   item.Volume,
		})
	}
	if err := iter.Err(); err != nil {
		if polygonDataProv.secondary != nil {
			logger.Debugf("polygon bars error for %s, falling back: %v", ticker, err)
			return polygonDataProv.secondary.GetDailyBars(ticker, fromDate, toDate)
		}
		return nil, fmt.Errorf("polygon aggs for %s: %w", ticker, err)
	}
	logger.Debugf("polygon returned %d bars for %s", len(bars), ticker)
	return bars, nil
}

func (polygonDataProv *polygonDataProvider) GetSpot(ticker string) (float64, error) {
	to := time.Now().UTC()
	bars, err := polygonDataProv.GetDailyBars(ticker, to.AddDate(0, 0, -14), to)
	if err != nil {
		return 0, err
	}
	spot, ok := LatestClose(bars)
	if !ok {
		if polygonDataProv.secondary != nil {
			return polygonDataProv.secondary.GetSpot(ticker)
		}
		return 0, fmt.Errorf("no recent bars for %s", ticker)
	}
	return spot, nil
}

package collector

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"VolumeSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Bars []model.Bar
	Err  error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBars(_ string) ([]model.Bar, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Bars != nil {
		return m.Bars, nil
	}
	return GenerateMockBars(2300, 20, 8), nil
}

// GenerateMockBars builds hourly bars for the given number of days, oscillating
// around basePrice on a 0.1 tick.
func GenerateMockBars(basePrice float64, days, barsPerDay int) []model.Bar {
	start := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, 0, days*barsPerDay)
	for d := 0; d < days; d++ {
		for h := 0; h < barsPerDay; h++ {
			step := float64((d*7+h*3)%11 - 5)
			p := basePrice + step*0.1 + float64(d)*0.2
			bars = append(bars, model.Bar{
				Time:   start.AddDate(0, 0, d).Add(time.Duration(h) * time.Hour),
				Open:   p - 0.1,
				High:   p + 0.3,
				Low:    p - 0.3,
				Close:  p,
				Volume: float64(1000 + 137*((d+h)%5)),
			})
		}
	}
	return bars
}

// Collector fetches the full history of one instrument and materializes it.
type Collector struct {
	Fetcher Fetcher
	Symbol  string
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, symbol string) *Collector {
	return &Collector{Fetcher: fetcher, Symbol: symbol}
}

// Collect fetches every bar and returns an immutable, time-ordered store.
// Ingestion completes before the store is handed to the profile engine.
func (c *Collector) Collect() (*model.BarStore, error) {
	start := time.Now()
	bars, err := c.Fetcher.FetchBars(c.Symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch bars from %s: %w", c.Fetcher.Name(), err)
	}
	store := model.NewBarStore(c.Symbol, bars)
	log.WithFields(log.Fields{
		"source":  c.Fetcher.Name(),
		"symbol":  c.Symbol,
		"bars":    store.Len(),
		"days":    len(store.Days()),
		"took_ms": time.Since(start).Milliseconds(),
	}).Info("bars collected")
	return store, nil
}

package collector

import "VolumeSentinel/internal/model"

// Fetcher defines the interface for fetching the bars of one instrument.
type Fetcher interface {
	FetchBars(symbol string) ([]model.Bar, error)
	Name() string
}

package collector

import (
	"fmt"
	"time"

	"VolumeSentinel/internal/model"
	"VolumeSentinel/internal/saver"
)

// ParquetFetcher reads bars previously exported by the parquet saver.
type ParquetFetcher struct {
	Path     string
	Location *time.Location
}

func NewParquetFetcher(path string, loc *time.Location) *ParquetFetcher {
	return &ParquetFetcher{Path: path, Location: loc}
}

func (f *ParquetFetcher) Name() string { return "parquet" }

func (f *ParquetFetcher) FetchBars(_ string) ([]model.Bar, error) {
	rows, err := saver.ReadBars(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read bars parquet: %w", err)
	}
	return saver.BarsFromRows(rows, f.Location), nil
}

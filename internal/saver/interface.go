package saver

import (
	"fmt"
	"strings"

	"VolumeSentinel/internal/model"
)

// TableSaver writes the run's tables in one file format.
type TableSaver interface {
	SaveBars(bars []model.Bar, path string) error
	SaveProfiles(profiles []model.DailyProfile, path string) error
	SaveFeatures(rows []model.FeatureRow, path string) error
	Extension() string
}

// NewTableSaver creates an implementation by format (csv, parquet, json).
func NewTableSaver(format string) (TableSaver, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv", "":
		return CSVSaver{}, nil
	case "parquet":
		return ParquetSaver{}, nil
	case "json":
		return JSONSaver{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (use: csv, parquet, json)", format)
	}
}

package saver

import (
	"github.com/parquet-go/parquet-go"

	"VolumeSentinel/internal/model"
)

// ParquetSaver writes tables as Parquet files.
type ParquetSaver struct{}

func (ParquetSaver) Extension() string { return "parquet" }

func (ParquetSaver) SaveBars(bars []model.Bar, path string) error {
	return parquet.WriteFile(path, BarRows(bars))
}

func (ParquetSaver) SaveProfiles(profiles []model.DailyProfile, path string) error {
	return parquet.WriteFile(path, ProfileRows(profiles))
}

func (ParquetSaver) SaveFeatures(rows []model.FeatureRow, path string) error {
	return parquet.WriteFile(path, FeatureRecords(rows))
}

// ReadBars loads bars written by SaveBars.
func ReadBars(path string) ([]BarRow, error) {
	return parquet.ReadFile[BarRow](path)
}

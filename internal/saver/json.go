package saver

import (
	"encoding/json"
	"os"

	"VolumeSentinel/internal/model"
)

// JSONSaver writes tables as indented JSON arrays.
type JSONSaver struct{}

func (JSONSaver) Extension() string { return "json" }

func (JSONSaver) SaveBars(bars []model.Bar, path string) error {
	return writeJSON(path, BarRows(bars))
}

func (JSONSaver) SaveProfiles(profiles []model.DailyProfile, path string) error {
	return writeJSON(path, ProfileRows(profiles))
}

func (JSONSaver) SaveFeatures(rows []model.FeatureRow, path string) error {
	return writeJSON(path, FeatureRecords(rows))
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

package saver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"VolumeSentinel/internal/model"
)

// Tables names the files written by Export.
type Tables struct {
	Bars     string
	Profiles string
	Features string
}

// Export writes the bars, profiles and feature rows into dir as
// {symbol}_{table}.{ext}. Empty tables are still written.
func Export(s TableSaver, dir, symbol string, bars []model.Bar, profiles []model.DailyProfile, rows []model.FeatureRow) (Tables, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Tables{}, fmt.Errorf("create output dir: %w", err)
	}
	t := Tables{
		Bars:     tablePath(dir, symbol, "bars", s.Extension()),
		Profiles: tablePath(dir, symbol, "profiles", s.Extension()),
		Features: tablePath(dir, symbol, "features", s.Extension()),
	}
	if err := s.SaveBars(bars, t.Bars); err != nil {
		return t, fmt.Errorf("save bars: %w", err)
	}
	if err := s.SaveProfiles(profiles, t.Profiles); err != nil {
		return t, fmt.Errorf("save profiles: %w", err)
	}
	if err := s.SaveFeatures(rows, t.Features); err != nil {
		return t, fmt.Errorf("save features: %w", err)
	}
	return t, nil
}

func tablePath(dir, symbol, table, ext string) string {
	name := strings.NewReplacer("/", "_", "\\", "_", "=", "_", "^", "").Replace(symbol)
	if name == "" {
		name = "instrument"
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%s.%s", name, table, ext))
}

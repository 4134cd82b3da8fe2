package saver

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"VolumeSentinel/internal/model"
)

// CSVSaver writes tables as CSV. Undefined levels are empty cells.
type CSVSaver struct{}

func (CSVSaver) Extension() string { return "csv" }

// BarHeader is the column layout read back by the CSV fetcher.
var BarHeader = []string{"date", "open", "high", "low", "close", "volume"}

func (CSVSaver) SaveBars(bars []model.Bar, path string) error {
	records := make([][]string, 0, len(bars))
	for _, b := range bars {
		records = append(records, []string{
			b.Time.Format(time.RFC3339),
			floatStr(b.Open),
			floatStr(b.High),
			floatStr(b.Low),
			floatStr(b.Close),
			floatStr(b.Volume),
		})
	}
	return writeCSV(path, BarHeader, records)
}

func (CSVSaver) SaveProfiles(profiles []model.DailyProfile, path string) error {
	records := make([][]string, 0, len(profiles))
	for _, p := range profiles {
		records = append(records, []string{
			p.Date.Format(dateLayout),
			p.POC.String(),
			p.VAL.String(),
			p.VAH.String(),
		})
	}
	return writeCSV(path, []string{"date", "poc", "val", "vah"}, records)
}

func (CSVSaver) SaveFeatures(rows []model.FeatureRow, path string) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.Date.Format(dateLayout),
			floatStr(r.PriorPOC),
			floatStr(r.PriorVAL),
			floatStr(r.PriorVAH),
			floatStr(r.Open),
			floatStr(r.PrevClose),
			floatStr(r.Close),
			floatStr(r.NextClose),
			strconv.Itoa(r.OpenAbovePriorVAL),
			strconv.Itoa(r.OpenAbovePriorVAH),
			floatStr(r.Return),
			strconv.Itoa(r.Target),
		})
	}
	return writeCSV(path, []string{
		"date", "prior_poc", "prior_val", "prior_vah",
		"open", "prev_close", "close", "next_close",
		"open_above_prior_val", "open_above_prior_vah", "return", "target",
	}, records)
}

func writeCSV(path string, header []string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(records); err != nil {
		return err
	}
	return f.Close()
}

func floatStr(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

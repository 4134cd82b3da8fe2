package collector

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"VolumeSentinel/internal/model"
)

// CSVFetcher reads bars from a CSV file with a date,open,high,low,close,volume header.
// Column names are matched case-insensitively; "price" is accepted for close.
type CSVFetcher struct {
	Path     string
	Location *time.Location
}

// NewCSVFetcher creates a fetcher that parses zone-less timestamps in loc.
func NewCSVFetcher(path string, loc *time.Location) *CSVFetcher {
	if loc == nil {
		loc = time.UTC
	}
	return &CSVFetcher{Path: path, Location: loc}
}

func (f *CSVFetcher) Name() string { return "csv" }

var columnAliases = map[string]string{
	"date": "date", "time": "date", "timestamp": "date", "datetime": "date",
	"open": "open", "high": "high", "low": "low",
	"close": "close", "price": "close",
	"volume": "volume",
}

func (f *CSVFetcher) FetchBars(_ string) ([]model.Bar, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open bars csv: %w", err)
	}
	defer file.Close()
	return ReadCSVBars(file, f.Location)
}

// ReadCSVBars parses bars from r.
func ReadCSVBars(r io.Reader, loc *time.Location) ([]model.Bar, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	cols := map[string]int{}
	for i, h := range header {
		if name, ok := columnAliases[strings.ToLower(strings.TrimSpace(h))]; ok {
			if _, dup := cols[name]; !dup {
				cols[name] = i
			}
		}
	}
	for _, need := range []string{"date", "open", "high", "low", "close", "volume"} {
		if _, ok := cols[need]; !ok {
			return nil, fmt.Errorf("csv header missing %q column", need)
		}
	}

	var bars []model.Bar
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		b, err := parseRecord(rec, cols, loc)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		bars = append(bars, b)
	}
	return bars, nil
}

func parseRecord(rec []string, cols map[string]int, loc *time.Location) (model.Bar, error) {
	ts, err := ParseTimestamp(rec[cols["date"]], loc)
	if err != nil {
		return model.Bar{}, err
	}
	var v [5]float64
	for i, name := range []string{"open", "high", "low", "close", "volume"} {
		v[i], err = strconv.ParseFloat(strings.TrimSpace(rec[cols[name]]), 64)
		if err != nil {
			return model.Bar{}, fmt.Errorf("parse %s: %w", name, err)
		}
		if math.IsNaN(v[i]) || math.IsInf(v[i], 0) {
			return model.Bar{}, fmt.Errorf("non-finite %s %q", name, rec[cols[name]])
		}
	}
	if v[4] < 0 {
		return model.Bar{}, fmt.Errorf("negative volume %v", v[4])
	}
	return model.Bar{Time: ts, Open: v[0], High: v[1], Low: v[2], Close: v[3], Volume: v[4]}, nil
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"20060102  15:04:05",
	"20060102 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"20060102",
}

// ParseTimestamp accepts RFC3339 (zone kept) or one of the zone-less layouts (parsed in loc).
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

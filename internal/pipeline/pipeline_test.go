package pipeline

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"VolumeSentinel/internal/calculator"
	"VolumeSentinel/internal/feature"
	"VolumeSentinel/internal/model"
)

func sampleBars() []model.Bar {
	base := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
	closes := [][]float64{
		{2300, 2301, 2301, 2302},
		{2302, 2303, 2303, 2303},
		{2299, 2298, 2298, 2300},
		{2301, 2301, 2304, 2305},
		{2306, 2305, 2305, 2307},
		{2307, 2309, 2309, 2308},
	}
	var bars []model.Bar
	for d, day := range closes {
		for h, c := range day {
			bars = append(bars, model.Bar{
				Time:   base.AddDate(0, 0, d).Add(time.Duration(h) * time.Hour),
				Open:   c - 0.5,
				High:   c + 1,
				Low:    c - 1,
				Close:  c,
				Volume: float64(100 + 10*h + d),
			})
		}
	}
	return bars
}

func TestRun_EndToEnd(t *testing.T) {
	res, err := Run(model.NewBarStore("GC", sampleBars()), DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Profiles) != 6 {
		t.Errorf("expected 6 profiles, got %d", len(res.Profiles))
	}
	if len(res.Rows) != 4 {
		t.Errorf("expected 4 rows (first and last day dropped), got %d", len(res.Rows))
	}
	if len(res.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", res.Warnings)
	}
	for _, p := range res.Profiles {
		if p.VAL.Price > p.VAH.Price {
			t.Errorf("%s: VAL %v above VAH %v", p.Date.Format("2006-01-02"), p.VAL.Price, p.VAH.Price)
		}
		if p.POC.Price < p.VAL.Price || p.POC.Price > p.VAH.Price {
			t.Errorf("%s: POC %v outside envelope", p.Date.Format("2006-01-02"), p.POC.Price)
		}
	}
}

func TestRun_Deterministic(t *testing.T) {
	bars := sampleBars()
	first, err := Run(model.NewBarStore("GC", bars), DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Reverse the input: the store must restore timestamp order.
	reversed := make([]model.Bar, len(bars))
	for i, b := range bars {
		reversed[len(bars)-1-i] = b
	}
	second, err := Run(model.NewBarStore("GC", reversed), DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Errorf("expected identical output across runs\nfirst:  %s\nsecond: %s", a, b)
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name  string
		bars  []model.Bar
		opts  Options
		want  error
		rows  int
		profs int
	}{
		{"empty store", nil, DefaultOptions(), ErrEmptyInput, 0, 0},
		{"invalid threshold", sampleBars(), Options{ValueArea: 0}, calculator.ErrInvalidThreshold, 0, 0},
		{"single day", sampleBars()[:4], DefaultOptions(), feature.ErrInsufficientHistory, 0, 1},
		{"two days", sampleBars()[:8], DefaultOptions(), feature.ErrNoValidRows, 0, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Run(model.NewBarStore("GC", tt.bars), tt.opts)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if tt.profs == 0 {
				if res != nil {
					t.Errorf("expected nil result, got %+v", res)
				}
				return
			}
			if !FeatureTableMissing(err) {
				t.Errorf("expected FeatureTableMissing for %v", err)
			}
			if len(res.Profiles) != tt.profs || len(res.Rows) != tt.rows {
				t.Errorf("expected %d profiles and %d rows, got %d and %d",
					tt.profs, tt.rows, len(res.Profiles), len(res.Rows))
			}
		})
	}
}

func TestRun_DegenerateDayWarning(t *testing.T) {
	bars := sampleBars()
	for i := 4; i < 8; i++ {
		bars[i].Volume = 0
	}
	res, err := Run(model.NewBarStore("GC", bars), DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Date.Format("2006-01-02") != "2024-05-07" {
		t.Fatalf("expected one warning for 2024-05-07, got %v", res.Warnings)
	}
	for _, r := range res.Rows {
		if r.Date.Format("2006-01-02") == "2024-05-08" {
			t.Error("expected the row following the zero-volume day to be dropped")
		}
	}
	if len(res.Rows) != 3 {
		t.Errorf("expected 3 rows, got %d", len(res.Rows))
	}
}

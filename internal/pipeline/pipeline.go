// Package pipeline runs the daily volume profile engine and the feature/label
// builder over one materialized bar store. It performs no I/O.
package pipeline

import (
	"errors"
	"fmt"
	"time"

	"VolumeSentinel/internal/calculator"
	"VolumeSentinel/internal/feature"
	"VolumeSentinel/internal/model"
)

// ErrEmptyInput is returned when the bar store holds no bars.
var ErrEmptyInput = errors.New("bar store is empty")

// Options configures a run.
type Options struct {
	ValueArea float64
	Method    calculator.Method
}

// DefaultOptions returns the 70% greedy value area.
func DefaultOptions() Options {
	return Options{ValueArea: calculator.DefaultValueArea, Method: calculator.MethodGreedy}
}

// DegenerateDay flags a day that traded zero volume; its profile is undefined.
type DegenerateDay struct {
	Date time.Time
}

func (d DegenerateDay) String() string {
	return fmt.Sprintf("degenerate day %s: zero total volume", d.Date.Format("2006-01-02"))
}

// Result holds the outputs of one run.
type Result struct {
	Symbol   string
	Bars     int
	Profiles []model.DailyProfile
	Rows     []model.FeatureRow
	Warnings []DegenerateDay
}

// Run validates the options, builds the daily profile series and then the
// feature table. When the feature table cannot be built (feature.ErrInsufficientHistory
// or feature.ErrNoValidRows) the returned Result still carries the profiles.
func Run(store *model.BarStore, opts Options) (*Result, error) {
	if err := calculator.ValidateThreshold(opts.ValueArea); err != nil {
		return nil, err
	}
	if store == nil || store.Len() == 0 {
		return nil, ErrEmptyInput
	}

	profiles, err := calculator.BuildProfileSeries(store, opts.ValueArea, opts.Method)
	if err != nil {
		return nil, fmt.Errorf("build profile series: %w", err)
	}

	res := &Result{
		Symbol:   store.Symbol,
		Bars:     store.Len(),
		Profiles: profiles,
	}
	for _, p := range profiles {
		if !p.Defined() {
			res.Warnings = append(res.Warnings, DegenerateDay{Date: p.Date})
		}
	}

	rows, err := feature.Build(store, profiles)
	if err != nil {
		return res, err
	}
	res.Rows = rows
	return res, nil
}

// FeatureTableMissing reports whether err only means no feature rows could be built.
func FeatureTableMissing(err error) bool {
	return errors.Is(err, feature.ErrInsufficientHistory) || errors.Is(err, feature.ErrNoValidRows)
}

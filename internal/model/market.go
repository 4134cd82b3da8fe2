package model

import (
	"sort"
	"time"
)

// Bar represents a single OHLCV observation.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Date returns the calendar day of the bar in its own location, as midnight UTC.
func (b Bar) Date() time.Time {
	return DateOf(b.Time)
}

// DateOf truncates t to its calendar day. The time-of-day and zone are discarded.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayBars holds the bars of one calendar day in timestamp order.
type DayBars struct {
	Date time.Time
	Bars []Bar
}

// BarStore is an immutable, time-ordered sequence of bars for one instrument.
type BarStore struct {
	Symbol string
	bars   []Bar
	days   []DayBars
}

// NewBarStore copies bars, sorts them by timestamp (stable, so equal timestamps
// keep their input order) and groups them by calendar day in a single pass.
func NewBarStore(symbol string, bars []Bar) *BarStore {
	sorted := make([]Bar, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	index := make(map[time.Time]int)
	var days []DayBars
	for _, b := range sorted {
		d := b.Date()
		i, ok := index[d]
		if !ok {
			i = len(days)
			index[d] = i
			days = append(days, DayBars{Date: d})
		}
		days[i].Bars = append(days[i].Bars, b)
	}
	// Bars in mixed zones can reach a later calendar day before an earlier one.
	sort.SliceStable(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })

	return &BarStore{Symbol: symbol, bars: sorted, days: days}
}

// Len returns the number of bars.
func (s *BarStore) Len() int { return len(s.bars) }

// Bars returns a copy of the time-ordered bars.
func (s *BarStore) Bars() []Bar {
	out := make([]Bar, len(s.bars))
	copy(out, s.bars)
	return out
}

// Days returns the per-day grouping in ascending date order.
// Callers must not modify the returned slices.
func (s *BarStore) Days() []DayBars { return s.days }

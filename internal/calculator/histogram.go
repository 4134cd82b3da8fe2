package calculator

import (
	"sort"

	"VolumeSentinel/internal/model"
)

// BuildHistogram aggregates one day's bars into a price->volume histogram.
// Each bar's close is its single price observation and carries the bar's full volume.
func BuildHistogram(bars []model.Bar) model.Histogram {
	h := make(model.Histogram, len(bars))
	for _, b := range bars {
		h[b.Close] += b.Volume
	}
	return h
}

// Ladder returns the histogram's levels in ascending price order.
func Ladder(h model.Histogram) []model.PriceVolume {
	ladder := make([]model.PriceVolume, 0, len(h))
	for p, v := range h {
		ladder = append(ladder, model.PriceVolume{Price: p, Volume: v})
	}
	sort.Slice(ladder, func(i, j int) bool { return ladder[i].Price < ladder[j].Price })
	return ladder
}

// TotalVolume sums a ladder in price order so the result does not depend on map iteration.
func TotalVolume(ladder []model.PriceVolume) float64 {
	total := 0.0
	for _, l := range ladder {
		total += l.Volume
	}
	return total
}

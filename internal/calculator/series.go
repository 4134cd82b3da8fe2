package calculator

import (
	"fmt"

	"VolumeSentinel/internal/model"
)

// BuildProfileSeries resolves one DailyProfile per calendar day in the store,
// in ascending date order. The threshold is checked before any day is processed.
func BuildProfileSeries(store *model.BarStore, theta float64, method Method) ([]model.DailyProfile, error) {
	if err := ValidateThreshold(theta); err != nil {
		return nil, err
	}
	days := store.Days()
	profiles := make([]model.DailyProfile, 0, len(days))
	for _, day := range days {
		va, err := ResolveValueArea(BuildHistogram(day.Bars), theta, method)
		if err != nil {
			return nil, fmt.Errorf("day %s: %w", day.Date.Format("2006-01-02"), err)
		}
		profiles = append(profiles, model.DailyProfile{
			Date: day.Date,
			POC:  va.POC,
			VAL:  va.VAL,
			VAH:  va.VAH,
		})
	}
	return profiles, nil
}

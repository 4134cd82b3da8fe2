package feature

import (
	"fmt"

	"VolumeSentinel/internal/model"
)

// Split partitions rows by position into a leading train set and a trailing
// test set. Rows are never shuffled, so no test row precedes a train row.
func Split(rows []model.FeatureRow, testFraction float64) (train, test []model.FeatureRow, err error) {
	if testFraction < 0 || testFraction >= 1 {
		return nil, nil, fmt.Errorf("test fraction must be in [0, 1), got %v", testFraction)
	}
	n := len(rows)
	cut := int(float64(n) * (1 - testFraction))
	if cut < 1 && n > 0 {
		cut = 1
	}
	if cut > n {
		cut = n
	}
	return rows[:cut:cut], rows[cut:], nil
}

package classifier

import (
	"fmt"

	"VolumeSentinel/internal/model"
)

// Report is a confusion matrix with the usual ratios over a hold-out set.
type Report struct {
	Samples        int
	TruePositives  int
	FalsePositives int
	TrueNegatives  int
	FalseNegatives int
	Accuracy       float64
	Precision      float64
	Recall         float64
}

// Evaluate scores c against the target column of rows.
// Ratios with an empty denominator are reported as 0.
func Evaluate(c Classifier, rows []model.FeatureRow) (Report, error) {
	var r Report
	for _, row := range rows {
		label, _, err := c.Predict(row.Vector())
		if err != nil {
			return Report{}, fmt.Errorf("evaluate %s: %w", c.Name(), err)
		}
		switch {
		case label == 1 && row.Target == 1:
			r.TruePositives++
		case label == 1:
			r.FalsePositives++
		case row.Target == 1:
			r.FalseNegatives++
		default:
			r.TrueNegatives++
		}
	}
	r.Samples = len(rows)
	r.Accuracy = ratio(r.TruePositives+r.TrueNegatives, r.Samples)
	r.Precision = ratio(r.TruePositives, r.TruePositives+r.FalsePositives)
	r.Recall = ratio(r.TruePositives, r.TruePositives+r.FalseNegatives)
	return r, nil
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

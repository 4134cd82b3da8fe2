package model

import "time"

// FeatureRow is one complete row of the feature/label table.
// Rows with any undefined input never exist; they are dropped upstream.
type FeatureRow struct {
	Date              time.Time `json:"date"`
	PriorPOC          float64   `json:"prior_poc"`
	PriorVAL          float64   `json:"prior_val"`
	PriorVAH          float64   `json:"prior_vah"`
	Open              float64   `json:"open"`
	PrevClose         float64   `json:"prev_close"`
	Close             float64   `json:"close"`
	NextClose         float64   `json:"next_close"`
	OpenAbovePriorVAL int       `json:"open_above_prior_val"`
	OpenAbovePriorVAH int       `json:"open_above_prior_vah"`
	Return            float64   `json:"return"`
	Target            int       `json:"target"`
}

// Vector returns the classifier input: [open_above_prior_VAL, open_above_prior_VAH].
func (r FeatureRow) Vector() []float64 {
	return []float64{float64(r.OpenAbovePriorVAL), float64(r.OpenAbovePriorVAH)}
}

// SignalType is the actionable outcome of a prediction.
type SignalType string

const (
	SignalFavorable   SignalType = "FAVORABLE"
	SignalUnfavorable SignalType = "UNFAVORABLE"
)

// Prediction is the classifier's answer for the most recent complete row.
type Prediction struct {
	Date              time.Time
	OpenAbovePriorVAL int
	OpenAbovePriorVAH int
	Label             int
	Probability       float64
	Signal            SignalType
	Classifier        string
}

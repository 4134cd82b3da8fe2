package recorder

import (
	"time"

	"VolumeSentinel/internal/model"
)

// RunRecord describes one pipeline run.
type RunRecord struct {
	ID        string
	StartedAt time.Time
	Symbol    string
	Bars      int
	Days      int
	Rows      int
	ValueArea float64
	Method    string
	Status    string // "OK", "NO_FEATURES"
}

// Recorder persists run outputs for later analysis.
type Recorder interface {
	RecordRun(run *RunRecord) error
	RecordProfiles(runID string, profiles []model.DailyProfile) error
	RecordFeatures(runID string, rows []model.FeatureRow) error
	RecordPrediction(runID string, pred *model.Prediction) error
	Close() error
}

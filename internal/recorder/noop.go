package recorder

import "VolumeSentinel/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ *RunRecord) error                           { return nil }
func (n *NoopRecorder) RecordProfiles(_ string, _ []model.DailyProfile) error { return nil }
func (n *NoopRecorder) RecordFeatures(_ string, _ []model.FeatureRow) error   { return nil }
func (n *NoopRecorder) RecordPrediction(_ string, _ *model.Prediction) error  { return nil }
func (n *NoopRecorder) Close() error                                           { return nil }

// Package classifier is the boundary to the external modeling component.
// It predicts from the two lagged value-area features; it does not train.
package classifier

import (
	"errors"
	"fmt"
	"strings"

	"VolumeSentinel/internal/model"
)

// NumFeatures is the width of model.FeatureRow.Vector.
const NumFeatures = 2

// Classifier maps a feature vector to a binary label and its probability.
type Classifier interface {
	Name() string
	Predict(x []float64) (label int, probability float64, err error)
}

// RuleClassifier is favorable when the open is above the prior value area high.
type RuleClassifier struct{}

func (RuleClassifier) Name() string { return "rule" }

func (RuleClassifier) Predict(x []float64) (int, float64, error) {
	if len(x) != NumFeatures {
		return 0, 0, fmt.Errorf("feature count mismatch: expected %d, got %d", NumFeatures, len(x))
	}
	if x[1] > 0.5 {
		return 1, 1, nil
	}
	return 0, 0, nil
}

// New builds a classifier by kind (rule, logistic).
func New(kind, modelPath string) (Classifier, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "rule":
		return RuleClassifier{}, nil
	case "logistic":
		if modelPath == "" {
			return nil, errors.New("logistic classifier requires a model path")
		}
		return LoadModel(modelPath)
	default:
		return nil, fmt.Errorf("unknown classifier kind %q", kind)
	}
}

// PredictLatest turns the most recent complete row into today's signal.
func PredictLatest(c Classifier, row model.FeatureRow) (*model.Prediction, error) {
	label, prob, err := c.Predict(row.Vector())
	if err != nil {
		return nil, fmt.Errorf("%s predict: %w", c.Name(), err)
	}
	signal := model.SignalUnfavorable
	if label == 1 {
		signal = model.SignalFavorable
	}
	return &model.Prediction{
		Date:              row.Date,
		OpenAbovePriorVAL: row.OpenAbovePriorVAL,
		OpenAbovePriorVAH: row.OpenAbovePriorVAH,
		Label:             label,
		Probability:       prob,
		Signal:            signal,
		Classifier:        c.Name(),
	}, nil
}

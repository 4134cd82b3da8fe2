package classifier

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// LogisticModel is a pre-trained logistic regression over the feature vector.
type LogisticModel struct {
	Weights     []float64 `json:"weights"`
	Bias        float64   `json:"bias"`
	NumFeatures int       `json:"num_features"`
}

func (m *LogisticModel) Name() string { return "logistic" }

// Probability returns sigmoid(w·x + b).
func (m *LogisticModel) Probability(x []float64) (float64, error) {
	if len(x) != m.NumFeatures || len(m.Weights) != m.NumFeatures {
		return 0, fmt.Errorf("feature count mismatch: expected %d, got %d", m.NumFeatures, len(x))
	}
	z := m.Bias
	for i := range x {
		z += m.Weights[i] * x[i]
	}
	return sigmoid(z), nil
}

// Predict labels a vector favorable when its probability is at least 0.5.
func (m *LogisticModel) Predict(x []float64) (int, float64, error) {
	p, err := m.Probability(x)
	if err != nil {
		return 0, 0, err
	}
	if p >= 0.5 {
		return 1, p, nil
	}
	return 0, p, nil
}

// sigmoid function: 1 / (1 + e^(-z))
func sigmoid(z float64) float64 {
	// Clamp z to prevent overflow
	if z > 20 {
		return 1.0
	}
	if z < -20 {
		return 0.0
	}
	return 1.0 / (1.0 + math.Exp(-z))
}

// LoadModel reads a model file. A directory path resolves to model.json inside it.
func LoadModel(path string) (*LogisticModel, error) {
	if stat, err := os.Stat(path); err == nil && stat.IsDir() {
		path = filepath.Join(path, "model.json")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}
	var m LogisticModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal model: %w", err)
	}
	if m.NumFeatures == 0 {
		m.NumFeatures = len(m.Weights)
	}
	if m.NumFeatures != NumFeatures || len(m.Weights) != NumFeatures {
		return nil, fmt.Errorf("model expects %d features with %d weights, need %d",
			m.NumFeatures, len(m.Weights), NumFeatures)
	}
	return &m, nil
}

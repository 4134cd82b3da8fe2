package classifier

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"VolumeSentinel/internal/model"
)

func writeModel(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "model.json")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write model: %v", err)
	}
	return path
}

func TestRuleClassifier(t *testing.T) {
	tests := []struct {
		x    []float64
		want int
	}{
		{[]float64{0, 0}, 0},
		{[]float64{1, 0}, 0},
		{[]float64{1, 1}, 1},
	}
	for _, tt := range tests {
		got, _, err := RuleClassifier{}.Predict(tt.x)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != tt.want {
			t.Errorf("x=%v: expected %d, got %d", tt.x, tt.want, got)
		}
	}
	if _, _, err := (RuleClassifier{}).Predict([]float64{1}); err == nil {
		t.Error("expected error for wrong vector length")
	}
}

func TestLoadModel(t *testing.T) {
	dir := t.TempDir()
	writeModel(t, dir, `{"weights":[2,-1],"bias":-0.5,"num_features":2}`)

	// Directory path resolves to model.json.
	m, err := LoadModel(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, err := m.Probability([]float64{1, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := 1 / (1 + math.Exp(-1.5)); math.Abs(p-want) > 1e-12 {
		t.Errorf("expected probability %v, got %v", want, p)
	}
	label, _, _ := m.Predict([]float64{0, 1})
	if label != 0 {
		t.Errorf("expected label 0, got %d", label)
	}

	writeModel(t, dir, `{"weights":[1,2,3],"bias":0}`)
	if _, err := LoadModel(dir); err == nil {
		t.Error("expected error for a three-feature model")
	}
}

func TestNew(t *testing.T) {
	if c, err := New("", ""); err != nil || c.Name() != "rule" {
		t.Errorf("expected default rule classifier, got %v, %v", c, err)
	}
	if _, err := New("logistic", ""); err == nil {
		t.Error("expected error without model path")
	}
	if _, err := New("forest", ""); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestEvaluate(t *testing.T) {
	rows := []model.FeatureRow{
		{OpenAbovePriorVAH: 1, Target: 1}, // TP
		{OpenAbovePriorVAH: 1, Target: 0}, // FP
		{OpenAbovePriorVAH: 0, Target: 1}, // FN
		{OpenAbovePriorVAH: 0, Target: 0}, // TN
		{OpenAbovePriorVAH: 0, Target: 0}, // TN
	}
	r, err := Evaluate(RuleClassifier{}, rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.TruePositives != 1 || r.FalsePositives != 1 || r.FalseNegatives != 1 || r.TrueNegatives != 2 {
		t.Errorf("unexpected confusion matrix: %+v", r)
	}
	if r.Accuracy != 0.6 || r.Precision != 0.5 || r.Recall != 0.5 {
		t.Errorf("expected accuracy 0.6 precision 0.5 recall 0.5, got %v %v %v", r.Accuracy, r.Precision, r.Recall)
	}

	empty, err := Evaluate(RuleClassifier{}, nil)
	if err != nil || empty.Accuracy != 0 {
		t.Errorf("expected zero report for empty set, got %+v, %v", empty, err)
	}
}

func TestPredictLatest(t *testing.T) {
	row := model.FeatureRow{Date: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), OpenAbovePriorVAL: 1, OpenAbovePriorVAH: 1}
	pred, err := PredictLatest(RuleClassifier{}, row)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pred.Signal != model.SignalFavorable || pred.Label != 1 || !pred.Date.Equal(row.Date) {
		t.Errorf("unexpected prediction: %+v", pred)
	}
}

package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"VolumeSentinel/internal/classifier"
	"VolumeSentinel/internal/model"
	"VolumeSentinel/internal/pipeline"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		level model.Level
		want  string
	}{
		{model.Defined(101), "101.00"},
		{model.Defined(2034.5), "2034.50"},
		{model.Defined(0.125), "0.13"},
		{model.Level{}, "n/a"},
	}
	for _, tt := range tests {
		if got := FormatPrice(tt.level); got != tt.want {
			t.Errorf("FormatPrice(%+v) = %s, want %s", tt.level, got, tt.want)
		}
	}
}

func TestFormatRunReport(t *testing.T) {
	res := &pipeline.Result{
		Symbol: "GC",
		Bars:   12,
		Profiles: []model.DailyProfile{
			{Date: day(2), POC: model.Defined(101), VAL: model.Defined(100), VAH: model.Defined(101)},
			{Date: day(3)},
		},
		Warnings: []pipeline.DegenerateDay{{Date: day(3)}},
	}
	eval := &classifier.Report{Samples: 4, Accuracy: 0.5, Precision: 1, Recall: 0.25}
	pred := &model.Prediction{
		Date: day(4), OpenAbovePriorVAH: 1, OpenAbovePriorVAL: 1,
		Label: 1, Probability: 1, Signal: model.SignalFavorable, Classifier: "rule",
	}

	msg := FormatRunReport("run-1", res, eval, pred)
	for _, want := range []string{
		"GC", "run-1", "bars: 12",
		"2024-01-02  VAL 100.00 | POC 101.00 | VAH 101.00",
		"2024-01-03  VAL n/a | POC n/a | VAH n/a",
		"acc 50.0%", "rec 25.0%",
		"FAVORABLE",
		"degenerate day 2024-01-03",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("report missing %q:\n%s", want, msg)
		}
	}
}

func TestFormatRunReport_Optional(t *testing.T) {
	res := &pipeline.Result{Symbol: "GC", Bars: 3, Profiles: []model.DailyProfile{{Date: day(2)}}}
	msg := FormatRunReport("run-2", res, nil, nil)
	if strings.Contains(msg, "Hold-out") || strings.Contains(msg, "Signal") {
		t.Errorf("unexpected sections:\n%s", msg)
	}
}

func TestFormatRunReport_TrailingProfiles(t *testing.T) {
	res := &pipeline.Result{Symbol: "GC"}
	for d := 1; d <= 8; d++ {
		res.Profiles = append(res.Profiles, model.DailyProfile{Date: day(d), POC: model.Defined(float64(d))})
	}
	msg := FormatRunReport("run-3", res, nil, nil)
	if strings.Contains(msg, "2024-01-03") {
		t.Error("expected only the last profiles to be listed")
	}
	if !strings.Contains(msg, "2024-01-08") || !strings.Contains(msg, "2024-01-04") {
		t.Errorf("expected trailing profiles:\n%s", msg)
	}
}

func TestTelegramNotifier_Send(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/botTOKEN/sendMessage" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("TOKEN", "42", "")
	tn.APIBase = srv.URL
	if err := tn.SendWithRetry(context.Background(), "hello", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["chat_id"] != "42" || got["text"] != "hello" || got["parse_mode"] != "HTML" {
		t.Errorf("unexpected payload: %v", got)
	}
}

func TestTelegramNotifier_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad chat", http.StatusBadRequest)
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("TOKEN", "42", "")
	tn.APIBase = srv.URL
	err := tn.SendWithRetry(context.Background(), "hello", 0)
	if err == nil || !strings.Contains(err.Error(), "status 400") {
		t.Errorf("expected status 400 error, got %v", err)
	}
}

func TestTelegramNotifier_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("TOKEN", "42", "")
	tn.APIBase = srv.URL
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := tn.SendWithRetry(ctx, "hello", 3)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestNewTelegramNotifier_Unconfigured(t *testing.T) {
	if NewTelegramNotifier("", "42", "") != nil {
		t.Error("expected nil notifier without a token")
	}
}

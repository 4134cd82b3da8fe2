package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"VolumeSentinel/internal/calculator"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Profile.ValueArea != 0.70 {
		t.Errorf("expected default value area 0.70, got %v", cfg.Profile.ValueArea)
	}
	if cfg.Profile.Method != "greedy" || cfg.Classifier.Kind != "rule" || cfg.Output.Format != "csv" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Classifier.TestFraction != 0.25 {
		t.Errorf("expected default test fraction 0.25, got %v", cfg.Classifier.TestFraction)
	}
}

func TestLoad_YAMLAndEnv(t *testing.T) {
	path := writeConfig(t, `
data_source:
  kind: mock
  symbol: SI
profile:
  value_area: 0.6
  method: contiguous
classifier:
  test_fraction: 0
output:
  format: json
`)
	t.Setenv("OUTPUT_FORMAT", "parquet")
	t.Setenv("VALUE_AREA", "0.8")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DataSource.Kind != "mock" || cfg.DataSource.Symbol != "SI" {
		t.Errorf("unexpected data source: %+v", cfg.DataSource)
	}
	if cfg.Profile.ValueArea != 0.8 {
		t.Errorf("expected env override 0.8, got %v", cfg.Profile.ValueArea)
	}
	if cfg.Profile.Method != "contiguous" {
		t.Errorf("expected contiguous, got %s", cfg.Profile.Method)
	}
	if cfg.Output.Format != "parquet" {
		t.Errorf("expected env override parquet, got %s", cfg.Output.Format)
	}
	if cfg.Classifier.TestFraction != 0 {
		t.Errorf("expected explicit test fraction 0 kept, got %v", cfg.Classifier.TestFraction)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestLoad_BadEnvValue(t *testing.T) {
	t.Setenv("VALUE_AREA", "seventy")
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"zero value area", func(c *Config) { c.Profile.ValueArea = 0 }, false},
		{"value area above one", func(c *Config) { c.Profile.ValueArea = 1.2 }, false},
		{"value area one", func(c *Config) { c.Profile.ValueArea = 1 }, true},
		{"unknown method", func(c *Config) { c.Profile.Method = "tpo" }, false},
		{"logistic without model", func(c *Config) { c.Classifier.Kind = "logistic" }, false},
		{"bad format", func(c *Config) { c.Output.Format = "xlsx" }, false},
		{"bad source", func(c *Config) { c.DataSource.Kind = "ib" }, false},
		{"csv without path", func(c *Config) { c.DataSource.Path = "" }, false},
		{"test fraction one", func(c *Config) { c.Classifier.TestFraction = 1 }, false},
		{"unknown timezone", func(c *Config) { c.DataSource.Timezone = "Mars/Olympus" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			cfg.DataSource.Timezone = "UTC"
			tt.mutate(cfg)
			err = cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidate_ValueAreaWrapsSentinel(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg.Profile.ValueArea = 0
	if err := cfg.Validate(); !errors.Is(err, calculator.ErrInvalidThreshold) {
		t.Errorf("expected ErrInvalidThreshold, got %v", err)
	}
}

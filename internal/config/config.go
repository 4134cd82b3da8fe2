package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"VolumeSentinel/internal/calculator"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Kind     string `yaml:"kind"` // csv | parquet | yahoo | mock
		Path     string `yaml:"path"`
		Symbol   string `yaml:"symbol"`
		Timezone string `yaml:"timezone"`
		Interval string `yaml:"interval"`
		Range    string `yaml:"range"`
	} `yaml:"data_source"`
	Profile struct {
		ValueArea float64 `yaml:"value_area"`
		Method    string  `yaml:"method"` // greedy | contiguous
	} `yaml:"profile"`
	Classifier struct {
		Kind         string  `yaml:"kind"` // rule | logistic
		ModelPath    string  `yaml:"model_path"`
		TestFraction float64 `yaml:"test_fraction"`
	} `yaml:"classifier"`
	Output struct {
		Dir    string `yaml:"dir"`
		Format string `yaml:"format"` // csv | parquet | json
	} `yaml:"output"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // text | json
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads a .env file and the YAML config (both optional), then applies
// environment variable overrides and defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	cfg.Profile.ValueArea = -1 // distinguishes "unset" from an explicit invalid 0
	cfg.Classifier.TestFraction = -1

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.DataSource.Kind, "DATA_SOURCE_KIND")
	setString(&cfg.DataSource.Path, "DATA_SOURCE_PATH")
	setString(&cfg.DataSource.Symbol, "SYMBOL")
	setString(&cfg.DataSource.Timezone, "TIMEZONE")
	setString(&cfg.Profile.Method, "VALUE_AREA_METHOD")
	setString(&cfg.Classifier.Kind, "CLASSIFIER_KIND")
	setString(&cfg.Classifier.ModelPath, "MODEL_PATH")
	setString(&cfg.Output.Dir, "OUTPUT_DIR")
	setString(&cfg.Output.Format, "OUTPUT_FORMAT")
	setString(&cfg.Database.SQLitePath, "SQLITE_PATH")
	setString(&cfg.Schedule.Cron, "CRON_SCHEDULE")
	setString(&cfg.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")
	setString(&cfg.Telegram.ChatID, "TELEGRAM_CHAT_ID")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Proxy, "HTTPS_PROXY")

	if v := os.Getenv("VALUE_AREA"); v != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("parse VALUE_AREA: %w", err)
		}
		cfg.Profile.ValueArea = f
	}
	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.DataSource.Kind == "" {
		cfg.DataSource.Kind = "csv"
	}
	if cfg.DataSource.Path == "" && cfg.DataSource.Kind == "csv" {
		cfg.DataSource.Path = "data/bars.csv"
	}
	if cfg.DataSource.Symbol == "" {
		cfg.DataSource.Symbol = "GC"
	}
	if cfg.DataSource.Timezone == "" {
		cfg.DataSource.Timezone = "America/New_York"
	}
	if cfg.DataSource.Interval == "" {
		cfg.DataSource.Interval = "1h"
	}
	if cfg.DataSource.Range == "" {
		cfg.DataSource.Range = "1y"
	}
	if cfg.Profile.ValueArea < 0 {
		cfg.Profile.ValueArea = calculator.DefaultValueArea
	}
	if cfg.Profile.Method == "" {
		cfg.Profile.Method = string(calculator.MethodGreedy)
	}
	if cfg.Classifier.Kind == "" {
		cfg.Classifier.Kind = "rule"
	}
	if cfg.Classifier.TestFraction < 0 {
		cfg.Classifier.TestFraction = 0.25
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "data/out"
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = "csv"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

// Location resolves the data source timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.DataSource.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.DataSource.Timezone, err)
	}
	return loc, nil
}

// Validate checks option ranges and enums. A bad value area fails here,
// before any bars are fetched.
func (c *Config) Validate() error {
	switch c.DataSource.Kind {
	case "csv", "parquet":
		if c.DataSource.Path == "" {
			return fmt.Errorf("data_source.path is required for %s", c.DataSource.Kind)
		}
	case "yahoo", "mock":
	default:
		return fmt.Errorf("data_source.kind must be csv, parquet, yahoo or mock, got %q", c.DataSource.Kind)
	}
	if err := calculator.ValidateThreshold(c.Profile.ValueArea); err != nil {
		return fmt.Errorf("profile.value_area: %w", err)
	}
	if _, err := calculator.ParseMethod(c.Profile.Method); err != nil {
		return fmt.Errorf("profile.method: %w", err)
	}
	switch c.Classifier.Kind {
	case "rule":
	case "logistic":
		if c.Classifier.ModelPath == "" {
			return fmt.Errorf("classifier.model_path is required for logistic")
		}
	default:
		return fmt.Errorf("classifier.kind must be rule or logistic, got %q", c.Classifier.Kind)
	}
	if c.Classifier.TestFraction < 0 || c.Classifier.TestFraction >= 1 {
		return fmt.Errorf("classifier.test_fraction must be in [0, 1)")
	}
	switch c.Output.Format {
	case "csv", "parquet", "json":
	default:
		return fmt.Errorf("output.format must be csv, parquet or json, got %q", c.Output.Format)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

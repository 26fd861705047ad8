package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"ChanSentinel/internal/chanlun"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Type   string `yaml:"type"` // mock, file or http
		Path   string `yaml:"path"`
		URL    string `yaml:"url"`
		Symbol string `yaml:"symbol"`
	} `yaml:"data_source"`
	Analysis struct {
		MACDFast            int     `yaml:"macd_fast"`
		MACDSlow            int     `yaml:"macd_slow"`
		MACDSignal          int     `yaml:"macd_signal"`
		MinBarGap           int     `yaml:"min_bar_gap"`
		StartLookahead      int     `yaml:"start_lookahead"`
		EndLookahead        int     `yaml:"end_lookahead"`
		SegmentLookahead    int     `yaml:"segment_lookahead"`
		DivergenceRatio     float64 `yaml:"divergence_ratio"`
		RatioFloor          float64 `yaml:"ratio_floor"`
		MaxLevel            int     `yaml:"max_level"`
		NestedToleranceDays float64 `yaml:"nested_tolerance_days"`
		NestedBoost         float64 `yaml:"nested_boost"`
		NestedCap           float64 `yaml:"nested_cap"`
	} `yaml:"analysis"`
	Output struct {
		Detail      string `yaml:"detail"`
		IncludeBars bool   `yaml:"include_bars"`
		Path        string `yaml:"path"`
	} `yaml:"output"`
	Schedule struct {
		Cron       string `yaml:"cron"`
		RunOnStart bool   `yaml:"run_on_start"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // console or json
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// LoadEnvFile loads variables from .env style files into the environment
// without overriding variables that are already set. Missing files are ignored.
func LoadEnvFile(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("CHAN_SYMBOL"); v != "" {
		cfg.DataSource.Symbol = v
	}
	if v := os.Getenv("DATA_SOURCE"); v != "" {
		cfg.DataSource.Type = v
	}
	if v := os.Getenv("DATA_PATH"); v != "" {
		cfg.DataSource.Path = v
	}
	if v := os.Getenv("DATA_URL"); v != "" {
		cfg.DataSource.URL = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("ANALYSIS_CRON"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("OUTPUT_DETAIL"); v != "" {
		cfg.Output.Detail = v
	}
	if v := os.Getenv("OUTPUT_PATH"); v != "" {
		cfg.Output.Path = v
	}
	if v := os.Getenv("MAX_LEVEL"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse MAX_LEVEL: %w", err)
		}
		cfg.Analysis.MaxLevel = n
	}
	if v := os.Getenv("RUN_ON_START"); v != "" {
		cfg.Schedule.RunOnStart = v == "true" || v == "1"
	}

	// Defaults
	if cfg.DataSource.Symbol == "" {
		cfg.DataSource.Symbol = "SPX500"
	}
	if cfg.DataSource.Type == "" {
		switch {
		case cfg.DataSource.Path != "":
			cfg.DataSource.Type = "file"
		case cfg.DataSource.URL != "":
			cfg.DataSource.Type = "http"
		default:
			cfg.DataSource.Type = "mock"
		}
	}
	if cfg.Output.Detail == "" {
		cfg.Output.Detail = "full"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	applyAnalysisDefaults(cfg)

	return cfg, nil
}

func applyAnalysisDefaults(cfg *Config) {
	d := chanlun.DefaultParams()
	a := &cfg.Analysis
	if a.MACDFast == 0 {
		a.MACDFast = d.MACDFast
	}
	if a.MACDSlow == 0 {
		a.MACDSlow = d.MACDSlow
	}
	if a.MACDSignal == 0 {
		a.MACDSignal = d.MACDSignal
	}
	if a.MinBarGap == 0 {
		a.MinBarGap = d.MinBarGap
	}
	if a.StartLookahead == 0 {
		a.StartLookahead = d.StartLookahead
	}
	if a.EndLookahead == 0 {
		a.EndLookahead = d.EndLookahead
	}
	if a.SegmentLookahead == 0 {
		a.SegmentLookahead = d.SegmentLookahead
	}
	if a.DivergenceRatio == 0 {
		a.DivergenceRatio = d.DivergenceRatio
	}
	if a.RatioFloor == 0 {
		a.RatioFloor = d.RatioFloor
	}
	if a.MaxLevel == 0 {
		a.MaxLevel = d.MaxLevel
	}
	if a.NestedToleranceDays == 0 {
		a.NestedToleranceDays = d.NestedTolerance.Hours() / 24
	}
	if a.NestedBoost == 0 {
		a.NestedBoost = d.NestedBoost
	}
	if a.NestedCap == 0 {
		a.NestedCap = d.NestedCap
	}
}

// AnalysisParams converts the analysis section into pipeline parameters.
func (c *Config) AnalysisParams() chanlun.Params {
	a := c.Analysis
	return chanlun.Params{
		MACDFast:         a.MACDFast,
		MACDSlow:         a.MACDSlow,
		MACDSignal:       a.MACDSignal,
		MinBarGap:        a.MinBarGap,
		StartLookahead:   a.StartLookahead,
		EndLookahead:     a.EndLookahead,
		SegmentLookahead: a.SegmentLookahead,
		DivergenceRatio:  a.DivergenceRatio,
		RatioFloor:       a.RatioFloor,
		MaxLevel:         a.MaxLevel,
		NestedTolerance:  time.Duration(a.NestedToleranceDays * float64(24*time.Hour)),
		NestedBoost:      a.NestedBoost,
		NestedCap:        a.NestedCap,
	}
}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	switch c.DataSource.Type {
	case "mock":
	case "file":
		if c.DataSource.Path == "" {
			return fmt.Errorf("data_source.path is required for file sources")
		}
	case "http":
		if c.DataSource.URL == "" {
			return fmt.Errorf("data_source.url is required for http sources")
		}
	default:
		return fmt.Errorf("data_source.type %q is not one of mock, file, http", c.DataSource.Type)
	}

	a := c.Analysis
	if a.MACDFast <= 0 || a.MACDSlow <= 0 || a.MACDSignal <= 0 {
		return fmt.Errorf("analysis macd periods must be positive")
	}
	if a.MACDFast >= a.MACDSlow {
		return fmt.Errorf("analysis.macd_fast (%d) must be below macd_slow (%d)", a.MACDFast, a.MACDSlow)
	}
	if a.MinBarGap <= 0 || a.StartLookahead <= 0 || a.EndLookahead <= 0 || a.SegmentLookahead < 3 {
		return fmt.Errorf("analysis gap and lookahead values must be positive (segment_lookahead >= 3)")
	}
	if a.DivergenceRatio <= 0 || a.DivergenceRatio > 1 {
		return fmt.Errorf("analysis.divergence_ratio must be in (0, 1]")
	}
	if a.NestedCap <= 0 || a.NestedCap > 1 {
		return fmt.Errorf("analysis.nested_cap must be in (0, 1]")
	}

	switch strings.ToLower(c.Output.Detail) {
	case "basic", "advanced", "full":
	default:
		return fmt.Errorf("output.detail %q is not one of basic, advanced, full", c.Output.Detail)
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format %q is not one of console, json", c.Log.Format)
	}
	return nil
}

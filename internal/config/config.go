// Package config loads and validates the kiosk configuration.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Strategy selects how queries are distributed between model backends.
type Strategy string

const (
	StrategyAuto      Strategy = "auto"
	StrategyCloudOnly Strategy = "cloud_only"
	StrategyLocalOnly Strategy = "local_only"
)

// Settings holds all application configuration. It is built once at startup,
// validated, and passed by value into every component that needs it; nothing
// reads configuration ambiently after that.
type Settings struct {
	// OpenAI
	OpenAIAPIKey string `mapstructure:"openai_api_key"`

	// Ollama (local backend)
	EnableLocalModel bool   `mapstructure:"enable_local_model"`
	OllamaBaseURL    string `mapstructure:"ollama_base_url"`
	OllamaModel      string `mapstructure:"ollama_model"`

	// Cloud model tiers, cheapest to most capable.
	NanoModel     string `mapstructure:"nano_model"`
	MiniModel     string `mapstructure:"mini_model"`
	StandardModel string `mapstructure:"standard_model"`

	// Routing
	ModelStrategy Strategy `mapstructure:"model_strategy"`

	// Server
	Port        int `mapstructure:"port"`
	MetricsPort int `mapstructure:"metrics_port"`

	// Performance
	RequestTimeout time.Duration `mapstructure:"request_timeout"`

	// Business
	TaxRate float64 `mapstructure:"tax_rate"`

	// Feature flags
	EnableRecommendations bool `mapstructure:"enable_recommendations"`

	// History retention
	HistoryCapacity int `mapstructure:"history_capacity"`

	// Optional overrides
	MenuFile    string `mapstructure:"menu_file"`
	ArchivePath string `mapstructure:"archive_path"`

	// Admin surface
	AdminSecret string `mapstructure:"admin_secret"`

	LogLevel string `mapstructure:"log_level"`
}

// Load reads configuration from environment variables (KIOSK_ prefix) and an
// optional YAML file, applies defaults, and validates the result.
func Load(path string) (Settings, error) {
	v := viper.New()

	v.SetDefault("ollama_base_url", "http://localhost:11434")
	v.SetDefault("ollama_model", "exaone3.5:7.8b")
	v.SetDefault("nano_model", "gpt-5-nano")
	v.SetDefault("mini_model", "gpt-5-mini")
	v.SetDefault("standard_model", "gpt-5")
	v.SetDefault("model_strategy", string(StrategyAuto))
	v.SetDefault("port", 8080)
	v.SetDefault("metrics_port", 9090)
	v.SetDefault("request_timeout", 30*time.Second)
	v.SetDefault("tax_rate", 0.1)
	v.SetDefault("enable_recommendations", true)
	v.SetDefault("history_capacity", 512)
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("KIOSK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks invariants that would otherwise surface as confusing
// runtime failures. Missing cloud credentials are fatal unless the kiosk is
// pinned to the local backend.
func (s Settings) Validate() error {
	switch s.ModelStrategy {
	case StrategyAuto, StrategyCloudOnly, StrategyLocalOnly:
	default:
		return fmt.Errorf("invalid model_strategy %q (want auto, cloud_only, or local_only)", s.ModelStrategy)
	}
	if s.OpenAIAPIKey == "" && s.ModelStrategy != StrategyLocalOnly {
		return fmt.Errorf("openai_api_key is required for strategy %q", s.ModelStrategy)
	}
	if s.ModelStrategy == StrategyLocalOnly && !s.EnableLocalModel {
		return fmt.Errorf("model_strategy local_only requires enable_local_model")
	}
	if s.TaxRate < 0 || s.TaxRate >= 1 {
		return fmt.Errorf("tax_rate %v out of range [0, 1)", s.TaxRate)
	}
	if s.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	if s.HistoryCapacity <= 0 {
		return fmt.Errorf("history_capacity must be positive")
	}
	return nil
}

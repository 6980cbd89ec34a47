package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shrreku/ai-studyagent/internal/plan"
	"github.com/shrreku/ai-studyagent/internal/providers"
	"github.com/shrreku/ai-studyagent/internal/structurer"
)

// Config holds studyagent configuration.
// Stored at: ~/.studyagent/config.yaml
type Config struct {
	LLMProviders map[string]LLMProviderCfg `mapstructure:"llm_providers" yaml:"llm_providers"`
	Defaults     DefaultsCfg               `mapstructure:"defaults" yaml:"defaults"`
	Structurer   StructurerCfg             `mapstructure:"structurer" yaml:"structurer"`
	Server       ServerCfg                 `mapstructure:"server" yaml:"server"`
	LogLevel     string                    `mapstructure:"log_level" yaml:"log_level"` // debug, info, warn, error
}

// LLMProviderCfg configures an LLM provider.
type LLMProviderCfg struct {
	Type           string  `mapstructure:"type" yaml:"type"`             // "openrouter", "openai"
	Model          string  `mapstructure:"model" yaml:"model"`           // Model name
	APIKey         string  `mapstructure:"api_key" yaml:"api_key"`       // API key (supports ${ENV_VAR} syntax)
	BaseURL        string  `mapstructure:"base_url" yaml:"base_url"`     // Optional endpoint override
	RateLimit      float64 `mapstructure:"rate_limit" yaml:"rate_limit"` // Requests per second
	TimeoutSeconds int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	Enabled        bool    `mapstructure:"enabled" yaml:"enabled"`
}

// DefaultsCfg specifies default provider selections.
type DefaultsCfg struct {
	LLMProvider string `mapstructure:"llm_provider" yaml:"llm_provider"` // Default LLM provider
	MaxWorkers  int    `mapstructure:"max_workers" yaml:"max_workers"`   // Max concurrent chunk calls
}

// StructurerCfg tunes the plan structuring pipeline.
type StructurerCfg struct {
	Mode               string  `mapstructure:"mode" yaml:"mode"` // chunked or single
	ParallelChunks     bool    `mapstructure:"parallel_chunks" yaml:"parallel_chunks"`
	CallTimeoutSeconds int     `mapstructure:"call_timeout_seconds" yaml:"call_timeout_seconds"`
	MaxAttempts        int     `mapstructure:"max_attempts" yaml:"max_attempts"`
	Temperature        float64 `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens          int     `mapstructure:"max_tokens" yaml:"max_tokens"`
	HoursMode          string  `mapstructure:"hours_mode" yaml:"hours_mode"` // overwrite or redistribute
	BalancedExtraction bool    `mapstructure:"balanced_extraction" yaml:"balanced_extraction"`
	TemplatePath       string  `mapstructure:"template_path" yaml:"template_path"` // plan template JSON; empty uses the built-in one
	PromptsDir         string  `mapstructure:"prompts_dir" yaml:"prompts_dir"`     // prompt overrides; empty uses ~/.studyagent/prompts
	SaveSnapshots      bool    `mapstructure:"save_snapshots" yaml:"save_snapshots"`
	CallHistory        int     `mapstructure:"call_history" yaml:"call_history"` // LLM calls kept in memory
}

// ServerCfg configures the HTTP server.
type ServerCfg struct {
	Host        string   `mapstructure:"host" yaml:"host"`
	Port        string   `mapstructure:"port" yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LLMProviders: map[string]LLMProviderCfg{
			"openrouter": {
				Type:           "openrouter",
				Model:          "deepseek/deepseek-chat-v3-0324:free",
				APIKey:         "${OPENROUTER_API_KEY}",
				BaseURL:        "https://openrouter.ai/api/v1",
				RateLimit:      5,
				TimeoutSeconds: 120,
				Enabled:        true,
			},
			"openai": {
				Type:           "openai",
				Model:          "gpt-4o-mini",
				APIKey:         "${OPENAI_API_KEY}",
				TimeoutSeconds: 120,
				Enabled:        false,
			},
		},
		Defaults: DefaultsCfg{
			LLMProvider: "openrouter",
			MaxWorkers:  3,
		},
		Structurer: StructurerCfg{
			Mode:               string(structurer.ModeChunked),
			CallTimeoutSeconds: 120,
			MaxAttempts:        2,
			Temperature:        structurer.DefaultTemperature,
			MaxTokens:          structurer.DefaultMaxTokens,
			HoursMode:          string(plan.HoursOverwrite),
			SaveSnapshots:      true,
			CallHistory:        500,
		},
		Server: ServerCfg{
			Host:        "127.0.0.1",
			Port:        "8000",
			CORSOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		LogLevel: "info",
	}
}

// Validate reports settings the pipeline cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if _, err := structurer.ParseMode(c.Structurer.Mode); err != nil {
		errs = append(errs, fmt.Errorf("structurer.mode: %w", err))
	}
	if _, err := plan.ParseHoursMode(c.Structurer.HoursMode); err != nil {
		errs = append(errs, fmt.Errorf("structurer.hours_mode: %w", err))
	}
	if c.Structurer.Temperature < 0 || c.Structurer.Temperature > 2 {
		errs = append(errs, fmt.Errorf("structurer.temperature must be between 0 and 2, got %v", c.Structurer.Temperature))
	}
	if c.Structurer.MaxTokens < 0 {
		errs = append(errs, fmt.Errorf("structurer.max_tokens must not be negative, got %d", c.Structurer.MaxTokens))
	}
	if c.Structurer.CallTimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("structurer.call_timeout_seconds must not be negative, got %d", c.Structurer.CallTimeoutSeconds))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	for name, p := range c.LLMProviders {
		if p.Type != providers.OpenRouterName && p.Type != providers.OpenAIName {
			errs = append(errs, fmt.Errorf("llm_providers.%s.type: unknown type %q", name, p.Type))
		}
	}
	return errors.Join(errs...)
}

// StructurerMode returns the configured structuring mode.
func (c *Config) StructurerMode() structurer.Mode {
	m, err := structurer.ParseMode(c.Structurer.Mode)
	if err != nil {
		return structurer.ModeChunked
	}
	return m
}

// HoursMode returns the configured hours mode.
func (c *Config) HoursMode() plan.HoursMode {
	m, err := plan.ParseHoursMode(c.Structurer.HoursMode)
	if err != nil {
		return plan.HoursOverwrite
	}
	return m
}

// CallTimeout returns the per-call completion timeout; zero means none.
func (c *Config) CallTimeout() time.Duration {
	return time.Duration(c.Structurer.CallTimeoutSeconds) * time.Second
}

// DefaultModel returns the model of the default LLM provider.
func (c *Config) DefaultModel() string {
	if p, ok := c.LLMProviders[c.Defaults.LLMProvider]; ok {
		return p.Model
	}
	return ""
}

// SlogLevel returns the configured log level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log_level: unknown level %q", s)
	}
}

// GetLLMProvider returns an LLM provider config by name.
func (c *Config) GetLLMProvider(name string) (LLMProviderCfg, bool) {
	cfg, ok := c.LLMProviders[name]
	return cfg, ok
}

// EnabledLLMProviders returns all enabled LLM providers.
func (c *Config) EnabledLLMProviders() map[string]LLMProviderCfg {
	result := make(map[string]LLMProviderCfg)
	for name, cfg := range c.LLMProviders {
		if cfg.Enabled {
			result[name] = cfg
		}
	}
	return result
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shrreku/ai-studyagent/internal/plan"
	"github.com/shrreku/ai-studyagent/internal/structurer"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configFile, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return configFile
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config is invalid: %v", err)
	}
	if cfg.LLMProviders["openrouter"].APIKey != "${OPENROUTER_API_KEY}" {
		t.Error("expected openrouter API key placeholder")
	}
	if cfg.DefaultModel() != "deepseek/deepseek-chat-v3-0324:free" {
		t.Errorf("unexpected default model %q", cfg.DefaultModel())
	}
	if cfg.StructurerMode() != structurer.ModeChunked {
		t.Errorf("expected chunked mode, got %s", cfg.StructurerMode())
	}
	if cfg.HoursMode() != plan.HoursOverwrite {
		t.Errorf("expected overwrite hours mode, got %s", cfg.HoursMode())
	}
	if cfg.CallTimeout() != 120*time.Second {
		t.Errorf("expected 120s call timeout, got %s", cfg.CallTimeout())
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Run("resolves environment variable", func(t *testing.T) {
		t.Setenv("TEST_API_KEY", "secret123")

		result := ResolveEnvVars("${TEST_API_KEY}")
		if result != "secret123" {
			t.Errorf("expected secret123, got %s", result)
		}
	})

	t.Run("returns empty for missing env var", func(t *testing.T) {
		result := ResolveEnvVars("${DEFINITELY_NOT_SET_12345}")
		if result != "" {
			t.Errorf("expected empty string, got %s", result)
		}
	})

	t.Run("leaves literal values unchanged", func(t *testing.T) {
		result := ResolveEnvVars("literal-value")
		if result != "literal-value" {
			t.Errorf("expected literal-value, got %s", result)
		}
	})
}

func TestConfig_ToProviderRegistryConfig(t *testing.T) {
	t.Setenv("TEST_OPENROUTER_KEY", "or-key-123")

	cfg := DefaultConfig()
	cfg.LLMProviders["openrouter"] = LLMProviderCfg{
		Type:           "openrouter",
		Model:          "m",
		APIKey:         "${TEST_OPENROUTER_KEY}",
		TimeoutSeconds: 30,
		Enabled:        true,
	}

	rc := cfg.ToProviderRegistryConfig()
	if rc.Default != "openrouter" {
		t.Errorf("expected default openrouter, got %s", rc.Default)
	}
	or := rc.LLMProviders["openrouter"]
	if or.APIKey != "or-key-123" {
		t.Errorf("expected resolved key, got %s", or.APIKey)
	}
	if or.Timeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %s", or.Timeout)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad mode", func(c *Config) { c.Structurer.Mode = "batch" }, "structurer.mode"},
		{"bad hours mode", func(c *Config) { c.Structurer.HoursMode = "stretch" }, "structurer.hours_mode"},
		{"bad temperature", func(c *Config) { c.Structurer.Temperature = 3 }, "structurer.temperature"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"bad provider type", func(c *Config) {
			c.LLMProviders["x"] = LLMProviderCfg{Type: "carrier-pigeon"}
		}, "llm_providers.x.type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestNewManager(t *testing.T) {
	t.Run("nested key keeps sibling defaults", func(t *testing.T) {
		configFile := writeConfig(t, `
structurer:
  mode: single
llm_providers:
  openrouter:
    model: custom/model
`)
		mgr, err := NewManager(configFile, "")
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}

		cfg := mgr.Get()
		if cfg.StructurerMode() != structurer.ModeSingle {
			t.Errorf("expected single mode, got %s", cfg.Structurer.Mode)
		}
		if cfg.Structurer.MaxTokens != structurer.DefaultMaxTokens {
			t.Errorf("expected default max tokens, got %d", cfg.Structurer.MaxTokens)
		}
		or := cfg.LLMProviders["openrouter"]
		if or.Model != "custom/model" {
			t.Errorf("expected custom/model, got %s", or.Model)
		}
		if or.Type != "openrouter" || !or.Enabled {
			t.Errorf("expected openrouter defaults to survive, got %+v", or)
		}
		if mgr.ConfigFile() != configFile {
			t.Errorf("expected config file %s, got %s", configFile, mgr.ConfigFile())
		}
	})

	t.Run("missing file uses defaults", func(t *testing.T) {
		mgr, err := NewManager("", t.TempDir())
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}
		if mgr.Get().Server.Port != "8000" {
			t.Errorf("expected default port, got %s", mgr.Get().Server.Port)
		}
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("STUDYAGENT_STRUCTURER_HOURS_MODE", "redistribute")
		t.Setenv("STUDYAGENT_LOG_LEVEL", "debug")

		mgr, err := NewManager("", t.TempDir())
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}
		cfg := mgr.Get()
		if cfg.HoursMode() != plan.HoursRedistribute {
			t.Errorf("expected redistribute, got %s", cfg.Structurer.HoursMode)
		}
		if cfg.LogLevel != "debug" {
			t.Errorf("expected debug, got %s", cfg.LogLevel)
		}
	})

	t.Run("invalid file is rejected", func(t *testing.T) {
		configFile := writeConfig(t, "structurer:\n  mode: sideways\n")
		if _, err := NewManager(configFile, ""); err == nil {
			t.Error("expected error for invalid mode")
		}
	})
}

func TestManager_OnChange_Multiple(t *testing.T) {
	mgr, err := NewManager(writeConfig(t, "log_level: info\n"), "")
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})

	mgr.mu.RLock()
	if len(mgr.callbacks) != 3 {
		t.Errorf("expected 3 callbacks, got %d", len(mgr.callbacks))
	}
	mgr.mu.RUnlock()
}

func TestManager_Get_ThreadSafe(t *testing.T) {
	mgr, err := NewManager(writeConfig(t, "log_level: info\n"), "")
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				_ = mgr.Get().Structurer.Mode
			}
			done <- struct{}{}
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestManager_WatchConfig(t *testing.T) {
	configFile := writeConfig(t, "structurer:\n  mode: chunked\n")

	mgr, err := NewManager(configFile, "")
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	if mgr.Get().StructurerMode() != structurer.ModeChunked {
		t.Fatalf("initial value mismatch: %s", mgr.Get().Structurer.Mode)
	}

	var callbackCount atomic.Int32
	var lastValue atomic.Value

	mgr.OnChange(func(cfg *Config) {
		callbackCount.Add(1)
		lastValue.Store(cfg.Structurer.Mode)
	})

	mgr.WatchConfig()

	// Give fsnotify time to set up the watcher
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(configFile, []byte("structurer:\n  mode: single\n"), 0o644); err != nil {
		t.Fatalf("failed to write updated config file: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if callbackCount.Load() > 0 {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	if callbackCount.Load() == 0 {
		t.Fatal("callback was not invoked after config file change")
	}
	if mgr.Get().StructurerMode() != structurer.ModeSingle {
		t.Errorf("config not updated: got %s", mgr.Get().Structurer.Mode)
	}
	if v := lastValue.Load(); v != "single" {
		t.Errorf("callback received wrong value: %v", v)
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}

	mgr, err := NewManager(path, "")
	if err != nil {
		t.Fatalf("written default does not load: %v", err)
	}
	if mgr.Get().Defaults.LLMProvider != "openrouter" {
		t.Errorf("expected openrouter default provider, got %s", mgr.Get().Defaults.LLMProvider)
	}

	data, _ := os.ReadFile(path)
	if !strings.HasPrefix(string(data), "# studyagent configuration") {
		t.Error("expected header comment")
	}
}

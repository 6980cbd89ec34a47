package providers

import (
	"errors"
	"testing"
)

func TestRegistry(t *testing.T) {
	t.Run("register and get", func(t *testing.T) {
		r := NewRegistry()
		mock := NewMockClient()
		r.RegisterLLM("mock", mock)

		client, err := r.GetLLM("mock")
		if err != nil {
			t.Fatalf("GetLLM() error = %v", err)
		}
		if client != mock {
			t.Error("got a different client back")
		}
		if !r.HasLLM("mock") {
			t.Error("HasLLM = false")
		}
	})

	t.Run("unknown client", func(t *testing.T) {
		if _, err := NewRegistry().GetLLM("missing"); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("unregister", func(t *testing.T) {
		r := NewRegistry()
		r.RegisterLLM("mock", NewMockClient())
		r.UnregisterLLM("mock")
		if r.HasLLM("mock") {
			t.Error("mock should be removed")
		}
	})

	t.Run("list is sorted", func(t *testing.T) {
		r := NewRegistry()
		r.RegisterLLM("b", NewMockClient())
		r.RegisterLLM("a", NewMockClient())
		names := r.ListLLM()
		if len(names) != 2 || names[0] != "a" || names[1] != "b" {
			t.Errorf("ListLLM = %v", names)
		}
	})
}

func TestRegistry_Default(t *testing.T) {
	t.Run("empty registry is not configured", func(t *testing.T) {
		_, err := NewRegistry().Default()
		if !errors.Is(err, ErrNotConfigured) {
			t.Errorf("err = %v, want ErrNotConfigured", err)
		}
	})

	t.Run("single client is the default", func(t *testing.T) {
		r := NewRegistry()
		mock := NewMockClient()
		r.RegisterLLM("mock", mock)
		client, err := r.Default()
		if err != nil || client != mock {
			t.Errorf("Default() = %v, %v", client, err)
		}
	})

	t.Run("named default", func(t *testing.T) {
		r := NewRegistry()
		r.RegisterLLM("a", NewMockClient())
		want := NewMockClient()
		r.RegisterLLM("b", want)
		r.SetDefault("b")
		client, err := r.Default()
		if err != nil || client != want {
			t.Errorf("Default() = %v, %v", client, err)
		}
	})

	t.Run("named default missing", func(t *testing.T) {
		r := NewRegistry()
		r.RegisterLLM("a", NewMockClient())
		r.SetDefault("openrouter")
		if _, err := r.Default(); !errors.Is(err, ErrNotConfigured) {
			t.Errorf("err = %v, want ErrNotConfigured", err)
		}
	})

	t.Run("ambiguous without default", func(t *testing.T) {
		r := NewRegistry()
		r.RegisterLLM("a", NewMockClient())
		r.RegisterLLM("b", NewMockClient())
		if _, err := r.Default(); !errors.Is(err, ErrNotConfigured) {
			t.Errorf("err = %v, want ErrNotConfigured", err)
		}
	})
}

func TestNewRegistryFromConfig(t *testing.T) {
	r := NewRegistryFromConfig(RegistryConfig{
		Default: "openrouter",
		LLMProviders: map[string]LLMProviderConfig{
			"openrouter": {Type: "openrouter", APIKey: "key", Enabled: true},
			"openai":     {Type: "openai", APIKey: "key", Enabled: true},
			"disabled":   {Type: "openrouter", APIKey: "key", Enabled: false},
			"no-key":     {Type: "openrouter", Enabled: true},
			"unknown":    {Type: "mystery", APIKey: "key", Enabled: true},
		},
	})

	names := r.ListLLM()
	if len(names) != 2 || names[0] != "openai" || names[1] != "openrouter" {
		t.Errorf("ListLLM = %v", names)
	}

	client, err := r.Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if client.Name() != OpenRouterName {
		t.Errorf("Default().Name() = %q", client.Name())
	}
	if oa, _ := r.GetLLM("openai"); oa.Name() != OpenAIName {
		t.Errorf("openai client name = %q", oa.Name())
	}
}

func TestRegistry_Reload(t *testing.T) {
	t.Run("adds new providers on reload", func(t *testing.T) {
		r := NewRegistryFromConfig(RegistryConfig{})
		if r.HasLLM("openrouter") {
			t.Error("should start without openrouter")
		}

		r.Reload(RegistryConfig{
			LLMProviders: map[string]LLMProviderConfig{
				"openrouter": {Type: "openrouter", APIKey: "new-key", Enabled: true},
			},
		})
		if !r.HasLLM("openrouter") {
			t.Error("expected openrouter after reload")
		}
	})

	t.Run("removes providers on reload", func(t *testing.T) {
		r := NewRegistryFromConfig(RegistryConfig{
			LLMProviders: map[string]LLMProviderConfig{
				"openrouter": {Type: "openrouter", APIKey: "key", Enabled: true},
			},
		})
		r.Reload(RegistryConfig{})
		if r.HasLLM("openrouter") {
			t.Error("openrouter should be removed after reload")
		}
	})

	t.Run("updates providers with changed API keys", func(t *testing.T) {
		r := NewRegistryFromConfig(RegistryConfig{
			LLMProviders: map[string]LLMProviderConfig{
				"openrouter": {Type: "openrouter", APIKey: "old-key", Enabled: true},
			},
		})
		client, _ := r.GetLLM("openrouter")
		if client.(*OpenRouterClient).apiKey != "old-key" {
			t.Error("should start with old key")
		}

		r.Reload(RegistryConfig{
			LLMProviders: map[string]LLMProviderConfig{
				"openrouter": {Type: "openrouter", APIKey: "new-key", Enabled: true},
			},
		})
		client, _ = r.GetLLM("openrouter")
		if client.(*OpenRouterClient).apiKey != "new-key" {
			t.Error("should have new key after reload")
		}
	})

	t.Run("keeps unchanged clients", func(t *testing.T) {
		cfg := RegistryConfig{
			LLMProviders: map[string]LLMProviderConfig{
				"openrouter": {Type: "openrouter", APIKey: "key", Model: "m", Enabled: true},
			},
		}
		r := NewRegistryFromConfig(cfg)
		before, _ := r.GetLLM("openrouter")
		r.Reload(cfg)
		after, _ := r.GetLLM("openrouter")
		if before != after {
			t.Error("unchanged config should keep the existing client")
		}
	})

	t.Run("type change recreates client", func(t *testing.T) {
		r := NewRegistryFromConfig(RegistryConfig{
			LLMProviders: map[string]LLMProviderConfig{
				"main": {Type: "openrouter", APIKey: "key", Enabled: true},
			},
		})
		r.Reload(RegistryConfig{
			LLMProviders: map[string]LLMProviderConfig{
				"main": {Type: "openai", APIKey: "key", Enabled: true},
			},
		})
		client, _ := r.GetLLM("main")
		if client.Name() != OpenAIName {
			t.Errorf("Name = %q, want openai", client.Name())
		}
	})
}

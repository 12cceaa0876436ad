package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_API_TOKEN", "token")
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Env != "local" {
		t.Errorf("Env = %q, want local", cfg.Env)
	}
	if cfg.Generation.Backend != BackendOpenAI {
		t.Errorf("Backend = %q, want %q", cfg.Generation.Backend, BackendOpenAI)
	}
	if cfg.Generation.ModelOrDefault() != "gpt-4o-mini" {
		t.Errorf("model = %q", cfg.Generation.ModelOrDefault())
	}
	if cfg.Generation.TypingDelay != 20*time.Millisecond {
		t.Errorf("TypingDelay = %v", cfg.Generation.TypingDelay)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("HTTP.Addr = %q", cfg.HTTP.Addr)
	}
	if _, ok := cfg.Generation.APIKey(); ok {
		t.Error("APIKey reported present without OPENAI_API_KEY")
	}
	if cfg.DB.Enabled() {
		t.Error("DB enabled without DATABASE_URL")
	}
}

func TestLoadGenerationKey(t *testing.T) {
	t.Setenv("TELEGRAM_API_TOKEN", "token")

	t.Run("openai", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "sk-test")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		key, ok := cfg.Generation.APIKey()
		if !ok || key != "sk-test" {
			t.Errorf("APIKey = %q, %v", key, ok)
		}
	})

	t.Run("gemini", func(t *testing.T) {
		t.Setenv("GENERATION_BACKEND", "gemini")
		t.Setenv("GEMINI_API_KEY", "g-test")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		key, ok := cfg.Generation.APIKey()
		if !ok || key != "g-test" {
			t.Errorf("APIKey = %q, %v", key, ok)
		}
		if cfg.Generation.GeminiURL != "" {
			t.Errorf("GeminiURL = %q, want SDK default", cfg.Generation.GeminiURL)
		}
		if cfg.Generation.ModelOrDefault() != "gemini-2.0-flash" {
			t.Errorf("model = %q", cfg.Generation.ModelOrDefault())
		}
	})

	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("GENERATION_BACKEND", "llama")
		if _, err := Load(); err == nil {
			t.Fatal("expected error for unknown backend")
		}
	})
}

func TestLoadRequiresSurface(t *testing.T) {
	t.Setenv("TELEGRAM_API_TOKEN", "")
	t.Setenv("HTTP_ADDR", "")

	_, err := Load()
	if !errors.Is(err, ErrNoSurfaceEnabled) {
		t.Fatalf("err = %v, want ErrNoSurfaceEnabled", err)
	}
}

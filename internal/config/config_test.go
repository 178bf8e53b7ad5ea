package config

import (
	"errors"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT",
		"DEBATE_TOPIC", "DEBATE_MAX_TURNS", "DEBATE_MAX_TOKENS", "DEBATE_TEMPERATURE", "DEBATE_OUTPUT_DIR",
		"OPENROUTER_API_KEY", "XAI_API_KEY",
		"ARK_API_KEY", "ARK_ACCESS_KEY", "ARK_SECRET_KEY", "ARK_MODEL",
		"GENERATION_TIMEOUT", "GENERATION_MAX_RETRIES",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Fatalf("unexpected addr %q", cfg.Server.Addr)
	}
	if cfg.Debate.Topic != DefaultTopic {
		t.Fatalf("unexpected topic %q", cfg.Debate.Topic)
	}
	if cfg.Debate.MaxTurns != 12 {
		t.Fatalf("unexpected max turns %d", cfg.Debate.MaxTurns)
	}
	if cfg.Debate.MaxTokens != 1024 {
		t.Fatalf("unexpected max tokens %d", cfg.Debate.MaxTokens)
	}
	if cfg.Debate.Temperature != 0.7 {
		t.Fatalf("unexpected temperature %f", cfg.Debate.Temperature)
	}
	if cfg.Debate.OutputDir != "logs" {
		t.Fatalf("unexpected output dir %q", cfg.Debate.OutputDir)
	}
	if cfg.AI.Enabled() {
		t.Fatal("AI should be disabled without credentials")
	}
}

func TestLoadPortVariants(t *testing.T) {
	cases := []struct {
		port string
		want string
	}{
		{"9090", ":9090"},
		{":9090", ":9090"},
		{"127.0.0.1:9090", "127.0.0.1:9090"},
	}

	for _, tc := range cases {
		clearEnv(t)
		t.Setenv("PORT", tc.port)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load err for PORT=%q: %v", tc.port, err)
		}
		if cfg.Server.Addr != tc.want {
			t.Fatalf("PORT=%q: got addr %q, want %q", tc.port, cfg.Server.Addr, tc.want)
		}
	}
}

func TestLoadInvalidPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "80 80")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for PORT with spaces")
	}
}

func TestLoadDebateOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DEBATE_TOPIC", "custom topic")
	t.Setenv("DEBATE_MAX_TURNS", "4")
	t.Setenv("DEBATE_MAX_TOKENS", "512")
	t.Setenv("DEBATE_TEMPERATURE", "0.3")
	t.Setenv("DEBATE_OUTPUT_DIR", "out")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.Debate.Topic != "custom topic" {
		t.Fatalf("unexpected topic %q", cfg.Debate.Topic)
	}
	if cfg.Debate.MaxTurns != 4 {
		t.Fatalf("unexpected max turns %d", cfg.Debate.MaxTurns)
	}
	if cfg.Debate.MaxTokens != 512 {
		t.Fatalf("unexpected max tokens %d", cfg.Debate.MaxTokens)
	}
	if cfg.Debate.Temperature != 0.3 {
		t.Fatalf("unexpected temperature %f", cfg.Debate.Temperature)
	}
	if cfg.Debate.OutputDir != "out" {
		t.Fatalf("unexpected output dir %q", cfg.Debate.OutputDir)
	}
}

func TestLoadRejectsZeroMaxTurns(t *testing.T) {
	clearEnv(t)
	t.Setenv("DEBATE_MAX_TURNS", "0")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for DEBATE_MAX_TURNS=0")
	}

	var cfgErr *Error
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *config.Error, got %T", err)
	}
}

func TestLoadRejectsMalformedInt(t *testing.T) {
	clearEnv(t)
	t.Setenv("DEBATE_MAX_TURNS", "twelve")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric DEBATE_MAX_TURNS")
	}
}

func TestAIConfigEnabled(t *testing.T) {
	var cfg AIConfig
	if cfg.Enabled() {
		t.Fatal("empty config reported enabled")
	}

	cfg.OpenRouterAPIKey = "key"
	if !cfg.Enabled() {
		t.Fatal("OpenRouter key should enable generation")
	}

	cfg = AIConfig{XAIAPIKey: "key"}
	if !cfg.Enabled() {
		t.Fatal("x.ai key should enable generation")
	}
}

func TestArkEnabledNeedsModelAndCredential(t *testing.T) {
	cfg := AIConfig{ArkAPIKey: "key"}
	if cfg.ArkEnabled() {
		t.Fatal("Ark key without model reported enabled")
	}

	cfg.ArkModel = "doubao-pro"
	if !cfg.ArkEnabled() {
		t.Fatal("Ark key + model should be enabled")
	}

	cfg = AIConfig{ArkModel: "doubao-pro", ArkAccessKey: "ak", ArkSecretKey: "sk"}
	if !cfg.ArkEnabled() {
		t.Fatal("AK/SK pair + model should be enabled")
	}

	cfg.ArkSecretKey = ""
	if cfg.ArkEnabled() {
		t.Fatal("AK without SK reported enabled")
	}
}

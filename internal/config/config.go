package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// DefaultTopic is debated when the caller supplies none.
const DefaultTopic = "The most likely failure mode for AGI alignment in the 2028–2032 timeframe, " +
	"and what single intervention would most reduce that risk — " +
	"assuming current scaling + organizational trajectories continue " +
	"without major pauses or governance breakthroughs."

// Error marks a configuration problem. It is fatal at startup, before any
// turn runs.
type Error struct {
	Reason string
}

func (e *Error) Error() string {
	return "configuration error: " + e.Reason
}

// Config aggregates every setting the process needs. It is built once at
// startup and passed by value into the orchestrator; core packages never
// read the environment themselves.
type Config struct {
	Server ServerConfig
	Debate DebateConfig
	AI     AIConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	debate, err := loadDebateConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, Debate: debate, AI: ai}, nil
}

// ServerConfig describes the HTTP listener used by cmd/api.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" verbatim.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, &Error{Reason: fmt.Sprintf("invalid PORT value: %q", port)}
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// DebateConfig fixes the per-session debate parameters. Immutable once a
// session starts.
type DebateConfig struct {
	Topic       string
	MaxTurns    int
	MaxTokens   int
	Temperature float64
	OutputDir   string
}

func loadDebateConfig() (DebateConfig, error) {
	cfg := DebateConfig{
		Topic:       getEnvOrDefault("DEBATE_TOPIC", DefaultTopic),
		MaxTurns:    12,
		MaxTokens:   1024,
		Temperature: 0.7,
		OutputDir:   getEnvOrDefault("DEBATE_OUTPUT_DIR", "logs"),
	}

	if maxTurns, err := parseOptionalIntEnv("DEBATE_MAX_TURNS"); err != nil {
		return DebateConfig{}, err
	} else if maxTurns != nil {
		if *maxTurns < 1 {
			return DebateConfig{}, &Error{Reason: "DEBATE_MAX_TURNS must be at least 1"}
		}
		cfg.MaxTurns = *maxTurns
	}

	if maxTokens, err := parseOptionalIntEnv("DEBATE_MAX_TOKENS"); err != nil {
		return DebateConfig{}, err
	} else if maxTokens != nil {
		cfg.MaxTokens = *maxTokens
	}

	if temperature, err := parseOptionalFloatEnv("DEBATE_TEMPERATURE"); err != nil {
		return DebateConfig{}, err
	} else if temperature != nil {
		cfg.Temperature = *temperature
	}

	return cfg, nil
}

// AIConfig carries the provider credentials. OpenRouter is the reference
// binding; an x.ai key selects the same OpenAI-compatible client against a
// different base URL, and Ark credentials route through the eino model.
type AIConfig struct {
	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	OpenRouterModel   string

	XAIAPIKey  string
	XAIBaseURL string
	XAIModel   string

	ArkAPIKey    string
	ArkAccessKey string
	ArkSecretKey string
	ArkModel     string
	ArkBaseURL   string
	ArkRegion    string

	Timeout     time.Duration
	MaxRetries  int
	Temperature *float64
	MaxTokens   *int
}

func loadAIConfig() (AIConfig, error) {
	timeoutSeconds := 60
	if timeout, err := parseOptionalIntEnv("GENERATION_TIMEOUT"); err != nil {
		return AIConfig{}, err
	} else if timeout != nil && *timeout > 0 {
		timeoutSeconds = *timeout
	}

	maxRetries := 3
	if retries, err := parseOptionalIntEnv("GENERATION_MAX_RETRIES"); err != nil {
		return AIConfig{}, err
	} else if retries != nil && *retries > 0 {
		maxRetries = *retries
	}

	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		OpenRouterAPIKey:  strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY")),
		OpenRouterBaseURL: getEnvOrDefault("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		OpenRouterModel:   getEnvOrDefault("OPENROUTER_MODEL", "deepseek/deepseek-r1"),
		XAIAPIKey:         strings.TrimSpace(os.Getenv("XAI_API_KEY")),
		XAIBaseURL:        getEnvOrDefault("XAI_BASE_URL", "https://api.x.ai/v1"),
		XAIModel:          getEnvOrDefault("XAI_MODEL", "grok-beta"),
		ArkAPIKey:         strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		ArkAccessKey:      strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		ArkSecretKey:      strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		ArkModel:          strings.TrimSpace(os.Getenv("ARK_MODEL")),
		ArkBaseURL:        getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		ArkRegion:         getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Timeout:           time.Duration(timeoutSeconds) * time.Second,
		MaxRetries:        maxRetries,
		Temperature:       temperature,
		MaxTokens:         maxTokens,
	}, nil
}

// Enabled reports whether at least one provider credential is present.
func (c AIConfig) Enabled() bool {
	return c.OpenRouterAPIKey != "" || c.XAIAPIKey != "" || c.ArkEnabled()
}

// ArkEnabled reports whether the Ark/eino binding can be constructed.
func (c AIConfig) ArkEnabled() bool {
	return c.ArkModel != "" && (c.ArkAPIKey != "" || (c.ArkAccessKey != "" && c.ArkSecretKey != ""))
}

// NewChatModel builds the eino chat model from the Ark credentials.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.ArkEnabled() {
		return nil, &Error{Reason: "Ark credentials missing: provide ARK_API_KEY + ARK_MODEL or an AK/SK pair"}
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.ArkBaseURL,
		Region:      c.ArkRegion,
		APIKey:      c.ArkAPIKey,
		AccessKey:   c.ArkAccessKey,
		SecretKey:   c.ArkSecretKey,
		Model:       c.ArkModel,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
	}

	return ark.NewChatModel(ctx, cfg)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, &Error{Reason: fmt.Sprintf("invalid %s value %q: %v", key, value, err)}
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, &Error{Reason: fmt.Sprintf("invalid %s value %q: %v", key, value, err)}
	}
	return &val, nil
}

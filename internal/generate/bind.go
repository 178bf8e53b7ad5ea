package generate

import (
	"context"

	"github.com/mirrormax/backend/internal/config"
)

// Bind selects the configured provider and returns a ready generator plus
// the model identifier it will invoke. OpenRouter is preferred, then x.ai,
// then Ark via eino.
func Bind(ctx context.Context, cfg config.AIConfig) (Generator, string, error) {
	switch {
	case cfg.OpenRouterAPIKey != "":
		client, err := NewOpenRouterClient(OpenRouterConfig{
			APIKey:     cfg.OpenRouterAPIKey,
			BaseURL:    cfg.OpenRouterBaseURL,
			Model:      cfg.OpenRouterModel,
			Referer:    "https://mirror-max.local",
			Title:      "Mirror Max Debate",
			Timeout:    cfg.Timeout,
			MaxRetries: cfg.MaxRetries,
		})
		if err != nil {
			return nil, "", err
		}
		return client, cfg.OpenRouterModel, nil

	case cfg.XAIAPIKey != "":
		client, err := NewOpenRouterClient(OpenRouterConfig{
			APIKey:     cfg.XAIAPIKey,
			BaseURL:    cfg.XAIBaseURL,
			Model:      cfg.XAIModel,
			Timeout:    cfg.Timeout,
			MaxRetries: cfg.MaxRetries,
		})
		if err != nil {
			return nil, "", err
		}
		return client, cfg.XAIModel, nil

	case cfg.ArkEnabled():
		chatModel, err := cfg.NewChatModel(ctx)
		if err != nil {
			return nil, "", err
		}
		generator, err := NewModelGenerator(ctx, "ark", chatModel)
		if err != nil {
			return nil, "", err
		}
		return generator, cfg.ArkModel, nil

	default:
		return nil, "", &config.Error{Reason: "no generation credential found: set OPENROUTER_API_KEY, XAI_API_KEY or Ark credentials"}
	}
}

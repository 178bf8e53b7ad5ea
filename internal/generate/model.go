package generate

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

// ModelGenerator drives an eino chat chain for providers wired through the
// eino model abstraction (Ark in the default configuration).
type ModelGenerator struct {
	provider string
	chain    compose.Runnable[map[string]any, *schema.Message]
}

// NewModelGenerator compiles a single-message chain around chatModel.
func NewModelGenerator(ctx context.Context, provider string, chatModel model.ChatModel) (*ModelGenerator, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.UserMessage("{prompt}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile generation chain: %w", err)
	}

	return &ModelGenerator{provider: provider, chain: runnable}, nil
}

// Generate implements Generator.
func (g *ModelGenerator) Generate(ctx context.Context, promptText string, opts Options) (Result, error) {
	start := time.Now()

	var invokeOpts []compose.Option
	if callOpts := chatModelOptions(opts); len(callOpts) > 0 {
		invokeOpts = append(invokeOpts, compose.WithChatModelOption(callOpts...))
	}

	response, err := g.chain.Invoke(ctx, map[string]any{"prompt": promptText}, invokeOpts...)
	if err != nil {
		return Result{}, &Error{Provider: g.provider, Err: err}
	}

	result := Result{
		Content:   response.Content,
		LatencyMS: float64(time.Since(start)) / float64(time.Millisecond),
	}
	if response.ResponseMeta != nil && response.ResponseMeta.Usage != nil {
		result.TokensUsed = response.ResponseMeta.Usage.TotalTokens
	}
	return result, nil
}

// chatModelOptions maps per-call generation options onto eino model call
// options. Zero values are treated as unset and fall back to the model's
// construction-time configuration.
func chatModelOptions(opts Options) []model.Option {
	var callOpts []model.Option
	if opts.MaxTokens > 0 {
		callOpts = append(callOpts, model.WithMaxTokens(opts.MaxTokens))
	}
	if opts.Temperature > 0 {
		callOpts = append(callOpts, model.WithTemperature(float32(opts.Temperature)))
	}
	return callOpts
}

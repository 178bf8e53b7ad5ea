package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// OpenRouterConfig binds the client to one OpenAI-compatible provider.
type OpenRouterConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Referer    string
	Title      string
	Timeout    time.Duration
	MaxRetries int
	Backoff    time.Duration
}

// OpenRouterClient calls an OpenAI-compatible chat-completions endpoint with
// bearer-token auth. Transient network failures are retried a bounded number
// of times with a fixed backoff; HTTP-level errors (auth, validation, quota)
// are not retried.
type OpenRouterClient struct {
	cfg        OpenRouterConfig
	httpClient *http.Client
}

// NewOpenRouterClient builds a client from config, applying the defaults the
// provider expects.
func NewOpenRouterClient(cfg OpenRouterConfig) (*OpenRouterClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter: api key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://openrouter.ai/api/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "deepseek/deepseek-r1"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 5 * time.Second
	}

	return &OpenRouterClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// Generate implements Generator.
func (c *OpenRouterClient) Generate(ctx context.Context, prompt string, opts Options) (Result, error) {
	payload, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})
	if err != nil {
		return Result{}, &Error{Provider: "openrouter", Err: err}
	}

	var lastErr error
	for attempt := 1; attempt <= c.cfg.MaxRetries; attempt++ {
		start := time.Now()
		result, err := c.doRequest(ctx, payload)
		if err == nil {
			result.LatencyMS = float64(time.Since(start)) / float64(time.Millisecond)
			return result, nil
		}

		if !isTransient(err) {
			return Result{}, &Error{Provider: "openrouter", Err: err}
		}

		lastErr = err
		if attempt < c.cfg.MaxRetries {
			select {
			case <-ctx.Done():
				return Result{}, &Error{Provider: "openrouter", Err: ctx.Err()}
			case <-time.After(c.cfg.Backoff):
			}
		}
	}

	return Result{}, &Error{Provider: "openrouter", Err: fmt.Errorf("max retries exceeded: %w", lastErr)}
}

func (c *OpenRouterClient) doRequest(ctx context.Context, payload []byte) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return Result{}, err
	}

	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Referer != "" {
		req.Header.Set("HTTP-Referer", c.cfg.Referer)
	}
	if c.cfg.Title != "" {
		req.Header.Set("X-Title", c.cfg.Title)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, err
	}

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncateBody(body))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Result{}, fmt.Errorf("malformed response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return Result{}, errors.New("malformed response: no choices returned")
	}

	return Result{
		Content:    parsed.Choices[0].Message.Content,
		TokensUsed: parsed.Usage.TotalTokens,
	}, nil
}

// isTransient reports whether err is a network-level failure worth retrying.
// Status-code errors never are: auth and validation problems will not heal
// on their own.
func isTransient(err error) bool {
	// http.Client wraps transport failures in *url.Error, which implements
	// net.Error; anything else that reaches here came back with a status.
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, io.ErrUnexpectedEOF)
}

func truncateBody(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}

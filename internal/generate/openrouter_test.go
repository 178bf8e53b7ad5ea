package generate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, baseURL string) *OpenRouterClient {
	t.Helper()
	client, err := NewOpenRouterClient(OpenRouterConfig{
		APIKey:     "test-key",
		BaseURL:    baseURL,
		Model:      "deepseek/deepseek-r1",
		Timeout:    2 * time.Second,
		MaxRetries: 2,
		Backoff:    10 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewOpenRouterClient err: %v", err)
	}
	return client
}

func TestGenerateParsesChatCompletion(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}

		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req["model"] != "deepseek/deepseek-r1" {
			t.Errorf("unexpected model %v", req["model"])
		}

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "a reply"}},
			},
			"usage": map[string]any{"total_tokens": 42},
		})
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	result, err := client.Generate(context.Background(), "prompt", Options{MaxTokens: 512, Temperature: 0.7})
	if err != nil {
		t.Fatalf("Generate err: %v", err)
	}

	if result.Content != "a reply" {
		t.Fatalf("unexpected content %q", result.Content)
	}
	if result.TokensUsed != 42 {
		t.Fatalf("unexpected token count %d", result.TokensUsed)
	}
	if result.LatencyMS <= 0 {
		t.Fatalf("expected positive latency, got %f", result.LatencyMS)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
}

func TestGenerateStatusErrorIsNotRetried(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"error":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.Generate(context.Background(), "prompt", Options{})
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if calls != 1 {
		t.Fatalf("expected exactly 1 attempt, got %d", calls)
	}

	var genErr *Error
	if !errors.As(err, &genErr) {
		t.Fatalf("expected *generate.Error, got %T", err)
	}
	if genErr.Provider != "openrouter" {
		t.Fatalf("unexpected provider %q", genErr.Provider)
	}
}

func TestGenerateTransientErrorRetriesThenFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse every connection

	client := newTestClient(t, srv.URL)
	_, err := client.Generate(context.Background(), "prompt", Options{})
	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}

	var genErr *Error
	if !errors.As(err, &genErr) {
		t.Fatalf("expected *generate.Error, got %T", err)
	}
}

func TestGenerateMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	if _, err := client.Generate(context.Background(), "prompt", Options{}); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestNewOpenRouterClientRequiresKey(t *testing.T) {
	if _, err := NewOpenRouterClient(OpenRouterConfig{}); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

package debate_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mirrormax/backend/internal/generate"
	modeldebate "github.com/mirrormax/backend/internal/model/debate"
	"github.com/mirrormax/backend/internal/model/participant"
	debateservice "github.com/mirrormax/backend/internal/service/debate"
)

func testConfig(t *testing.T, maxTurns int, generator generate.Generator) debateservice.RunnerConfig {
	t.Helper()
	roster := participant.Seed()
	return debateservice.RunnerConfig{
		Topic:        "test topic",
		MaxTurns:     maxTurns,
		MaxTokens:    1024,
		Temperature:  0.7,
		OutputDir:    t.TempDir(),
		Participants: roster,
		Generators:   map[string]generate.Generator{roster[0].Name: generator},
	}
}

func TestRunFourTurnSession(t *testing.T) {
	var prompts []string
	generator := generate.GenerateFunc(func(_ context.Context, prompt string, _ generate.Options) (generate.Result, error) {
		prompts = append(prompts, prompt)
		return generate.Result{
			Content:    fmt.Sprintf("However, argument %d.", len(prompts)),
			TokensUsed: 10 * len(prompts),
			LatencyMS:  5,
		}, nil
	})

	cfg := testConfig(t, 4, generator)
	runner, err := debateservice.NewRunner(cfg)
	if err != nil {
		t.Fatalf("NewRunner err: %v", err)
	}

	outcome, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run err: %v", err)
	}

	if outcome.State != modeldebate.StateCompleted {
		t.Fatalf("expected completed state, got %s", outcome.State)
	}
	if len(outcome.Log.Turns) != 4 {
		t.Fatalf("expected 4 turns, got %d", len(outcome.Log.Turns))
	}
	for i, turn := range outcome.Log.Turns {
		if turn.Number != i+1 {
			t.Fatalf("turn %d has number %d", i, turn.Number)
		}
	}
	if outcome.Log.Metadata.TotalTokens != 10+20+30+40 {
		t.Fatalf("unexpected total tokens %d", outcome.Log.Metadata.TotalTokens)
	}
	if len(outcome.Log.Metadata.EnergyHistory) != 4 {
		t.Fatalf("expected 4 energy entries, got %d", len(outcome.Log.Metadata.EnergyHistory))
	}
	if outcome.Log.Metadata.AvgDisagreementEnergy <= 0 {
		t.Fatal("expected finalized average energy")
	}
	if outcome.Log.EndTime.IsZero() {
		t.Fatal("end time not finalized")
	}
}

func TestRunRoleLabelsAlternateByParity(t *testing.T) {
	generator := generate.GenerateFunc(func(context.Context, string, generate.Options) (generate.Result, error) {
		return generate.Result{Content: "reply"}, nil
	})

	runner, err := debateservice.NewRunner(testConfig(t, 4, generator))
	if err != nil {
		t.Fatalf("NewRunner err: %v", err)
	}
	outcome, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run err: %v", err)
	}

	want := []string{"cautious/skeptical", "optimistic/synthesis", "cautious/skeptical", "optimistic/synthesis"}
	for i, turn := range outcome.Log.Turns {
		if turn.Role != want[i] {
			t.Fatalf("turn %d role = %q, want %q", turn.Number, turn.Role, want[i])
		}
	}
}

func TestRunSolutionPushEveryFourthTurn(t *testing.T) {
	var prompts []string
	generator := generate.GenerateFunc(func(_ context.Context, prompt string, _ generate.Options) (generate.Result, error) {
		prompts = append(prompts, prompt)
		return generate.Result{Content: "reply"}, nil
	})

	runner, err := debateservice.NewRunner(testConfig(t, 8, generator))
	if err != nil {
		t.Fatalf("NewRunner err: %v", err)
	}
	if _, err := runner.Run(context.Background()); err != nil {
		t.Fatalf("Run err: %v", err)
	}

	for i, prompt := range prompts {
		turnNumber := i + 1
		pushed := strings.Contains(prompt, "This is a synthesis turn")
		if (turnNumber%4 == 0) != pushed {
			t.Fatalf("turn %d: solution push presence = %v", turnNumber, pushed)
		}
	}
}

func TestRunGenerationFailureAbortsButFinalizes(t *testing.T) {
	var calls int
	generator := generate.GenerateFunc(func(context.Context, string, generate.Options) (generate.Result, error) {
		calls++
		if calls == 3 {
			return generate.Result{}, &generate.Error{Provider: "fake", Err: errors.New("rate limited")}
		}
		return generate.Result{Content: fmt.Sprintf("argument %d", calls), TokensUsed: 7}, nil
	})

	cfg := testConfig(t, 12, generator)
	runner, err := debateservice.NewRunner(cfg)
	if err != nil {
		t.Fatalf("NewRunner err: %v", err)
	}

	outcome, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run err: %v", err)
	}

	if outcome.State != modeldebate.StateAborted {
		t.Fatalf("expected aborted state, got %s", outcome.State)
	}
	if len(outcome.Log.Turns) != 2 {
		t.Fatalf("expected 2 completed turns, got %d", len(outcome.Log.Turns))
	}
	if outcome.GenerationErr == nil {
		t.Fatal("expected generation error in outcome")
	}
	if outcome.Solution == "" {
		t.Fatal("expected non-empty solution from fallback chain")
	}
	if !strings.Contains(outcome.SolutionDoc, "Debate stopped early") {
		t.Fatalf("expected early-stop note in solution document:\n%s", outcome.SolutionDoc)
	}
}

func TestRunPersistsArtifacts(t *testing.T) {
	generator := generate.GenerateFunc(func(context.Context, string, generate.Options) (generate.Result, error) {
		return generate.Result{Content: "[Final Solution:] Ship the fix.", TokensUsed: 3}, nil
	})

	cfg := testConfig(t, 2, generator)
	runner, err := debateservice.NewRunner(cfg)
	if err != nil {
		t.Fatalf("NewRunner err: %v", err)
	}

	outcome, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run err: %v", err)
	}

	if filepath.Dir(outcome.SolutionPath) != cfg.OutputDir {
		t.Fatalf("solution written outside output dir: %s", outcome.SolutionPath)
	}
	data, err := os.ReadFile(outcome.SolutionPath)
	if err != nil {
		t.Fatalf("read solution: %v", err)
	}
	if !strings.Contains(string(data), "Ship the fix.") {
		t.Fatalf("solution document missing extracted text:\n%s", data)
	}

	logData, err := os.ReadFile(outcome.LogPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var persisted modeldebate.Log
	if err := json.Unmarshal(logData, &persisted); err != nil {
		t.Fatalf("unmarshal log: %v", err)
	}
	if len(persisted.Turns) != 2 {
		t.Fatalf("persisted log has %d turns", len(persisted.Turns))
	}
	if persisted.Config.Topic != "test topic" {
		t.Fatalf("persisted config topic %q", persisted.Config.Topic)
	}
	if persisted.Metadata.TotalTokens != 6 {
		t.Fatalf("persisted total tokens %d", persisted.Metadata.TotalTokens)
	}
}

func TestRunEmitsCompletionWhenPersistFails(t *testing.T) {
	generator := generate.GenerateFunc(func(context.Context, string, generate.Options) (generate.Result, error) {
		return generate.Result{Content: "reply"}, nil
	})

	cfg := testConfig(t, 1, generator)
	// A regular file where the output directory should be makes MkdirAll fail.
	blocked := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(blocked, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	cfg.OutputDir = blocked

	var sawComplete bool
	cfg.Observer = func(event debateservice.Event) {
		if event.Type == debateservice.EventComplete {
			sawComplete = true
			if event.Outcome == nil {
				t.Error("completion event missing outcome")
			}
		}
	}

	runner, err := debateservice.NewRunner(cfg)
	if err != nil {
		t.Fatalf("NewRunner err: %v", err)
	}

	outcome, err := runner.Run(context.Background())
	if err == nil {
		t.Fatal("expected persistence error")
	}
	if outcome == nil || outcome.State != modeldebate.StateCompleted {
		t.Fatalf("expected finalized outcome despite persistence failure, got %+v", outcome)
	}
	if !sawComplete {
		t.Fatal("completion event not emitted on persistence failure")
	}
}

func TestRunnerIsSingleUse(t *testing.T) {
	generator := generate.GenerateFunc(func(context.Context, string, generate.Options) (generate.Result, error) {
		return generate.Result{Content: "reply"}, nil
	})

	runner, err := debateservice.NewRunner(testConfig(t, 1, generator))
	if err != nil {
		t.Fatalf("NewRunner err: %v", err)
	}
	if _, err := runner.Run(context.Background()); err != nil {
		t.Fatalf("first Run err: %v", err)
	}
	if _, err := runner.Run(context.Background()); err == nil {
		t.Fatal("expected error on second Run")
	}
}

func TestNewRunnerRequiresGeneratorBinding(t *testing.T) {
	roster := participant.Seed()
	_, err := debateservice.NewRunner(debateservice.RunnerConfig{
		Topic:        "t",
		MaxTurns:     1,
		Participants: roster,
	})
	if err == nil {
		t.Fatal("expected error for missing generator binding")
	}
}

func TestRunObserverSeesTurnEvents(t *testing.T) {
	generator := generate.GenerateFunc(func(context.Context, string, generate.Options) (generate.Result, error) {
		return generate.Result{Content: "reply"}, nil
	})

	var events []debateservice.Event
	cfg := testConfig(t, 2, generator)
	cfg.Observer = func(event debateservice.Event) {
		events = append(events, event)
	}

	runner, err := debateservice.NewRunner(cfg)
	if err != nil {
		t.Fatalf("NewRunner err: %v", err)
	}
	if _, err := runner.Run(context.Background()); err != nil {
		t.Fatalf("Run err: %v", err)
	}

	var turnEvents, completeEvents int
	for _, event := range events {
		switch event.Type {
		case debateservice.EventTurn:
			turnEvents++
		case debateservice.EventComplete:
			completeEvents++
		}
	}
	if turnEvents != 2 {
		t.Fatalf("expected 2 turn events, got %d", turnEvents)
	}
	if completeEvents != 1 {
		t.Fatalf("expected 1 complete event, got %d", completeEvents)
	}
}

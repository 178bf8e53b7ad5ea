package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mirrormax/backend/internal/config"
	"github.com/mirrormax/backend/internal/generate"
	"github.com/mirrormax/backend/internal/model/participant"
	debateservice "github.com/mirrormax/backend/internal/service/debate"
)

const banner = "════════════════════════════════════════════════════════════════════════════════"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// The topic may be passed as free-form argv text.
	if topic := strings.TrimSpace(strings.Join(os.Args[1:], " ")); topic != "" {
		cfg.Debate.Topic = topic
		fmt.Printf("Using custom topic: %s\n", topic)
	} else if cfg.Debate.Topic == config.DefaultTopic {
		fmt.Println("Using default topic.")
	}

	generator, modelID, err := generate.Bind(ctx, cfg.AI)
	if err != nil {
		log.Fatalf("failed to bind generator: %v", err)
	}

	roster := participant.Seed()
	for i := range roster {
		roster[i].Model = modelID
	}
	generators := make(map[string]generate.Generator, len(roster))
	for _, p := range roster {
		generators[p.Name] = generator
	}

	runner, err := debateservice.NewRunner(debateservice.RunnerConfig{
		Topic:        cfg.Debate.Topic,
		MaxTurns:     cfg.Debate.MaxTurns,
		MaxTokens:    cfg.Debate.MaxTokens,
		Temperature:  cfg.Debate.Temperature,
		OutputDir:    cfg.Debate.OutputDir,
		Participants: roster,
		Generators:   generators,
		Observer:     narrate,
	})
	if err != nil {
		log.Fatalf("failed to prepare debate: %v", err)
	}

	fmt.Println("\n" + banner)
	fmt.Println("MIRROR MAX v0.1 - Cognitive Differential Engine")
	fmt.Printf("Topic: %s\n", cfg.Debate.Topic)
	fmt.Printf("Participants: %s self-debate (cautious/skeptical → optimistic/synthesis)\n", roster[0].Name)
	fmt.Printf("Max turns: %d | Max tokens/response: %d\n", cfg.Debate.MaxTurns, cfg.Debate.MaxTokens)
	fmt.Print(banner + "\n\n")

	outcome, err := runner.Run(ctx)
	if err != nil {
		// Persistence failures are surfaced but the debate itself is done.
		log.Printf("error: %v", err)
	}

	report(outcome)
}

// narrate prints the per-turn operator feedback the debate has always shown.
func narrate(event debateservice.Event) {
	switch event.Type {
	case debateservice.EventTurnStart:
		fmt.Printf("\nTURN %02d | %s (%s)\n", event.TurnNumber, event.Speaker, event.Role)
		fmt.Println(strings.Repeat("─", 70))
	case debateservice.EventTurn:
		turn := event.Turn
		fmt.Printf("  Energy: %.2f  |  Cruxes: %d  |  Tokens: %d\n", turn.DisagreementEnergy, len(turn.Cruxes), turn.TokensUsed)
		fmt.Printf("  Latency: %.0fms\n\n", turn.LatencyMS)

		preview := turn.Content
		if runes := []rune(preview); len(runes) > 500 {
			preview = string(runes[:500]) + "..."
		}
		fmt.Println(preview)
		fmt.Println(strings.Repeat("─", 70))
	}
}

func report(outcome *debateservice.Outcome) {
	fmt.Println("\n" + banner)
	fmt.Println("GENERATING FINAL SOLUTION FILE")
	fmt.Println(banner)

	if outcome.GenerationErr != nil {
		fmt.Printf("Debate stopped early: %v\n", outcome.GenerationErr)
	}

	if outcome.SolutionPath != "" {
		fmt.Printf("Solution file created/updated: %s\n", outcome.SolutionPath)
	}
	if outcome.LogPath != "" {
		fmt.Printf("Full JSON log saved to: %s\n", outcome.LogPath)
	}
	fmt.Printf("Total tokens used: %d\n", outcome.Log.Metadata.TotalTokens)
	fmt.Printf("Average disagreement energy: %.2f\n", outcome.Log.Metadata.AvgDisagreementEnergy)
	fmt.Println(banner)
}

// Package debate drives the turn-by-turn self-play loop: prompt building,
// generation, scoring, aggregation and final-solution extraction.
package debate

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/mirrormax/backend/internal/analysis/rhetoric"
	"github.com/mirrormax/backend/internal/generate"
	modeldebate "github.com/mirrormax/backend/internal/model/debate"
	"github.com/mirrormax/backend/internal/model/participant"
	"github.com/mirrormax/backend/internal/protocol"
	"github.com/mirrormax/backend/internal/transcript"
)

const (
	roleSkeptical = "cautious/skeptical"
	roleSynthesis = "optimistic/synthesis"

	// Every 4th turn the prompt demands an explicit final-solution marker.
	solutionPushEvery = 4

	synthesisPushInstruction = "\nThis is a synthesis turn. Provide [Final Solution:] with the best agreed path forward."
)

var (
	ErrNoParticipants = errors.New("debate: at least one participant is required")
	ErrNoGenerator    = errors.New("debate: every participant needs a generator binding")
	ErrAlreadyRun     = errors.New("debate: runner already ran")
)

// RunnerConfig fixes one session. Immutable once Run starts.
type RunnerConfig struct {
	Topic        string
	MaxTurns     int
	MaxTokens    int
	Temperature  float64
	OutputDir    string
	Participants []participant.Participant
	Generators   map[string]generate.Generator

	// Observer, when set, receives loop events for live streaming. Called
	// synchronously from the loop goroutine.
	Observer Observer
}

// Outcome bundles the finalized session record with the derived artifacts.
type Outcome struct {
	Log          *modeldebate.Log
	State        modeldebate.State
	Solution     string
	SolutionDoc  string
	SolutionPath string
	LogPath      string

	// GenerationErr holds the failure that aborted the loop, if any. It is
	// terminal to the loop but not to the program: the outcome is always
	// finalized over the turns that completed.
	GenerationErr error
}

// Runner executes one debate session. It is single-use and strictly
// sequential: exactly one generation call is in flight at a time, and
// history is mutated only between calls.
type Runner struct {
	cfg     RunnerConfig
	state   modeldebate.State
	manager *transcript.Manager
	log     modeldebate.Log
	writer  *Writer
}

// NewRunner validates the configuration and prepares an idle session.
func NewRunner(cfg RunnerConfig) (*Runner, error) {
	if len(cfg.Participants) == 0 {
		return nil, ErrNoParticipants
	}
	for _, p := range cfg.Participants {
		if _, ok := cfg.Generators[p.Name]; !ok {
			return nil, fmt.Errorf("%w: missing %q", ErrNoGenerator, p.Name)
		}
	}
	if cfg.MaxTurns < 1 {
		cfg.MaxTurns = 1
	}

	return &Runner{
		cfg:     cfg,
		state:   modeldebate.StateNotStarted,
		manager: transcript.NewManager(),
		writer:  NewWriter(cfg.OutputDir),
	}, nil
}

// State reports the session lifecycle state.
func (r *Runner) State() modeldebate.State {
	return r.state
}

// Run executes the loop until the turn limit or the first generation
// failure, then finalizes and persists. The returned error covers
// persistence only; a generation failure is reported via the outcome.
func (r *Runner) Run(ctx context.Context) (*Outcome, error) {
	if r.state != modeldebate.StateNotStarted {
		return nil, ErrAlreadyRun
	}

	r.state = modeldebate.StateRunning
	r.log = modeldebate.Log{
		Config:    r.snapshot(),
		StartTime: time.Now().UTC(),
		Turns:     []modeldebate.Turn{},
	}
	r.emit(Event{Type: EventStatus, State: r.state})

	var generationErr error
	for turnNumber := 1; turnNumber <= r.cfg.MaxTurns; turnNumber++ {
		if err := r.runTurn(ctx, turnNumber); err != nil {
			log.Printf("[debate] turn %d failed: %v", turnNumber, err)
			generationErr = err
			r.state = modeldebate.StateAborted
			break
		}
	}
	if r.state == modeldebate.StateRunning {
		r.state = modeldebate.StateCompleted
	}

	outcome := r.finalize(generationErr)

	// Subscribers learn the terminal state even when persistence fails; the
	// outcome exists in memory regardless of what reached disk.
	persistErr := r.persist(outcome)
	r.emit(Event{Type: EventComplete, State: r.state, Outcome: outcome})
	return outcome, persistErr
}

func (r *Runner) runTurn(ctx context.Context, turnNumber int) error {
	speaker := r.speakerFor(turnNumber)
	role := roleFor(turnNumber)
	r.emit(Event{Type: EventTurnStart, State: r.state, TurnNumber: turnNumber, Speaker: speaker.Name, Role: role})

	prompt := protocol.TurnPrompt(protocol.TurnInput{
		History:        r.manager.History(),
		CurrentSpeaker: speaker.Name,
		Opponent:       r.opponentFor(turnNumber),
		TurnNumber:     turnNumber,
		Topic:          r.cfg.Topic,
	})
	if turnNumber%solutionPushEvery == 0 {
		prompt += synthesisPushInstruction
	}

	generator := r.cfg.Generators[speaker.Name]
	result, err := generator.Generate(ctx, prompt, generate.Options{
		MaxTokens:   r.cfg.MaxTokens,
		Temperature: r.cfg.Temperature,
	})
	if err != nil {
		return err
	}

	content := strings.TrimSpace(result.Content)
	energy := round3(rhetoric.ScoreDisagreementEnergy(content, nil))
	cruxes := rhetoric.ExtractCruxQuestions(content)

	turn := modeldebate.Turn{
		Number:             turnNumber,
		Speaker:            speaker.Name,
		Role:               role,
		Content:            content,
		TokensUsed:         result.TokensUsed,
		LatencyMS:          result.LatencyMS,
		DisagreementEnergy: energy,
		Cruxes:             cruxes,
		Timestamp:          time.Now().UTC(),
	}

	r.log.Turns = append(r.log.Turns, turn)
	r.manager.AddTurn(turn.Speaker, turn.Content, turn.Number)

	r.log.Metadata.TotalTokens += turn.TokensUsed
	r.log.Metadata.TotalLatencyMS += turn.LatencyMS
	r.log.Metadata.EnergyHistory = append(r.log.Metadata.EnergyHistory, energy)

	r.emit(Event{Type: EventTurn, State: r.state, TurnNumber: turnNumber, Speaker: turn.Speaker, Role: role, Turn: &turn})
	return nil
}

// finalize always runs, whatever state the loop ended in.
func (r *Runner) finalize(generationErr error) *Outcome {
	r.log.EndTime = time.Now().UTC()
	if len(r.log.Metadata.EnergyHistory) > 0 {
		sum := 0.0
		for _, energy := range r.log.Metadata.EnergyHistory {
			sum += energy
		}
		r.log.Metadata.AvgDisagreementEnergy = round3(sum / float64(len(r.log.Metadata.EnergyHistory)))
	}

	solution := ExtractSolution(r.log.Turns)

	return &Outcome{
		Log:           &r.log,
		State:         r.state,
		Solution:      solution,
		GenerationErr: generationErr,
	}
}

func (r *Runner) persist(outcome *Outcome) error {
	doc := ComposeSolutionDocument(r.cfg.Topic, r.log.Turns, outcome.Solution, r.cfg.MaxTurns, r.writer.LogPathHint())
	outcome.SolutionDoc = doc

	solutionPath, err := r.writer.WriteSolution(doc)
	if err != nil {
		return fmt.Errorf("failed to write solution document: %w", err)
	}
	outcome.SolutionPath = solutionPath

	logPath, err := r.writer.WriteLog(&r.log)
	if err != nil {
		return fmt.Errorf("failed to write debate log: %w", err)
	}
	outcome.LogPath = logPath

	log.Printf("[debate] session finished state=%s turns=%d tokens=%d", r.state, len(r.log.Turns), r.log.Metadata.TotalTokens)
	return nil
}

func (r *Runner) snapshot() modeldebate.ConfigSnapshot {
	participants := make(map[string]modeldebate.ParticipantSnapshot, len(r.cfg.Participants))
	for _, p := range r.cfg.Participants {
		participants[p.Name] = modeldebate.ParticipantSnapshot{Role: p.Role, Model: p.Model}
	}

	return modeldebate.ConfigSnapshot{
		Topic:        r.cfg.Topic,
		MaxTurns:     r.cfg.MaxTurns,
		MaxTokens:    r.cfg.MaxTokens,
		Temperature:  r.cfg.Temperature,
		Participants: participants,
		OutputDir:    r.cfg.OutputDir,
	}
}

// speakerFor rotates through the roster in order; a single-entry roster is
// pure self-play.
func (r *Runner) speakerFor(turnNumber int) participant.Participant {
	return r.cfg.Participants[(turnNumber-1)%len(r.cfg.Participants)]
}

func (r *Runner) opponentFor(turnNumber int) string {
	if len(r.cfg.Participants) == 1 {
		return r.cfg.Participants[0].Name + " (alternate persona)"
	}
	return r.cfg.Participants[turnNumber%len(r.cfg.Participants)].Name
}

// roleFor derives the transient persona label from turn parity. It is a
// presentation label, not a separate participant.
func roleFor(turnNumber int) string {
	if turnNumber%2 == 1 {
		return roleSkeptical
	}
	return roleSynthesis
}

func (r *Runner) emit(event Event) {
	if r.cfg.Observer != nil {
		r.cfg.Observer(event)
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// Package debate exposes debate sessions over REST, SSE and WebSocket.
package debate

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mirrormax/backend/internal/config"
	"github.com/mirrormax/backend/internal/generate"
	modeldebate "github.com/mirrormax/backend/internal/model/debate"
	"github.com/mirrormax/backend/internal/model/participant"
	debateservice "github.com/mirrormax/backend/internal/service/debate"
	"github.com/mirrormax/backend/pkg/utils"
)

// Handler launches and reports debate sessions.
type Handler struct {
	cfg          config.DebateConfig
	store        *debateservice.Store
	participants participant.Store
	generator    generate.Generator
}

// New creates the debate handler. The generator is shared across sessions;
// each session still runs its own strictly sequential loop.
func New(cfg config.DebateConfig, store *debateservice.Store, participants participant.Store, generator generate.Generator) *Handler {
	return &Handler{
		cfg:          cfg,
		store:        store,
		participants: participants,
		generator:    generator,
	}
}

// RegisterRoutes registers the REST routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/debates", h.handleCreateDebate)
	r.Get("/debates", h.handleListDebates)
	r.Get("/debates/{debateID}", h.handleGetDebate)
}

type createRequest struct {
	Topic    string `json:"topic"`
	MaxTurns int    `json:"maxTurns"`
}

func (h *Handler) handleCreateDebate(w http.ResponseWriter, r *http.Request) {
	var payload createRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	topic := payload.Topic
	if topic == "" {
		topic = h.cfg.Topic
	}
	maxTurns := h.cfg.MaxTurns
	if payload.MaxTurns > 0 {
		maxTurns = payload.MaxTurns
	}

	session, err := h.store.Create(r.Context(), topic)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	runner, err := h.newRunner(session.ID, topic, maxTurns)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// The session outlives the HTTP request; the loop itself stays strictly
	// sequential inside its own goroutine.
	go func() {
		if _, err := runner.Run(context.Background()); err != nil {
			log.Printf("[api] session %s persistence failed: %v", session.ID, err)
		}
	}()

	utils.RespondJSON(w, http.StatusCreated, session)
}

func (h *Handler) newRunner(sessionID, topic string, maxTurns int) (*debateservice.Runner, error) {
	roster := h.participants.List()
	generators := make(map[string]generate.Generator, len(roster))
	for _, p := range roster {
		generators[p.Name] = h.generator
	}

	return debateservice.NewRunner(debateservice.RunnerConfig{
		Topic:        topic,
		MaxTurns:     maxTurns,
		MaxTokens:    h.cfg.MaxTokens,
		Temperature:  h.cfg.Temperature,
		OutputDir:    h.cfg.OutputDir,
		Participants: roster,
		Generators:   generators,
		Observer: func(event debateservice.Event) {
			h.store.Publish(sessionID, event)
		},
	})
}

func (h *Handler) handleListDebates(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.store.List(r.Context()))
}

type sessionResponse struct {
	Session modeldebate.Session `json:"session"`
	Log     *modeldebate.Log    `json:"log,omitempty"`
	Solution string             `json:"solution,omitempty"`
}

func (h *Handler) handleGetDebate(w http.ResponseWriter, r *http.Request) {
	debateID := chi.URLParam(r, "debateID")

	session, err := h.store.Get(r.Context(), debateID)
	if err != nil {
		if errors.Is(err, debateservice.ErrSessionNotFound) {
			utils.RespondError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response := sessionResponse{Session: session}
	if outcome, ok := h.store.Outcome(r.Context(), debateID); ok {
		response.Log = outcome.Log
		response.Solution = outcome.Solution
	}

	utils.RespondJSON(w, http.StatusOK, response)
}

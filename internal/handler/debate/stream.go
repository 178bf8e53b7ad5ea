package debate

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	modeldebate "github.com/mirrormax/backend/internal/model/debate"
	debateservice "github.com/mirrormax/backend/internal/service/debate"
	"github.com/mirrormax/backend/pkg/utils"
)

// RegisterStreamRoutes registers the SSE live feed.
func (h *Handler) RegisterStreamRoutes(r chi.Router) {
	r.Get("/debates/{debateID}/stream", h.handleStreamDebate)
}

// handleStreamDebate replays runner events to the client as SSE until the
// session completes or the client disconnects.
func (h *Handler) handleStreamDebate(w http.ResponseWriter, r *http.Request) {
	debateID := chi.URLParam(r, "debateID")

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	events, cancel, err := h.store.Subscribe(debateID)
	if err != nil {
		if errors.Is(err, debateservice.ErrSessionNotFound) {
			utils.RespondError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer cancel()

	utils.SetupSSEHeaders(w)
	utils.SendSSEEvent(w, flusher, "status", map[string]string{"message": "stream established"})

	ctx := r.Context()
	log.Printf("[sse] opening debate stream for session=%s", debateID)

	for {
		select {
		case <-ctx.Done():
			log.Printf("[sse] closing debate stream for session=%s", debateID)
			return
		case event, open := <-events:
			if !open {
				return
			}
			utils.SendSSEEvent(w, flusher, event.Type, event)
			if event.Type == debateservice.EventComplete {
				h.sendFinalSolution(ctx, w, flusher, debateID)
				return
			}
		}
	}
}

func (h *Handler) sendFinalSolution(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, debateID string) {
	outcome, ok := h.store.Outcome(ctx, debateID)
	if !ok {
		return
	}
	utils.SendSSEEvent(w, flusher, "solution", map[string]any{
		"state":    outcome.State,
		"solution": outcome.Solution,
		"aborted":  outcome.State == modeldebate.StateAborted,
	})
}

package participant

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mirrormax/backend/internal/model/participant"
	"github.com/mirrormax/backend/pkg/utils"
)

// Handler exposes the configured debate roster.
type Handler struct {
	participants participant.Store
}

// New creates a participant handler.
func New(participants participant.Store) *Handler {
	return &Handler{participants: participants}
}

// RegisterRoutes registers participant routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/participants", h.handleListParticipants)
}

func (h *Handler) handleListParticipants(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.participants.List())
}

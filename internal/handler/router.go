package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mirrormax/backend/internal/config"
	"github.com/mirrormax/backend/internal/generate"
	debateHandler "github.com/mirrormax/backend/internal/handler/debate"
	participantHandler "github.com/mirrormax/backend/internal/handler/participant"
	middlewarePkg "github.com/mirrormax/backend/internal/middleware"
	participantModel "github.com/mirrormax/backend/internal/model/participant"
	debateService "github.com/mirrormax/backend/internal/service/debate"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(cfg config.DebateConfig, store *debateService.Store, participants participantModel.Store, generator generate.Generator) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	participantH := participantHandler.New(participants)
	debateH := debateHandler.New(cfg, store, participants, generator)
	wsH := debateHandler.NewWebSocketHandler(store)

	r.Route("/api", func(api chi.Router) {
		participantH.RegisterRoutes(api)
		debateH.RegisterRoutes(api)
		debateH.RegisterStreamRoutes(api)
		wsH.RegisterWebSocketRoutes(api)
	})

	return r
}

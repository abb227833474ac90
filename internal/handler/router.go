package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cloudy-assistant/backend/internal/config"
	"github.com/cloudy-assistant/backend/internal/handler/gateway"
	roomHandler "github.com/cloudy-assistant/backend/internal/handler/room"
	middlewarePkg "github.com/cloudy-assistant/backend/internal/middleware"
	roomService "github.com/cloudy-assistant/backend/internal/service/room"
	sessionService "github.com/cloudy-assistant/backend/internal/service/session"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(cfg *config.Config, orchestrator *sessionService.Orchestrator, registry *sessionService.Registry, tokens *roomService.TokenIssuer) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(cfg.CORS.Origins))

	gatewayHandler := gateway.New(orchestrator, registry, tokens, cfg.Room)
	wsHandler := gateway.NewWebSocketHandler(gatewayHandler)
	restHandler := roomHandler.New(tokens, registry)

	r.Route("/api/v1", func(api chi.Router) {
		restHandler.RegisterRoutes(api)
		wsHandler.RegisterRoutes(api)
	})

	return r
}

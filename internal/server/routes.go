package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/gmichnikov/nl-2-sports-schedule/internal/agent"
	"github.com/gmichnikov/nl-2-sports-schedule/internal/config"
	"github.com/gmichnikov/nl-2-sports-schedule/internal/handler"
	"github.com/gmichnikov/nl-2-sports-schedule/internal/middleware"
	"github.com/gmichnikov/nl-2-sports-schedule/internal/planner"
	"github.com/gmichnikov/nl-2-sports-schedule/internal/security"
	"github.com/gmichnikov/nl-2-sports-schedule/internal/service"
)

func (s *Server) setupRoutes() (http.Handler, error) {
	cfg := s.cfg

	dolt := service.NewDoltService(cfg.DoltBaseURL, cfg.DoltOwner, cfg.DoltRepo, cfg.DoltBranch, config.DefaultQueryTimeout)

	sqlVal := security.NewSQLValidator()
	audit := security.NewAuditLogger(cfg.EnableAuditLogging)

	var askH *handler.AskHandler
	if cfg.AnthropicAPIKey != "" {
		p := planner.NewAnthropic(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.AnthropicBaseURL)
		loop := agent.New(p, dolt, dolt, agent.Options{
			MaxSteps:    cfg.MaxSteps,
			ErrorBudget: cfg.ErrorBudget,
		})
		askH = handler.NewAskHandler(loop, audit)
	} else {
		log.Warn().Msg("ANTHROPIC_API_KEY not set - /api/v1/ask disabled")
	}

	healthH := handler.NewHealthHandler(dolt)
	queryH := handler.NewQueryHandler(dolt, sqlVal, audit)
	schemaH := handler.NewSchemaHandler(dolt)

	log.Info().
		Str("dolt_repo", cfg.DoltOwner+"/"+cfg.DoltRepo).
		Bool("agent_enabled", askH != nil).
		Bool("auth_enabled", cfg.EnableAuth && len(cfg.APIKeys) > 0).
		Msg("service configuration")

	r := chi.NewRouter()

	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSOrigins)))
	r.Use(chiMiddleware.RealIP)

	r.Get("/health", healthH.Health)
	r.Get("/", healthH.Health)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute))
		if cfg.EnableAuth && len(cfg.APIKeys) > 0 {
			r.Use(middleware.Auth(cfg.APIKeys, cfg.APIKeyHeader))
		}

		r.Route(cfg.APIPrefix, func(r chi.Router) {
			r.Post("/query", queryH.Execute)
			r.Get("/schema", schemaH.Schema)
			if askH != nil {
				r.Post("/ask", askH.Ask)
			}
		})
	})

	return r, nil
}

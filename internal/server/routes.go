package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/print-quote-service/internal/advisor"
	"github.com/fleveque/print-quote-service/internal/config"
	"github.com/fleveque/print-quote-service/internal/handler"
	"github.com/fleveque/print-quote-service/internal/middleware"
	"github.com/fleveque/print-quote-service/internal/service"
	"github.com/fleveque/print-quote-service/internal/storage"
)

// Deps holds the services and repositories the routes are built from.
type Deps struct {
	Quotes      *service.QuoteService
	Sessions    *service.SessionService
	Artwork     *service.ArtworkInspector
	Advisor     *advisor.Advisor
	QuoteRepo   storage.QuoteRepository
	SessionRepo storage.SessionRepository
	AdviceRepo  storage.AdviceCallRepository
}

// RegisterRoutes sets up all HTTP routes on the Gin engine.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, deps Deps, logger *zap.Logger) {
	healthHandler := handler.NewHealthHandler()
	catalogHandler := handler.NewCatalogHandler(deps.Quotes.Catalog())
	quoteHandler := handler.NewQuoteHandler(deps.Quotes, logger)
	sessionHandler := handler.NewSessionHandler(deps.Sessions, deps.Quotes, logger)
	artworkHandler := handler.NewArtworkHandler(deps.Artwork, sessionHandler, cfg.Upload.MaxBytes, logger)
	adviceHandler := handler.NewAdviceHandler(deps.Advisor, deps.Quotes, logger)
	adminHandler := handler.NewAdminHandler(deps.QuoteRepo, deps.SessionRepo, deps.AdviceRepo, deps.Sessions, logger)

	// CORS sits on the engine so preflight requests for routes that only
	// define GET or POST still reach it.
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	r.GET("/healthz", healthHandler.Healthz)

	api := r.Group("/api/v1")

	authed := api.Group("")
	authed.Use(middleware.APIKeyAuth(cfg.Auth.APIKeys))
	authed.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	{
		authed.GET("/catalog", catalogHandler.Get)

		authed.POST("/quotes/evaluate", quoteHandler.Evaluate)
		authed.POST("/quotes", quoteHandler.Create)
		authed.GET("/quotes/:id", quoteHandler.Get)

		authed.GET("/sessions/:id", sessionHandler.Get)
		authed.POST("/sessions/:id/actions", sessionHandler.Apply)
		authed.DELETE("/sessions/:id", sessionHandler.Delete)

		authed.POST("/artwork", artworkHandler.Upload)
		authed.GET("/artwork/:id/preview", artworkHandler.Preview)

		authed.POST("/advice", adviceHandler.Advise)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AdminKeyAuth(cfg.Auth.AdminKeys))
	{
		admin.GET("/stats", adminHandler.Stats)
	}
}

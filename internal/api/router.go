package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cuixiaoyuan/fundflow/internal/api/handlers"
	custommiddleware "github.com/cuixiaoyuan/fundflow/internal/api/middleware"
	"github.com/cuixiaoyuan/fundflow/internal/config"
	"github.com/cuixiaoyuan/fundflow/internal/ratelimit"
	"github.com/cuixiaoyuan/fundflow/internal/service"
)

// Services bundles the service dependencies the router wires into handlers.
type Services struct {
	System    *service.SystemService
	Auth      *service.AuthService
	Watchlist *service.WatchlistService
	Ledger    *service.LedgerService
	Report    *service.ReportService
	FundFlow  *service.FundFlowService
	Feed      *service.FeedService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	requireSession := custommiddleware.RequireSession(svc.Auth)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System)
			r.Get("/health", systemHandler.Health)
		})

		r.Route("/auth", func(r chi.Router) {
			authHandler := handlers.NewAuthHandler(svc.Auth)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.With(requireSession).Post("/rss-token/reset", authHandler.ResetRSSToken)
		})

		r.Route("/trade", func(r chi.Router) {
			tradeHandler := handlers.NewTradeHandler(svc.Ledger)
			r.Use(requireSession)
			r.Post("/", tradeHandler.CreateTrade)
			r.Get("/", tradeHandler.ListTrades)
			r.Get("/{uuid}", tradeHandler.GetTrade)
		})

		r.Route("/watchlist", func(r chi.Router) {
			watchlistHandler := handlers.NewWatchlistHandler(svc.Watchlist)
			r.Use(requireSession)
			r.Get("/", watchlistHandler.GetWatchlist)
			r.Put("/", watchlistHandler.SaveWatchlist)
		})

		r.Route("/report", func(r chi.Router) {
			reportHandler := handlers.NewReportHandler(svc.Report)
			r.Use(requireSession)
			r.Get("/", reportHandler.GetReport)
		})

		r.Route("/fund-flow", func(r chi.Router) {
			fundFlowHandler := handlers.NewFundFlowHandler(svc.FundFlow)
			r.Get("/", fundFlowHandler.GetDaily)
			r.Get("/latest", fundFlowHandler.GetLatest)
		})
	})

	// Public feed routes, token-authenticated and rate limited. The
	// catch-all prefixed form is registered last so /api keeps priority.
	limiter := ratelimit.New(cfg.Feed.RateLimit, cfg.Feed.RateWindow)
	rssHandler := handlers.NewRSSHandler(svc.Feed, limiter)
	r.Get("/u/{token}.rss", rssHandler.UserFeed)
	r.Get("/{prefix}/{token}.rss", rssHandler.PrefixedFeed)

	return r
}

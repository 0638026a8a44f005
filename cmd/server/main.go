package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fernet/fernet-go"

	"github.com/cuixiaoyuan/fundflow/internal/api"
	"github.com/cuixiaoyuan/fundflow/internal/auth"
	"github.com/cuixiaoyuan/fundflow/internal/config"
	"github.com/cuixiaoyuan/fundflow/internal/database"
	"github.com/cuixiaoyuan/fundflow/internal/eastmoney"
	"github.com/cuixiaoyuan/fundflow/internal/repository"
	"github.com/cuixiaoyuan/fundflow/internal/scheduler"
	"github.com/cuixiaoyuan/fundflow/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Session key: configured, or ephemeral (sessions then die on restart)
	sessionKey := cfg.Session.Key
	if sessionKey == "" {
		var key fernet.Key
		if err := key.Generate(); err != nil {
			log.Fatalf("Failed to generate session key: %v", err)
		}
		sessionKey = key.Encode()
		log.Println("SESSION_KEY not set; using an ephemeral key")
	}
	tokens, err := auth.NewTokenManager(sessionKey, cfg.Session.TTL)
	if err != nil {
		log.Fatalf("Failed to initialize session tokens: %v", err)
	}

	// Create repositories
	userRepo := repository.NewUserRepository(db)
	watchlistRepo := repository.NewWatchlistRepository(db)
	tradeRepo := repository.NewTradeRepository(db)
	flowRepo := repository.NewFundFlowRepository(db)

	market := eastmoney.NewClient()

	// Create services
	systemService := service.NewSystemService(db, cfg)
	authService := service.NewAuthService(userRepo, tokens, cfg.Feed.TokenHashOnly)
	watchlistService := service.NewWatchlistService(watchlistRepo)
	ledgerService := service.NewLedgerService(tradeRepo)
	reportService := service.NewReportService(tradeRepo, watchlistRepo, market)
	fundFlowService := service.NewFundFlowService(flowRepo)
	feedService := service.NewFeedService(userRepo, watchlistRepo, reportService, market, cfg.Feed.Prefix)

	// Create router
	router := api.NewRouter(api.Services{
		System:    systemService,
		Auth:      authService,
		Watchlist: watchlistService,
		Ledger:    ledgerService,
		Report:    reportService,
		FundFlow:  fundFlowService,
		Feed:      feedService,
	}, cfg)

	// Background jobs
	if cfg.Scheduler.Enabled {
		jobs, err := scheduler.New(cfg.Scheduler, watchlistRepo, flowRepo, market)
		if err != nil {
			log.Fatalf("Failed to initialize scheduler: %v", err)
		}
		jobs.Start()
		defer jobs.Stop()
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

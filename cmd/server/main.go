package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ndewijer/Fund-Ledger-Backend/internal/api"
	"github.com/ndewijer/Fund-Ledger-Backend/internal/config"
	"github.com/ndewijer/Fund-Ledger-Backend/internal/database"
	"github.com/ndewijer/Fund-Ledger-Backend/internal/logging"
	"github.com/ndewijer/Fund-Ledger-Backend/internal/repository"
	"github.com/ndewijer/Fund-Ledger-Backend/internal/scheduler"
	"github.com/ndewijer/Fund-Ledger-Backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger := logging.New(logging.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	logging.SetGlobalLogger(logger)

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o750); err != nil {
		log.Fatal().Err(err).Str("path", cfg.Database.Path).Msg("Failed to create database directory")
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	log.Info().Str("path", cfg.Database.Path).Msg("Connected to database")

	// Create repositories
	transactionRepo := repository.NewTransactionRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)

	// Create services
	summaryCache := service.NewSummaryCache(snapshotRepo, logger)
	systemService := service.NewSystemService(db)
	transactionService := service.NewTransactionService(transactionRepo, summaryCache)
	quoteService := service.NewQuoteService(quoteRepo, summaryCache)
	summaryService := service.NewSummaryService(
		transactionRepo,
		quoteService,
		summaryCache,
		logger,
		service.SummaryOptions{
			Workers:          cfg.Summary.Workers,
			ValuationTimeout: cfg.Valuation.Timeout,
			ComputeTimeout:   2 * cfg.Valuation.Timeout,
		},
	)

	// Scheduled refresh keeps the daily summary warm
	sched := scheduler.New(logger)
	refreshJob := service.NewSummaryRefreshJob(summaryService, 2*cfg.Valuation.Timeout)
	if err := sched.AddJob(cfg.Summary.RefreshSchedule, refreshJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule summary refresh")
	}
	sched.Start()

	// Warm today's summary without delaying startup
	go func() {
		if err := sched.RunNow(refreshJob); err != nil {
			log.Warn().Err(err).Msg("Initial summary refresh failed")
		}
	}()

	// Create router
	router := api.NewRouter(systemService, summaryService, transactionService, quoteService, logger, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Valuation.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	sched.Stop()

	log.Info().Msg("Server exited")
}

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ndewijer/Fund-Ledger-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Fund-Ledger-Backend/internal/api/middleware"
	"github.com/ndewijer/Fund-Ledger-Backend/internal/config"
	"github.com/ndewijer/Fund-Ledger-Backend/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	summaryService *service.SummaryService,
	transactionService *service.TransactionService,
	quoteService *service.QuoteService,
	log zerolog.Logger,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(log))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
		})

		r.Route("/fund", func(r chi.Router) {
			summaryHandler := handlers.NewSummaryHandler(summaryService)
			r.Get("/summary", summaryHandler.Summary)

			r.Route("/transactions", func(r chi.Router) {
				transactionHandler := handlers.NewTransactionHandler(transactionService)
				r.Get("/", transactionHandler.AllTransactions)
				r.Post("/", transactionHandler.CreateTransaction)
				r.Delete("/", transactionHandler.ClearTransactions)

				r.Route("/{uuid}", func(r chi.Router) {
					r.Use(custommiddleware.ValidateUUIDMiddleware)
					r.Get("/", transactionHandler.GetTransaction)
					r.Put("/", transactionHandler.UpdateTransaction)
					r.Delete("/", transactionHandler.DeleteTransaction)
				})
			})

			r.Route("/quotes", func(r chi.Router) {
				quoteHandler := handlers.NewQuoteHandler(quoteService)
				r.Get("/", quoteHandler.Quotes)

				r.With(custommiddleware.ValidateCodeMiddleware).Put("/{code}", quoteHandler.UpsertQuote)
			})
		})
	})

	return r
}

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Fund-Ledger-Backend/internal/api/request"
	"github.com/ndewijer/Fund-Ledger-Backend/internal/api/response"
	"github.com/ndewijer/Fund-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Ledger-Backend/internal/service"
	"github.com/ndewijer/Fund-Ledger-Backend/internal/validation"
)

// QuoteHandler handles HTTP requests for stored instrument valuations.
type QuoteHandler struct {
	quoteService *service.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler with the provided service dependency.
func NewQuoteHandler(quoteService *service.QuoteService) *QuoteHandler {
	return &QuoteHandler{
		quoteService: quoteService,
	}
}

// Quotes handles GET requests to list every stored quote.
//
// Endpoint: GET /api/fund/quotes
// Response: 200 OK with array of Quote
// Error: 500 Internal Server Error if retrieval fails
func (h *QuoteHandler) Quotes(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.quoteService.ListQuotes(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveQuotes.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, quotes)
}

// UpsertQuote handles PUT requests that record the latest valuation of one instrument.
//
// Endpoint: PUT /api/fund/quotes/{code}
// Request Body: UpsertQuoteRequest (name, netWorth, netWorthDate, expectWorth, expectWorthDate)
// Response: 200 OK with Quote
// Error: 400 Bad Request if the code (validated by middleware) or the body is invalid
// Error: 500 Internal Server Error if saving fails
func (h *QuoteHandler) UpsertQuote(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	req, err := parseJSON[request.UpsertQuoteRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpsertQuote(code, req); err != nil {
		respondValidation(w, err)
		return
	}

	quote, err := h.quoteService.UpsertQuote(r.Context(), code, req)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToSaveQuote.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, quote)
}

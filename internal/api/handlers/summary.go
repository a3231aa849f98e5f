package handlers

import (
	"net/http"

	"github.com/ndewijer/Fund-Ledger-Backend/internal/api/request"
	"github.com/ndewijer/Fund-Ledger-Backend/internal/api/response"
	"github.com/ndewijer/Fund-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Ledger-Backend/internal/service"
)

// SummaryHandler serves the portfolio summary.
type SummaryHandler struct {
	summaryService *service.SummaryService
}

// NewSummaryHandler creates a new SummaryHandler with the provided service dependency.
func NewSummaryHandler(summaryService *service.SummaryService) *SummaryHandler {
	return &SummaryHandler{
		summaryService: summaryService,
	}
}

// Summary handles GET requests for the portfolio summary.
// Missing prices and unsolvable returns are reported as null fields in a
// 200 response; only a ledger that cannot be read fails the request.
//
// Endpoint: GET /api/fund/summary
// Query: refresh=true recomputes instead of serving today's cached summary
// Response: 200 OK with PortfolioSummary
// Error: 400 Bad Request if refresh is not a boolean
// Error: 500 Internal Server Error if the ledger cannot be loaded
func (h *SummaryHandler) Summary(w http.ResponseWriter, r *http.Request) {
	refresh, err := request.ParseRefresh(r.URL.Query().Get("refresh"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid query parameter", err.Error())
		return
	}

	summary, err := h.summaryService.GetSummary(r.Context(), refresh)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToGetSummary.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}

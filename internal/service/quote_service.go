package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ndewijer/Fund-Ledger-Backend/internal/api/request"
	"github.com/ndewijer/Fund-Ledger-Backend/internal/ledger"
	"github.com/ndewijer/Fund-Ledger-Backend/internal/model"
	"github.com/ndewijer/Fund-Ledger-Backend/internal/repository"
)

// QuoteService manages stored valuations and serves them to the summary
// computation. It implements Valuer.
type QuoteService struct {
	quoteRepo *repository.QuoteRepository
	cache     *SummaryCache
	now       func() time.Time
}

// NewQuoteService creates a new QuoteService. cache may be nil.
func NewQuoteService(quoteRepo *repository.QuoteRepository, cache *SummaryCache) *QuoteService {
	return &QuoteService{
		quoteRepo: quoteRepo,
		cache:     cache,
		now:       time.Now,
	}
}

// Quotes returns the stored quotes for codes in one batched query.
// Codes are normalized to their zero-padded form first.
func (s *QuoteService) Quotes(ctx context.Context, codes []string) (map[string]model.Quote, error) {
	normalized := make([]string, len(codes))
	for i, code := range codes {
		normalized[i] = ledger.NormalizeCode(code)
	}
	return s.quoteRepo.GetQuotes(ctx, normalized)
}

// ListQuotes returns every stored quote.
func (s *QuoteService) ListQuotes(ctx context.Context) ([]model.Quote, error) {
	return s.quoteRepo.ListQuotes(ctx)
}

// UpsertQuote stores the valuation of code and drops the cached summary,
// which was computed with the previous price.
func (s *QuoteService) UpsertQuote(ctx context.Context, code string, req request.UpsertQuoteRequest) (*model.Quote, error) {
	quote := model.Quote{
		Code:            ledger.NormalizeCode(code),
		Name:            req.Name,
		NetWorth:        req.NetWorth,
		NetWorthDate:    req.NetWorthDate,
		ExpectWorth:     req.ExpectWorth,
		ExpectWorthDate: req.ExpectWorthDate,
		UpdatedAt:       s.now().UTC(),
	}

	if err := s.quoteRepo.UpsertQuote(ctx, quote); err != nil {
		return nil, fmt.Errorf("failed to save quote: %w", err)
	}

	invalidate(ctx, s.cache)
	return &quote, nil
}

// invalidate drops the cached summary after a write. Failing to delete the
// stored snapshot only delays freshness until the next day or refresh.
func invalidate(ctx context.Context, cache *SummaryCache) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx); err != nil {
		cache.log.Error().Err(err).Msg("Failed to invalidate summary cache")
	}
}

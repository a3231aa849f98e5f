package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/ndewijer/Fund-Ledger-Backend/internal/ledger"
	"github.com/ndewijer/Fund-Ledger-Backend/internal/model"
)

const (
	dayLayout      = "2006-01-02"
	moneyPlaces    = 2
	costPlaces     = 4
	ratePlaces     = 6
	defaultWorkers = 4
)

// SummaryOptions tunes a SummaryService. Zero values select defaults.
type SummaryOptions struct {
	// Workers bounds concurrent per-instrument return solves.
	Workers int
	// ValuationTimeout bounds the single valuation lookup of a computation.
	ValuationTimeout time.Duration
	// ComputeTimeout bounds a shared computation started by GetSummary.
	// Defaults to twice ValuationTimeout.
	ComputeTimeout time.Duration
	// Now is the clock used for terminal flows and the cache day.
	Now func() time.Time
}

// SummaryService computes the portfolio summary from the transaction ledger
// and the current valuations.
type SummaryService struct {
	transactions TransactionSource
	valuer       Valuer
	cache        *SummaryCache
	log          zerolog.Logger

	workers          int
	valuationTimeout time.Duration
	computeTimeout   time.Duration
	now              func() time.Time

	flight singleflight.Group
}

// NewSummaryService creates a new SummaryService. cache may be nil, in which
// case every request computes a fresh summary.
func NewSummaryService(
	transactions TransactionSource,
	valuer Valuer,
	cache *SummaryCache,
	log zerolog.Logger,
	opts SummaryOptions,
) *SummaryService {
	s := &SummaryService{
		transactions:     transactions,
		valuer:           valuer,
		cache:            cache,
		log:              log.With().Str("component", "summary").Logger(),
		workers:          opts.Workers,
		valuationTimeout: opts.ValuationTimeout,
		computeTimeout:   opts.ComputeTimeout,
		now:              opts.Now,
	}
	if s.workers < 1 {
		s.workers = defaultWorkers
	}
	if s.valuationTimeout <= 0 {
		s.valuationTimeout = 20 * time.Second
	}
	if s.computeTimeout <= 0 {
		s.computeTimeout = 2 * s.valuationTimeout
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// GetSummary returns today's summary, from the cache unless refresh is set.
//
// Concurrent callers that miss the cache share one computation as long as no
// write invalidated the cache in between; a caller arriving after a write
// starts a new one. The shared computation does not inherit the cancellation
// of the caller that started it and is bounded by ComputeTimeout instead.
func (s *SummaryService) GetSummary(ctx context.Context, refresh bool) (*model.PortfolioSummary, error) {
	var generation uint64
	if s.cache != nil {
		generation = s.cache.Generation()
		if !refresh {
			if summary, ok := s.cache.Get(ctx, s.now().Format(dayLayout)); ok {
				return summary, nil
			}
		}
	}

	key := "summary:" + strconv.FormatUint(generation, 10)
	v, err, _ := s.flight.Do(key, func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.computeTimeout)
		defer cancel()
		return s.Refresh(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.PortfolioSummary), nil
}

// Refresh computes a new summary and caches it when valuation succeeded and
// no write invalidated the cache while it was being computed.
// A failure to cache is logged, not returned.
func (s *SummaryService) Refresh(ctx context.Context) (*model.PortfolioSummary, error) {
	var generation uint64
	if s.cache != nil {
		generation = s.cache.Generation()
	}

	summary, err := s.Compute(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && summary.ValuationAvailable {
		if _, err := s.cache.Put(ctx, summary, generation); err != nil {
			s.log.Error().Err(err).Str("day", summary.Day).Msg("Failed to cache summary")
		}
	}
	return summary, nil
}

// Compute replays the ledger, values it and solves returns per instrument
// and for the portfolio. Only a failure to read the ledger is an error;
// missing prices, a failed valuation lookup and unsolvable returns show up
// as nil fields in the result.
func (s *SummaryService) Compute(ctx context.Context) (*model.PortfolioSummary, error) {
	began := time.Now()
	now := s.now()

	records, err := s.transactions.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	res := ledger.Replay(records)
	for _, a := range res.Anomalies {
		s.log.Warn().
			Str("kind", string(a.Kind)).
			Str("code", a.Code).
			Str("transaction_id", a.TransactionID).
			Str("date", a.Date).
			Float64("shares", a.Shares).
			Msg("Ledger anomaly")
	}

	openCodes := res.OpenCodes()
	closedCodes := res.ClosedCodes()
	quotes, valuationOK := s.lookup(ctx, append(append([]string{}, openCodes...), closedCodes...))

	holdings := make([]model.InstrumentPerformance, len(openCodes))
	closed := make([]model.ClosedPerformance, len(closedCodes))

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, code := range openCodes {
		g.Go(func() error {
			quote, known := quotes[code]
			holdings[i] = s.openPerformance(code, res.Trail[code], res.Holdings[code], quote, known, valuationOK, now)
			return nil
		})
	}
	for i, code := range closedCodes {
		g.Go(func() error {
			closed[i] = s.closedPerformance(code, res.Trail[code], quotes[code], now)
			return nil
		})
	}
	_ = g.Wait()

	summary := &model.PortfolioSummary{
		Day:                     now.Format(dayLayout),
		ComputedAt:              now,
		TotalShares:             res.TotalShares(),
		TotalCost:               res.TotalCost(),
		RealizedProfit:          res.RealizedProfit,
		DividendTotal:           res.DividendTotal,
		ReinvestedDividendTotal: res.ReinvestedDividendTotal,
		TotalFee:                res.TotalFee,
		BuyCount:                res.BuyCount,
		SellCount:               res.SellCount,
		DividendCount:           res.DividendCount,
		TradeCount:              res.TradeCount,
		Holdings:                holdings,
		Closed:                  closed,
		ValuationAvailable:      valuationOK,
		UnpricedCodes:           []string{},
		Anomalies:               toDataAnomalies(res.Anomalies),
	}

	// Negative residual positions carry no market value and do not block the
	// portfolio value.
	var marketValue float64
	for _, h := range holdings {
		if h.MarketValue == nil {
			if h.Shares > 0 {
				summary.UnpricedCodes = append(summary.UnpricedCodes, h.Code)
			}
			continue
		}
		marketValue += *h.MarketValue
	}

	if valuationOK && len(summary.UnpricedCodes) == 0 {
		summary.MarketValue = &marketValue
		unrealized := marketValue - summary.TotalCost
		summary.UnrealizedProfit = &unrealized

		if summary.TotalShares > 0 {
			summary.AnnualizedReturn, summary.ReturnMethod = s.portfolioReturn(res, marketValue, now)
		}
	}

	roundSummary(summary)

	s.log.Info().
		Int("open", len(holdings)).
		Int("closed", len(closed)).
		Int("trades", summary.TradeCount).
		Int("anomalies", len(summary.Anomalies)).
		Bool("valuation_available", valuationOK).
		Strs("unpriced", summary.UnpricedCodes).
		Dur("took", time.Since(began)).
		Msg("Portfolio summary computed")

	return summary, nil
}

// lookup performs the one valuation round trip of a computation.
func (s *SummaryService) lookup(ctx context.Context, codes []string) (map[string]model.Quote, bool) {
	if len(codes) == 0 {
		return map[string]model.Quote{}, true
	}

	ctx, cancel := context.WithTimeout(ctx, s.valuationTimeout)
	defer cancel()

	quotes, err := s.valuer.Quotes(ctx, codes)
	if err != nil {
		s.log.Error().Err(err).Int("codes", len(codes)).Msg("Valuation lookup failed")
		return map[string]model.Quote{}, false
	}
	if quotes == nil {
		quotes = map[string]model.Quote{}
	}
	return quotes, true
}

func (s *SummaryService) openPerformance(
	code string,
	entries []ledger.Entry,
	h ledger.Holding,
	quote model.Quote,
	known, valuationOK bool,
	now time.Time,
) model.InstrumentPerformance {
	p := model.InstrumentPerformance{
		Code:   code,
		Name:   instrumentName(quote, entries),
		Shares: h.Shares,
		Cost:   h.Cost,
	}
	if h.Shares <= 0 {
		s.log.Warn().Str("code", code).Float64("shares", h.Shares).Msg("Negative position left unvalued")
		return p
	}
	avg := h.Cost / h.Shares
	p.AverageCost = &avg

	if !valuationOK {
		return p
	}
	price, ok := quote.ReferencePrice()
	if !known || !ok {
		s.log.Warn().Str("code", code).Bool("quote_known", known).Msg("No usable reference price")
		return p
	}

	marketValue := h.Shares * price
	unrealized := marketValue - h.Cost
	p.ReferencePrice = &price
	p.MarketValue = &marketValue
	p.UnrealizedProfit = &unrealized

	flows, ok := ledger.BuildCashFlows(entries, h.Shares, price, now)
	p.AnnualizedReturn, p.ReturnMethod = s.solve(code, entries, flows, ok, marketValue, false, now)

	s.log.Debug().
		Str("code", code).
		Float64("shares", h.Shares).
		Float64("market_value", marketValue).
		Str("method", string(p.ReturnMethod)).
		Msg("Instrument evaluated")
	return p
}

func (s *SummaryService) closedPerformance(code string, entries []ledger.Entry, quote model.Quote, now time.Time) model.ClosedPerformance {
	p := model.ClosedPerformance{
		Code:   code,
		Name:   instrumentName(quote, entries),
		Status: model.StatusClosed,
	}

	flows, ok := ledger.BuildCashFlows(entries, 0, 0, now)
	p.AnnualizedReturn, p.ReturnMethod = s.solve(code, entries, flows, ok, 0, true, now)

	s.log.Debug().Str("code", code).Str("method", string(p.ReturnMethod)).Msg("Closed instrument evaluated")
	return p
}

func (s *SummaryService) portfolioReturn(res ledger.Result, marketValue float64, now time.Time) (*float64, model.ReturnMethod) {
	flows, ok := ledger.BuildPortfolioCashFlows(res.Trail, res.TotalShares(), marketValue, now)

	var entries []ledger.Entry
	for _, code := range append(res.OpenCodes(), res.ClosedCodes()...) {
		entries = append(entries, res.Trail[code]...)
	}
	return s.solve("portfolio", entries, flows, ok, marketValue, false, now)
}

// solve tries XIRR first and the simple annualized return second.
func (s *SummaryService) solve(
	label string,
	entries []ledger.Entry,
	flows []ledger.CashFlow,
	solvable bool,
	marketValue float64,
	closed bool,
	now time.Time,
) (*float64, model.ReturnMethod) {
	if solvable {
		if rate, ok := ledger.XIRR(flows); ok {
			return &rate, model.ReturnMethodXIRR
		}
	}

	s.log.Info().Str("code", label).Int("flows", len(flows)).Msg("XIRR unavailable, using simple annualized return")

	if rate, ok := ledger.SimpleAnnualizedReturn(entries, marketValue, closed, now); ok {
		return &rate, model.ReturnMethodSimple
	}
	return nil, model.ReturnMethodNone
}

// instrumentName prefers the valuation name and falls back to the most
// recent non-empty name in the ledger.
func instrumentName(quote model.Quote, entries []ledger.Entry) string {
	if quote.Name != "" {
		return quote.Name
	}
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Name != "" {
			return entries[i].Name
		}
	}
	return ""
}

func toDataAnomalies(anomalies []ledger.Anomaly) []model.DataAnomaly {
	out := make([]model.DataAnomaly, len(anomalies))
	for i, a := range anomalies {
		out[i] = model.DataAnomaly{
			Kind:          string(a.Kind),
			Code:          a.Code,
			TransactionID: a.TransactionID,
			Date:          a.Date,
			Shares:        a.Shares,
		}
	}
	return out
}

func round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

func roundPtr(v *float64, places int32) {
	if v != nil {
		*v = round(*v, places)
	}
}

// roundSummary rounds money to cents and rates to six places for output.
// Share counts are left as they are.
func roundSummary(s *model.PortfolioSummary) {
	s.TotalCost = round(s.TotalCost, moneyPlaces)
	s.RealizedProfit = round(s.RealizedProfit, moneyPlaces)
	s.DividendTotal = round(s.DividendTotal, moneyPlaces)
	s.ReinvestedDividendTotal = round(s.ReinvestedDividendTotal, moneyPlaces)
	s.TotalFee = round(s.TotalFee, moneyPlaces)
	roundPtr(s.MarketValue, moneyPlaces)
	roundPtr(s.UnrealizedProfit, moneyPlaces)
	roundPtr(s.AnnualizedReturn, ratePlaces)

	for i := range s.Holdings {
		h := &s.Holdings[i]
		h.Cost = round(h.Cost, moneyPlaces)
		roundPtr(h.AverageCost, costPlaces)
		roundPtr(h.MarketValue, moneyPlaces)
		roundPtr(h.UnrealizedProfit, moneyPlaces)
		roundPtr(h.AnnualizedReturn, ratePlaces)
	}
	for i := range s.Closed {
		roundPtr(s.Closed[i].AnnualizedReturn, ratePlaces)
	}
}

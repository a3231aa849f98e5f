package service_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Fund-Ledger-Backend/internal/model"
	"github.com/ndewijer/Fund-Ledger-Backend/internal/testutil"
)

// seedReferenceLedger stores a buy of 100 shares for 1000 followed by a sell
// of half of them for 600 with a fee of 1.
func seedReferenceLedger(t *testing.T, db *sql.DB) {
	t.Helper()
	testutil.NewTransaction("000001").WithDate("2024-01-01").WithName("Alpha Fund").Build(t, db)
	testutil.NewTransaction("000001").WithDate("2024-07-01").Sell(50, 600).WithFee(1).Build(t, db)
}

// TestSummaryService_Compute_ReferenceScenario covers the full pipeline.
//
// WHY: This is the worked example the totals are defined against: 50 shares
// left at a cost of 500, a realized profit of 99 and a market value of 550
// at a reference price of 11.
func TestSummaryService_Compute_ReferenceScenario(t *testing.T) {
	db := testutil.SetupTestDB(t)
	seedReferenceLedger(t, db)

	valuer := testutil.NewMockValuer().WithPrice("000001", 11)
	svc := testutil.NewTestSummaryService(t, db, valuer)

	summary, err := svc.Compute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2025-01-01", summary.Day)
	assert.InDelta(t, 50, summary.TotalShares, 1e-9)
	assert.InDelta(t, 500, summary.TotalCost, 1e-9)
	assert.InDelta(t, 99, summary.RealizedProfit, 1e-9)
	assert.InDelta(t, 1, summary.TotalFee, 1e-9)
	assert.Equal(t, 1, summary.BuyCount)
	assert.Equal(t, 1, summary.SellCount)
	assert.Equal(t, 2, summary.TradeCount)
	assert.True(t, summary.ValuationAvailable)
	assert.Empty(t, summary.UnpricedCodes)
	assert.Empty(t, summary.Anomalies)

	require.NotNil(t, summary.MarketValue)
	assert.InDelta(t, 550, *summary.MarketValue, 1e-9)
	require.NotNil(t, summary.UnrealizedProfit)
	assert.InDelta(t, 50, *summary.UnrealizedProfit, 1e-9)

	require.NotNil(t, summary.AnnualizedReturn)
	assert.Equal(t, model.ReturnMethodXIRR, summary.ReturnMethod)
	assert.Greater(t, *summary.AnnualizedReturn, 0.0)
	assert.Less(t, *summary.AnnualizedReturn, 2.0)

	require.Len(t, summary.Holdings, 1)
	h := summary.Holdings[0]
	assert.Equal(t, "000001", h.Code)
	assert.Equal(t, "Test Fund 000001", h.Name)
	require.NotNil(t, h.AverageCost)
	assert.InDelta(t, 10, *h.AverageCost, 1e-9)
	require.NotNil(t, h.ReferencePrice)
	assert.InDelta(t, 11, *h.ReferencePrice, 1e-9)
	require.NotNil(t, h.AnnualizedReturn)
	assert.Equal(t, model.ReturnMethodXIRR, h.ReturnMethod)

	assert.Empty(t, summary.Closed)
}

// TestSummaryService_Compute_ValuationFailure checks degraded output.
//
// WHY: A failed price lookup must not hide the position. Shares, cost and
// realized profit come from the ledger alone; only valuation-dependent
// fields go absent.
func TestSummaryService_Compute_ValuationFailure(t *testing.T) {
	db := testutil.SetupTestDB(t)
	seedReferenceLedger(t, db)

	valuer := testutil.NewMockValuer().WithError(errors.New("quote service unavailable"))
	cache := testutil.NewTestSummaryCache(t, db)
	svc := testutil.NewTestSummaryServiceWithCache(t, db, valuer, cache)

	summary, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	assert.False(t, summary.ValuationAvailable)
	assert.InDelta(t, 50, summary.TotalShares, 1e-9)
	assert.InDelta(t, 500, summary.TotalCost, 1e-9)
	assert.InDelta(t, 99, summary.RealizedProfit, 1e-9)
	assert.Nil(t, summary.MarketValue)
	assert.Nil(t, summary.UnrealizedProfit)
	assert.Nil(t, summary.AnnualizedReturn)
	assert.Equal(t, model.ReturnMethodNone, summary.ReturnMethod)

	require.Len(t, summary.Holdings, 1)
	assert.Nil(t, summary.Holdings[0].MarketValue)
	assert.Nil(t, summary.Holdings[0].AnnualizedReturn)
	assert.NotNil(t, summary.Holdings[0].AverageCost)

	// a degraded summary is never cached
	_, ok := cache.Get(context.Background(), summary.Day)
	assert.False(t, ok)
	testutil.AssertRowCount(t, db, "summary_snapshot", 0)
}

func TestSummaryService_Compute_MissingPrice(t *testing.T) {
	db := testutil.SetupTestDB(t)
	seedReferenceLedger(t, db)
	testutil.NewTransaction("000002").WithDate("2024-03-01").WithShares(20).WithAmount(400).Build(t, db)

	valuer := testutil.NewMockValuer().
		WithPrice("000001", 11).
		WithQuote(model.Quote{Code: "000002", Name: "Unpriced Fund"})
	svc := testutil.NewTestSummaryService(t, db, valuer)

	summary, err := svc.Compute(context.Background())
	require.NoError(t, err)

	assert.True(t, summary.ValuationAvailable)
	assert.Equal(t, []string{"000002"}, summary.UnpricedCodes)
	assert.Nil(t, summary.MarketValue)
	assert.Nil(t, summary.AnnualizedReturn)

	require.Len(t, summary.Holdings, 2)
	priced, unpriced := summary.Holdings[0], summary.Holdings[1]
	require.NotNil(t, priced.MarketValue)
	assert.InDelta(t, 550, *priced.MarketValue, 1e-9)
	assert.Equal(t, "Unpriced Fund", unpriced.Name)
	assert.Nil(t, unpriced.MarketValue)
	assert.Nil(t, unpriced.ReferencePrice)
	assert.InDelta(t, 400, unpriced.Cost, 1e-9)
}

func TestSummaryService_Compute_ClosedInstruments(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.NewTransaction("000001").WithDate("2024-01-01").Build(t, db)
	testutil.NewTransaction("000001").WithDate("2024-07-01").Sell(100, 1200).Build(t, db)
	testutil.NewTransaction("000002").WithDate("2024-01-01").Build(t, db)
	testutil.NewTransaction("000002").WithDate("2024-07-01").Sell(100, 800).Build(t, db)

	valuer := testutil.NewMockValuer()
	svc := testutil.NewTestSummaryService(t, db, valuer)

	summary, err := svc.Compute(context.Background())
	require.NoError(t, err)

	assert.Empty(t, summary.Holdings)
	assert.Zero(t, summary.TotalShares)
	assert.InDelta(t, 0, summary.RealizedProfit, 1e-9)
	require.NotNil(t, summary.MarketValue)
	assert.Zero(t, *summary.MarketValue)
	// no open position, so no portfolio return
	assert.Nil(t, summary.AnnualizedReturn)

	require.Len(t, summary.Closed, 2)

	gain := summary.Closed[0]
	assert.Equal(t, "000001", gain.Code)
	assert.Equal(t, model.StatusClosed, gain.Status)
	assert.Equal(t, "Test Fund 000001", gain.Name)
	require.NotNil(t, gain.AnnualizedReturn)
	assert.Equal(t, model.ReturnMethodXIRR, gain.ReturnMethod)
	assert.Greater(t, *gain.AnnualizedReturn, 0.0)

	// a net loss fails the XIRR sign guard and falls back
	loss := summary.Closed[1]
	assert.Equal(t, "000002", loss.Code)
	require.NotNil(t, loss.AnnualizedReturn)
	assert.Equal(t, model.ReturnMethodSimple, loss.ReturnMethod)
	assert.Less(t, *loss.AnnualizedReturn, 0.0)
}

// TestSummaryService_Compute_SingleValuationCall checks batching.
//
// WHY: Valuation is a remote round trip. One computation asks for every
// open and closed code at once instead of once per instrument.
func TestSummaryService_Compute_SingleValuationCall(t *testing.T) {
	db := testutil.SetupTestDB(t)
	for _, code := range []string{"000001", "000002", "000003"} {
		testutil.NewTransaction(code).WithDate("2024-01-01").Build(t, db)
	}
	testutil.NewTransaction("000004").WithDate("2024-01-01").Build(t, db)
	testutil.NewTransaction("000004").WithDate("2024-02-01").Sell(100, 1100).Build(t, db)

	valuer := testutil.NewMockValuer().
		WithPrice("000001", 10).
		WithPrice("000002", 11).
		WithPrice("000003", 12)
	svc := testutil.NewTestSummaryService(t, db, valuer)

	_, err := svc.Compute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, valuer.Calls())
	assert.ElementsMatch(t, []string{"000001", "000002", "000003", "000004"}, valuer.LastCodes)
}

func TestSummaryService_Compute_EmptyLedger(t *testing.T) {
	db := testutil.SetupTestDB(t)
	valuer := testutil.NewMockValuer()
	svc := testutil.NewTestSummaryService(t, db, valuer)

	summary, err := svc.Compute(context.Background())
	require.NoError(t, err)

	assert.Zero(t, valuer.Calls())
	assert.True(t, summary.ValuationAvailable)
	assert.NotNil(t, summary.Holdings)
	assert.NotNil(t, summary.Closed)
	assert.NotNil(t, summary.Anomalies)
	assert.Zero(t, summary.TradeCount)
	assert.Nil(t, summary.AnnualizedReturn)
}

func TestSummaryService_Compute_Anomalies(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.NewTransaction("000001").WithDate("2024-01-01").WithShares(10).WithAmount(100).Build(t, db)
	oversell := testutil.NewTransaction("000001").WithDate("2024-02-01").Sell(15, 180).Build(t, db)
	unknown := testutil.NewTransaction("000001").WithDate("2024-03-01").WithType("transfer").Build(t, db)

	valuer := testutil.NewMockValuer().WithPrice("000001", 12)
	svc := testutil.NewTestSummaryService(t, db, valuer)

	summary, err := svc.Compute(context.Background())
	require.NoError(t, err)

	require.Len(t, summary.Anomalies, 2)
	assert.Equal(t, "oversell", summary.Anomalies[0].Kind)
	assert.Equal(t, oversell.ID, summary.Anomalies[0].TransactionID)
	assert.Equal(t, "unknown_kind", summary.Anomalies[1].Kind)
	assert.Equal(t, unknown.ID, summary.Anomalies[1].TransactionID)
	assert.Equal(t, 3, summary.TradeCount)

	// the oversold remainder is reported but never valued
	require.Len(t, summary.Holdings, 1)
	h := summary.Holdings[0]
	assert.InDelta(t, -5, h.Shares, 1e-9)
	assert.Nil(t, h.MarketValue)
	assert.Nil(t, h.ReferencePrice)
	assert.Nil(t, h.AnnualizedReturn)
	assert.Empty(t, summary.UnpricedCodes)
	require.NotNil(t, summary.MarketValue)
	assert.Zero(t, *summary.MarketValue)
	assert.Nil(t, summary.AnnualizedReturn)
}

func TestSummaryService_Compute_Rounding(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.NewTransaction("000001").WithDate("2024-01-01").WithShares(3).WithAmount(10).Build(t, db)

	valuer := testutil.NewMockValuer().WithPrice("000001", 3.3333)
	svc := testutil.NewTestSummaryService(t, db, valuer)

	summary, err := svc.Compute(context.Background())
	require.NoError(t, err)

	require.Len(t, summary.Holdings, 1)
	h := summary.Holdings[0]
	require.NotNil(t, h.AverageCost)
	assert.Equal(t, 3.3333, *h.AverageCost)
	require.NotNil(t, h.MarketValue)
	assert.Equal(t, 10.0, *h.MarketValue)
	require.NotNil(t, h.UnrealizedProfit)
	assert.Equal(t, 0.0, *h.UnrealizedProfit)
}

func TestSummaryService_Compute_Dividends(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.NewTransaction("000001").WithDate("2024-01-01").Build(t, db)
	testutil.NewTransaction("000001").WithDate("2024-06-01").Dividend(0, 30).Build(t, db)
	testutil.NewTransaction("000001").WithDate("2024-09-01").Dividend(5, 55).Build(t, db)

	valuer := testutil.NewMockValuer().WithPrice("000001", 11)
	svc := testutil.NewTestSummaryService(t, db, valuer)

	summary, err := svc.Compute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.DividendCount)
	assert.InDelta(t, 30, summary.DividendTotal, 1e-9)
	assert.InDelta(t, 55, summary.ReinvestedDividendTotal, 1e-9)
	// cash dividends are realized, reinvested ones add to the position
	assert.InDelta(t, 30, summary.RealizedProfit, 1e-9)
	assert.InDelta(t, 105, summary.TotalShares, 1e-9)
	assert.InDelta(t, 1055, summary.TotalCost, 1e-9)
	require.NotNil(t, summary.MarketValue)
	assert.InDelta(t, 1155, *summary.MarketValue, 1e-9)
}

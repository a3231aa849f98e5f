package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Fund-Ledger-Backend/internal/config"
	"github.com/ndewijer/Fund-Ledger-Backend/internal/model"
	"github.com/ndewijer/Fund-Ledger-Backend/internal/testutil"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	cache := testutil.NewTestSummaryCache(t, db)
	quotes := testutil.NewTestQuoteService(t, db, cache)

	cfg := &config.Config{CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}}}
	return NewRouter(
		testutil.NewTestSystemService(t, db),
		testutil.NewTestSummaryServiceWithCache(t, db, quotes, cache),
		testutil.NewTestTransactionService(t, db, cache),
		quotes,
		zerolog.Nop(),
		cfg,
	)
}

func TestRouter_Routes(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{name: "health", method: http.MethodGet, path: "/api/system/health", want: http.StatusOK},
		{name: "summary", method: http.MethodGet, path: "/api/fund/summary", want: http.StatusOK},
		{name: "list transactions", method: http.MethodGet, path: "/api/fund/transactions", want: http.StatusOK},
		{name: "transaction with malformed id", method: http.MethodGet, path: "/api/fund/transactions/not-a-uuid", want: http.StatusBadRequest},
		{name: "unknown transaction", method: http.MethodDelete, path: "/api/fund/transactions/" + testutil.MakeID(), want: http.StatusNotFound},
		{name: "list quotes", method: http.MethodGet, path: "/api/fund/quotes", want: http.StatusOK},
		{name: "quote with malformed code", method: http.MethodPut, path: "/api/fund/quotes/abc", body: `{"netWorth": 1}`, want: http.StatusBadRequest},
		{name: "unknown route", method: http.MethodGet, path: "/api/fund/nothing", want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("Expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}

// TestRouter_LedgerRoundTrip drives the write and read paths together.
//
// WHY: Writes go through the transaction and quote endpoints while the
// summary is cached; the summary endpoint must reflect every write.
func TestRouter_LedgerRoundTrip(t *testing.T) {
	router := newTestRouter(t)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	if w := do(http.MethodPost, "/api/fund/transactions", `{"date":"2024-01-01","code":"000001","type":"buy","actualAmount":1000,"shares":100}`); w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if w := do(http.MethodPut, "/api/fund/quotes/000001", `{"netWorth":11}`); w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var first model.PortfolioSummary
	//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
	json.NewDecoder(do(http.MethodGet, "/api/fund/summary", "").Body).Decode(&first)
	if first.MarketValue == nil || *first.MarketValue != 1100 {
		t.Fatalf("Expected market value 1100, got %v", first.MarketValue)
	}

	if w := do(http.MethodPost, "/api/fund/transactions", `{"date":"2024-07-01","code":"000001","type":"sell","actualAmount":600,"shares":50,"fee":1}`); w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var second model.PortfolioSummary
	//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
	json.NewDecoder(do(http.MethodGet, "/api/fund/summary", "").Body).Decode(&second)
	if second.MarketValue == nil || *second.MarketValue != 550 {
		t.Errorf("Expected market value 550 after the sell, got %v", second.MarketValue)
	}
	if second.RealizedProfit != 99 {
		t.Errorf("Expected realized profit 99, got %f", second.RealizedProfit)
	}
}

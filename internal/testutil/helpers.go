package testutil

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ndewijer/Fund-Ledger-Backend/internal/repository"
	"github.com/ndewijer/Fund-Ledger-Backend/internal/service"
)

// FixedNow is the clock used by the test services: noon UTC on 2025-01-01.
var FixedNow = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

// ShortTimeout bounds scheduled work started by tests.
const ShortTimeout = 5 * time.Second

// Clock returns a function that always reports FixedNow.
func Clock() func() time.Time {
	return func() time.Time { return FixedNow }
}

// NewTestSummaryCache creates a SummaryCache backed by db.
func NewTestSummaryCache(t *testing.T, db *sql.DB) *service.SummaryCache {
	t.Helper()
	return service.NewSummaryCache(repository.NewSnapshotRepository(db), zerolog.Nop())
}

// NewTestSummaryService creates a SummaryService over db with the given
// valuer, a fixed clock and no cache.
func NewTestSummaryService(t *testing.T, db *sql.DB, valuer service.Valuer) *service.SummaryService {
	t.Helper()
	return service.NewSummaryService(
		repository.NewTransactionRepository(db),
		valuer,
		nil,
		zerolog.Nop(),
		service.SummaryOptions{Workers: 2, Now: Clock()},
	)
}

// NewTestSummaryServiceWithCache is NewTestSummaryService with the given cache.
func NewTestSummaryServiceWithCache(t *testing.T, db *sql.DB, valuer service.Valuer, cache *service.SummaryCache) *service.SummaryService {
	t.Helper()
	return service.NewSummaryService(
		repository.NewTransactionRepository(db),
		valuer,
		cache,
		zerolog.Nop(),
		service.SummaryOptions{Workers: 2, Now: Clock()},
	)
}

func NewTestTransactionService(t *testing.T, db *sql.DB, cache *service.SummaryCache) *service.TransactionService {
	t.Helper()
	return service.NewTransactionService(repository.NewTransactionRepository(db), cache)
}

func NewTestQuoteService(t *testing.T, db *sql.DB, cache *service.SummaryCache) *service.QuoteService {
	t.Helper()
	return service.NewQuoteService(repository.NewQuoteRepository(db), cache)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()
	return service.NewSystemService(db)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeFundName generates a readable fund name for a code.
func MakeFundName(code string) string {
	return fmt.Sprintf("Test Fund %s", code)
}

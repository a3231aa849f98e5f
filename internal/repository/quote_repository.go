package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Fund-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Ledger-Backend/internal/model"
)

// QuoteRepository provides data access methods for the fund_quote table,
// which holds the latest known valuation per instrument code.
type QuoteRepository struct {
	db *sql.DB
}

// NewQuoteRepository creates a new QuoteRepository with the provided database connection.
func NewQuoteRepository(db *sql.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

const quoteColumns = `code, name, net_worth, net_worth_date, expect_worth, expect_worth_date, updated_at`

func scanQuote(s rowScanner) (model.Quote, error) {
	var q model.Quote
	var netWorth, expectWorth any
	var updatedAt string

	if err := s.Scan(
		&q.Code,
		&q.Name,
		&netWorth,
		&q.NetWorthDate,
		&expectWorth,
		&q.ExpectWorthDate,
		&updatedAt,
	); err != nil {
		return q, err
	}

	q.NetWorth = toFloat(netWorth)
	q.ExpectWorth = toFloat(expectWorth)

	q.UpdatedAt = storedTime("fund_quote", q.Code, updatedAt)

	return q, nil
}

// GetQuotes retrieves the quotes for the given codes in a single query.
// Codes without a stored quote are absent from the returned map.
// If codes is empty, returns an empty map.
func (r *QuoteRepository) GetQuotes(ctx context.Context, codes []string) (map[string]model.Quote, error) {
	quotes := make(map[string]model.Quote, len(codes))
	if len(codes) == 0 {
		return quotes, nil
	}

	query := `SELECT ` + quoteColumns + ` FROM fund_quote WHERE code IN (` + placeholders(len(codes)) + `)`

	args := make([]any, len(codes))
	for i, code := range codes {
		args[i] = code
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query fund_quote table: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fund_quote table results: %w", err)
		}
		quotes[q.Code] = q
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fund_quote table: %w", err)
	}

	return quotes, nil
}

// ListQuotes returns every stored quote ordered by code.
func (r *QuoteRepository) ListQuotes(ctx context.Context) ([]model.Quote, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+quoteColumns+` FROM fund_quote ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("failed to query fund_quote table: %w", err)
	}
	defer rows.Close()

	quotes := []model.Quote{}
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fund_quote table results: %w", err)
		}
		quotes = append(quotes, q)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fund_quote table: %w", err)
	}

	return quotes, nil
}

// GetQuote retrieves the quote for one code.
// Returns apperrors.ErrQuoteNotFound if none is stored.
func (r *QuoteRepository) GetQuote(ctx context.Context, code string) (model.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM fund_quote WHERE code = ?`

	q, err := scanQuote(r.db.QueryRowContext(ctx, query, code))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Quote{}, apperrors.ErrQuoteNotFound
	}
	if err != nil {
		return model.Quote{}, fmt.Errorf("failed to scan fund_quote table results: %w", err)
	}
	return q, nil
}

// UpsertQuote inserts a quote or replaces the stored one for the same code.
func (r *QuoteRepository) UpsertQuote(ctx context.Context, q model.Quote) error {
	query := `
		INSERT INTO fund_quote (` + quoteColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
			name = excluded.name,
			net_worth = excluded.net_worth,
			net_worth_date = excluded.net_worth_date,
			expect_worth = excluded.expect_worth,
			expect_worth_date = excluded.expect_worth_date,
			updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		q.Code,
		q.Name,
		q.NetWorth,
		q.NetWorthDate,
		q.ExpectWorth,
		q.ExpectWorthDate,
		FormatTime(q.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert fund_quote: %w", err)
	}
	return nil
}

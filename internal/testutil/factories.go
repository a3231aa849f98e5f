package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/ndewijer/Fund-Ledger-Backend/internal/model"
)

// TransactionBuilder provides a fluent interface for creating ledger rows.
// Type is kept as a raw label so tests can store labels the API would reject.
type TransactionBuilder struct {
	ID           string
	Date         string
	Code         string
	Name         string
	Type         string
	ActualAmount float64
	Shares       float64
	Price        float64
	Fee          float64
	Note         string
}

// NewTransaction creates a TransactionBuilder with defaults: a buy of 100
// shares for 1000 on 2024-01-01.
func NewTransaction(code string) *TransactionBuilder {
	return &TransactionBuilder{
		ID:           MakeID(),
		Date:         "2024-01-01",
		Code:         code,
		Name:         MakeFundName(code),
		Type:         "buy",
		ActualAmount: 1000,
		Shares:       100,
		Price:        10,
	}
}

// WithID sets a custom ID
func (b *TransactionBuilder) WithID(id string) *TransactionBuilder {
	b.ID = id
	return b
}

// WithDate sets the raw date string
func (b *TransactionBuilder) WithDate(date string) *TransactionBuilder {
	b.Date = date
	return b
}

// WithName sets the instrument name
func (b *TransactionBuilder) WithName(name string) *TransactionBuilder {
	b.Name = name
	return b
}

// WithType sets the raw type label
func (b *TransactionBuilder) WithType(txType string) *TransactionBuilder {
	b.Type = txType
	return b
}

// WithShares sets the number of shares
func (b *TransactionBuilder) WithShares(shares float64) *TransactionBuilder {
	b.Shares = shares
	return b
}

// WithAmount sets the settled amount
func (b *TransactionBuilder) WithAmount(amount float64) *TransactionBuilder {
	b.ActualAmount = amount
	return b
}

// WithFee sets the fee
func (b *TransactionBuilder) WithFee(fee float64) *TransactionBuilder {
	b.Fee = fee
	return b
}

// Sell turns the row into a sell of shares for amount.
func (b *TransactionBuilder) Sell(shares, amount float64) *TransactionBuilder {
	b.Type = "sell"
	b.Shares = shares
	b.ActualAmount = amount
	return b
}

// Dividend turns the row into a dividend; shares > 0 means reinvested.
func (b *TransactionBuilder) Dividend(shares, amount float64) *TransactionBuilder {
	b.Type = "dividend"
	b.Shares = shares
	b.ActualAmount = amount
	return b
}

// Build creates the transaction in the database
func (b *TransactionBuilder) Build(t *testing.T, db *sql.DB) model.Transaction {
	t.Helper()

	createdAt := time.Now().UTC()
	query := `
		INSERT INTO fund_transactions (id, date, name, code, actual_amount, trade_amount, shares, price, fee, type, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		b.ID, b.Date, b.Name, b.Code, b.ActualAmount, b.ActualAmount, b.Shares,
		b.Price, b.Fee, b.Type, b.Note, createdAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		t.Fatalf("Failed to create transaction: %v", err)
	}

	return model.Transaction{
		ID:           b.ID,
		Date:         b.Date,
		Code:         b.Code,
		Name:         b.Name,
		Kind:         model.ParseKind(b.Type),
		ActualAmount: b.ActualAmount,
		TradeAmount:  b.ActualAmount,
		Shares:       b.Shares,
		Price:        b.Price,
		Fee:          b.Fee,
		Note:         b.Note,
		CreatedAt:    createdAt,
	}
}

// QuoteBuilder provides a fluent interface for creating stored quotes
type QuoteBuilder struct {
	Code        string
	Name        string
	NetWorth    float64
	ExpectWorth float64
}

// NewQuote creates a QuoteBuilder with a net worth of 1.0 and no estimate.
func NewQuote(code string) *QuoteBuilder {
	return &QuoteBuilder{
		Code:     code,
		Name:     MakeFundName(code),
		NetWorth: 1.0,
	}
}

// WithName sets the display name
func (b *QuoteBuilder) WithName(name string) *QuoteBuilder {
	b.Name = name
	return b
}

// WithNetWorth sets the settled net asset value
func (b *QuoteBuilder) WithNetWorth(v float64) *QuoteBuilder {
	b.NetWorth = v
	return b
}

// WithExpectWorth sets the intraday estimate
func (b *QuoteBuilder) WithExpectWorth(v float64) *QuoteBuilder {
	b.ExpectWorth = v
	return b
}

// Build creates the quote in the database
func (b *QuoteBuilder) Build(t *testing.T, db *sql.DB) model.Quote {
	t.Helper()

	updatedAt := time.Now().UTC()
	query := `
		INSERT INTO fund_quote (code, name, net_worth, net_worth_date, expect_worth, expect_worth_date, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	day := updatedAt.Format("2006-01-02")
	_, err := db.Exec(query, b.Code, b.Name, b.NetWorth, day, b.ExpectWorth, day, updatedAt.Format(time.RFC3339Nano))
	if err != nil {
		t.Fatalf("Failed to create quote: %v", err)
	}

	return model.Quote{
		Code:            b.Code,
		Name:            b.Name,
		NetWorth:        b.NetWorth,
		NetWorthDate:    day,
		ExpectWorth:     b.ExpectWorth,
		ExpectWorthDate: day,
		UpdatedAt:       updatedAt,
	}
}

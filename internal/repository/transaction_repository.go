package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Fund-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Ledger-Backend/internal/model"
)

// TransactionRepository provides data access methods for the fund_transactions table.
// Rows are returned as stored: dates stay raw strings, unknown type labels
// become model.KindUnknown and NULL or non-numeric amounts read as zero.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `id, date, name, code, actual_amount, trade_amount, shares, price, fee, type, note, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(s rowScanner) (model.Transaction, error) {
	var t model.Transaction
	var kind, createdAt string
	var actualAmount, tradeAmount, shares, price, fee any

	if err := s.Scan(
		&t.ID,
		&t.Date,
		&t.Name,
		&t.Code,
		&actualAmount,
		&tradeAmount,
		&shares,
		&price,
		&fee,
		&kind,
		&t.Note,
		&createdAt,
	); err != nil {
		return t, err
	}

	t.Kind = model.ParseKind(kind)
	t.ActualAmount = toFloat(actualAmount)
	t.TradeAmount = toFloat(tradeAmount)
	t.Shares = toFloat(shares)
	t.Price = toFloat(price)
	t.Fee = toFloat(fee)

	t.CreatedAt = storedTime("fund_transactions", t.ID, createdAt)

	return t, nil
}

// ListTransactions returns every ledger row. The order is for display only
// (newest date first); callers that need replay order must sort themselves.
func (r *TransactionRepository) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM fund_transactions ORDER BY date DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query fund_transactions table: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fund_transactions table results: %w", err)
		}
		transactions = append(transactions, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fund_transactions table: %w", err)
	}

	return transactions, nil
}

// ListTransactionsByCode returns the rows for a single instrument code.
func (r *TransactionRepository) ListTransactionsByCode(ctx context.Context, code string) ([]model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM fund_transactions WHERE code = ? ORDER BY date DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, code)
	if err != nil {
		return nil, fmt.Errorf("failed to query fund_transactions table: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fund_transactions table results: %w", err)
		}
		transactions = append(transactions, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fund_transactions table: %w", err)
	}

	return transactions, nil
}

// GetTransaction retrieves a single row by ID.
// Returns apperrors.ErrTransactionNotFound if no row has that ID.
func (r *TransactionRepository) GetTransaction(ctx context.Context, id string) (model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM fund_transactions WHERE id = ?`

	t, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Transaction{}, apperrors.ErrTransactionNotFound
	}
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to scan fund_transactions table results: %w", err)
	}
	return t, nil
}

// InsertTransaction stores a new row. ID and CreatedAt must already be set.
func (r *TransactionRepository) InsertTransaction(ctx context.Context, t model.Transaction) error {
	query := `
		INSERT INTO fund_transactions (` + transactionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.Date,
		t.Name,
		t.Code,
		t.ActualAmount,
		t.TradeAmount,
		t.Shares,
		t.Price,
		t.Fee,
		t.Kind.String(),
		t.Note,
		FormatTime(t.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert fund_transactions: %w", err)
	}
	return nil
}

// UpdateTransaction overwrites every editable column of an existing row.
// Returns apperrors.ErrTransactionNotFound if no row has that ID.
func (r *TransactionRepository) UpdateTransaction(ctx context.Context, t model.Transaction) error {
	query := `
		UPDATE fund_transactions
		SET date = ?, name = ?, code = ?, actual_amount = ?, trade_amount = ?,
			shares = ?, price = ?, fee = ?, type = ?, note = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		t.Date,
		t.Name,
		t.Code,
		t.ActualAmount,
		t.TradeAmount,
		t.Shares,
		t.Price,
		t.Fee,
		t.Kind.String(),
		t.Note,
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update fund_transactions: %w", err)
	}

	return requireAffected(result, apperrors.ErrTransactionNotFound)
}

// DeleteTransaction removes one row.
// Returns apperrors.ErrTransactionNotFound if no row has that ID.
func (r *TransactionRepository) DeleteTransaction(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM fund_transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete fund_transactions: %w", err)
	}

	return requireAffected(result, apperrors.ErrTransactionNotFound)
}

// DeleteAllTransactions clears the ledger and reports how many rows were removed.
func (r *TransactionRepository) DeleteAllTransactions(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM fund_transactions`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear fund_transactions: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

func requireAffected(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}

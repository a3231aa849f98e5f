package apperrors

import "errors"

// Domain entity errors represent missing entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrTransactionNotFound indicates that a transaction with the given ID does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrQuoteNotFound indicates that no quote is stored for the given instrument code.
	ErrQuoteNotFound = errors.New("quote not found")

	// ErrSnapshotNotFound indicates that no summary snapshot exists for the requested day.
	ErrSnapshotNotFound = errors.New("summary snapshot not found")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
// These errors indicate that an operation failed, but not due to missing entities or validation issues.
var (
	// Transaction operation errors
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToRetrieveTransaction  = errors.New("failed to retrieve transaction")
	ErrFailedToSaveTransaction      = errors.New("failed to save transaction")
	ErrFailedToDeleteTransaction    = errors.New("failed to delete transaction")

	// Quote operation errors
	ErrFailedToRetrieveQuotes = errors.New("failed to retrieve quotes")
	ErrFailedToSaveQuote      = errors.New("failed to save quote")

	// Summary operation errors
	ErrFailedToGetSummary = errors.New("failed to get portfolio summary")
)

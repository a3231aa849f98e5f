package service

import (
	"context"

	"github.com/ndewijer/Fund-Ledger-Backend/internal/model"
)

// Valuer looks up current valuations for a batch of instrument codes.
// Codes it does not know are absent from the result, never zero-valued.
type Valuer interface {
	Quotes(ctx context.Context, codes []string) (map[string]model.Quote, error)
}

// TransactionSource yields the ledger as an unordered list of records.
type TransactionSource interface {
	ListTransactions(ctx context.Context) ([]model.Transaction, error)
}

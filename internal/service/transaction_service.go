package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Fund-Ledger-Backend/internal/api/request"
	"github.com/ndewijer/Fund-Ledger-Backend/internal/ledger"
	"github.com/ndewijer/Fund-Ledger-Backend/internal/model"
	"github.com/ndewijer/Fund-Ledger-Backend/internal/repository"
)

// TransactionService handles ledger maintenance. Every write drops the
// cached summary.
type TransactionService struct {
	transactionRepo *repository.TransactionRepository
	cache           *SummaryCache
	now             func() time.Time
}

// NewTransactionService creates a new TransactionService. cache may be nil.
func NewTransactionService(transactionRepo *repository.TransactionRepository, cache *SummaryCache) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		cache:           cache,
		now:             time.Now,
	}
}

// ListTransactions returns the ledger, optionally restricted to one code.
func (s *TransactionService) ListTransactions(ctx context.Context, code string) ([]model.Transaction, error) {
	if strings.TrimSpace(code) == "" {
		return s.transactionRepo.ListTransactions(ctx)
	}
	return s.transactionRepo.ListTransactionsByCode(ctx, ledger.NormalizeCode(code))
}

// GetTransaction retrieves a single transaction by its ID.
func (s *TransactionService) GetTransaction(ctx context.Context, id string) (model.Transaction, error) {
	return s.transactionRepo.GetTransaction(ctx, id)
}

// CreateTransaction stores a new ledger row from a validated request.
func (s *TransactionService) CreateTransaction(ctx context.Context, req request.CreateTransactionRequest) (*model.Transaction, error) {
	transaction := model.Transaction{
		ID:           uuid.New().String(),
		Date:         strings.TrimSpace(req.Date),
		Code:         ledger.NormalizeCode(req.Code),
		Name:         strings.TrimSpace(req.Name),
		Kind:         model.ParseKind(req.Type),
		ActualAmount: req.ActualAmount,
		TradeAmount:  req.TradeAmount,
		Shares:       req.Shares,
		Price:        req.Price,
		Fee:          req.Fee,
		Note:         req.Note,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.transactionRepo.InsertTransaction(ctx, transaction); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	invalidate(ctx, s.cache)
	return &transaction, nil
}

// UpdateTransaction applies the non-nil fields of req to an existing row.
func (s *TransactionService) UpdateTransaction(ctx context.Context, id string, req request.UpdateTransactionRequest) (*model.Transaction, error) {
	transaction, err := s.transactionRepo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Date != nil {
		transaction.Date = strings.TrimSpace(*req.Date)
	}
	if req.Code != nil {
		transaction.Code = ledger.NormalizeCode(*req.Code)
	}
	if req.Name != nil {
		transaction.Name = strings.TrimSpace(*req.Name)
	}
	if req.Type != nil {
		transaction.Kind = model.ParseKind(*req.Type)
	}
	if req.ActualAmount != nil {
		transaction.ActualAmount = *req.ActualAmount
	}
	if req.TradeAmount != nil {
		transaction.TradeAmount = *req.TradeAmount
	}
	if req.Shares != nil {
		transaction.Shares = *req.Shares
	}
	if req.Price != nil {
		transaction.Price = *req.Price
	}
	if req.Fee != nil {
		transaction.Fee = *req.Fee
	}
	if req.Note != nil {
		transaction.Note = *req.Note
	}

	if err := s.transactionRepo.UpdateTransaction(ctx, transaction); err != nil {
		return nil, err
	}

	invalidate(ctx, s.cache)
	return &transaction, nil
}

// DeleteTransaction removes one row.
func (s *TransactionService) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.transactionRepo.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	invalidate(ctx, s.cache)
	return nil
}

// DeleteAllTransactions clears the ledger and returns the number of removed rows.
func (s *TransactionService) DeleteAllTransactions(ctx context.Context) (int64, error) {
	n, err := s.transactionRepo.DeleteAllTransactions(ctx)
	if err != nil {
		return 0, err
	}
	invalidate(ctx, s.cache)
	return n, nil
}

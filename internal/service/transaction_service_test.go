package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ndewijer/Fund-Ledger-Backend/internal/api/request"
	"github.com/ndewijer/Fund-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Ledger-Backend/internal/model"
	"github.com/ndewijer/Fund-Ledger-Backend/internal/testutil"
)

// TestTransactionService_CreateTransaction tests storing new ledger rows.
//
// WHY: Rows written through the API must come out in the same canonical form
// imported rows are read in: zero-padded codes and known type labels.
func TestTransactionService_CreateTransaction(t *testing.T) {
	t.Run("normalizes code and type", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db, nil)

		// Execute
		created, err := svc.CreateTransaction(context.Background(), request.CreateTransactionRequest{
			Date:         "2024/3/5",
			Code:         " 1234 ",
			Name:         " Beta Fund ",
			Type:         "买入",
			ActualAmount: 500,
			Shares:       40,
		})

		// Assert
		if err != nil {
			t.Fatalf("CreateTransaction() returned unexpected error: %v", err)
		}
		if created.Code != "001234" {
			t.Errorf("Expected code 001234, got %q", created.Code)
		}
		if created.Kind != model.KindBuy {
			t.Errorf("Expected kind buy, got %s", created.Kind)
		}
		if created.Name != "Beta Fund" {
			t.Errorf("Expected trimmed name, got %q", created.Name)
		}
		if created.ID == "" {
			t.Error("Expected generated ID")
		}

		stored, err := svc.GetTransaction(context.Background(), created.ID)
		if err != nil {
			t.Fatalf("GetTransaction() returned unexpected error: %v", err)
		}
		if stored.Date != "2024/3/5" {
			t.Errorf("Expected date stored as submitted, got %q", stored.Date)
		}
		if stored.Kind != model.KindBuy {
			t.Errorf("Expected stored kind buy, got %s", stored.Kind)
		}
	})
}

func TestTransactionService_ListTransactions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestTransactionService(t, db, nil)

	testutil.NewTransaction("000001").Build(t, db)
	testutil.NewTransaction("000002").Build(t, db)
	testutil.NewTransaction("000002").WithDate("2024-02-01").Build(t, db)

	tests := []struct {
		name string
		code string
		want int
	}{
		{name: "all", code: "", want: 3},
		{name: "padded code", code: "000002", want: 2},
		{name: "short code is padded", code: "2", want: 2},
		{name: "unknown code", code: "999999", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ListTransactions(context.Background(), tt.code)
			if err != nil {
				t.Fatalf("ListTransactions() returned unexpected error: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("Expected %d transactions, got %d", tt.want, len(got))
			}
		})
	}
}

func TestTransactionService_UpdateTransaction(t *testing.T) {
	t.Run("applies only provided fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db, nil)
		existing := testutil.NewTransaction("000001").WithFee(2).Build(t, db)

		shares := 120.0
		note := "split"
		updated, err := svc.UpdateTransaction(context.Background(), existing.ID, request.UpdateTransactionRequest{
			Shares: &shares,
			Note:   &note,
		})
		if err != nil {
			t.Fatalf("UpdateTransaction() returned unexpected error: %v", err)
		}

		if updated.Shares != 120 {
			t.Errorf("Expected shares 120, got %v", updated.Shares)
		}
		if updated.Note != "split" {
			t.Errorf("Expected note split, got %q", updated.Note)
		}
		if updated.Fee != 2 || updated.ActualAmount != existing.ActualAmount || updated.Date != existing.Date {
			t.Errorf("Expected untouched fields to be kept, got %+v", updated)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db, nil)

		_, err := svc.UpdateTransaction(context.Background(), testutil.MakeID(), request.UpdateTransactionRequest{})
		if !errors.Is(err, apperrors.ErrTransactionNotFound) {
			t.Errorf("Expected ErrTransactionNotFound, got %v", err)
		}
	})
}

func TestTransactionService_Delete(t *testing.T) {
	t.Run("single row", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db, nil)
		tx := testutil.NewTransaction("000001").Build(t, db)

		if err := svc.DeleteTransaction(context.Background(), tx.ID); err != nil {
			t.Fatalf("DeleteTransaction() returned unexpected error: %v", err)
		}
		testutil.AssertRowCount(t, db, "fund_transactions", 0)

		err := svc.DeleteTransaction(context.Background(), tx.ID)
		if !errors.Is(err, apperrors.ErrTransactionNotFound) {
			t.Errorf("Expected ErrTransactionNotFound on second delete, got %v", err)
		}
	})

	t.Run("all rows", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db, testutil.NewTestSummaryCache(t, db))
		testutil.NewTransaction("000001").Build(t, db)
		testutil.NewTransaction("000002").Build(t, db)

		n, err := svc.DeleteAllTransactions(context.Background())
		if err != nil {
			t.Fatalf("DeleteAllTransactions() returned unexpected error: %v", err)
		}
		if n != 2 {
			t.Errorf("Expected 2 deleted rows, got %d", n)
		}
		testutil.AssertRowCount(t, db, "fund_transactions", 0)
	})
}

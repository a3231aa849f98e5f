package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Fund-Ledger-Backend/internal/api/request"
	"github.com/ndewijer/Fund-Ledger-Backend/internal/testutil"
)

func TestQuoteService_Quotes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestQuoteService(t, db, nil)
	testutil.NewQuote("000001").WithNetWorth(1.5).Build(t, db)

	quotes, err := svc.Quotes(context.Background(), []string{"1", "000002"})
	require.NoError(t, err)

	require.Len(t, quotes, 1)
	assert.Equal(t, 1.5, quotes["000001"].NetWorth)
}

func TestQuoteService_UpsertQuote(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestQuoteService(t, db, nil)
	ctx := context.Background()

	saved, err := svc.UpsertQuote(ctx, "42", request.UpsertQuoteRequest{
		Name:         "Gamma Fund",
		NetWorth:     2.1,
		NetWorthDate: "2024-06-28",
	})
	require.NoError(t, err)
	assert.Equal(t, "000042", saved.Code)
	assert.False(t, saved.UpdatedAt.IsZero())

	_, err = svc.UpsertQuote(ctx, "000042", request.UpsertQuoteRequest{Name: "Gamma Fund", NetWorth: 2.2})
	require.NoError(t, err)

	all, err := svc.ListQuotes(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 2.2, all[0].NetWorth)
	assert.Empty(t, all[0].NetWorthDate)
}

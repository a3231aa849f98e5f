package request

// CreateTransactionRequest is the body of POST /api/fund/transactions.
// Date is kept as submitted; the ledger accepts YYYY-MM-DD and YYYY/MM/DD.
type CreateTransactionRequest struct {
	Date         string  `json:"date"`
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	ActualAmount float64 `json:"actualAmount"`
	TradeAmount  float64 `json:"tradeAmount"`
	Shares       float64 `json:"shares"`
	Price        float64 `json:"price"`
	Fee          float64 `json:"fee"`
	Note         string  `json:"note"`
}

// UpdateTransactionRequest is the body of PUT /api/fund/transactions/{uuid}.
// Only non-nil fields are applied.
type UpdateTransactionRequest struct {
	Date         *string  `json:"date,omitempty"`
	Code         *string  `json:"code,omitempty"`
	Name         *string  `json:"name,omitempty"`
	Type         *string  `json:"type,omitempty"`
	ActualAmount *float64 `json:"actualAmount,omitempty"`
	TradeAmount  *float64 `json:"tradeAmount,omitempty"`
	Shares       *float64 `json:"shares,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	Fee          *float64 `json:"fee,omitempty"`
	Note         *string  `json:"note,omitempty"`
}

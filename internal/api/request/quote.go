package request

// UpsertQuoteRequest is the body of PUT /api/fund/quotes/{code}.
type UpsertQuoteRequest struct {
	Name            string  `json:"name"`
	NetWorth        float64 `json:"netWorth"`
	NetWorthDate    string  `json:"netWorthDate"`
	ExpectWorth     float64 `json:"expectWorth"`
	ExpectWorthDate string  `json:"expectWorthDate"`
}

package model

import "time"

// ReturnMethod records how an annualized return was obtained.
type ReturnMethod string

const (
	ReturnMethodNone   ReturnMethod = ""
	ReturnMethodXIRR   ReturnMethod = "xirr"
	ReturnMethodSimple ReturnMethod = "simple"
)

// StatusClosed marks a fully disposed instrument in ClosedPerformance.
const StatusClosed = "closed"

// PortfolioSummary is the full report for the fund ledger.
//
// Pointer fields are nil when the value is unknown, for example because no
// reference price was available or no return could be computed. Zero is a
// real value and never stands in for "unknown".
type PortfolioSummary struct {
	Day        string    `json:"day"`
	ComputedAt time.Time `json:"computedAt"`

	TotalShares             float64  `json:"totalShares"`
	TotalCost               float64  `json:"totalCost"`
	RealizedProfit          float64  `json:"realizedProfit"`
	UnrealizedProfit        *float64 `json:"unrealizedProfit"`
	DividendTotal           float64  `json:"dividendTotal"`
	ReinvestedDividendTotal float64  `json:"reinvestedDividendTotal"`
	TotalFee                float64  `json:"totalFee"`
	MarketValue             *float64 `json:"marketValue"`

	AnnualizedReturn *float64     `json:"annualizedReturn"`
	ReturnMethod     ReturnMethod `json:"returnMethod,omitempty"`

	BuyCount      int `json:"buyCount"`
	SellCount     int `json:"sellCount"`
	DividendCount int `json:"dividendCount"`
	TradeCount    int `json:"tradeCount"`

	Holdings []InstrumentPerformance `json:"holdings"`
	Closed   []ClosedPerformance     `json:"closed"`

	ValuationAvailable bool          `json:"valuationAvailable"`
	UnpricedCodes      []string      `json:"unpricedCodes"`
	Anomalies          []DataAnomaly `json:"anomalies"`
}

// InstrumentPerformance describes one open position.
type InstrumentPerformance struct {
	Code             string       `json:"code"`
	Name             string       `json:"name"`
	Shares           float64      `json:"shares"`
	Cost             float64      `json:"cost"`
	AverageCost      *float64     `json:"averageCost"`
	ReferencePrice   *float64     `json:"referencePrice"`
	MarketValue      *float64     `json:"marketValue"`
	UnrealizedProfit *float64     `json:"unrealizedProfit"`
	AnnualizedReturn *float64     `json:"annualizedReturn"`
	ReturnMethod     ReturnMethod `json:"returnMethod,omitempty"`
}

// ClosedPerformance describes an instrument that no longer has a position.
type ClosedPerformance struct {
	Code             string       `json:"code"`
	Name             string       `json:"name"`
	Status           string       `json:"status"`
	AnnualizedReturn *float64     `json:"annualizedReturn"`
	ReturnMethod     ReturnMethod `json:"returnMethod,omitempty"`
}

// DataAnomaly is a data-quality finding from replaying the ledger, such as a
// sell of more shares than were held.
type DataAnomaly struct {
	Kind          string  `json:"kind"`
	Code          string  `json:"code"`
	TransactionID string  `json:"transactionId"`
	Date          string  `json:"date"`
	Shares        float64 `json:"shares"`
}

package model

import (
	"strings"
	"time"
)

// TransactionKind tags a ledger entry as a buy, a sell or a dividend.
type TransactionKind int

const (
	KindUnknown TransactionKind = iota
	KindBuy
	KindSell
	KindDividend
)

// String returns the canonical lowercase label stored in the database and sent over the API.
func (k TransactionKind) String() string {
	switch k {
	case KindBuy:
		return "buy"
	case KindSell:
		return "sell"
	case KindDividend:
		return "dividend"
	default:
		return "unknown"
	}
}

// ParseKind maps a stored or submitted type label to a TransactionKind.
// Besides the canonical English labels it accepts the labels used by the
// spreadsheet ledgers the data is imported from (买入, 卖出, 分红). Anything else is KindUnknown.
func ParseKind(s string) TransactionKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy", "买入":
		return KindBuy
	case "sell", "卖出":
		return KindSell
	case "dividend", "分红":
		return KindDividend
	default:
		return KindUnknown
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k TransactionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown labels decode to KindUnknown.
func (k *TransactionKind) UnmarshalText(text []byte) error {
	*k = ParseKind(string(text))
	return nil
}

// Transaction is one row of the fund ledger.
// Date is kept as the raw string the store holds; the ledger package parses it.
// Amounts that were NULL in the store are zero.
type Transaction struct {
	ID           string          `json:"id"`
	Date         string          `json:"date"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Kind         TransactionKind `json:"type"`
	ActualAmount float64         `json:"actualAmount"`
	TradeAmount  float64         `json:"tradeAmount"`
	Shares       float64         `json:"shares"`
	Price        float64         `json:"price"`
	Fee          float64         `json:"fee"`
	Note         string          `json:"note"`
	CreatedAt    time.Time       `json:"createdAt,omitempty"`
}

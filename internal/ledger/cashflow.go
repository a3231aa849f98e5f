package ledger

import (
	"math"
	"time"

	"github.com/ndewijer/Fund-Ledger-Backend/internal/model"
)

// CashFlow is a dated money movement seen from the investor:
// positive is cash received, negative is cash paid out.
type CashFlow struct {
	Amount float64
	Date   time.Time
}

// minFlows is the smallest series a rate of return can be solved for.
const minFlows = 2

// Flows converts replayed entries into cash flows.
//
//	buy                 -(|amount| + fee)
//	sell                +(|amount| - fee)
//	cash dividend       +|amount|
//	reinvested dividend no flow; its value shows up in the terminal valuation
//
// Undated entries cannot be discounted and produce no flow.
func Flows(entries []Entry) []CashFlow {
	flows := make([]CashFlow, 0, len(entries))
	for _, e := range entries {
		if !e.Dated {
			continue
		}
		amount := math.Abs(e.ActualAmount)
		switch e.Kind {
		case model.KindBuy:
			flows = append(flows, CashFlow{Amount: -(amount + e.Fee), Date: e.Day})
		case model.KindSell:
			flows = append(flows, CashFlow{Amount: amount - e.Fee, Date: e.Day})
		case model.KindDividend:
			if e.Shares <= 0 {
				flows = append(flows, CashFlow{Amount: amount, Date: e.Day})
			}
		}
	}
	return flows
}

// BuildCashFlows builds the series for one instrument. When shares is
// positive a terminal flow of shares*price dated now is appended, as if the
// position were liquidated today. A closed position gets no terminal flow.
//
// The second return value is false when fewer than two flows result; such a
// series cannot be solved.
func BuildCashFlows(entries []Entry, shares, price float64, now time.Time) ([]CashFlow, bool) {
	flows := Flows(entries)
	if shares > 0 {
		flows = append(flows, CashFlow{Amount: shares * price, Date: now})
	}
	return flows, len(flows) >= minFlows
}

// BuildPortfolioCashFlows merges the flows of every instrument and, when the
// portfolio still holds shares, appends one terminal flow of marketValue dated now.
func BuildPortfolioCashFlows(trail map[string][]Entry, totalShares, marketValue float64, now time.Time) ([]CashFlow, bool) {
	var flows []CashFlow
	for _, entries := range trail {
		flows = append(flows, Flows(entries)...)
	}
	if totalShares > 0 {
		flows = append(flows, CashFlow{Amount: marketValue, Date: now})
	}
	return flows, len(flows) >= minFlows
}

package ledger

import (
	"math"
	"time"

	"github.com/ndewijer/Fund-Ledger-Backend/internal/model"
)

// SimpleAnnualizedReturn approximates an annual return from aggregate totals.
// It is meant for series XIRR cannot solve.
//
// Invested is buy outflows including fees, sells are net of fees and only
// cash dividends count. An open position adds marketValue and runs until now;
// a closed one ends at its last dated event. Losses compound on their
// magnitude and keep the sign, so a negative base is never raised to a
// fractional power.
//
// The second return value is false when nothing was invested or the span is
// not positive.
func SimpleAnnualizedReturn(entries []Entry, marketValue float64, closed bool, now time.Time) (float64, bool) {
	var invested, sells, dividends float64
	var first, last time.Time
	var dated bool

	for _, e := range entries {
		amount := math.Abs(e.ActualAmount)
		switch e.Kind {
		case model.KindBuy:
			invested += amount + e.Fee
		case model.KindSell:
			sells += amount - e.Fee
		case model.KindDividend:
			if e.Shares <= 0 {
				dividends += amount
			}
		default:
			continue
		}

		if !e.Dated {
			continue
		}
		if !dated || e.Day.Before(first) {
			first = e.Day
		}
		if !dated || e.Day.After(last) {
			last = e.Day
		}
		dated = true
	}

	if !dated || invested <= 0 {
		return 0, false
	}
	if !closed {
		last = now
	}

	years := yearsBetween(first, last)
	if years <= 0 {
		return 0, false
	}

	totalReturn := sells + dividends - invested
	if !closed {
		totalReturn += marketValue
	}

	if totalReturn >= 0 {
		return math.Pow(1+totalReturn/invested, 1/years) - 1, true
	}
	return -(math.Pow(1+math.Abs(totalReturn)/invested, 1/years) - 1), true
}

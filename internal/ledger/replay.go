// Package ledger replays a fund transaction log into average-cost holdings and
// derives money-weighted returns from it.
//
// Everything in this package is a pure function of its inputs: no I/O, no
// logging, no shared state. Data problems are reported back as values
// (Anomaly, or a false "ok" result) and never abort a computation.
package ledger

import (
	"cmp"
	"math"
	"slices"
	"sort"
	"time"

	"github.com/ndewijer/Fund-Ledger-Backend/internal/model"
)

// closeEpsilon is the share count below which a position counts as fully closed.
const closeEpsilon = 0.0001

// Holding is the running position of one instrument.
// While Shares > 0, Cost/Shares is the weighted-average cost per share.
type Holding struct {
	Shares float64
	Cost   float64
}

// Entry is a transaction as seen by the replay: code normalized, date parsed.
type Entry struct {
	model.Transaction
	Day   time.Time // parsed calendar day, zero when !Dated
	Dated bool
}

// AnomalyKind classifies a data-quality signal raised during replay.
type AnomalyKind string

const (
	// AnomalyOversell marks a sell against a position that did not hold the shares.
	AnomalyOversell AnomalyKind = "oversell"
	// AnomalyUnknownKind marks a record whose type label was not recognized.
	AnomalyUnknownKind AnomalyKind = "unknown_kind"
	// AnomalyUndated marks a record whose date could not be parsed.
	AnomalyUndated AnomalyKind = "undated"
)

// Anomaly is one data-quality signal. It never changes the replay outcome
// beyond what the accounting rules already do.
type Anomaly struct {
	Kind          AnomalyKind
	Code          string
	TransactionID string
	Date          string
	Shares        float64
}

// Result is the outcome of replaying a transaction log.
type Result struct {
	// Holdings holds open positions only; closed positions are removed.
	Holdings map[string]Holding
	// Trail is the replay-ordered list of recognized entries per instrument,
	// including instruments that are closed by now.
	Trail map[string][]Entry

	RealizedProfit          float64
	DividendTotal           float64 // cash dividends
	ReinvestedDividendTotal float64
	TotalFee                float64

	BuyCount      int
	SellCount     int
	DividendCount int
	TradeCount    int

	Anomalies []Anomaly
}

// Replay sorts the records and folds them into per-instrument holdings and
// portfolio totals using the average-cost method.
//
// Records are ordered by parsed date ascending. Records on the same day are
// ordered buys, then dividends, then sells, so that the outcome does not
// depend on the order the store returned them in. Undated records go last
// and keep their input order.
//
// Buy cost basis is |actualAmount| only; the fee is accumulated in TotalFee.
func Replay(records []model.Transaction) Result {
	res := Result{
		Holdings:   make(map[string]Holding),
		Trail:      make(map[string][]Entry),
		TradeCount: len(records),
	}

	for _, e := range order(records) {
		shares := e.Shares
		amount := math.Abs(e.ActualAmount)
		fee := e.Fee

		res.TotalFee += fee

		if !e.Dated {
			res.anomaly(AnomalyUndated, e)
		}

		switch e.Kind {
		case model.KindBuy:
			res.BuyCount++
			res.acquire(e.Code, shares, amount)
		case model.KindSell:
			res.SellCount++
			res.dispose(e, shares, amount, fee)
		case model.KindDividend:
			res.DividendCount++
			if shares > 0 {
				// reinvested: the dividend buys shares at its amount
				res.ReinvestedDividendTotal += amount
				res.acquire(e.Code, shares, amount)
			} else {
				res.DividendTotal += amount
				res.RealizedProfit += amount
			}
		default:
			res.anomaly(AnomalyUnknownKind, e)
			continue
		}

		res.Trail[e.Code] = append(res.Trail[e.Code], e)
	}

	return res
}

func (r *Result) acquire(code string, shares, amount float64) {
	h := r.Holdings[code]
	h.Shares += shares
	h.Cost += amount
	r.Holdings[code] = h
}

func (r *Result) dispose(e Entry, shares, amount, fee float64) {
	income := amount - fee
	h, held := r.Holdings[e.Code]

	if held && h.Shares > 0 {
		avgCost := h.Cost / h.Shares
		soldCost := shares * avgCost

		r.RealizedProfit += income - soldCost
		h.Shares -= shares
		h.Cost -= soldCost

		if math.Abs(h.Shares) <= closeEpsilon {
			delete(r.Holdings, e.Code)
			return
		}
		r.Holdings[e.Code] = h
		if h.Shares < 0 {
			r.anomaly(AnomalyOversell, e)
		}
		return
	}

	// Oversold or never held: book the profit against the magnitude of the
	// existing average cost, leave the holding untouched.
	avgCost := 0.0
	if held && math.Abs(h.Shares) > closeEpsilon {
		avgCost = math.Abs(h.Cost / h.Shares)
	}
	r.RealizedProfit += income - shares*avgCost
	r.anomaly(AnomalyOversell, e)
}

func (r *Result) anomaly(kind AnomalyKind, e Entry) {
	r.Anomalies = append(r.Anomalies, Anomaly{
		Kind:          kind,
		Code:          e.Code,
		TransactionID: e.ID,
		Date:          e.Date,
		Shares:        e.Shares,
	})
}

// TotalShares sums shares across open holdings.
func (r Result) TotalShares() float64 {
	var total float64
	for _, h := range r.Holdings {
		total += h.Shares
	}
	return total
}

// TotalCost is the magnitude of the summed cost basis of open holdings.
func (r Result) TotalCost() float64 {
	var total float64
	for _, h := range r.Holdings {
		total += h.Cost
	}
	return math.Abs(total)
}

// OpenCodes returns the codes of open holdings, sorted.
func (r Result) OpenCodes() []string {
	codes := make([]string, 0, len(r.Holdings))
	for code := range r.Holdings {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// ClosedCodes returns the codes that appear in the log but hold no position, sorted.
func (r Result) ClosedCodes() []string {
	var codes []string
	for code := range r.Trail {
		if _, open := r.Holdings[code]; !open {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	return codes
}

// kindRank orders same-day records so acquisitions precede disposals.
func kindRank(k model.TransactionKind) int {
	switch k {
	case model.KindBuy:
		return 0
	case model.KindDividend:
		return 1
	case model.KindSell:
		return 2
	default:
		return 3
	}
}

func order(records []model.Transaction) []Entry {
	entries := make([]Entry, len(records))
	for i, t := range records {
		t.Code = NormalizeCode(t.Code)
		day, ok := ParseDate(t.Date)
		entries[i] = Entry{Transaction: t, Day: day, Dated: ok}
	}

	slices.SortStableFunc(entries, func(a, b Entry) int {
		switch {
		case a.Dated && !b.Dated:
			return -1
		case !a.Dated && b.Dated:
			return 1
		case !a.Dated && !b.Dated:
			return 0
		}
		if c := a.Day.Compare(b.Day); c != 0 {
			return c
		}
		return cmp.Compare(kindRank(a.Kind), kindRank(b.Kind))
	})
	return entries
}

package ledger

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	solverTolerance     = 1e-6
	solverMaxIterations = 1000
)

// rate brackets tried in order; the second is only used when the first
// does not contain a sign change.
var solverBrackets = [][2]float64{
	{-0.99, 10.0},
	{-0.9999, 1000.0},
}

// XIRR finds the annual rate r for which
//
//	sum(flow_i * (1+r)^(-t_i)) = 0
//
// where t_i is the flow's distance in 365-day years from the earliest flow.
//
// It uses bisection only. The second return value is false when the series
// has fewer than two flows, when the flows do not sum to a positive amount,
// or when no bracket contains a root. No rate is guessed in those cases.
func XIRR(flows []CashFlow) (float64, bool) {
	if len(flows) < minFlows {
		return 0, false
	}

	amounts := make([]float64, len(flows))
	for i, f := range flows {
		amounts[i] = f.Amount
	}
	if floats.Sum(amounts) <= 0 {
		return 0, false
	}

	years := yearFractions(flows)
	npv := func(rate float64) float64 {
		base := 1 + rate
		var sum float64
		for i, a := range amounts {
			sum += a * math.Pow(base, -years[i])
		}
		return sum
	}

	for _, bracket := range solverBrackets {
		lo, hi := bracket[0], bracket[1]
		fLo, fHi := npv(lo), npv(hi)
		if !finite(fLo) || !finite(fHi) {
			continue
		}
		if math.Abs(fLo) < solverTolerance {
			return lo, true
		}
		if math.Abs(fHi) < solverTolerance {
			return hi, true
		}
		if math.Signbit(fLo) == math.Signbit(fHi) {
			continue
		}
		return bisect(npv, lo, hi, fLo)
	}
	return 0, false
}

func bisect(npv func(float64) float64, lo, hi, fLo float64) (float64, bool) {
	for i := 0; i < solverMaxIterations && hi-lo >= solverTolerance; i++ {
		mid := (lo + hi) / 2
		fMid := npv(mid)
		if !finite(fMid) {
			return 0, false
		}
		if fMid == 0 {
			return mid, true
		}
		if math.Signbit(fMid) == math.Signbit(fLo) {
			lo, fLo = mid, fMid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2, true
}

func yearFractions(flows []CashFlow) []float64 {
	first := flows[0].Date
	for _, f := range flows[1:] {
		if f.Date.Before(first) {
			first = f.Date
		}
	}
	years := make([]float64, len(flows))
	for i, f := range flows {
		years[i] = yearsBetween(first, f.Date)
	}
	return years
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

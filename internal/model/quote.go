package model

import "time"

// Quote is the latest known valuation of one instrument.
// ExpectWorth is the intraday estimate, NetWorth the last settled net asset value.
// Zero means the store has no value for that field.
type Quote struct {
	Code            string    `json:"code"`
	Name            string    `json:"name"`
	NetWorth        float64   `json:"netWorth"`
	NetWorthDate    string    `json:"netWorthDate"`
	ExpectWorth     float64   `json:"expectWorth"`
	ExpectWorthDate string    `json:"expectWorthDate"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ReferencePrice returns the price used for valuation: the estimate when
// present, otherwise the net asset value. The second value is false when
// neither is positive.
func (q Quote) ReferencePrice() (float64, bool) {
	if q.ExpectWorth > 0 {
		return q.ExpectWorth, true
	}
	if q.NetWorth > 0 {
		return q.NetWorth, true
	}
	return 0, false
}

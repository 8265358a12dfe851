package domain

import "time"

// RateSnapshot is one published rate table with its provenance.
// A snapshot is immutable once published; readers must not modify Rates.
type RateSnapshot struct {
	ID        string       `json:"id"`
	Base      CurrencyCode `json:"base"`
	Rates     RateTable    `json:"rates"`
	Source    RateSource   `json:"source"`
	Status    string       `json:"status"`
	FetchedAt time.Time    `json:"fetched_at"`
}

// Offline reports whether the snapshot holds the fallback table.
func (s RateSnapshot) Offline() bool {
	return s.Source == RateSourceOffline
}

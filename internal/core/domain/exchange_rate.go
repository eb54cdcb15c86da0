package domain

import "time"

// Rate sources that are not a provider name.
const (
	RateSourceFixed = "fixed"
	RateSourceCache = "cache"
)

// ExchangeRate is a USD/BRL quote: how many BRL one USD buys.
type ExchangeRate struct {
	Rate      float64   `json:"rate"`
	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetchedAt"`
}

package dto

import (
	"time"

	"github.com/SscSPs/vehicle_registry_app/internal/core/domain"
)

// ExchangeRateResponse is the current USD/BRL rate and where it came from.
type ExchangeRateResponse struct {
	Pair      string    `json:"pair"`
	Rate      float64   `json:"rate"`
	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// ToExchangeRateResponse converts a domain.ExchangeRate to ExchangeRateResponse DTO
func ToExchangeRateResponse(rate *domain.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		Pair:      "USD-BRL",
		Rate:      rate.Rate,
		Source:    rate.Source,
		FetchedAt: rate.FetchedAt,
	}
}

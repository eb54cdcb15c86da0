package services

import (
	"context"

	"github.com/SscSPs/vehicle_registry_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ExchangeRateSvcFacade resolves the current USD/BRL rate and converts prices.
type ExchangeRateSvcFacade interface {
	// GetUSDBRLRate returns a rate > 0 or an error matching apperrors.ErrRateUnavailable.
	GetUSDBRLRate(ctx context.Context) (*domain.ExchangeRate, error)

	// ConvertToUSD divides a BRL amount by the current rate.
	ConvertToUSD(ctx context.Context, priceBRL decimal.Decimal) (decimal.Decimal, error)
}

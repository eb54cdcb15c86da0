package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/SscSPs/vehicle_registry_app/internal/apperrors"
	"github.com/SscSPs/vehicle_registry_app/internal/core/domain"
	"github.com/SscSPs/vehicle_registry_app/internal/core/ports/rates"
	portssvc "github.com/SscSPs/vehicle_registry_app/internal/core/ports/services"
	"github.com/SscSPs/vehicle_registry_app/internal/metrics"
	"github.com/SscSPs/vehicle_registry_app/internal/platform/config"
	"github.com/shopspring/decimal"
)

// exchangeService resolves the USD/BRL rate: fixed override first, then the
// cache, then each provider in order. Only a successful provider result is cached.
type exchangeService struct {
	BaseService
	fixedRate *float64
	cacheTTL  time.Duration
	cache     rates.Cache
	providers []rates.Provider
	metrics   *metrics.ExchangeMetrics
	now       func() time.Time
}

// ExchangeServiceOption is a functional option for configuring the exchange service
type ExchangeServiceOption func(*exchangeService)

// WithExchangeMetrics records lookups in m.
func WithExchangeMetrics(m *metrics.ExchangeMetrics) ExchangeServiceOption {
	return func(s *exchangeService) {
		s.metrics = m
	}
}

// WithExchangeClock replaces time.Now for FetchedAt timestamps.
func WithExchangeClock(now func() time.Time) ExchangeServiceOption {
	return func(s *exchangeService) {
		s.now = now
	}
}

// NewExchangeService creates the exchange service. providers are tried in order.
// A fixed rate that is not a positive finite number is ignored.
func NewExchangeService(cfg config.ExchangeConfig, cache rates.Cache, providers []rates.Provider, options ...ExchangeServiceOption) portssvc.ExchangeRateSvcFacade {
	svc := &exchangeService{
		cacheTTL:  cfg.CacheTTL,
		cache:     cache,
		providers: providers,
		now:       time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	if cfg.FixedRate != nil {
		if isUsableRate(*cfg.FixedRate) {
			svc.fixedRate = cfg.FixedRate
		} else {
			slog.Warn("Ignoring unusable fixed exchange rate", slog.Float64("rate", *cfg.FixedRate))
		}
	}
	return svc
}

var _ portssvc.ExchangeRateSvcFacade = (*exchangeService)(nil)

func (s *exchangeService) GetUSDBRLRate(ctx context.Context) (*domain.ExchangeRate, error) {
	if s.fixedRate != nil {
		s.metrics.RecordResolution(domain.RateSourceFixed)
		return &domain.ExchangeRate{Rate: *s.fixedRate, Source: domain.RateSourceFixed, FetchedAt: s.now()}, nil
	}

	if rate, ok := s.cache.Get(ctx, rates.USDBRLKey); ok && isUsableRate(rate) {
		s.LogDebug(ctx, "Exchange rate served from cache", slog.Float64("rate", rate))
		s.metrics.RecordResolution(domain.RateSourceCache)
		return &domain.ExchangeRate{Rate: rate, Source: domain.RateSourceCache, FetchedAt: s.now()}, nil
	}

	failures := make([]string, 0, len(s.providers))
	for _, provider := range s.providers {
		start := time.Now()
		rate, err := provider.FetchUSDBRL(ctx)
		if err == nil && !isUsableRate(rate) {
			err = apperrors.NewProviderError(provider.Name(), fmt.Errorf("non-positive rate %v", rate))
		}
		s.metrics.RecordProviderCall(provider.Name(), time.Since(start).Seconds(), err)
		if err != nil {
			s.LogWarn(ctx, "Exchange rate provider failed",
				slog.String("provider", provider.Name()),
				slog.String("error", err.Error()))
			failures = append(failures, err.Error())
			continue
		}

		s.cache.Set(ctx, rates.USDBRLKey, rate, s.cacheTTL)
		s.LogInfo(ctx, "Exchange rate fetched",
			slog.String("provider", provider.Name()),
			slog.Float64("rate", rate))
		s.metrics.RecordResolution(provider.Name())
		return &domain.ExchangeRate{Rate: rate, Source: provider.Name(), FetchedAt: s.now()}, nil
	}

	s.metrics.RecordUnavailable()
	err := fmt.Errorf("%w: all providers failed: %s", apperrors.ErrRateUnavailable, strings.Join(failures, "; "))
	s.LogError(ctx, err, "No exchange rate available")
	return nil, err
}

func (s *exchangeService) ConvertToUSD(ctx context.Context, priceBRL decimal.Decimal) (decimal.Decimal, error) {
	rate, err := s.GetUSDBRLRate(ctx)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return priceBRL.Div(decimal.NewFromFloat(rate.Rate)), nil
}

func isUsableRate(rate float64) bool {
	return rate > 0 && !math.IsNaN(rate) && !math.IsInf(rate, 0)
}

package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SscSPs/vehicle_registry_app/internal/adapters/quotes"
	"github.com/SscSPs/vehicle_registry_app/internal/adapters/ratecache"
	"github.com/SscSPs/vehicle_registry_app/internal/apperrors"
	"github.com/SscSPs/vehicle_registry_app/internal/core/domain"
	"github.com/SscSPs/vehicle_registry_app/internal/core/ports/rates"
	portssvc "github.com/SscSPs/vehicle_registry_app/internal/core/ports/services"
	"github.com/SscSPs/vehicle_registry_app/internal/core/services"
	"github.com/SscSPs/vehicle_registry_app/internal/metrics"
	"github.com/SscSPs/vehicle_registry_app/internal/platform/config"
	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// --- Mock Provider ---
type MockProvider struct {
	mock.Mock
	name string
}

func (m *MockProvider) Name() string { return m.name }

func (m *MockProvider) FetchUSDBRL(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

// --- Mock Cache ---
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (float64, bool) {
	args := m.Called(ctx, key)
	return args.Get(0).(float64), args.Bool(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value float64, ttl time.Duration) {
	m.Called(ctx, key, value, ttl)
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func providerFailure(name string) error {
	return apperrors.NewProviderError(name, errors.New("status 500"))
}

// --- Test Suite ---
type ExchangeServiceTestSuite struct {
	suite.Suite
	cache     *MockCache
	primary   *MockProvider
	secondary *MockProvider
	metrics   *metrics.ExchangeMetrics
	cfg       config.ExchangeConfig
}

func (suite *ExchangeServiceTestSuite) SetupTest() {
	suite.cache = new(MockCache)
	suite.primary = &MockProvider{name: quotes.AwesomeAPIName}
	suite.secondary = &MockProvider{name: quotes.FrankfurterName}
	suite.metrics = metrics.NewExchangeMetrics(prometheus.NewRegistry())
	suite.cfg = config.ExchangeConfig{CacheTTL: 600 * time.Second}
}

func (suite *ExchangeServiceTestSuite) newService() portssvc.ExchangeRateSvcFacade {
	return services.NewExchangeService(suite.cfg, suite.cache,
		[]rates.Provider{suite.primary, suite.secondary},
		services.WithExchangeMetrics(suite.metrics))
}

func (suite *ExchangeServiceTestSuite) assertNoProviderCalls() {
	suite.primary.AssertNotCalled(suite.T(), "FetchUSDBRL", mock.Anything)
	suite.secondary.AssertNotCalled(suite.T(), "FetchUSDBRL", mock.Anything)
}

func (suite *ExchangeServiceTestSuite) TestFixedRate_SkipsCacheAndProviders() {
	fixed := 5.25
	suite.cfg.FixedRate = &fixed

	rate, err := suite.newService().GetUSDBRLRate(context.Background())

	suite.Require().NoError(err)
	suite.Equal(5.25, rate.Rate)
	suite.Equal(domain.RateSourceFixed, rate.Source)
	suite.cache.AssertNotCalled(suite.T(), "Get", mock.Anything, mock.Anything)
	suite.cache.AssertNotCalled(suite.T(), "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.assertNoProviderCalls()
}

func (suite *ExchangeServiceTestSuite) TestUnusableFixedRate_Ignored() {
	for _, fixed := range []float64{0, -5.25, math.NaN(), math.Inf(1)} {
		suite.SetupTest()
		value := fixed
		suite.cfg.FixedRate = &value
		ctx := context.Background()
		suite.cache.On("Get", ctx, rates.USDBRLKey).Return(5.10, true).Once()

		rate, err := suite.newService().GetUSDBRLRate(ctx)

		suite.Require().NoError(err, "fixed=%v", fixed)
		suite.Equal(5.10, rate.Rate)
		suite.Equal(domain.RateSourceCache, rate.Source)
	}
}

func (suite *ExchangeServiceTestSuite) TestCacheHit_SkipsProviders() {
	ctx := context.Background()
	suite.cache.On("Get", ctx, rates.USDBRLKey).Return(5.10, true).Once()

	rate, err := suite.newService().GetUSDBRLRate(ctx)

	suite.Require().NoError(err)
	suite.Equal(5.10, rate.Rate)
	suite.Equal(domain.RateSourceCache, rate.Source)
	suite.assertNoProviderCalls()
	suite.Equal(1.0, testutil.ToFloat64(suite.metrics.RateResolutionsTotal.WithLabelValues(domain.RateSourceCache)))
}

func (suite *ExchangeServiceTestSuite) TestCacheMiss_PrimaryProviderSucceeds() {
	ctx := context.Background()
	suite.cache.On("Get", ctx, rates.USDBRLKey).Return(0.0, false).Once()
	suite.primary.On("FetchUSDBRL", ctx).Return(5.00, nil).Once()
	suite.cache.On("Set", ctx, rates.USDBRLKey, 5.00, 600*time.Second).Once()

	rate, err := suite.newService().GetUSDBRLRate(ctx)

	suite.Require().NoError(err)
	suite.Equal(5.00, rate.Rate)
	suite.Equal(quotes.AwesomeAPIName, rate.Source)
	suite.secondary.AssertNotCalled(suite.T(), "FetchUSDBRL", mock.Anything)
	suite.cache.AssertExpectations(suite.T())
}

func (suite *ExchangeServiceTestSuite) TestPrimaryFails_FallsBackToSecondary() {
	ctx := context.Background()
	suite.cache.On("Get", ctx, rates.USDBRLKey).Return(0.0, false).Once()
	suite.primary.On("FetchUSDBRL", ctx).Return(0.0, providerFailure(quotes.AwesomeAPIName)).Once()
	suite.secondary.On("FetchUSDBRL", ctx).Return(4.95, nil).Once()
	suite.cache.On("Set", ctx, rates.USDBRLKey, 4.95, 600*time.Second).Once()

	rate, err := suite.newService().GetUSDBRLRate(ctx)

	suite.Require().NoError(err)
	suite.Equal(4.95, rate.Rate)
	suite.Equal(quotes.FrankfurterName, rate.Source)
	suite.primary.AssertExpectations(suite.T())
	suite.secondary.AssertExpectations(suite.T())
	suite.cache.AssertExpectations(suite.T())
	suite.Equal(1.0, testutil.ToFloat64(suite.metrics.ProviderRequestsTotal.WithLabelValues(quotes.AwesomeAPIName, "failure")))
	suite.Equal(1.0, testutil.ToFloat64(suite.metrics.ProviderRequestsTotal.WithLabelValues(quotes.FrankfurterName, "success")))
}

func (suite *ExchangeServiceTestSuite) TestNonPositiveRateWithoutError_TreatedAsFailure() {
	ctx := context.Background()
	suite.cache.On("Get", ctx, rates.USDBRLKey).Return(0.0, false).Once()
	suite.primary.On("FetchUSDBRL", ctx).Return(0.0, nil).Once()
	suite.secondary.On("FetchUSDBRL", ctx).Return(-1.0, nil).Once()

	rate, err := suite.newService().GetUSDBRLRate(ctx)

	suite.Require().Error(err)
	suite.Nil(rate)
	suite.ErrorIs(err, apperrors.ErrRateUnavailable)
	suite.cache.AssertNotCalled(suite.T(), "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExchangeServiceTestSuite) TestAllProvidersFail_NothingCached() {
	ctx := context.Background()
	suite.cache.On("Get", ctx, rates.USDBRLKey).Return(0.0, false).Once()
	suite.primary.On("FetchUSDBRL", ctx).Return(0.0, providerFailure(quotes.AwesomeAPIName)).Once()
	suite.secondary.On("FetchUSDBRL", ctx).Return(0.0, providerFailure(quotes.FrankfurterName)).Once()

	rate, err := suite.newService().GetUSDBRLRate(ctx)

	suite.Require().Error(err)
	suite.Nil(rate)
	suite.ErrorIs(err, apperrors.ErrRateUnavailable)
	suite.Contains(err.Error(), quotes.AwesomeAPIName)
	suite.Contains(err.Error(), quotes.FrankfurterName)
	suite.cache.AssertNotCalled(suite.T(), "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.Equal(1.0, testutil.ToFloat64(suite.metrics.RateUnavailableTotal))
}

func (suite *ExchangeServiceTestSuite) TestConvertToUSD_DividesByRate() {
	fixed := 5.0
	suite.cfg.FixedRate = &fixed

	usd, err := suite.newService().ConvertToUSD(context.Background(), decimal.NewFromInt(100000))

	suite.Require().NoError(err)
	suite.True(decimal.NewFromInt(20000).Equal(usd), "got %s", usd)
}

func (suite *ExchangeServiceTestSuite) TestConvertToUSD_PropagatesUnavailable() {
	ctx := context.Background()
	suite.cache.On("Get", ctx, rates.USDBRLKey).Return(0.0, false).Once()
	suite.primary.On("FetchUSDBRL", ctx).Return(0.0, providerFailure(quotes.AwesomeAPIName)).Once()
	suite.secondary.On("FetchUSDBRL", ctx).Return(0.0, providerFailure(quotes.FrankfurterName)).Once()

	_, err := suite.newService().ConvertToUSD(ctx, decimal.NewFromInt(100))

	suite.ErrorIs(err, apperrors.ErrRateUnavailable)
}

func TestExchangeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExchangeServiceTestSuite))
}

// The scenarios below run against the real in-memory cache and HTTP providers.

func quietCache(clock *testClock) *ratecache.Cache {
	return ratecache.New(nil, ratecache.Options{
		Now:    clock.Now,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestExchangeService_TTLExpiryRefetches(t *testing.T) {
	clock := newTestClock()
	cache := quietCache(clock)
	primary := &MockProvider{name: quotes.AwesomeAPIName}
	ctx := context.Background()

	primary.On("FetchUSDBRL", ctx).Return(5.00, nil).Once()
	primary.On("FetchUSDBRL", ctx).Return(5.20, nil).Once()

	svc := services.NewExchangeService(config.ExchangeConfig{CacheTTL: 600 * time.Second}, cache,
		[]rates.Provider{primary}, services.WithExchangeClock(clock.Now))

	first, err := svc.GetUSDBRLRate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5.00, first.Rate)
	assert.Equal(t, quotes.AwesomeAPIName, first.Source)

	clock.Advance(300 * time.Second)
	second, err := svc.GetUSDBRLRate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5.00, second.Rate)
	assert.Equal(t, domain.RateSourceCache, second.Source)

	clock.Advance(301 * time.Second)
	third, err := svc.GetUSDBRLRate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5.20, third.Rate)
	assert.Equal(t, quotes.AwesomeAPIName, third.Source)

	primary.AssertNumberOfCalls(t, "FetchUSDBRL", 2)
}

func TestExchangeService_HTTPProvidersFallback(t *testing.T) {
	awesome := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer awesome.Close()
	frankfurter := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"amount":1.0,"base":"USD","date":"2024-01-01","rates":{"BRL":4.9}}`))
	}))
	defer frankfurter.Close()

	clock := newTestClock()
	cache := quietCache(clock)
	client := quotes.NewClient(2 * time.Second)
	svc := services.NewExchangeService(config.ExchangeConfig{CacheTTL: time.Minute}, cache, []rates.Provider{
		quotes.NewAwesomeAPI(client, awesome.URL),
		quotes.NewFrankfurter(client, frankfurter.URL),
	})

	rate, err := svc.GetUSDBRLRate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4.9, rate.Rate)
	assert.Equal(t, quotes.FrankfurterName, rate.Source)

	cached, ok := cache.Get(context.Background(), rates.USDBRLKey)
	require.True(t, ok)
	assert.Equal(t, 4.9, cached)
}

func TestExchangeService_RedisDown_ServesFromProvidersAndMemory(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	clock := newTestClock()
	cache := ratecache.New(ratecache.NewRedisStoreWithClient(client, "rates:"), ratecache.Options{
		RetryInterval: 30 * time.Second,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:           clock.Now,
	})
	primary := &MockProvider{name: quotes.AwesomeAPIName}
	ctx := context.Background()
	primary.On("FetchUSDBRL", ctx).Return(5.10, nil).Once()

	svc := services.NewExchangeService(config.ExchangeConfig{CacheTTL: 600 * time.Second}, cache,
		[]rates.Provider{primary}, services.WithExchangeClock(clock.Now))

	first, err := svc.GetUSDBRLRate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5.10, first.Rate)
	assert.Equal(t, quotes.AwesomeAPIName, first.Source)
	assert.True(t, cache.Degraded())

	clock.Advance(10 * time.Second)
	second, err := svc.GetUSDBRLRate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5.10, second.Rate)
	assert.Equal(t, domain.RateSourceCache, second.Source)

	primary.AssertNumberOfCalls(t, "FetchUSDBRL", 1)
}

func TestExchangeService_PrimaryTimeout_FallbackResultCached(t *testing.T) {
	var awesomeHits, frankfurterHits atomic.Int32
	awesome := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		awesomeHits.Add(1)
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer awesome.Close()
	frankfurter := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		frankfurterHits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"amount":1.0,"base":"USD","date":"2024-01-01","rates":{"BRL":5.00}}`))
	}))
	defer frankfurter.Close()

	clock := newTestClock()
	client := quotes.NewClient(200 * time.Millisecond)
	svc := services.NewExchangeService(config.ExchangeConfig{CacheTTL: 600 * time.Second}, quietCache(clock), []rates.Provider{
		quotes.NewAwesomeAPI(client, awesome.URL),
		quotes.NewFrankfurter(client, frankfurter.URL),
	}, services.WithExchangeClock(clock.Now))
	ctx := context.Background()

	first, err := svc.GetUSDBRLRate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5.00, first.Rate)
	assert.Equal(t, quotes.FrankfurterName, first.Source)
	require.Equal(t, int32(1), awesomeHits.Load())
	require.Equal(t, int32(1), frankfurterHits.Load())

	clock.Advance(60 * time.Second)
	second, err := svc.GetUSDBRLRate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5.00, second.Rate)
	assert.Equal(t, domain.RateSourceCache, second.Source)
	assert.Equal(t, int32(1), awesomeHits.Load(), "no provider call within the TTL")
	assert.Equal(t, int32(1), frankfurterHits.Load(), "no provider call within the TTL")
}

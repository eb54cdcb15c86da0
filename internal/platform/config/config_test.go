package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("EXCHANGE_RATE_FIXED", "")
	t.Setenv("EXCHANGE_RATE_TTL", "")
	t.Setenv("REDIS_URL", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.JWTExpiryDuration)
	assert.Nil(t, cfg.Exchange.FixedRate)
	assert.Equal(t, 600*time.Second, cfg.Exchange.CacheTTL)
	assert.Equal(t, 5*time.Second, cfg.Exchange.HTTPTimeout)
	assert.Empty(t, cfg.Exchange.RedisURL)
	assert.Equal(t, "https://economia.awesomeapi.com.br", cfg.Exchange.AwesomeAPIBaseURL)
	assert.Equal(t, "https://api.frankfurter.app", cfg.Exchange.FrankfurterBaseURL)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfig_FixedRate(t *testing.T) {
	t.Setenv("EXCHANGE_RATE_FIXED", "5.25")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg.Exchange.FixedRate)
	assert.InDelta(t, 5.25, *cfg.Exchange.FixedRate, 1e-9)
}

func TestLoadConfig_InvalidFixedRate(t *testing.T) {
	for _, raw := range []string{"abc", "0", "-1", "NaN"} {
		t.Run(raw, func(t *testing.T) {
			t.Setenv("EXCHANGE_RATE_FIXED", raw)

			cfg, err := LoadConfig()
			assert.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), "EXCHANGE_RATE_FIXED")
		})
	}
}

func TestLoadConfig_InvalidTTL(t *testing.T) {
	t.Setenv("EXCHANGE_RATE_FIXED", "")
	t.Setenv("EXCHANGE_RATE_TTL", "0")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("EXCHANGE_RATE_FIXED", "")
	t.Setenv("EXCHANGE_RATE_TTL", "120")
	t.Setenv("EXCHANGE_HTTP_TIMEOUT", "2s")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("AWESOMEAPI_BASE_URL", "http://quotes.local/")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 120*time.Second, cfg.Exchange.CacheTTL)
	assert.Equal(t, 2*time.Second, cfg.Exchange.HTTPTimeout)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Exchange.RedisURL)
	assert.Equal(t, "http://quotes.local", cfg.Exchange.AwesomeAPIBaseURL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
}

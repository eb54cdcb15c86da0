package config

import (
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	LogLevel          string
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	LoginRateLimit     string
	CORSAllowedOrigins []string

	Exchange ExchangeConfig
}

// ExchangeConfig drives exchange-rate acquisition and caching.
type ExchangeConfig struct {
	// FixedRate, when set, is returned for every lookup without touching the
	// cache or any provider. Always > 0 when non-nil.
	FixedRate *float64

	CacheTTL           time.Duration
	RedisURL           string
	RedisRetryInterval time.Duration
	HTTPTimeout        time.Duration
	AwesomeAPIBaseURL  string
	FrankfurterBaseURL string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_EXPIRY_DURATION", "30m")
	v.SetDefault("JWT_ISSUER", "vehicle-registry-api")
	v.SetDefault("LOGIN_RATE_LIMIT", "5-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("EXCHANGE_RATE_TTL", 600)
	v.SetDefault("EXCHANGE_RATE_FIXED", "")
	v.SetDefault("EXCHANGE_HTTP_TIMEOUT", "5s")
	v.SetDefault("EXCHANGE_CACHE_RETRY_INTERVAL", "30s")
	v.SetDefault("AWESOMEAPI_BASE_URL", "https://economia.awesomeapi.com.br")
	v.SetDefault("FRANKFURTER_BASE_URL", "https://api.frankfurter.app")

	// Environment variables override defaults and .env values.
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DatabaseURL:    v.GetString("PGSQL_URL"),
		Port:           v.GetString("PORT"),
		IsProduction:   v.GetBool("IS_PRODUCTION"),
		LogLevel:       strings.ToLower(v.GetString("LOG_LEVEL")),
		JWTSecret:      v.GetString("JWT_SECRET"),
		JWTIssuer:      v.GetString("JWT_ISSUER"),
		LoginRateLimit: v.GetString("LOGIN_RATE_LIMIT"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := v.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil || jwtExpiryDuration <= 0 {
		jwtExpiryDuration = 30 * time.Minute
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	exchange, err := loadExchangeConfig(v)
	if err != nil {
		return nil, err
	}
	cfg.Exchange = exchange

	return cfg, nil
}

func loadExchangeConfig(v *viper.Viper) (ExchangeConfig, error) {
	ec := ExchangeConfig{
		RedisURL:           strings.TrimSpace(v.GetString("REDIS_URL")),
		AwesomeAPIBaseURL:  strings.TrimRight(v.GetString("AWESOMEAPI_BASE_URL"), "/"),
		FrankfurterBaseURL: strings.TrimRight(v.GetString("FRANKFURTER_BASE_URL"), "/"),
	}

	ttlSeconds := v.GetInt("EXCHANGE_RATE_TTL")
	if ttlSeconds <= 0 {
		return ExchangeConfig{}, fmt.Errorf("EXCHANGE_RATE_TTL must be a positive number of seconds, got %q", v.GetString("EXCHANGE_RATE_TTL"))
	}
	ec.CacheTTL = time.Duration(ttlSeconds) * time.Second

	if raw := strings.TrimSpace(v.GetString("EXCHANGE_RATE_FIXED")); raw != "" {
		fixed, err := parsePositiveFloat(raw)
		if err != nil {
			return ExchangeConfig{}, fmt.Errorf("invalid EXCHANGE_RATE_FIXED: %w", err)
		}
		ec.FixedRate = &fixed
	}

	ec.HTTPTimeout, _ = time.ParseDuration(v.GetString("EXCHANGE_HTTP_TIMEOUT"))
	if ec.HTTPTimeout <= 0 {
		ec.HTTPTimeout = 5 * time.Second
		log.Printf("Warning: Invalid value for EXCHANGE_HTTP_TIMEOUT. Defaulting to %s.\n", ec.HTTPTimeout)
	}

	ec.RedisRetryInterval, _ = time.ParseDuration(v.GetString("EXCHANGE_CACHE_RETRY_INTERVAL"))
	if ec.RedisRetryInterval <= 0 {
		ec.RedisRetryInterval = 30 * time.Second
	}

	return ec, nil
}

func parsePositiveFloat(raw string) (float64, error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0, fmt.Errorf("must be a positive number, got %s", raw)
	}
	return f, nil
}

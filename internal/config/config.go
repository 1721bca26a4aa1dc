package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the catalog service.
type Config struct {
	Port      int
	LogLevel  string
	LogFormat string

	// SeedWindow is how long a clock-derived distribution seed stays
	// constant; every request inside one window sees the same ordering.
	SeedWindow time.Duration

	DefaultPageSize int
	MaxPageSize     int

	// Quota strategy bounds: the default per-seller cap applied when the
	// caller sends none, and the ceiling explicit values are lowered to.
	DefaultMaxPerSeller int
	MaxPerSellerCap     int

	// MaxRoundRobinCategory is the largest category the full-scan
	// round-robin strategy will serve.
	MaxRoundRobinCategory int

	// RecalcLogEvery is the progress-log interval, in listings, of a
	// bulk recalculation pass.
	RecalcLogEvery int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applies defaults,
// and validates values. It returns an error for any invalid value. A .env
// file in the working directory is loaded first if present; real
// environment variables win over it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := getInt("PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	logLevel := getStr("LOG_LEVEL", "info")
	if !isValidLogLevel(logLevel) {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %q, must be one of: debug, info, warn, error", logLevel)
	}

	logFormat := getStr("LOG_FORMAT", "json")
	if logFormat != "json" && logFormat != "console" {
		return nil, fmt.Errorf("invalid LOG_FORMAT: %q, must be one of: json, console", logFormat)
	}

	seedWindow, err := getDuration("SEED_WINDOW", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid SEED_WINDOW: %w", err)
	}
	if seedWindow < time.Millisecond {
		return nil, fmt.Errorf("invalid SEED_WINDOW: %v, must be at least 1ms", seedWindow)
	}

	defaultPageSize, err := getInt("DEFAULT_PAGE_SIZE", 20)
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_PAGE_SIZE: %w", err)
	}
	maxPageSize, err := getInt("MAX_PAGE_SIZE", 100)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_PAGE_SIZE: %w", err)
	}
	if defaultPageSize < 1 {
		return nil, fmt.Errorf("invalid DEFAULT_PAGE_SIZE: %d, must be >= 1", defaultPageSize)
	}
	if maxPageSize < defaultPageSize {
		return nil, fmt.Errorf("invalid MAX_PAGE_SIZE: %d, must be >= DEFAULT_PAGE_SIZE (%d)", maxPageSize, defaultPageSize)
	}

	defaultMaxPerSeller, err := getInt("DEFAULT_MAX_PER_SELLER", 2)
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_MAX_PER_SELLER: %w", err)
	}
	maxPerSellerCap, err := getInt("MAX_PER_SELLER_CAP", 10)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_PER_SELLER_CAP: %w", err)
	}
	if defaultMaxPerSeller < 1 {
		return nil, fmt.Errorf("invalid DEFAULT_MAX_PER_SELLER: %d, must be >= 1", defaultMaxPerSeller)
	}
	if maxPerSellerCap < defaultMaxPerSeller {
		return nil, fmt.Errorf("invalid MAX_PER_SELLER_CAP: %d, must be >= DEFAULT_MAX_PER_SELLER (%d)",
			maxPerSellerCap, defaultMaxPerSeller)
	}

	maxRoundRobinCategory, err := getInt("MAX_ROUND_ROBIN_CATEGORY", 10000)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_ROUND_ROBIN_CATEGORY: %w", err)
	}
	if maxRoundRobinCategory < 1 {
		return nil, fmt.Errorf("invalid MAX_ROUND_ROBIN_CATEGORY: %d, must be >= 1", maxRoundRobinCategory)
	}

	recalcLogEvery, err := getInt("RECALC_LOG_EVERY", 1000)
	if err != nil {
		return nil, fmt.Errorf("invalid RECALC_LOG_EVERY: %w", err)
	}
	if recalcLogEvery < 1 {
		return nil, fmt.Errorf("invalid RECALC_LOG_EVERY: %d, must be >= 1", recalcLogEvery)
	}

	readTimeout, err := getDuration("READ_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := getDuration("WRITE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid WRITE_TIMEOUT: %w", err)
	}
	idleTimeout, err := getDuration("IDLE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid IDLE_TIMEOUT: %w", err)
	}
	shutdownTimeout, err := getDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}

	return &Config{
		Port:                  port,
		LogLevel:              logLevel,
		LogFormat:             logFormat,
		SeedWindow:            seedWindow,
		DefaultPageSize:       defaultPageSize,
		MaxPageSize:           maxPageSize,
		DefaultMaxPerSeller:   defaultMaxPerSeller,
		MaxPerSellerCap:       maxPerSellerCap,
		MaxRoundRobinCategory: maxRoundRobinCategory,
		RecalcLogEvery:        recalcLogEvery,
		ReadTimeout:           readTimeout,
		WriteTimeout:          writeTimeout,
		IdleTimeout:           idleTimeout,
		ShutdownTimeout:       shutdownTimeout,
	}, nil
}

func getStr(key, defaultVal string) string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v
}

func getInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(v)
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return time.ParseDuration(v)
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

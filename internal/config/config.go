package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/efreitasn/fxcredit/internal/domain"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds all runtime configuration for the credit service.
type Config struct {
	Port               int
	LogLevel           string
	ConfigDir          string
	OrderLogLimit      int
	MaxSimulations     int
	StaleAfter         time.Duration
	UtilizationWarning decimal.Decimal // percent
	SimulationTTL      time.Duration   // 0 keeps idle simulations forever
	ExpiryInterval     time.Duration
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	ShutdownTimeout    time.Duration
}

// LoadEnvFile copies variables from a .env file into the process
// environment. Variables already set are left alone.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// Load reads configuration from environment variables, applies defaults,
// and validates values. It returns an error for any invalid value.
func Load() (*Config, error) {
	port, err := getInt("PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	logLevel := getStr("LOG_LEVEL", "info")
	if !isValidLogLevel(logLevel) {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %q, must be one of: debug, info, warn, error", logLevel)
	}

	configDir := getStr("CONFIG_DIR", "configs")

	orderLogLimit, err := getInt("ORDER_LOG_LIMIT", 50)
	if err != nil {
		return nil, fmt.Errorf("invalid ORDER_LOG_LIMIT: %w", err)
	}
	if orderLogLimit < 1 || orderLogLimit > domain.MaxOrderLogLimit {
		return nil, fmt.Errorf("invalid ORDER_LOG_LIMIT: %d, must be between 1 and %d", orderLogLimit, domain.MaxOrderLogLimit)
	}

	maxSimulations, err := getInt("MAX_SIMULATIONS", 100)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_SIMULATIONS: %w", err)
	}
	if maxSimulations < 1 {
		return nil, fmt.Errorf("invalid MAX_SIMULATIONS: %d, must be >= 1", maxSimulations)
	}

	staleAfter, err := getDuration("STALE_AFTER", 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid STALE_AFTER: %w", err)
	}

	utilizationWarning, err := getDecimal("UTILIZATION_WARNING", decimal.NewFromInt(90))
	if err != nil {
		return nil, fmt.Errorf("invalid UTILIZATION_WARNING: %w", err)
	}
	if utilizationWarning.IsNegative() || utilizationWarning.GreaterThan(decimal.NewFromInt(100)) {
		return nil, fmt.Errorf("invalid UTILIZATION_WARNING: %s, must be between 0 and 100", utilizationWarning)
	}

	simulationTTL, err := getDuration("SIMULATION_TTL", time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid SIMULATION_TTL: %w", err)
	}
	if simulationTTL < 0 {
		return nil, fmt.Errorf("invalid SIMULATION_TTL: %v, must be >= 0", simulationTTL)
	}

	expiryInterval, err := getDuration("EXPIRY_INTERVAL", time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid EXPIRY_INTERVAL: %w", err)
	}
	if expiryInterval <= 0 {
		return nil, fmt.Errorf("invalid EXPIRY_INTERVAL: %v, must be > 0", expiryInterval)
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
		Port:               port,
		LogLevel:           logLevel,
		ConfigDir:          configDir,
		OrderLogLimit:      orderLogLimit,
		MaxSimulations:     maxSimulations,
		StaleAfter:         staleAfter,
		UtilizationWarning: utilizationWarning,
		SimulationTTL:      simulationTTL,
		ExpiryInterval:     expiryInterval,
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,
		IdleTimeout:        idleTimeout,
		ShutdownTimeout:    shutdownTimeout,
	}, nil
}

// SlogLevel maps LogLevel to a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
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

func getDecimal(key string, defaultVal decimal.Decimal) (decimal.Decimal, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return decimal.NewFromString(v)
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/vsinha/factoryplan/pkg/domain/entities"
	"github.com/vsinha/factoryplan/pkg/infrastructure/logging"
)

const envPrefix = "FACTORYPLAN_"

// Config holds the application configuration
type Config struct {
	CatalogPath   string // empty selects the builtin catalog
	LogLevel      string `validate:"omitempty,oneof=debug info warn warning error DEBUG INFO WARN WARNING ERROR"`
	LogFormat     string `validate:"oneof=text json"`
	CacheSize     int    `validate:"gte=0"`
	AssemblerTier int    `validate:"gte=1"`
	SmelterTier   int    `validate:"gte=1"`
	BoostLevel    int    `validate:"gte=0,lte=3"`
	Flow          decimal.Decimal
}

// Load loads the configuration from environment variables. A .env file in the
// working directory is read first if it exists; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return fromEnv()
}

// LoadFile is Load with an explicit env file, which must exist
func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(path); err != nil {
		return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	return fromEnv()
}

func fromEnv() (*Config, error) {
	cfg := &Config{
		CatalogPath: getEnv("CATALOG", ""),
		LogLevel:    getEnv("LOG_LEVEL", logging.LevelInfo),
		LogFormat:   getEnv("LOG_FORMAT", logging.FormatText),
	}

	var err error
	if cfg.CacheSize, err = getEnvInt("CACHE_SIZE", 128); err != nil {
		return nil, err
	}
	if cfg.AssemblerTier, err = getEnvInt("ASSEMBLER_TIER", 3); err != nil {
		return nil, err
	}
	if cfg.SmelterTier, err = getEnvInt("SMELTER_TIER", 2); err != nil {
		return nil, err
	}
	if cfg.BoostLevel, err = getEnvInt("BOOST_LEVEL", 3); err != nil {
		return nil, err
	}

	flow := getEnv("FLOW", "30")
	cfg.Flow, err = decimal.NewFromString(flow)
	if err != nil {
		return nil, fmt.Errorf("invalid %sFLOW value %q: %w", envPrefix, flow, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges of the loaded values
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if !c.Flow.IsPositive() {
		return fmt.Errorf("invalid configuration: flow must be positive, got %s", c.Flow)
	}
	return nil
}

// Tiers returns the tier selection for the assembler and smelter families
func (c *Config) Tiers() entities.TierSelection {
	return entities.TierSelection{
		"assembler": c.AssemblerTier,
		"smelter":   c.SmelterTier,
	}
}

// Boost returns the configured proliferator level
func (c *Config) Boost() entities.BoostLevel {
	return entities.BoostLevel(c.BoostLevel)
}

// Logging returns the logger configuration
func (c *Config) Logging() logging.Config {
	lc := logging.DefaultConfig()
	lc.Level = c.LogLevel
	lc.Format = c.LogFormat
	return lc
}

// getEnv retrieves a prefixed environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(envPrefix + key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw, exists := os.LookupEnv(envPrefix + key)
	if !exists {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s%s value: %w", envPrefix, key, err)
	}
	return value, nil
}

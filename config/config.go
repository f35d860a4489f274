package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Cache      CacheConfig
	RateLimit  RateLimitConfig
	Categorize CategorizeConfig
	Log        LogConfig
	Vocabulary VocabularyConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	MaxRecords     int      `mapstructure:"max_records"`
}

// CacheConfig holds signature cache configuration
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute, 0 disables
}

// CategorizeConfig holds batch categorization settings
type CategorizeConfig struct {
	Workers    int    `mapstructure:"workers"`
	InputFile  string `mapstructure:"input_file"`
	OutputFile string `mapstructure:"output_file"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// VocabularyConfig holds the known base products, brands and types.
// Brands and types are matched in the listed order.
type VocabularyConfig struct {
	BaseProducts []string `mapstructure:"base_products"`
	Brands       []string `mapstructure:"brands"`
	Types        []string `mapstructure:"types"`
}

// Load loads configuration from .env, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/gondola/")

	v.SetEnvPrefix("GONDOLA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// The config file is optional; env vars and defaults cover everything
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads .env from the working directory when present.
// Variables already set in the environment win.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(".env")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})
	v.SetDefault("server.max_records", 10000)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", "1h")
	v.SetDefault("cache.cleanup_interval", "10m")

	v.SetDefault("ratelimit.per_ip", 100)

	v.SetDefault("categorize.workers", 4)
	v.SetDefault("categorize.input_file", "data01.json")
	v.SetDefault("categorize.output_file", "resultado.json")

	v.SetDefault("log.level", "info")

	v.SetDefault("vocabulary.base_products", []string{"leite", "arroz", "feijao"})
	v.SetDefault("vocabulary.brands", []string{"piracanjuba", "italac", "parmalat", "tio joao", "camil"})
	v.SetDefault("vocabulary.types", []string{"integral", "desnatado", "semi desnatado", "branco", "carioca"})
}

func validate(config *Config) error {
	if config.Categorize.Workers < 1 {
		return fmt.Errorf("categorize workers must be at least 1, got: %d", config.Categorize.Workers)
	}

	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("per-IP rate limit must not be negative, got: %d", config.RateLimit.PerIP)
	}

	if config.Server.MaxRecords < 1 {
		return fmt.Errorf("server max_records must be at least 1, got: %d", config.Server.MaxRecords)
	}

	if config.Cache.Enabled && config.Cache.TTL <= 0 {
		return fmt.Errorf("cache TTL must be positive when the cache is enabled, got: %s", config.Cache.TTL)
	}

	if _, err := zapcore.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	if len(config.Vocabulary.BaseProducts) == 0 {
		return fmt.Errorf("vocabulary needs at least one base product")
	}

	return nil
}

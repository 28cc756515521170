package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Target   TargetConfig
	Crawl    CrawlConfig
	Browser  BrowserConfig
	Output   OutputConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Logging  LoggingConfig
}

type TargetConfig struct {
	URL          string
	Selector     string
	LoginURL     string
	SitemapCrawl bool
	MaxProducts  int
}

type CrawlConfig struct {
	BatchSize int
}

type BrowserConfig struct {
	Headless   bool
	ProfileDir string
	Timeout    time.Duration
}

type OutputConfig struct {
	Dir string
}

type DatabaseConfig struct {
	URL string
}

type RedisConfig struct {
	Addr string
}

type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from the environment. Command-line flags
// parsed by the entry point take precedence over these values.
func Load() (*Config, error) {
	cfg := &Config{
		Target: TargetConfig{
			URL:          getEnvOrDefault("TARGET_URL", ""),
			Selector:     getEnvOrDefault("CSS_SELECTOR", ""),
			LoginURL:     getEnvOrDefault("LOGIN_URL", ""),
			SitemapCrawl: getBoolOrDefault("SITEMAP_CRAWL", false),
			MaxProducts:  getIntOrDefault("MAX_PRODUCTS", 0),
		},
		Crawl: CrawlConfig{
			BatchSize: getIntOrDefault("CRAWL_BATCH_SIZE", 10),
		},
		Browser: BrowserConfig{
			Headless:   getBoolOrDefault("BROWSER_HEADLESS", true),
			ProfileDir: getEnvOrDefault("BROWSER_PROFILE_DIR", ".browser-profile"),
			Timeout:    getDurationOrDefault("BROWSER_TIMEOUT", 30*time.Second),
		},
		Output: OutputConfig{
			Dir: getEnvOrDefault("OUTPUT_DIR", "output"),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
		Redis: RedisConfig{
			Addr: getEnvOrDefault("REDIS_ADDR", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "text"),
		},
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Crawl.BatchSize < 1 {
		return fmt.Errorf("CRAWL_BATCH_SIZE must be at least 1")
	}

	if c.Target.MaxProducts < 0 {
		return fmt.Errorf("MAX_PRODUCTS cannot be negative")
	}

	if c.Browser.Timeout <= 0 {
		return fmt.Errorf("BROWSER_TIMEOUT must be positive")
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

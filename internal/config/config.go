package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	TMDB      TMDBConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

type ServerConfig struct {
	Env  string
	Port string
	// PublicHost is the deployment host (no scheme) the page loader calls back into.
	PublicHost string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	TLS      bool
}

type TMDBConfig struct {
	APIKey       string
	AccessToken  string
	BaseURL      string
	ImageBaseURL string
	Language     string
	Timeout      time.Duration
}

type RateLimitConfig struct {
	MaxRequests int
	Window      time.Duration
}

type LogConfig struct {
	Level string
}

// Load reads environment variables and returns a Config struct
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	timeout, err := getDuration("TMDB_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	maxRequests, err := getInt("RATE_LIMIT_MAX", 100)
	if err != nil {
		return nil, err
	}
	window, err := getDuration("RATE_LIMIT_WINDOW", time.Minute)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Env:        getEnv("APP_ENV", getEnv("NODE_ENV", "local")),
			Port:       getEnv("PORT", "3000"),
			PublicHost: getEnv("PUBLIC_HOST", ""),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			TLS:      getEnv("REDIS_TLS", "false") == "true",
		},
		TMDB: TMDBConfig{
			APIKey:       getEnv("TMDB_API_KEY", ""),
			AccessToken:  getEnv("TMDB_ACCESS_TOKEN", ""),
			BaseURL:      getEnv("TMDB_URL", "https://api.themoviedb.org/3"),
			ImageBaseURL: getEnv("TMDB_IMAGE_URL", "https://image.tmdb.org/t/p"),
			Language:     getEnv("TMDB_LANGUAGE", "zh-CN"),
			Timeout:      timeout,
		},
		RateLimit: RateLimitConfig{
			MaxRequests: maxRequests,
			Window:      window,
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if maxRequests < 1 {
		return nil, fmt.Errorf("RATE_LIMIT_MAX must be positive")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// IsDevelopment returns true if running in development/local mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "local" || c.Server.Env == "development"
}

// RedisEnabled reports whether a Redis host was configured
func (c *Config) RedisEnabled() bool {
	return c.Redis.Host != ""
}

// RedisAddr returns the Redis address in host:port format
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Package config centraliza o carregamento de configurações da aplicação.
//
// Ordem de precedência: variáveis de ambiente (incluindo .env), depois o
// arquivo YAML apontado por CONFIG_FILE, depois os padrões.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ballek12/youtube-video-analysis-saa-s/internal/core/domain"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Storage     StorageConfig     `yaml:"storage"`
	RateLimiter RateLimiterConfig `yaml:"rate_limiter"`
	LLM         LLMConfig         `yaml:"llm"`
	History     HistoryConfig     `yaml:"history"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type StorageConfig struct {
	Type  string      `yaml:"type"`
	Redis RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type RateLimiterConfig struct {
	Requests             int `yaml:"requests"`
	WindowSeconds        int `yaml:"window_seconds"`
	SweepIntervalSeconds int `yaml:"sweep_interval_seconds"`
}

func (c RateLimiterConfig) Rule() domain.RateLimitRule {
	return domain.RateLimitRule{
		Requests: c.Requests,
		Window:   time.Duration(c.WindowSeconds) * time.Second,
	}
}

func (c RateLimiterConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSeconds) * time.Second
}

type LLMConfig struct {
	APIBase           string   `yaml:"api_base"`
	APIKey            string   `yaml:"api_key"`
	APIKeyFallbacks   []string `yaml:"api_key_fallbacks"`
	Model             string   `yaml:"model"`
	MaxTokens         int      `yaml:"max_tokens"`
	Temperature       float64  `yaml:"temperature"`
	TimeoutSeconds    int      `yaml:"timeout_seconds"`
	RequestsPerMinute int      `yaml:"requests_per_minute"`
	Burst             int      `yaml:"burst"`
}

func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type HistoryConfig struct {
	DBPath string `yaml:"db_path"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{Port: "8080"},
		Storage: StorageConfig{
			Type:  "memory",
			Redis: RedisConfig{Host: "localhost", Port: 6379},
		},
		RateLimiter: RateLimiterConfig{
			Requests:             domain.DefaultRateLimitRule.Requests,
			WindowSeconds:        int(domain.DefaultRateLimitRule.Window / time.Second),
			SweepIntervalSeconds: 300,
		},
		LLM: LLMConfig{
			APIBase:           "https://api.anthropic.com/v1",
			Model:             "claude-sonnet-4-20250514",
			MaxTokens:         2048,
			Temperature:       0.7,
			TimeoutSeconds:    30,
			RequestsPerMinute: 60,
			Burst:             5,
		},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if !c.RateLimiter.Rule().Valid() {
		return fmt.Errorf("rate limiter: %w", domain.ErrInvalidRule)
	}
	switch c.Storage.Type {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}
	if c.LLM.TimeoutSeconds <= 0 {
		return fmt.Errorf("LLM_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	var err error

	cfg.Server.Port = getEnv("SERVER_PORT", cfg.Server.Port)
	cfg.Storage.Type = strings.ToLower(getEnv("STORAGE_TYPE", cfg.Storage.Type))

	cfg.Storage.Redis.Host = getEnv("REDIS_HOST", cfg.Storage.Redis.Host)
	if cfg.Storage.Redis.Port, err = getEnvInt("REDIS_PORT", cfg.Storage.Redis.Port); err != nil {
		return err
	}
	if cfg.Storage.Redis.DB, err = getEnvInt("REDIS_DB", cfg.Storage.Redis.DB); err != nil {
		return err
	}
	cfg.Storage.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Storage.Redis.Password)

	if cfg.RateLimiter.Requests, err = getEnvInt("RATE_LIMIT_REQUESTS", cfg.RateLimiter.Requests); err != nil {
		return err
	}
	if cfg.RateLimiter.WindowSeconds, err = getEnvInt("RATE_LIMIT_WINDOW_SECONDS", cfg.RateLimiter.WindowSeconds); err != nil {
		return err
	}
	if cfg.RateLimiter.SweepIntervalSeconds, err = getEnvInt("RATE_LIMIT_SWEEP_INTERVAL_SECONDS", cfg.RateLimiter.SweepIntervalSeconds); err != nil {
		return err
	}

	cfg.LLM.APIBase = getEnv("LLM_API_BASE", cfg.LLM.APIBase)
	cfg.LLM.APIKey = getEnv("LLM_API_KEY", cfg.LLM.APIKey)
	cfg.LLM.APIKeyFallbacks = getEnvList("LLM_API_KEY_FALLBACKS", cfg.LLM.APIKeyFallbacks)
	cfg.LLM.Model = getEnv("LLM_MODEL", cfg.LLM.Model)
	if cfg.LLM.MaxTokens, err = getEnvInt("LLM_MAX_TOKENS", cfg.LLM.MaxTokens); err != nil {
		return err
	}
	if cfg.LLM.Temperature, err = getEnvFloat("LLM_TEMPERATURE", cfg.LLM.Temperature); err != nil {
		return err
	}
	if cfg.LLM.TimeoutSeconds, err = getEnvInt("LLM_TIMEOUT_SECONDS", cfg.LLM.TimeoutSeconds); err != nil {
		return err
	}
	if cfg.LLM.RequestsPerMinute, err = getEnvInt("LLM_REQUESTS_PER_MINUTE", cfg.LLM.RequestsPerMinute); err != nil {
		return err
	}
	if cfg.LLM.Burst, err = getEnvInt("LLM_BURST", cfg.LLM.Burst); err != nil {
		return err
	}

	cfg.History.DBPath = getEnv("HISTORY_DB_PATH", cfg.History.DBPath)

	cfg.Logging.Level = getEnv("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = getEnv("LOG_FORMAT", cfg.Logging.Format)

	return nil
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func getEnvList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

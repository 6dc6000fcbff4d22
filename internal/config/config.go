package config

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	// Provider Configuration
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAITimeout time.Duration
	Model         string

	// HTTP Configuration
	HTTPAddr    string
	APIToken    string
	CORSOrigins []string

	// Pricing Configuration (per 1000 tokens)
	InputPricePer1K  decimal.Decimal
	OutputPricePer1K decimal.Decimal

	// Rate Limit Configuration
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Storage Configuration
	DatabaseURI string
	AuditDBPath string

	// NATS Configuration
	NatsURL    string
	Subject    string
	QueueGroup string
}

func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := loadDotEnv(envFile); err != nil {
			slog.Warn("Could not load env file", "file", envFile, "error", err)
		} else {
			slog.Info("Environment loaded", "file", envFile)
		}
	}

	cfg := &Config{
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAITimeout:     getEnvDuration("OPENAI_TIMEOUT", "90s"),
		Model:             getEnv("ATFOOD_MODEL", os.Getenv("OPEN_MODEL")),
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		APIToken:          os.Getenv("ATFOOD_API_TOKEN"),
		CORSOrigins:       splitOrigins(os.Getenv("ATFOOD_CORS_ORIGINS")),
		InputPricePer1K:   getEnvDecimal("OPEN_INPUT_PRICE_PER_1K", "0"),
		OutputPricePer1K:  getEnvDecimal("OPEN_OUTPUT_PRICE_PER_1K", "0"),
		RateLimitRequests: getEnvInt("ATFOOD_RATE_LIMIT_REQUESTS", 30),
		RateLimitWindow:   time.Duration(getEnvInt("ATFOOD_RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,
		DatabaseURI:       os.Getenv("DATABASE_URI"),
		AuditDBPath:       getEnv("AUDIT_DB_PATH", "data/gateway.sqlite"),
		NatsURL:           getEnv("NATS_URL", ""),
		Subject:           getEnv("SUBJECT", "atfood.request"),
		QueueGroup:        getEnv("QUEUE_GROUP", "atfood-workers"),
	}

	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("OPEN_MODEL or ATFOOD_MODEL is required")
	}
	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("DATABASE_URI is required")
	}

	return cfg, nil
}

func loadDotEnv(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) == 2 {
			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])
			os.Setenv(key, value)
		}
	}
	return scanner.Err()
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key, defaultVal string) time.Duration {
	val := getEnv(key, defaultVal)
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	d, _ := time.ParseDuration(defaultVal)
	return d
}

func getEnvDecimal(key, defaultVal string) decimal.Decimal {
	if val := os.Getenv(key); val != "" {
		if d, err := decimal.NewFromString(val); err == nil {
			return d
		}
		slog.Warn("Invalid decimal in environment, using default", "key", key, "default", defaultVal)
	}
	d, _ := decimal.NewFromString(defaultVal)
	return d
}

package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	LogLevel        slog.Level
	HTTPTimeout     time.Duration
	AdsAPIURL       string
	AdsAccessToken  string
	AdsAccountID    string
	InsightsAPIKey  string
	InsightsBaseURL string
	InsightsModel   string
	RowPolicy       string
	SessionTTL      time.Duration
}

func FromEnv() Config {
	// .env es opcional
	_ = godotenv.Load()

	to := 15 * time.Second
	if v := os.Getenv("HTTP_TIMEOUT_SECONDS"); v != "" {
		if d, err := time.ParseDuration(v + "s"); err == nil {
			to = d
		}
	}
	lvl := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		lvl = slog.LevelDebug
	}
	ttl := 30 * time.Minute
	if v := os.Getenv("SESSION_TTL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			ttl = time.Duration(n) * time.Minute
		}
	}
	return Config{
		Port:            envOr("PORT", "8080"),
		LogLevel:        lvl,
		HTTPTimeout:     to,
		AdsAPIURL:       envOr("ADS_API_URL", "https://graph.facebook.com/v18.0"),
		AdsAccessToken:  os.Getenv("ADS_ACCESS_TOKEN"),
		AdsAccountID:    os.Getenv("ADS_ACCOUNT_ID"),
		InsightsAPIKey:  os.Getenv("OPENAI_API_KEY"),
		InsightsBaseURL: os.Getenv("OPENAI_BASE_URL"),
		InsightsModel:   os.Getenv("OPENAI_MODEL"),
		RowPolicy:       envOr("ROW_POLICY", "drop"),
		SessionTTL:      ttl,
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

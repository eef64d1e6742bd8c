package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all server configuration, read from environment variables.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	Port        int    `env:"PORT" envDefault:"8080"`

	// AWS
	AWSRegion string `env:"AWS_REGION" envDefault:"us-east-1"`
	S3Bucket  string `env:"S3_BUCKET_NAME" envDefault:"socialeats-photos"`

	// Redis (Places search cache). Empty disables caching.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	// Google Places
	PlacesAPIKey        string        `env:"GOOGLE_PLACES_API_KEY"`
	PlacesBaseURL       string        `env:"GOOGLE_PLACES_BASE_URL" envDefault:"https://maps.googleapis.com/maps/api/place"`
	PlacesCacheTTL      time.Duration `env:"PLACES_CACHE_TTL" envDefault:"5m"`
	DefaultSearchRadius int           `env:"DEFAULT_SEARCH_RADIUS" envDefault:"1500"`

	// FCM push
	FCMEndpoint  string `env:"FCM_ENDPOINT" envDefault:"https://fcm.googleapis.com/fcm/send"`
	FCMServerKey string `env:"FCM_SERVER_KEY"`

	// How long a dining selection stays valid.
	SelectionWindow time.Duration `env:"SELECTION_WINDOW" envDefault:"12h"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port: %d", cfg.Port)
	}
	if cfg.SelectionWindow <= 0 {
		return nil, fmt.Errorf("SELECTION_WINDOW must be positive, got %s", cfg.SelectionWindow)
	}
	if cfg.DefaultSearchRadius <= 0 {
		return nil, fmt.Errorf("DEFAULT_SEARCH_RADIUS must be positive, got %d", cfg.DefaultSearchRadius)
	}
	return cfg, nil
}

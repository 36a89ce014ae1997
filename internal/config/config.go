// Package config loads service settings from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Source kinds for the fleet collaborator.
const (
	SourceREST  = "rest"
	SourceMongo = "mongo"
)

type HTTPConfig struct {
	Host string
	Port int
}

// Addr returns host:port for the listener.
func (h HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

type LogConfig struct {
	Level  string
	Format string
}

type APIConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

type MongoConfig struct {
	URI      string
	Database string
}

type TelemetryConfig struct {
	RefreshInterval time.Duration
	Seed            int64
}

type MQTTConfig struct {
	Broker   string
	Topic    string
	ClientID string
}

// Enabled reports whether an MQTT broker is configured.
func (m MQTTConfig) Enabled() bool { return m.Broker != "" }

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Enabled reports whether a Redis server is configured.
func (r RedisConfig) Enabled() bool { return r.Addr != "" }

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

type Config struct {
	Environment string
	Source      string
	HTTP        HTTPConfig
	Log         LogConfig
	API         APIConfig
	Mongo       MongoConfig
	Telemetry   TelemetryConfig
	MQTT        MQTTConfig
	Redis       RedisConfig
	RateLimit   RateLimitConfig
	CORSOrigins []string
	// TrustedProxies lists proxy IPs or CIDRs whose forwarded headers are
	// believed. Empty trusts none.
	TrustedProxies []string
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("SOURCE", SourceREST)
	v.SetDefault("HTTP_HOST", "0.0.0.0")
	v.SetDefault("HTTP_PORT", 8080)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("API_BASE_URL", "http://localhost:8000")
	v.SetDefault("API_TIMEOUT", "10s")
	v.SetDefault("MONGO_DB", "fleet")
	v.SetDefault("REFRESH_INTERVAL", "30s")
	v.SetDefault("SIM_SEED", 1)
	v.SetDefault("MQTT_TOPIC", "fleet/telemetry")
	v.SetDefault("MQTT_CLIENT_ID", "fleet-insights")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_TTL", "5m")
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_WINDOW", "1m")
	v.SetDefault("CORS_ORIGINS", "*")
	v.AutomaticEnv()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		Source:      strings.ToLower(v.GetString("SOURCE")),
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		API: APIConfig{
			BaseURL: strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
			Token:   v.GetString("API_TOKEN"),
			Timeout: v.GetDuration("API_TIMEOUT"),
		},
		Mongo: MongoConfig{
			URI:      v.GetString("MONGO_URI"),
			Database: v.GetString("MONGO_DB"),
		},
		Telemetry: TelemetryConfig{
			RefreshInterval: v.GetDuration("REFRESH_INTERVAL"),
			Seed:            v.GetInt64("SIM_SEED"),
		},
		MQTT: MQTTConfig{
			Broker:   v.GetString("MQTT_BROKER"),
			Topic:    v.GetString("MQTT_TOPIC"),
			ClientID: v.GetString("MQTT_CLIENT_ID"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			TTL:      v.GetDuration("REDIS_TTL"),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   v.GetDuration("RATE_LIMIT_WINDOW"),
		},
		CORSOrigins:    parseList(v.GetString("CORS_ORIGINS")),
		TrustedProxies: parseList(v.GetString("TRUSTED_PROXIES")),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.Source {
	case SourceREST:
		if cfg.API.BaseURL == "" {
			return fmt.Errorf("API_BASE_URL is required when SOURCE=rest")
		}
	case SourceMongo:
		if cfg.Mongo.URI == "" {
			return fmt.Errorf("MONGO_URI is required when SOURCE=mongo")
		}
	default:
		return fmt.Errorf("SOURCE must be %q or %q, got %q", SourceREST, SourceMongo, cfg.Source)
	}
	if cfg.HTTP.Port <= 0 || cfg.HTTP.Port > 65535 {
		return fmt.Errorf("HTTP_PORT out of range: %d", cfg.HTTP.Port)
	}
	if cfg.Telemetry.RefreshInterval <= 0 {
		return fmt.Errorf("REFRESH_INTERVAL must be positive")
	}
	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive")
	}
	if cfg.RateLimit.Requests <= 0 || cfg.RateLimit.Window <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

func parseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	items := strings.Split(raw, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}

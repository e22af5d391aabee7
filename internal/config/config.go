package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName         string
	AppEnv          string
	AppPort         string
	DatabaseURL     string
	RedisURL        string
	ReportDir       string
	MaxReportSizeMB int
	ResultsCacheTTL time.Duration
	AIProvider      string
	GeminiAPIKey    string
	OpenAIAPIKey    string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("PROJEVAL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "ProjEval API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("report.dir", "uploads/reports")
	v.SetDefault("report.max_size_mb", 10)
	v.SetDefault("results.cache_ttl", "5m")
	v.SetDefault("ai.provider", "gemini")

	ttlString := v.GetString("results.cache_ttl")
	if ttlString == "" {
		ttlString = "5m"
	}

	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid results cache ttl: %w", err)
	}

	cfg := Config{
		AppName:         v.GetString("app.name"),
		AppEnv:          v.GetString("app.env"),
		AppPort:         v.GetString("app.port"),
		DatabaseURL:     v.GetString("database.url"),
		RedisURL:        v.GetString("redis.url"),
		ReportDir:       v.GetString("report.dir"),
		MaxReportSizeMB: v.GetInt("report.max_size_mb"),
		ResultsCacheTTL: ttl,
		AIProvider:      strings.ToLower(v.GetString("ai.provider")),
		GeminiAPIKey:    v.GetString("gemini_api_key"),
		OpenAIAPIKey:    v.GetString("openai_api_key"),
	}

	if cfg.MaxReportSizeMB <= 0 {
		cfg.MaxReportSizeMB = 10
	}

	switch cfg.AIProvider {
	case "gemini", "openai", "":
	default:
		return Config{}, fmt.Errorf("unknown ai provider %q", cfg.AIProvider)
	}

	return cfg, nil
}

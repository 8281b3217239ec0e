package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
// It is constructed once at process start and passed by reference; nothing in
// the request path reads configuration from storage.
type Config struct {
	AppEnv         string
	Port           string
	DatabaseURL    string
	JWTSecret      string
	AllowedOrigins []string

	PerplexityAPIKey  string
	PerplexityModel   string
	PerplexityBaseURL string

	UnsplashAccessKey string
	UnsplashBaseURL   string

	AnalysisServiceURL string

	GeoIPDBPath string

	TrendsTimeout      time.Duration
	ImageTimeout       time.Duration
	AnalysisTimeout    time.Duration
	InspirationTimeout time.Duration

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		AllowedOrigins: splitCSV(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),

		PerplexityAPIKey:  os.Getenv("PERPLEXITY_API_KEY"),
		PerplexityModel:   getEnv("PERPLEXITY_MODEL", "sonar-pro"),
		PerplexityBaseURL: getEnv("PERPLEXITY_BASE_URL", "https://api.perplexity.ai"),

		UnsplashAccessKey: os.Getenv("UNSPLASH_ACCESS_KEY"),
		UnsplashBaseURL:   getEnv("UNSPLASH_BASE_URL", "https://api.unsplash.com"),

		AnalysisServiceURL: getEnv("CREWAI_SERVICE_URL", "http://localhost:8000"),

		GeoIPDBPath: os.Getenv("GEOIP_DB_PATH"),

		TrendsTimeout:      time.Second * time.Duration(getEnvInt("TRENDS_TIMEOUT_SECONDS", 30)),
		ImageTimeout:       time.Second * time.Duration(getEnvInt("IMAGE_TIMEOUT_SECONDS", 30)),
		AnalysisTimeout:    time.Second * time.Duration(getEnvInt("ANALYSIS_TIMEOUT_SECONDS", 60)),
		InspirationTimeout: time.Second * time.Duration(getEnvInt("INSPIRATION_TIMEOUT_SECONDS", 45)),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 90)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

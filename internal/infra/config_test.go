package infra

import (
	"testing"
	"time"
)

func TestLoadConfigAppliesDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PERPLEXITY_MODEL", "")
	t.Setenv("ANALYSIS_TIMEOUT_SECONDS", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.PerplexityModel != "sonar-pro" {
		t.Fatalf("PerplexityModel mismatch: got %q want %q", cfg.PerplexityModel, "sonar-pro")
	}
	if cfg.PerplexityBaseURL != "https://api.perplexity.ai" {
		t.Fatalf("PerplexityBaseURL mismatch: got %q", cfg.PerplexityBaseURL)
	}
	if cfg.AnalysisTimeout != 60*time.Second {
		t.Fatalf("AnalysisTimeout mismatch: got %s want 60s", cfg.AnalysisTimeout)
	}
}

func TestLoadConfigRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "test-secret")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error when DATABASE_URL is missing")
	}
}

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("JWT_SECRET", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error when JWT_SECRET is missing")
	}
}

func TestLoadConfigHonorsTimeoutOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("TRENDS_TIMEOUT_SECONDS", "5")
	t.Setenv("INSPIRATION_TIMEOUT_SECONDS", "11")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.TrendsTimeout != 5*time.Second {
		t.Fatalf("TrendsTimeout mismatch: got %s want 5s", cfg.TrendsTimeout)
	}
	if cfg.InspirationTimeout != 11*time.Second {
		t.Fatalf("InspirationTimeout mismatch: got %s want 11s", cfg.InspirationTimeout)
	}
}

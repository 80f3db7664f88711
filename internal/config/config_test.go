package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadUsesDefaultsAndYAMLOverrides(t *testing.T) {
	clearConfigEnv(t)

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	yaml := `
http:
  addr: ":9090"
auth:
  jwt_access_ttl: 1h
toss:
  secret_key: test_sk
matching:
  round_interval: 30m
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.HTTP.Addr != ":9090" {
		t.Fatalf("unexpected http addr: %s", cfg.HTTP.Addr)
	}
	if cfg.Auth.JWTAccessTTL != time.Hour {
		t.Fatalf("unexpected access ttl: %s", cfg.Auth.JWTAccessTTL)
	}
	if cfg.Toss.SecretKey != "test_sk" {
		t.Fatalf("unexpected toss secret: %s", cfg.Toss.SecretKey)
	}
	if cfg.Matching.RoundInterval != 30*time.Minute {
		t.Fatalf("unexpected round interval: %s", cfg.Matching.RoundInterval)
	}

	if cfg.Auth.RefreshTTL != 14*24*time.Hour {
		t.Fatalf("refresh ttl default should stay 14 days, got %s", cfg.Auth.RefreshTTL)
	}
	if cfg.Toss.BaseURL != "https://api.tosspayments.com" {
		t.Fatalf("toss base url default changed: %s", cfg.Toss.BaseURL)
	}
	if cfg.Kakao.ProfileURL == "" {
		t.Fatalf("kakao profile url default should be set")
	}
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load config with missing file: %v", err)
	}

	if cfg.HTTP.Addr != ":8080" {
		t.Fatalf("unexpected default addr: %s", cfg.HTTP.Addr)
	}
	if cfg.Auth.JWTAccessTTL != 2*time.Hour {
		t.Fatalf("unexpected default access ttl: %s", cfg.Auth.JWTAccessTTL)
	}
	if cfg.Matching.RoundInterval != time.Hour {
		t.Fatalf("unexpected default round interval: %s", cfg.Matching.RoundInterval)
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("HTTP_ADDR", ":7070")
	t.Setenv("MATCHING_ROUND_INTERVAL", "15m")
	t.Setenv("TOSS_SECRET_KEY", "env_sk")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.HTTP.Addr != ":7070" {
		t.Fatalf("env addr override lost: %s", cfg.HTTP.Addr)
	}
	if cfg.Matching.RoundInterval != 15*time.Minute {
		t.Fatalf("env round interval override lost: %s", cfg.Matching.RoundInterval)
	}
	if cfg.Toss.SecretKey != "env_sk" {
		t.Fatalf("env toss secret override lost: %s", cfg.Toss.SecretKey)
	}
}

func TestLoadRejectsMissingSecretsInProduction(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("JWT_SECRET", "prod-secret")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatalf("expected error when toss.secret_key is empty in production")
	}
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV",
		"HTTP_ADDR",
		"HTTP_READ_TIMEOUT",
		"HTTP_WRITE_TIMEOUT",
		"HTTP_IDLE_TIMEOUT",
		"LOG_LEVEL",
		"POSTGRES_DSN",
		"REDIS_ADDR",
		"REDIS_PASSWORD",
		"REDIS_DB",
		"JWT_SECRET",
		"JWT_ACCESS_TTL",
		"REFRESH_TTL",
		"KAKAO_PROFILE_URL",
		"TOSS_BASE_URL",
		"TOSS_SECRET_KEY",
		"MATCHING_ROUND_INTERVAL",
	} {
		t.Setenv(key, "")
	}
}

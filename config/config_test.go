package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATABASE_PATH", "CORS_ALLOWED_ORIGINS", "INGEST_ATOMIC", "MAX_BODY_BYTES", "REQUEST_TIMEOUT_SECONDS", "LOG_LEVEL", "DB_LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if !filepath.IsAbs(cfg.DatabasePath) || filepath.Base(cfg.DatabasePath) != "dwh.db" {
		t.Errorf("DatabasePath = %q, want absolute path to dwh.db", cfg.DatabasePath)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Errorf("CORSAllowedOrigins = %v, want [*]", cfg.CORSAllowedOrigins)
	}
	if cfg.AtomicIngestion {
		t.Error("AtomicIngestion should default to false")
	}
	if cfg.MaxBodyBytes != 1<<20 {
		t.Errorf("MaxBodyBytes = %d", cfg.MaxBodyBytes)
	}
	if cfg.RequestTimeout != 60*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.RequestTimeout)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_PATH", ":memory:")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.example, http://b.example,")
	t.Setenv("INGEST_ATOMIC", "true")
	t.Setenv("MAX_BODY_BYTES", "not-a-number")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Port != "9090" || cfg.DatabasePath != ":memory:" || !cfg.AtomicIngestion {
		t.Errorf("unexpected config %+v", cfg)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "http://b.example" {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
	if cfg.MaxBodyBytes != 1<<20 {
		t.Errorf("invalid MAX_BODY_BYTES should fall back to default, got %d", cfg.MaxBodyBytes)
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Setenv("PORT", "http")
	if _, err := LoadConfig(); err == nil {
		t.Error("expected error for non-numeric PORT")
	}

	t.Setenv("PORT", "")
	t.Setenv("DATABASE_PATH", "dwh.db?_foreign_keys=0")
	if _, err := LoadConfig(); err == nil {
		t.Error("expected error for DATABASE_PATH with parameters")
	}
}

func TestWriteTimeoutOutlastsRequestTimeout(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_PATH", "")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "90")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.RequestTimeout != 90*time.Second {
		t.Fatalf("RequestTimeout = %v, want 90s", cfg.RequestTimeout)
	}
	if got := cfg.WriteTimeout(); got <= cfg.RequestTimeout {
		t.Errorf("WriteTimeout() = %v, must exceed RequestTimeout %v", got, cfg.RequestTimeout)
	}
	if got := (Config{RequestTimeout: time.Minute}).WriteTimeout(); got != time.Minute+writeTimeoutMargin {
		t.Errorf("WriteTimeout() = %v, want %v", got, time.Minute+writeTimeoutMargin)
	}
}

package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"APP_ENV", "WEB_HOST", "WEB_PORT", "WEB_ALLOWED_ORIGINS", "WEB_REQUEST_TIMEOUT_SECONDS",
		"EXPORT_FORMAT", "EXPORT_JPEG_QUALITY", "EXPORT_FILENAME_PREFIX",
		"EXPORT_MAX_UPLOAD_MB", "EXPORT_WORKERS", "EXPORT_OUTPUT_DIR",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()

	if cfg.AppEnv != "production" {
		t.Errorf("expected production, got %q", cfg.AppEnv)
	}
	if cfg.IsDevelopment() {
		t.Error("expected non-development by default")
	}
	if cfg.Web.Host != "0.0.0.0" || cfg.Web.Port != 8080 {
		t.Errorf("unexpected web defaults %s:%d", cfg.Web.Host, cfg.Web.Port)
	}
	if cfg.Web.RequestTimeout != 2*time.Minute {
		t.Errorf("expected 2m request timeout, got %s", cfg.Web.RequestTimeout)
	}
	if len(cfg.Web.AllowedOrigins) != 0 {
		t.Errorf("expected no extra origins, got %v", cfg.Web.AllowedOrigins)
	}
	if cfg.Export.Format != "jpeg" {
		t.Errorf("expected jpeg, got %q", cfg.Export.Format)
	}
	if cfg.Export.Quality != 95 {
		t.Errorf("expected quality 95, got %d", cfg.Export.Quality)
	}
	if cfg.Export.FilenamePrefix != "ID-PHOTO" {
		t.Errorf("expected ID-PHOTO prefix, got %q", cfg.Export.FilenamePrefix)
	}
	if cfg.Export.MaxUploadBytes() != 25<<20 {
		t.Errorf("expected 25MB limit, got %d", cfg.Export.MaxUploadBytes())
	}
	if cfg.Export.Workers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.Export.Workers)
	}
	if cfg.Export.OutputDir != "." {
		t.Errorf("expected current dir, got %q", cfg.Export.OutputDir)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("WEB_HOST", "127.0.0.1")
	t.Setenv("WEB_PORT", "9090")
	t.Setenv("WEB_REQUEST_TIMEOUT_SECONDS", "15")
	t.Setenv("WEB_ALLOWED_ORIGINS", "https://a.example.com, ,https://b.example.com")
	t.Setenv("EXPORT_FORMAT", "webp")
	t.Setenv("EXPORT_JPEG_QUALITY", "80")
	t.Setenv("EXPORT_FILENAME_PREFIX", "PASS")
	t.Setenv("EXPORT_MAX_UPLOAD_MB", "5")
	t.Setenv("EXPORT_WORKERS", "12")
	t.Setenv("EXPORT_OUTPUT_DIR", "/tmp/out")

	cfg := Load()

	if !cfg.IsDevelopment() {
		t.Error("expected development")
	}
	if cfg.Web.Host != "127.0.0.1" || cfg.Web.Port != 9090 {
		t.Errorf("unexpected web config %s:%d", cfg.Web.Host, cfg.Web.Port)
	}
	if cfg.Web.RequestTimeout != 15*time.Second {
		t.Errorf("expected 15s timeout, got %s", cfg.Web.RequestTimeout)
	}
	if len(cfg.Web.AllowedOrigins) != 2 || cfg.Web.AllowedOrigins[1] != "https://b.example.com" {
		t.Errorf("unexpected origins %v", cfg.Web.AllowedOrigins)
	}
	if cfg.Export.Format != "webp" || cfg.Export.Quality != 80 || cfg.Export.FilenamePrefix != "PASS" {
		t.Errorf("unexpected export config %+v", cfg.Export)
	}
	if cfg.Export.MaxUploadBytes() != 5<<20 {
		t.Errorf("expected 5MB, got %d", cfg.Export.MaxUploadBytes())
	}
	if cfg.Export.Workers != 12 || cfg.Export.OutputDir != "/tmp/out" {
		t.Errorf("unexpected export config %+v", cfg.Export)
	}
}

func TestLoad_InvalidQuality(t *testing.T) {
	tests := []struct {
		value    string
		expected int
	}{
		{"invalid", 95},
		{"-5", 95},
		{"0", 95},
		{"101", 95},
		{"100", 100},
		{"1", 1},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("EXPORT_JPEG_QUALITY", tt.value)
			if got := Load().Export.Quality; got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestEnvInt(t *testing.T) {
	t.Setenv("TEST_ENV_INT", "42")
	if got := envInt("TEST_ENV_INT", 1); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
	t.Setenv("TEST_ENV_INT", "abc")
	if got := envInt("TEST_ENV_INT", 1); got != 1 {
		t.Errorf("expected default 1, got %d", got)
	}
}

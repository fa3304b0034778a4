package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppEnv string
	Web    WebConfig
	Export ExportConfig
}

type WebConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string // extra CORS origins; localhost is always allowed
	RequestTimeout time.Duration
}

type ExportConfig struct {
	Format         string // jpeg, webp or png
	Quality        int    // lossy quality 1..100
	FilenamePrefix string
	MaxUploadMB    int
	Workers        int    // parallel exports in batch mode
	OutputDir      string // where the CLI writes files
}

// MaxUploadBytes returns the upload limit in bytes.
func (c ExportConfig) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// IsDevelopment reports whether human-readable console logging is wanted.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envString returns the environment variable or the default when unset.
func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// envList splits a comma-separated variable, dropping empty entries.
func envList(key string) []string {
	var out []string
	for item := range strings.SplitSeq(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func Load() *Config {
	quality := envInt("EXPORT_JPEG_QUALITY", 95)
	if quality > 100 {
		quality = 95
	}

	return &Config{
		AppEnv: envString("APP_ENV", "production"),
		Web: WebConfig{
			Host:           envString("WEB_HOST", "0.0.0.0"),
			Port:           envInt("WEB_PORT", 8080),
			AllowedOrigins: envList("WEB_ALLOWED_ORIGINS"),
		},
		Export: ExportConfig{
			Format:         envString("EXPORT_FORMAT", "jpeg"),
			Quality:        quality,
			FilenamePrefix: envString("EXPORT_FILENAME_PREFIX", "ID-PHOTO"),
			MaxUploadMB:    envInt("EXPORT_MAX_UPLOAD_MB", 25),
			Workers:        envInt("EXPORT_WORKERS", 4),
			OutputDir:      envString("EXPORT_OUTPUT_DIR", "."),
		},
	}
}

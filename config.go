package main

import (
	"log/slog"
	"os"
)

// Config is the fixed set of named connection parameters the console needs.
// Missing values are reported at startup as warnings, not fatal errors: the
// process stays up in a degraded state and store-backed endpoints answer 503.
type Config struct {
	ListenAddr   string
	DatabaseDSN  string
	JWTSecret    string
	UploadBase   string
	ReportConfig string
	AutoMigrate  bool
}

func LoadConfig(log *slog.Logger) *Config {
	cfg := &Config{
		ListenAddr:   envOr("LISTEN_ADDR", ":8081"),
		DatabaseDSN:  os.Getenv("DB_DSN"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		UploadBase:   envOr("UPLOAD_BASE", "uploads"),
		ReportConfig: envOr("REPORT_CONFIG", "report_config.json"),
		AutoMigrate:  envOr("DB_AUTO_MIGRATE", "true") != "false",
	}
	if cfg.DatabaseDSN == "" {
		log.Warn("DB_DSN is not set; running without a database, store-backed endpoints will return 503")
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-insecure-secret-change" // development fallback
		log.Warn("JWT_SECRET is not set; using the insecure development fallback")
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

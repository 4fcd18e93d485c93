package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Database
		Auth
		OpenLibrary
		Tasks
		Enrichment
		Import
		Covers
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Database struct {
		Path string
	}
	Auth struct {
		SessionSecret   string
		SessionLifetime time.Duration
		BcryptCost      int
		SecureCookies   bool // Set to false for local dev without HTTPS
	}
	OpenLibrary struct {
		BaseURL   string
		Timeout   time.Duration
		RateLimit time.Duration // minimum spacing between API calls
		UserAgent string
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		MaxRetries        int
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
	Enrichment struct {
		Enabled  bool
		Schedule string // Cron format: "0 * * * *" = hourly
		Batch    int    // Books per scheduled sweep
	}
	Import struct {
		MaxUploadBytes int64
	}
	Covers struct {
		Enabled  bool
		CacheDir string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8199)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Auth defaults
	v.SetDefault("auth_session_secret", "") // Auto-generated if empty
	v.SetDefault("auth_session_lifetime", "24h")
	v.SetDefault("auth_bcrypt_cost", 12)
	v.SetDefault("auth_secure_cookies", true)

	// OpenLibrary defaults
	v.SetDefault("openlibrary_base_url", "https://openlibrary.org")
	v.SetDefault("openlibrary_timeout", "10s")
	v.SetDefault("openlibrary_rate_limit", "1s")
	v.SetDefault("openlibrary_user_agent", DefaultUserAgent)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_max_retries", 3)
	v.SetDefault("task_timeout", "5m")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	// Enrichment sweep defaults
	v.SetDefault("enrichment_enabled", true)
	v.SetDefault("enrichment_schedule", "0 * * * *") // Hourly at :00
	v.SetDefault("enrichment_batch", 25)

	// Goodreads import defaults
	v.SetDefault("import_max_upload_bytes", DefaultMaxUploadBytes)

	// Cover cache defaults
	v.SetDefault("covers_enabled", true)
	v.SetDefault("covers_cache_dir", "./covers")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Auth: Auth{
			SessionSecret:   v.GetString("AUTH_SESSION_SECRET"),
			SessionLifetime: v.GetDuration("AUTH_SESSION_LIFETIME"),
			BcryptCost:      v.GetInt("AUTH_BCRYPT_COST"),
			SecureCookies:   v.GetBool("AUTH_SECURE_COOKIES"),
		},
		OpenLibrary: OpenLibrary{
			BaseURL:   v.GetString("OPENLIBRARY_BASE_URL"),
			Timeout:   v.GetDuration("OPENLIBRARY_TIMEOUT"),
			RateLimit: v.GetDuration("OPENLIBRARY_RATE_LIMIT"),
			UserAgent: v.GetString("OPENLIBRARY_USER_AGENT"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			MaxRetries:        v.GetInt("TASK_MAX_RETRIES"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		Enrichment: Enrichment{
			Enabled:  v.GetBool("ENRICHMENT_ENABLED"),
			Schedule: v.GetString("ENRICHMENT_SCHEDULE"),
			Batch:    v.GetInt("ENRICHMENT_BATCH"),
		},
		Import: Import{
			MaxUploadBytes: v.GetInt64("IMPORT_MAX_UPLOAD_BYTES"),
		},
		Covers: Covers{
			Enabled:  v.GetBool("COVERS_ENABLED"),
			CacheDir: v.GetString("COVERS_CACHE_DIR"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}

package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		API
		Auth
		Checkout
		Tasks
		Maintenance
	}

	HTTP struct {
		Port int32
		Host string
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	API struct {
		Latency time.Duration // Artificial delay added to every facade call
	}
	Auth struct {
		TokenMode     TokenMode
		TokenSecret   string
		TokenTTL      time.Duration
		BcryptCost    int
		SessionSecret string // Hex or raw; enables CSRF protection when set
		SessionTTL    time.Duration
		SecureCookies bool // Set to false for local dev without HTTPS

		// First-run bootstrap admin, created only while the users collection is empty
		BootstrapEmail    string
		BootstrapPassword string
	}
	Checkout struct {
		PaymentDelay time.Duration // Simulated gateway processing time
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
	Maintenance struct {
		Enabled            bool
		Schedule           string // Cron format: "0 3 * * *" = daily at 03:00
		CartRetention      time.Duration
		AuditRetentionDays int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	v.SetDefault("api_latency", "150ms")
	v.SetDefault("payment_delay", "1500ms")

	// Auth defaults
	v.SetDefault("auth_token_mode", string(TokenModeDev))
	v.SetDefault("auth_token_secret", "")
	v.SetDefault("auth_token_ttl", "24h")
	v.SetDefault("auth_bcrypt_cost", 12)
	v.SetDefault("auth_session_secret", "")
	v.SetDefault("auth_session_ttl", "24h")
	v.SetDefault("auth_secure_cookies", true)
	v.SetDefault("auth_bootstrap_email", "admin@shayfaway.com")
	v.SetDefault("auth_bootstrap_password", "admin")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	// Maintenance defaults
	v.SetDefault("maintenance_enabled", true)
	v.SetDefault("maintenance_schedule", "0 3 * * *")
	v.SetDefault("maintenance_cart_retention", "720h")
	v.SetDefault("maintenance_audit_retention_days", 30)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		API: API{
			Latency: v.GetDuration("API_LATENCY"),
		},
		Auth: Auth{
			TokenMode:         TokenMode(v.GetString("AUTH_TOKEN_MODE")),
			TokenSecret:       v.GetString("AUTH_TOKEN_SECRET"),
			TokenTTL:          v.GetDuration("AUTH_TOKEN_TTL"),
			BcryptCost:        v.GetInt("AUTH_BCRYPT_COST"),
			SessionSecret:     v.GetString("AUTH_SESSION_SECRET"),
			SessionTTL:        v.GetDuration("AUTH_SESSION_TTL"),
			SecureCookies:     v.GetBool("AUTH_SECURE_COOKIES"),
			BootstrapEmail:    v.GetString("AUTH_BOOTSTRAP_EMAIL"),
			BootstrapPassword: v.GetString("AUTH_BOOTSTRAP_PASSWORD"),
		},
		Checkout: Checkout{
			PaymentDelay: v.GetDuration("PAYMENT_DELAY"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		Maintenance: Maintenance{
			Enabled:            v.GetBool("MAINTENANCE_ENABLED"),
			Schedule:           v.GetString("MAINTENANCE_SCHEDULE"),
			CartRetention:      v.GetDuration("MAINTENANCE_CART_RETENTION"),
			AuditRetentionDays: v.GetInt("MAINTENANCE_AUDIT_RETENTION_DAYS"),
		},
	}
}

package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Database
		Global
		Auth
		Tasks
		Reports
	}

	HTTP struct {
		Port int32
		Host string
	}
	Database struct {
		Path string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Auth struct {
		SessionLifetime time.Duration
		SessionSecret   string
		SecureCookies   bool // Set to false for local dev without HTTPS

		// Bootstrap admin account seeded into an empty database
		AdminUsername string
		AdminPassword string
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Reports struct {
		RetentionDays   int
		CleanupSchedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8388)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Auth defaults
	v.SetDefault("auth_session_lifetime", "24h")
	v.SetDefault("auth_session_secret", "") // Auto-generated if empty
	v.SetDefault("auth_secure_cookies", true)
	v.SetDefault("admin_username", DefaultAdminUsername)
	v.SetDefault("admin_password", DefaultAdminPassword)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	// Report defaults
	v.SetDefault("report_retention_days", 90)
	v.SetDefault("report_cleanup_schedule", "0 3 * * *") // Daily at 03:00

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Auth: Auth{
			SessionLifetime: v.GetDuration("AUTH_SESSION_LIFETIME"),
			SessionSecret:   v.GetString("AUTH_SESSION_SECRET"),
			SecureCookies:   v.GetBool("AUTH_SECURE_COOKIES"),
			AdminUsername:   v.GetString("ADMIN_USERNAME"),
			AdminPassword:   v.GetString("ADMIN_PASSWORD"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Reports: Reports{
			RetentionDays:   v.GetInt("REPORT_RETENTION_DAYS"),
			CleanupSchedule: v.GetString("REPORT_CLEANUP_SCHEDULE"),
		},
	}
}

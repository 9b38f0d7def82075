package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Storage
		Log
		Auth
		CORS
		Metrics
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Storage struct {
		DataDir           string // Directory holding one JSON file per collection
		ReconcileSchedule string // Cron expression for periodic reconciliation, empty disables
	}
	Log struct {
		Level  string
		Format string // "json" or "console"
	}
	Auth struct {
		BcryptCost       int
		LoginMaxAttempts int           // Failed logins per client and email before lockout
		LoginWindow      time.Duration // Window for counting failed logins
		LoginLockout     time.Duration
	}
	CORS struct {
		AllowedOrigins []string
	}
	Metrics struct {
		Enabled bool
	}
)

// LoadDotEnv loads variables from .env files into the process environment.
// Variables already set are kept; missing files are ignored.
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		_ = godotenv.Load(p)
	}
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", DefaultPort)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("data_dir", DefaultDataDir)
	v.SetDefault("reconcile_schedule", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("auth_bcrypt_cost", 10)
	v.SetDefault("auth_login_max_attempts", 5)
	v.SetDefault("auth_login_window", 15*time.Minute)
	v.SetDefault("auth_login_lockout", 30*time.Minute)
	v.SetDefault("cors_allowed_origins", "*")
	v.SetDefault("metrics_enabled", true)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Storage: Storage{
			DataDir:           v.GetString("DATA_DIR"),
			ReconcileSchedule: v.GetString("RECONCILE_SCHEDULE"),
		},
		Log: Log{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Auth: Auth{
			BcryptCost:       v.GetInt("AUTH_BCRYPT_COST"),
			LoginMaxAttempts: v.GetInt("AUTH_LOGIN_MAX_ATTEMPTS"),
			LoginWindow:      v.GetDuration("AUTH_LOGIN_WINDOW"),
			LoginLockout:     v.GetDuration("AUTH_LOGIN_LOCKOUT"),
		},
		CORS: CORS{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Metrics: Metrics{
			Enabled: v.GetBool("METRICS_ENABLED"),
		},
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

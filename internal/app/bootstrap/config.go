package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the resolved runtime configuration.
// It merges file defaults and environment overrides to support both local and deployed runs.
type Config struct {
	ServiceID string

	HTTPPort int

	DatabaseURL string
	RedisURL    string

	BcryptCost   int
	CookieSecure bool

	SessionTimeout   time.Duration
	RotationInterval time.Duration
	LockoutWindow    time.Duration
	MaxLoginAttempts int
	RememberLifetime time.Duration

	MaxDBConns int32
}

// configFile mirrors the YAML schema used by configs/default.yaml.
// It is intentionally separate from Config so runtime-only fields stay internal.
type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL string `yaml:"postgres_url"`
		RedisURL    string `yaml:"redis_url"`
	} `yaml:"dependencies"`
	Security struct {
		BcryptCost           int  `yaml:"bcrypt_cost"`
		CookieSecure         bool `yaml:"cookie_secure"`
		SessionTimeoutSecs   int  `yaml:"session_timeout_seconds"`
		RotationIntervalSecs int  `yaml:"session_rotation_seconds"`
		LockoutWindowSecs    int  `yaml:"lockout_window_seconds"`
		MaxLoginAttempts     int  `yaml:"max_login_attempts"`
		RememberDays         int  `yaml:"remember_days"`
	} `yaml:"security"`
}

// LoadConfig resolves configuration in priority order: defaults -> file -> env.
// This order keeps local bootstrap simple while allowing environment-specific overrides.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:        "sistema-login",
		HTTPPort:         8080,
		BcryptCost:       12,
		SessionTimeout:   30 * time.Minute,
		RotationInterval: 5 * time.Minute,
		LockoutWindow:    15 * time.Minute,
		MaxLoginAttempts: 5,
		RememberLifetime: 30 * 24 * time.Hour,
		MaxDBConns:       20,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Dependencies.PostgresURL != "" {
			cfg.DatabaseURL = f.Dependencies.PostgresURL
		}
		if f.Dependencies.RedisURL != "" {
			cfg.RedisURL = f.Dependencies.RedisURL
		}
		if f.Security.BcryptCost > 0 {
			cfg.BcryptCost = f.Security.BcryptCost
		}
		cfg.CookieSecure = f.Security.CookieSecure
		if f.Security.SessionTimeoutSecs > 0 {
			cfg.SessionTimeout = time.Duration(f.Security.SessionTimeoutSecs) * time.Second
		}
		if f.Security.RotationIntervalSecs > 0 {
			cfg.RotationInterval = time.Duration(f.Security.RotationIntervalSecs) * time.Second
		}
		if f.Security.LockoutWindowSecs > 0 {
			cfg.LockoutWindow = time.Duration(f.Security.LockoutWindowSecs) * time.Second
		}
		if f.Security.MaxLoginAttempts > 0 {
			cfg.MaxLoginAttempts = f.Security.MaxLoginAttempts
		}
		if f.Security.RememberDays > 0 {
			cfg.RememberLifetime = time.Duration(f.Security.RememberDays) * 24 * time.Hour
		}
	}

	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("POSTGRES_URL", cfg.DatabaseURL))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)

	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.BcryptCost = envInt("BCRYPT_ROUNDS", cfg.BcryptCost)
	cfg.CookieSecure = envBool("COOKIE_SECURE", cfg.CookieSecure)
	cfg.MaxLoginAttempts = envInt("MAX_LOGIN_ATTEMPTS", cfg.MaxLoginAttempts)
	cfg.MaxDBConns = int32(envInt("DB_MAX_CONNS", int(cfg.MaxDBConns)))

	cfg.SessionTimeout = time.Duration(envInt("SESSION_TIMEOUT_SECONDS", int(cfg.SessionTimeout.Seconds()))) * time.Second
	cfg.RotationInterval = time.Duration(envInt("SESSION_ROTATION_SECONDS", int(cfg.RotationInterval.Seconds()))) * time.Second
	cfg.LockoutWindow = time.Duration(envInt("LOCKOUT_SECONDS", int(cfg.LockoutWindow.Seconds()))) * time.Second
	cfg.RememberLifetime = time.Duration(envInt("REMEMBER_DAYS", int(cfg.RememberLifetime.Hours()/24))) * 24 * time.Hour

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("missing DB_URL/POSTGRES_URL")
	}
	if cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("missing REDIS_URL")
	}

	return cfg, nil
}

// envOrDefault returns an env var when present, otherwise the provided fallback.
func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

// envInt parses integer env vars with safe fallback on empty/invalid values.
func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// envBool parses common boolean env forms while keeping a deterministic fallback.
func envBool(name string, fallback bool) bool {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return fallback
	}
}

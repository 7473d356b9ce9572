package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Storage
		Auth
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Storage struct {
		DataRoot string // Directory holding library.json, users.json and per-document bundles
	}
	Auth struct {
		SessionSecret   string // Auto-generated if empty
		SessionLifetime time.Duration
		SecureCookies   bool // Set to false for local dev without HTTPS
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

// defaultDataRoot resolves the OS-conventional per-user application data
// directory, falling back to a dotted folder in the working directory
// when the host gives us nothing.
func defaultDataRoot() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "./" + AppDirName
	}
	return filepath.Join(base, AppDirName)
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8177)
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("data_root", defaultDataRoot())

	// Auth defaults
	v.SetDefault("auth_session_secret", "")     // Auto-generated if empty
	v.SetDefault("auth_session_lifetime", "24h")
	v.SetDefault("auth_secure_cookies", false) // Local app, plain HTTP by default

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Storage: Storage{
			DataRoot: v.GetString("DATA_ROOT"),
		},
		Auth: Auth{
			SessionSecret:   v.GetString("AUTH_SESSION_SECRET"),
			SessionLifetime: v.GetDuration("AUTH_SESSION_LIFETIME"),
			SecureCookies:   v.GetBool("AUTH_SECURE_COOKIES"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}

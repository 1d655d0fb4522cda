package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL       string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	// Authy
	AuthyAPIKey     string
	AuthyAPIURL     string
	ProviderTimeout time.Duration

	// Session
	SessionMaxAge          int
	SessionCleanupInterval time.Duration

	// Rate Limit
	RateLimitGeneral      int
	RateLimitVerification int

	// Server
	ListenIP string
	Port     string

	// CORS
	CORSAllowedOrigins []string

	// Logging
	LogLevel string
}

// ListenAddr はサーバーの待ち受けアドレスを返す。
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.ListenIP, c.Port)
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合、LISTEN_IPとPORTが不正な場合、
// または期間や上限値が正でない場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.AuthyAPIKey = os.Getenv("AUTHY_API_KEY")
	if cfg.AuthyAPIKey == "" {
		missing = append(missing, "AUTHY_API_KEY")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	cfg.DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 5)
	cfg.DBConnMaxLifetime = getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute)
	cfg.AuthyAPIURL = strings.TrimRight(getEnvString("AUTHY_API_URL", "https://api.authy.com"), "/")
	cfg.ProviderTimeout = getEnvDuration("PROVIDER_TIMEOUT", 10*time.Second)
	cfg.SessionMaxAge = getEnvInt("SESSION_MAX_AGE", 2592000)
	cfg.SessionCleanupInterval = getEnvDuration("SESSION_CLEANUP_INTERVAL", 24*time.Hour)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitVerification = getEnvInt("RATE_LIMIT_VERIFICATION", 5)
	cfg.ListenIP = getEnvString("LISTEN_IP", "127.0.0.1")
	cfg.Port = getEnvString("PORT", "1234")
	cfg.CORSAllowedOrigins = getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"})
	cfg.LogLevel = getEnvString("LOG_LEVEL", "info")

	if net.ParseIP(cfg.ListenIP) == nil {
		return nil, fmt.Errorf("LISTEN_IP is not a valid IP address: %q", cfg.ListenIP)
	}
	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		return nil, fmt.Errorf("PORT is not a valid port number: %q", cfg.Port)
	}
	if err := cfg.validateLimits(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateLimits は期間と上限値の範囲を検証する。
func (c *Config) validateLimits() error {
	positiveInts := []struct {
		key string
		val int
	}{
		{"DB_MAX_OPEN_CONNS", c.DBMaxOpenConns},
		{"SESSION_MAX_AGE", c.SessionMaxAge},
		{"RATE_LIMIT_GENERAL", c.RateLimitGeneral},
		{"RATE_LIMIT_VERIFICATION", c.RateLimitVerification},
	}
	for _, p := range positiveInts {
		if p.val <= 0 {
			return fmt.Errorf("%s must be positive: %d", p.key, p.val)
		}
	}
	if c.DBMaxIdleConns < 0 {
		return fmt.Errorf("DB_MAX_IDLE_CONNS must not be negative: %d", c.DBMaxIdleConns)
	}

	positiveDurations := []struct {
		key string
		val time.Duration
	}{
		{"DB_CONN_MAX_LIFETIME", c.DBConnMaxLifetime},
		{"PROVIDER_TIMEOUT", c.ProviderTimeout},
		{"SESSION_CLEANUP_INTERVAL", c.SessionCleanupInterval},
	}
	for _, p := range positiveDurations {
		if p.val <= 0 {
			return fmt.Errorf("%s must be positive: %s", p.key, p.val)
		}
	}
	return nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

// getEnvList はカンマ区切りの環境変数を空要素を除いたスライスとして返す。
func getEnvList(key string, defaultVal []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}

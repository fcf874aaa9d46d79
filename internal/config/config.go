// Package config loads the portal backend configuration from the environment
// (and an optional .env file) using Viper.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        int    `mapstructure:"PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	Env         string `mapstructure:"APP_ENV"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	LogFormat   string `mapstructure:"LOG_FORMAT"`

	JWTSecret  string        `mapstructure:"JWT_SECRET"`
	JWTTTL     time.Duration `mapstructure:"JWT_TTL"`
	SessionTTL time.Duration `mapstructure:"SESSION_TTL"`
	BcryptCost int           `mapstructure:"BCRYPT_COST"`

	CookieName     string `mapstructure:"COOKIE_NAME"`
	CookieSecure   bool   `mapstructure:"COOKIE_SECURE"`
	CookieSameSite string `mapstructure:"COOKIE_SAMESITE"`
	CookieDomain   string `mapstructure:"COOKIE_DOMAIN"`
	AllowedOrigin  string `mapstructure:"ALLOWED_ORIGIN"`

	SM8APIKey      string        `mapstructure:"SM8_API_KEY"`
	SM8BaseURL     string        `mapstructure:"SM8_BASE_URL"`
	SM8Timeout     time.Duration `mapstructure:"SM8_TIMEOUT"`
	SM8FanoutLimit int           `mapstructure:"SM8_FANOUT_LIMIT"`
	SM8ConfigFile  string        `mapstructure:"SM8_CONFIG_FILE"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	MinioEndpoint  string `mapstructure:"MINIO_ENDPOINT"`
	MinioAccessKey string `mapstructure:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `mapstructure:"MINIO_SECRET_KEY"`
	MinioUseSSL    bool   `mapstructure:"MINIO_USE_SSL"`
	MinioBucket    string `mapstructure:"MINIO_BUCKET"`

	SessionCleanupInterval time.Duration `mapstructure:"SESSION_CLEANUP_INTERVAL"`
	LoginRateLimit         int           `mapstructure:"LOGIN_RATE_LIMIT"`
	LoginRateWindow        time.Duration `mapstructure:"LOGIN_RATE_WINDOW"`
}

// Load reads .env (if present), then builds and validates Config from the environment.
// Env vars override .env.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // missing .env is fine

	v.AutomaticEnv()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if cfg.SM8ConfigFile != "" {
		file, err := LoadServiceM8File(cfg.SM8ConfigFile)
		if err != nil {
			return nil, err
		}
		file.Apply(&cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", 8080)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_TTL", "1h")
	v.SetDefault("SESSION_TTL", "168h")
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("COOKIE_NAME", "session_token")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("COOKIE_SAMESITE", "lax")
	v.SetDefault("COOKIE_DOMAIN", "")
	v.SetDefault("ALLOWED_ORIGIN", "http://localhost:3000")
	v.SetDefault("SM8_API_KEY", "")
	v.SetDefault("SM8_BASE_URL", "https://api.servicem8.com/api_1.0")
	v.SetDefault("SM8_TIMEOUT", "30s")
	v.SetDefault("SM8_FANOUT_LIMIT", 8)
	v.SetDefault("SM8_CONFIG_FILE", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("MINIO_ENDPOINT", "")
	v.SetDefault("MINIO_ACCESS_KEY", "")
	v.SetDefault("MINIO_SECRET_KEY", "")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("MINIO_BUCKET", "booking-attachments")
	v.SetDefault("SESSION_CLEANUP_INTERVAL", "1h")
	v.SetDefault("LOGIN_RATE_LIMIT", 10)
	v.SetDefault("LOGIN_RATE_WINDOW", "15m")
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return errors.New("config: DATABASE_URL must be set")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: invalid PORT %d", c.Port)
	}
	if c.JWTSecret == "" {
		if c.IsProduction() {
			return errors.New("config: JWT_SECRET must be set when APP_ENV=production")
		}
		c.JWTSecret = randomSecret()
	}
	if c.JWTTTL <= 0 || c.SessionTTL <= 0 {
		return errors.New("config: JWT_TTL and SESSION_TTL must be positive durations")
	}
	if c.SM8FanoutLimit < 0 {
		return errors.New("config: SM8_FANOUT_LIMIT must be >= 0")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return errors.New("config: BCRYPT_COST must be between 4 and 31")
	}
	if c.CookieName == "" {
		return errors.New("config: COOKIE_NAME must be set")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// SameSite maps COOKIE_SAMESITE onto http.SameSite. Unknown values fall back to Lax.
func (c *Config) SameSite() http.SameSite {
	switch strings.ToLower(c.CookieSameSite) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

func (c *Config) RedisEnabled() bool { return c.RedisAddr != "" }

func (c *Config) MinioEnabled() bool { return c.MinioEndpoint != "" }

func randomSecret() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

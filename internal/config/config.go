// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port             string        `mapstructure:"PORT"`
	Env              string        `mapstructure:"APP_ENV"`
	BodyLimitMB      int           `mapstructure:"BODY_LIMIT_MB"`
	DBHost           string        `mapstructure:"DB_HOST"`
	DBPort           string        `mapstructure:"DB_PORT"`
	DBUser           string        `mapstructure:"DB_USER"`
	DBPassword       string        `mapstructure:"DB_PASSWORD"`
	DBName           string        `mapstructure:"DB_NAME"`
	DBSSLMode        string        `mapstructure:"DB_SSLMODE"`
	RedisURL         string        `mapstructure:"REDIS_URL"`
	AccessSecret     string        `mapstructure:"JWT_ACCESS_SECRET"`
	RefreshSecret    string        `mapstructure:"JWT_REFRESH_SECRET"`
	AccessTokenTTL   time.Duration `mapstructure:"ACCESS_TOKEN_TTL"`
	RefreshTokenTTL  time.Duration `mapstructure:"REFRESH_TOKEN_TTL"`
	MediaBucket      string        `mapstructure:"MEDIA_BUCKET"`
	MediaRegion      string        `mapstructure:"MEDIA_REGION"`
	MediaEndpoint    string        `mapstructure:"MEDIA_ENDPOINT"`
	MediaPublicURL   string        `mapstructure:"MEDIA_PUBLIC_URL"`
	AllowedOrigins   string        `mapstructure:"ALLOWED_ORIGINS"`
	SecureCookies    bool          `mapstructure:"SECURE_COOKIES"`
}

const defaultAccessSecret = "access-secret-change-in-production"
const defaultRefreshSecret = "refresh-secret-change-in-production"

// LoadConfig loads application configuration from .env, config file and environment variables.
func LoadConfig() (*Config, error) {
	// .env files are optional; environment wins either way.
	_ = godotenv.Load()

	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The config file may not exist; env vars and defaults cover everything.
	_ = viper.ReadInConfig()

	viper.SetDefault("PORT", "8480")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("BODY_LIMIT_MB", 256)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "clipstream")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("JWT_ACCESS_SECRET", defaultAccessSecret)
	viper.SetDefault("JWT_REFRESH_SECRET", defaultRefreshSecret)
	viper.SetDefault("ACCESS_TOKEN_TTL", "15m")
	viper.SetDefault("REFRESH_TOKEN_TTL", "240h")
	viper.SetDefault("MEDIA_BUCKET", "clipstream-media")
	viper.SetDefault("MEDIA_REGION", "us-east-1")
	viper.SetDefault("MEDIA_ENDPOINT", "")
	viper.SetDefault("MEDIA_PUBLIC_URL", "")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	viper.SetDefault("SECURE_COOKIES", true)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.AccessSecret == "" || c.RefreshSecret == "" {
		return errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET are required")
	}
	if c.AccessSecret == c.RefreshSecret {
		return errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return errors.New("token TTLs must be positive")
	}
	if c.RefreshTokenTTL <= c.AccessTokenTTL {
		return errors.New("REFRESH_TOKEN_TTL must exceed ACCESS_TOKEN_TTL")
	}

	isProduction := c.Env == "production" || c.Env == "prod"
	if isProduction {
		if c.AccessSecret == defaultAccessSecret || c.RefreshSecret == defaultRefreshSecret {
			return errors.New("JWT secrets must be changed from their default values in production")
		}
		if len(c.AccessSecret) < 32 || len(c.RefreshSecret) < 32 {
			return errors.New("JWT secrets must be at least 32 characters in production")
		}
		if c.DBPassword == "password" || c.DBPassword == "" {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.MediaBucket == "" {
			return errors.New("MEDIA_BUCKET is required in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			log.Println("WARNING: DB_SSLMODE is 'disable' in production. It is highly recommended to use SSL for database connections.")
		}
		if !c.SecureCookies {
			log.Println("WARNING: SECURE_COOKIES is disabled in production. Tokens will be sent over plain HTTP.")
		}
	}

	return nil
}

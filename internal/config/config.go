package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	JWT    JWTConfig
	S3     S3Config
	OCR    OCRConfig
	Email  EmailConfig
	CORS   CORSConfig
	Quote  QuoteConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// S3Config holds object storage settings for uploaded price-list images.
type S3Config struct {
	Region           string `mapstructure:"region"`
	Bucket           string `mapstructure:"bucket"`
	Endpoint         string `mapstructure:"endpoint"`
	AccessKey        string `mapstructure:"access_key"`
	SecretKey        string `mapstructure:"secret_key"`
	MaxImageSizeMB   int64  `mapstructure:"max_image_size_mb"`
	PresignExpirySec int64  `mapstructure:"presign_expiry"`
}

// OCRConfig holds settings for the external extraction/matching service.
type OCRConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	APIKey      string `mapstructure:"api_key"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// EmailConfig holds email delivery settings for quotation sharing.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// QuoteConfig holds quotation defaults.
type QuoteConfig struct {
	DefaultTaxRatePercent float64 `mapstructure:"default_tax_rate_percent"`
	NumberPrefix          string  `mapstructure:"number_prefix"`
}

// Load reads configuration from config.yaml (if present) and environment
// variables prefixed with SNAPQUOTE_.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "postgres")
	v.SetDefault("db.name", "snapquote")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "snapquote")

	// S3 defaults
	v.SetDefault("s3.region", "ap-south-1")
	v.SetDefault("s3.bucket", "snapquote-uploads")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_image_size_mb", 15)
	v.SetDefault("s3.presign_expiry", 3600)

	// OCR service defaults
	v.SetDefault("ocr.base_url", "")
	v.SetDefault("ocr.api_key", "")
	v.SetDefault("ocr.timeout_secs", 120)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "ap-south-1")
	v.SetDefault("email.from_address", "quotes@snapquote.app")
	v.SetDefault("email.from_name", "SnapQuote")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:8081")

	// Quotation defaults
	v.SetDefault("quote.default_tax_rate_percent", 18.0)
	v.SetDefault("quote.number_prefix", "QT")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                    "SNAPQUOTE_SERVER_PORT",
		"server.read_timeout":            "SNAPQUOTE_SERVER_READ_TIMEOUT",
		"server.write_timeout":           "SNAPQUOTE_SERVER_WRITE_TIMEOUT",
		"server.environment":             "SNAPQUOTE_SERVER_ENVIRONMENT",
		"db.host":                        "SNAPQUOTE_DB_HOST",
		"db.port":                        "SNAPQUOTE_DB_PORT",
		"db.user":                        "SNAPQUOTE_DB_USER",
		"db.password":                    "SNAPQUOTE_DB_PASSWORD",
		"db.name":                        "SNAPQUOTE_DB_NAME",
		"db.sslmode":                     "SNAPQUOTE_DB_SSLMODE",
		"db.max_open":                    "SNAPQUOTE_DB_MAX_OPEN",
		"db.max_idle":                    "SNAPQUOTE_DB_MAX_IDLE",
		"jwt.secret":                     "SNAPQUOTE_JWT_SECRET",
		"jwt.access_expiry":              "SNAPQUOTE_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":             "SNAPQUOTE_JWT_REFRESH_EXPIRY",
		"jwt.issuer":                     "SNAPQUOTE_JWT_ISSUER",
		"s3.region":                      "SNAPQUOTE_S3_REGION",
		"s3.bucket":                      "SNAPQUOTE_S3_BUCKET",
		"s3.endpoint":                    "SNAPQUOTE_S3_ENDPOINT",
		"s3.access_key":                  "SNAPQUOTE_S3_ACCESS_KEY",
		"s3.secret_key":                  "SNAPQUOTE_S3_SECRET_KEY",
		"s3.max_image_size_mb":           "SNAPQUOTE_S3_MAX_IMAGE_SIZE_MB",
		"s3.presign_expiry":              "SNAPQUOTE_S3_PRESIGN_EXPIRY",
		"ocr.base_url":                   "SNAPQUOTE_OCR_BASE_URL",
		"ocr.api_key":                    "SNAPQUOTE_OCR_API_KEY",
		"ocr.timeout_secs":               "SNAPQUOTE_OCR_TIMEOUT_SECS",
		"email.provider":                 "SNAPQUOTE_EMAIL_PROVIDER",
		"email.region":                   "SNAPQUOTE_EMAIL_REGION",
		"email.from_address":             "SNAPQUOTE_EMAIL_FROM_ADDRESS",
		"email.from_name":                "SNAPQUOTE_EMAIL_FROM_NAME",
		"cors.allowed_origins":           "SNAPQUOTE_CORS_ALLOWED_ORIGINS",
		"quote.default_tax_rate_percent": "SNAPQUOTE_QUOTE_DEFAULT_TAX_RATE_PERCENT",
		"quote.number_prefix":            "SNAPQUOTE_QUOTE_NUMBER_PREFIX",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	// Config file is optional; env vars and defaults are enough.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if SNAPQUOTE_SERVER_PORT
	// is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("SNAPQUOTE_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:           v.GetString("s3.region"),
		Bucket:           v.GetString("s3.bucket"),
		Endpoint:         v.GetString("s3.endpoint"),
		AccessKey:        v.GetString("s3.access_key"),
		SecretKey:        v.GetString("s3.secret_key"),
		MaxImageSizeMB:   v.GetInt64("s3.max_image_size_mb"),
		PresignExpirySec: v.GetInt64("s3.presign_expiry"),
	}
	cfg.OCR = OCRConfig{
		BaseURL:     v.GetString("ocr.base_url"),
		APIKey:      v.GetString("ocr.api_key"),
		TimeoutSecs: v.GetInt("ocr.timeout_secs"),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitAndTrim(v.GetString("cors.allowed_origins")),
	}
	cfg.Quote = QuoteConfig{
		DefaultTaxRatePercent: v.GetFloat64("quote.default_tax_rate_percent"),
		NumberPrefix:          v.GetString("quote.number_prefix"),
	}

	return cfg, nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

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
	S3     S3Config
	Log    LogConfig
	CORS   CORSConfig
	Email  EmailConfig
	Doc    DocConfig
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

// S3Config holds AWS S3 settings for the PDF blob store.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	KeyPrefix     string `mapstructure:"key_prefix"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// EmailConfig holds delivery settings for generated-document notices.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// DocConfig holds document generation settings.
type DocConfig struct {
	// MaxSequenceRetries bounds the Numbering->Persisting retry loop
	// after a sequence conflict.
	MaxSequenceRetries int    `mapstructure:"max_sequence_retries"`
	DefaultCurrency    string `mapstructure:"default_currency"`
	HistoryLimit       int    `mapstructure:"history_limit"`
}

// Load reads configuration from environment variables with the INVOICER_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("INVOICER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "invoicer")
	v.SetDefault("db.password", "invoicer_secret")
	v.SetDefault("db.name", "invoicer_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "ap-southeast-1")
	v.SetDefault("s3.bucket", "invoicer-documents")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.key_prefix", "invoices")
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "ap-southeast-1")
	v.SetDefault("email.from_address", "noreply@invoicer.local")
	v.SetDefault("email.from_name", "Invoice Maker")

	// Document defaults
	v.SetDefault("doc.max_sequence_retries", 3)
	v.SetDefault("doc.default_currency", "Rp")
	v.SetDefault("doc.history_limit", 10)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":              "INVOICER_SERVER_PORT",
		"server.read_timeout":      "INVOICER_SERVER_READ_TIMEOUT",
		"server.write_timeout":     "INVOICER_SERVER_WRITE_TIMEOUT",
		"server.environment":       "INVOICER_SERVER_ENVIRONMENT",
		"db.host":                  "INVOICER_DB_HOST",
		"db.port":                  "INVOICER_DB_PORT",
		"db.user":                  "INVOICER_DB_USER",
		"db.password":              "INVOICER_DB_PASSWORD",
		"db.name":                  "INVOICER_DB_NAME",
		"db.sslmode":               "INVOICER_DB_SSLMODE",
		"db.max_open":              "INVOICER_DB_MAX_OPEN",
		"db.max_idle":              "INVOICER_DB_MAX_IDLE",
		"s3.region":                "INVOICER_S3_REGION",
		"s3.bucket":                "INVOICER_S3_BUCKET",
		"s3.endpoint":              "INVOICER_S3_ENDPOINT",
		"s3.access_key":            "INVOICER_S3_ACCESS_KEY",
		"s3.secret_key":            "INVOICER_S3_SECRET_KEY",
		"s3.key_prefix":            "INVOICER_S3_KEY_PREFIX",
		"s3.presign_expiry":        "INVOICER_S3_PRESIGN_EXPIRY",
		"log.level":                "INVOICER_LOG_LEVEL",
		"log.format":               "INVOICER_LOG_FORMAT",
		"cors.allowed_origins":     "INVOICER_CORS_ALLOWED_ORIGINS",
		"email.provider":           "INVOICER_EMAIL_PROVIDER",
		"email.region":             "INVOICER_EMAIL_REGION",
		"email.from_address":       "INVOICER_EMAIL_FROM_ADDRESS",
		"email.from_name":          "INVOICER_EMAIL_FROM_NAME",
		"doc.max_sequence_retries": "INVOICER_DOC_MAX_SEQUENCE_RETRIES",
		"doc.default_currency":     "INVOICER_DOC_DEFAULT_CURRENCY",
		"doc.history_limit":        "INVOICER_DOC_HISTORY_LIMIT",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if INVOICER_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("INVOICER_SERVER_PORT") == "" {
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
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		KeyPrefix:     v.GetString("s3.key_prefix"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
	}
	cfg.Doc = DocConfig{
		MaxSequenceRetries: v.GetInt("doc.max_sequence_retries"),
		DefaultCurrency:    v.GetString("doc.default_currency"),
		HistoryLimit:       v.GetInt("doc.history_limit"),
	}

	return cfg, nil
}

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Storage  StorageConfig
	GenAI    GenAIConfig
	Session  SessionConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PublicURL    string // base URL clients reach the server on
}

// DatabaseConfig holds database connection configuration.
type DatabaseConfig struct {
	Driver       string // "mysql" or "sqlite"
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	Path         string // sqlite file
	MaxOpenConns int
	MaxIdleConns int
}

// AuthConfig holds token and cookie configuration.
type AuthConfig struct {
	JWTSecret    string
	TokenTTL     time.Duration
	CookieName   string
	CookieSecret string
	CookieSecure bool
}

// StorageConfig holds blob storage configuration.
type StorageConfig struct {
	Type            string // "local" or "s3"
	BaseDir         string
	S3Bucket        string
	S3Region        string
	S3BaseURL       string // CDN or custom domain serving the bucket
}

// GenAIConfig holds Bedrock configuration.
type GenAIConfig struct {
	Enabled    bool
	Region     string
	TextModel  string
	ImageModel string
	MaxTokens  int
}

// SessionConfig holds token revocation configuration.
type SessionConfig struct {
	RedisURL        string // empty keeps revocations in memory
	CleanupInterval time.Duration
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string
}

// LoadConfig loads configuration from file and environment variables.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config

	config.Server.Host = v.GetString("server.host")
	config.Server.Port = v.GetInt("server.port")
	config.Server.ReadTimeout = v.GetDuration("server.read_timeout")
	config.Server.WriteTimeout = v.GetDuration("server.write_timeout")
	config.Server.PublicURL = strings.TrimRight(v.GetString("server.public_url"), "/")

	config.Database.Driver = v.GetString("database.driver")
	config.Database.Host = v.GetString("database.host")
	config.Database.Port = v.GetInt("database.port")
	config.Database.User = v.GetString("database.user")
	config.Database.Password = v.GetString("database.password")
	config.Database.Database = v.GetString("database.database")
	config.Database.Path = v.GetString("database.path")
	config.Database.MaxOpenConns = v.GetInt("database.max_open_conns")
	config.Database.MaxIdleConns = v.GetInt("database.max_idle_conns")

	config.Auth.JWTSecret = v.GetString("auth.jwt_secret")
	config.Auth.TokenTTL = v.GetDuration("auth.token_ttl")
	config.Auth.CookieName = v.GetString("auth.cookie_name")
	config.Auth.CookieSecret = v.GetString("auth.cookie_secret")
	config.Auth.CookieSecure = v.GetBool("auth.cookie_secure")

	config.Storage.Type = v.GetString("storage.type")
	config.Storage.BaseDir = v.GetString("storage.base_dir")
	config.Storage.S3Bucket = v.GetString("storage.s3_bucket")
	config.Storage.S3Region = v.GetString("storage.s3_region")
	config.Storage.S3BaseURL = v.GetString("storage.s3_base_url")

	config.GenAI.Enabled = v.GetBool("genai.enabled")
	config.GenAI.Region = v.GetString("genai.region")
	config.GenAI.TextModel = v.GetString("genai.text_model")
	config.GenAI.ImageModel = v.GetString("genai.image_model")
	config.GenAI.MaxTokens = v.GetInt("genai.max_tokens")

	config.Session.RedisURL = v.GetString("session.redis_url")
	config.Session.CleanupInterval = v.GetDuration("session.cleanup_interval")

	config.Log.Level = v.GetString("log.level")

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.public_url", "http://localhost:8080")

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.user", "root")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.database", "job_board")
	v.SetDefault("database.path", "job_board.db")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)

	v.SetDefault("auth.jwt_secret", "change-this-secret-in-production-min-32-chars")
	v.SetDefault("auth.token_ttl", "168h")
	v.SetDefault("auth.cookie_name", "session")
	v.SetDefault("auth.cookie_secret", "change-this-cookie-secret-in-production-32")
	v.SetDefault("auth.cookie_secure", false)

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.base_dir", "./uploads")
	v.SetDefault("storage.s3_bucket", "")
	v.SetDefault("storage.s3_region", "us-east-1")
	v.SetDefault("storage.s3_base_url", "")

	v.SetDefault("genai.enabled", false)
	v.SetDefault("genai.region", "us-east-1")
	v.SetDefault("genai.text_model", "")
	v.SetDefault("genai.image_model", "")
	v.SetDefault("genai.max_tokens", 1024)

	v.SetDefault("session.redis_url", "")
	v.SetDefault("session.cleanup_interval", "5m")

	v.SetDefault("log.level", "info")
}

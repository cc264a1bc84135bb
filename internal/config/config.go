package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string `mapstructure:"env"` // current application environment (local, dev, production)
	TelegramAPIToken string `mapstructure:"-"`   // optional; the bot is disabled without it
	HTTP             HTTP   `mapstructure:"http"`
	DB               DB     `mapstructure:"database"`
	Redis            Redis  `mapstructure:"redis"`
	AMQP             AMQP   `mapstructure:"amqp"`
	Auth             Auth   `mapstructure:"auth"`
	Quiz             Quiz   `mapstructure:"quiz"`
}

// HTTP contains API server parameters.
type HTTP struct {
	Address         string        `mapstructure:"address"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

type Redis struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"-"`
	DB           int           `mapstructure:"db"`
	DashboardTTL time.Duration `mapstructure:"dashboard_ttl"`
	SnapshotTTL  time.Duration `mapstructure:"snapshot_ttl"`
	BookmarkTTL  time.Duration `mapstructure:"bookmark_ttl"`
}

// AMQP configures the event publisher. An empty URL disables it.
type AMQP struct {
	URL      string `mapstructure:"-"`
	Exchange string `mapstructure:"exchange"`
}

type Auth struct {
	JWTSecret string `mapstructure:"-"`
	Issuer    string `mapstructure:"issuer"`
}

type Quiz struct {
	QuestionSeconds int           `mapstructure:"question_seconds"`
	HistoryLimit    int           `mapstructure:"history_limit"`
	SaveRetryDelay  time.Duration `mapstructure:"save_retry_delay"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	JanitorSchedule string        `mapstructure:"janitor_schedule"`
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	// A missing .env file is fine: the environment may be set directly.
	_ = godotenv.Load()

	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("http.address", ":8080")
	v.SetDefault("http.shutdown_timeout", "10s")
	v.SetDefault("http.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.dashboard_ttl", "10m")
	v.SetDefault("redis.snapshot_ttl", "720h")
	v.SetDefault("redis.bookmark_ttl", "1h")
	v.SetDefault("amqp.exchange", "nqesh.events")
	v.SetDefault("auth.issuer", "")
	v.SetDefault("quiz.question_seconds", 120)
	v.SetDefault("quiz.history_limit", 100)
	v.SetDefault("quiz.save_retry_delay", "500ms")
	v.SetDefault("quiz.idle_timeout", "30m")
	v.SetDefault("quiz.janitor_schedule", "@every 1m")

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("redis_password", "REDIS_PASSWORD")
	_ = v.BindEnv("amqp_url", "AMQP_URL")
	_ = v.BindEnv("auth_jwt_secret", "AUTH_JWT_SECRET")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	cfg.Redis.Password = v.GetString("redis_password")
	cfg.AMQP.URL = v.GetString("amqp_url")

	cfg.DB.URL = v.GetString("database_url")
	if cfg.DB.URL == "" {
		return nil, fmt.Errorf("%w: DATABASE_URL", ErrMissingEnvironmentVariables)
	}

	cfg.Auth.JWTSecret = v.GetString("auth_jwt_secret")
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("%w: AUTH_JWT_SECRET", ErrMissingEnvironmentVariables)
	}

	return &cfg, nil
}

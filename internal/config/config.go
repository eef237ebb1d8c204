package config

import (
	"errors"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is loaded once at startup and never mutated afterwards.
type Config struct {
	AppPort        string
	DatabaseDriver string
	DatabaseDSN    string
	// JWTSecret signs session tokens. It must never be logged.
	JWTSecret   string
	RabbitMQURL string
	// RabbitMQExchange is the topic exchange events are published to.
	RabbitMQExchange string
	LogLevel         string
	LogFormat        string
	Seed             SeedConfig
	AllowOrigins     string
}

// SeedConfig controls the idempotent bootstrap data.
type SeedConfig struct {
	AdminEmail    string
	AdminPassword string
	SampleStores  bool
}

// Load reads configuration from an optional .env file and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file loaded")
	}
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":5000")
	v.SetDefault("DATABASE_DRIVER", DriverSQLite)
	v.SetDefault("DATABASE_DSN", "store_ratings.db")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_EXCHANGE", "storerating.events")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")
	v.SetDefault("SEED_ADMIN_EMAIL", "admin@example.com")
	v.SetDefault("SEED_ADMIN_PASSWORD", "AdminPassword1!")
	v.SetDefault("SEED_SAMPLE_STORES", true)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:          v.GetString("APP_PORT"),
		DatabaseDriver:   v.GetString("DATABASE_DRIVER"),
		DatabaseDSN:      v.GetString("DATABASE_DSN"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		RabbitMQURL:      v.GetString("RABBITMQ_URL"),
		RabbitMQExchange: v.GetString("RABBITMQ_EXCHANGE"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		LogFormat:        v.GetString("LOG_FORMAT"),
		AllowOrigins:     v.GetString("CORS_ALLOW_ORIGINS"),
		Seed: SeedConfig{
			AdminEmail:    v.GetString("SEED_ADMIN_EMAIL"),
			AdminPassword: v.GetString("SEED_ADMIN_PASSWORD"),
			SampleStores:  v.GetBool("SEED_SAMPLE_STORES"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the process cannot start without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.DatabaseDriver != DriverSQLite && c.DatabaseDriver != DriverPostgres {
		return errors.New("DATABASE_DRIVER must be sqlite or postgres")
	}
	if c.DatabaseDSN == "" {
		return errors.New("DATABASE_DSN is required")
	}
	return nil
}

// ConfigureLogging applies the configured level and formatter to logrus.
func (c *Config) ConfigureLogging() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		log.WithField("level", c.LogLevel).Warn("unknown log level, falling back to info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if c.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

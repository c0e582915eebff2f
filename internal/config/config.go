package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
	API        APIConfig        `mapstructure:"api"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// Timezone is used to compute the default readings range ("today", "yesterday").
	Timezone string `mapstructure:"timezone"`
}

// DatabaseConfig describes the relational store holding tbl_dht11 and tbl_threshold.
type DatabaseConfig struct {
	Driver     string `mapstructure:"driver"`
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	User       string `mapstructure:"user"`
	Password   string `mapstructure:"password"`
	DBName     string `mapstructure:"dbname"`
	SSLMode    string `mapstructure:"sslmode"`
	InitSchema bool   `mapstructure:"init_schema"`
}

// RedisConfig configures the optional threshold cache. An empty host disables it.
type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type MonitoringConfig struct {
	MetricsNamespace string `mapstructure:"metrics_namespace"`
}

type APIConfig struct {
	AccessLog          string   `mapstructure:"access_log"`
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
	ExposeDBErrors     bool     `mapstructure:"expose_db_errors"`
}

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Load initializes configuration from environment variables and config file
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("RELAYHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	v.AutomaticEnv()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &config, nil
}

// Location resolves the configured timezone, falling back to the local zone.
func (c ServerConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Addr returns the redis address, or "" when the cache is disabled.
func (c RedisConfig) Addr() string {
	if c.Host == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.timezone", "")

	// Database defaults
	v.SetDefault("database.driver", DriverMySQL)
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "relay_monitoring")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.init_schema", false)

	// Redis defaults
	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "5m")

	// Monitoring defaults
	v.SetDefault("monitoring.metrics_namespace", "relayhub")

	// API defaults
	v.SetDefault("api.access_log", "access.log")
	v.SetDefault("api.cors_allowed_origins", []string{"*"})
	v.SetDefault("api.expose_db_errors", false)
}

func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	switch config.Database.Driver {
	case DriverMySQL, DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}
	if config.Server.Port <= 0 {
		return fmt.Errorf("server port must be positive")
	}
	if config.Redis.Host != "" && config.Redis.TTL <= 0 {
		return fmt.Errorf("redis ttl must be positive when the cache is enabled")
	}
	return nil
}

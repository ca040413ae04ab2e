package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host            string        `yaml:"host" json:"host"`
	Port            int           `yaml:"port" json:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" json:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// KafkaConfig holds broker connection settings
type KafkaConfig struct {
	Brokers             []string      `yaml:"brokers" json:"brokers"`
	ConsumerGroupPrefix string        `yaml:"consumer_group_prefix" json:"consumer_group_prefix"`
	ReadTimeout         time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout        time.Duration `yaml:"write_timeout" json:"write_timeout"`
	BatchTimeout        time.Duration `yaml:"batch_timeout" json:"batch_timeout"`
	RequiredAcks        int           `yaml:"required_acks" json:"required_acks"`
	MaxMessageBytes     int           `yaml:"max_message_bytes" json:"max_message_bytes"`
}

// DatabaseConfig holds Postgres settings
type DatabaseConfig struct {
	DSN             string `yaml:"dsn" json:"dsn"`
	MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Address  string `yaml:"address" json:"address"`
	Password string `yaml:"password" json:"password"`
	DB       int    `yaml:"db" json:"db"`
	PoolSize int    `yaml:"pool_size" json:"pool_size"`
}

// CacheConfig selects the alert cache backend
type CacheConfig struct {
	Backend string        `yaml:"backend" json:"backend"` // memory or redis
	TTL     time.Duration `yaml:"ttl" json:"ttl"`         // redis only; 0 = no expiry
}

// AuthConfig holds the API key gate settings
type AuthConfig struct {
	APIKey string `yaml:"api_key" json:"api_key"`
}

// TelemetryConfig holds generator settings
type TelemetryConfig struct {
	Interval   time.Duration `yaml:"interval" json:"interval"`
	ObjectName string        `yaml:"object_name" json:"object_name"`
}

// HazardConfig holds evaluator settings
type HazardConfig struct {
	DistanceThresholdKm float64 `yaml:"distance_threshold_km" json:"distance_threshold_km"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// Config is the root configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" json:"server"`
	Kafka     KafkaConfig     `yaml:"kafka" json:"kafka"`
	Database  DatabaseConfig  `yaml:"database" json:"database"`
	Redis     RedisConfig     `yaml:"redis" json:"redis"`
	Cache     CacheConfig     `yaml:"cache" json:"cache"`
	Auth      AuthConfig      `yaml:"auth" json:"auth"`
	Telemetry TelemetryConfig `yaml:"telemetry" json:"telemetry"`
	Hazard    HazardConfig    `yaml:"hazard" json:"hazard"`
	Log       LogConfig       `yaml:"log" json:"log"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    0, // SSE streams must not be cut off by a write deadline
			ShutdownTimeout: 10 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:             []string{"localhost:9092"},
			ConsumerGroupPrefix: "sentinel",
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        5 * time.Second,
			BatchTimeout:        10 * time.Millisecond,
			RequiredAcks:        1,
			MaxMessageBytes:     1048576,
		},
		Database: DatabaseConfig{
			DSN:             "host=localhost user=sentinel password=sentinel dbname=sentinel port=5432 sslmode=disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 3600,
		},
		Redis: RedisConfig{
			Address:  "localhost:6379",
			PoolSize: 10,
		},
		Cache: CacheConfig{
			Backend: "memory",
		},
		Auth: AuthConfig{
			APIKey: "neo-sentinel-secret-key",
		},
		Telemetry: TelemetryConfig{
			Interval:   10 * time.Second,
			ObjectName: "2025-BF",
		},
		Hazard: HazardConfig{
			DistanceThresholdKm: 40000,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, environment variables, and an
// optional config.yaml found in ., ./config, or /etc/neo-sentinel.
func Load() (*Config, error) {
	config := DefaultConfig()

	// Environment overrides
	if v := os.Getenv("SENTINEL_API_KEY"); v != "" {
		config.Auth.APIKey = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		config.Database.DSN = v
	}
	if v := os.Getenv("REDIS_ADDRESS"); v != "" {
		config.Redis.Address = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		config.Redis.Password = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		config.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.Server.Port = port
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		config.Log.Level = v
	}

	// Config file overrides
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/neo-sentinel")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		return config, nil
	}

	if viper.IsSet("server.host") {
		config.Server.Host = viper.GetString("server.host")
	}
	if viper.IsSet("server.port") {
		config.Server.Port = viper.GetInt("server.port")
	}
	if viper.IsSet("server.shutdown_timeout") {
		config.Server.ShutdownTimeout = viper.GetDuration("server.shutdown_timeout")
	}
	if viper.IsSet("kafka.brokers") {
		config.Kafka.Brokers = viper.GetStringSlice("kafka.brokers")
	}
	if viper.IsSet("kafka.consumer_group_prefix") {
		config.Kafka.ConsumerGroupPrefix = viper.GetString("kafka.consumer_group_prefix")
	}
	if viper.IsSet("database.dsn") {
		config.Database.DSN = viper.GetString("database.dsn")
	}
	if viper.IsSet("database.max_open_conns") {
		config.Database.MaxOpenConns = viper.GetInt("database.max_open_conns")
	}
	if viper.IsSet("redis.address") {
		config.Redis.Address = viper.GetString("redis.address")
	}
	if viper.IsSet("redis.password") {
		config.Redis.Password = viper.GetString("redis.password")
	}
	if viper.IsSet("redis.db") {
		config.Redis.DB = viper.GetInt("redis.db")
	}
	if viper.IsSet("cache.backend") {
		config.Cache.Backend = viper.GetString("cache.backend")
	}
	if viper.IsSet("cache.ttl") {
		config.Cache.TTL = viper.GetDuration("cache.ttl")
	}
	if viper.IsSet("auth.api_key") {
		config.Auth.APIKey = viper.GetString("auth.api_key")
	}
	if viper.IsSet("telemetry.interval") {
		config.Telemetry.Interval = viper.GetDuration("telemetry.interval")
	}
	if viper.IsSet("telemetry.object_name") {
		config.Telemetry.ObjectName = viper.GetString("telemetry.object_name")
	}
	if viper.IsSet("hazard.distance_threshold_km") {
		config.Hazard.DistanceThresholdKm = viper.GetFloat64("hazard.distance_threshold_km")
	}
	if viper.IsSet("log.level") {
		config.Log.Level = viper.GetString("log.level")
	}
	if viper.IsSet("log.format") {
		config.Log.Format = viper.GetString("log.format")
	}

	return config, nil
}

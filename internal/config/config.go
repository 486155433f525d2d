package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	RPC      RPCConfig      `mapstructure:"rpc"`
	Networks NetworksConfig `mapstructure:"networks"`
	Session  SessionConfig  `mapstructure:"session"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

// RPCConfig holds settings for the JSON-RPC transport used by network gateways.
type RPCConfig struct {
	RequestTimeout   time.Duration `mapstructure:"request_timeout"`
	HandshakeTimeout time.Duration `mapstructure:"handshake_timeout"`
}

// NetworksConfig selects the home network and optionally replaces endpoint URLs
// of networks from the built-in table.
type NetworksConfig struct {
	Home      string            `mapstructure:"home"`
	Overrides map[string]string `mapstructure:"overrides"`
}

// SessionConfig holds settings for the in-memory lookup session store.
type SessionConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// KafkaConfig holds settings for exporting run events.
type KafkaConfig struct {
	Enabled   bool     `mapstructure:"enabled"`
	Brokers   []string `mapstructure:"brokers"`
	Topic     string   `mapstructure:"topic"`
	QueueSize int      `mapstructure:"queue_size"`
}

// Load reads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("app.name", "address-inspector")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "json")
	v.SetDefault("rpc.request_timeout", "15s")
	v.SetDefault("rpc.handshake_timeout", "10s")
	v.SetDefault("networks.home", "mainnet")
	v.SetDefault("session.ttl", "30m")
	v.SetDefault("session.cleanup_interval", "1h")
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "address-inspector.events")
	v.SetDefault("kafka.queue_size", 256)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		fmt.Printf("Warning: Config file not found in %s or '.', using defaults/env vars\n", configPath)
	}

	v.SetEnvPrefix("ADDRESS_INSPECTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func (c RPCConfig) GetRequestTimeout() time.Duration {
	return c.RequestTimeout
}

func (c RPCConfig) GetHandshakeTimeout() time.Duration {
	if c.HandshakeTimeout <= 0 {
		return 10 * time.Second
	}
	return c.HandshakeTimeout
}

func (c SessionConfig) GetTTL() time.Duration {
	return c.TTL
}

func (c SessionConfig) GetCleanupInterval() time.Duration {
	return c.CleanupInterval
}

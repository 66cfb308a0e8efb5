// Package config provides application configuration loading.
// Configuration is TOML with multi-path lookup.
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// MainConfig holds basic application settings.
type MainConfig struct {
	AppName string `toml:"appName"` // application name, used in logs
	Host    string `toml:"host"`    // listen address, e.g. "0.0.0.0"
	Port    int    `toml:"port"`    // listen port, e.g. 8000
}

// MysqlConfig holds the MySQL connection settings.
type MysqlConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	DatabaseName string `toml:"databaseName"`
}

// RedisConfig holds the Redis connection settings.
// Redis backs the contact-list cache and the typing-event relay.
type RedisConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Password string `toml:"password"`
	Db       int    `toml:"db"`
}

// LogConfig configures zap output and lumberjack rotation.
type LogConfig struct {
	LogPath    string `toml:"logPath"`    // log directory
	FileName   string `toml:"fileName"`   // log file name
	MaxSize    int    `toml:"maxSize"`    // max size per file (MB)
	MaxBackups int    `toml:"maxBackups"` // max rotated files kept
	MaxAge     int    `toml:"maxAge"`     // max age of rotated files (days)
	Level      string `toml:"level"`      // debug, info, warn, error
}

// KafkaConfig configures the change-notification broker.
// messageMode selects "channel" (single node, in-process) or "kafka".
type KafkaConfig struct {
	MessageMode string        `toml:"messageMode"`
	HostPort    string        `toml:"hostPort"`    // e.g. "localhost:9092"
	NotifyTopic string        `toml:"notifyTopic"` // change-notification topic
	Partition   int           `toml:"partition"`
	Timeout     time.Duration `toml:"timeout"`
}

// AuthConfig configures the external identity provider integration.
type AuthConfig struct {
	// SessionSecret verifies per-request session tokens (HS256).
	SessionSecret string `toml:"sessionSecret"`
	// WebhookSecret verifies provisioning webhooks (svix v1 scheme),
	// base64 payload after the "whsec_" prefix.
	WebhookSecret string `toml:"webhookSecret"`
}

// StorageConfig configures the blob store for media attachments.
type StorageConfig struct {
	// RootPath is the local directory blobs are written under.
	RootPath string `toml:"rootPath"`
	// PublicBase is the URL prefix returned to clients, e.g. "/static".
	PublicBase string `toml:"publicBase"`
}

// LivekitConfig configures video-call token issuance.
type LivekitConfig struct {
	ApiKey    string `toml:"apiKey"`
	ApiSecret string `toml:"apiSecret"`
	// TokenTTL is the token lifetime in minutes.
	TokenTTL int `toml:"tokenTTL"`
}

// SnowflakeConfig configures message id generation.
type SnowflakeConfig struct {
	MachineID int64 `toml:"machineId"` // node id 0-1023, unique per instance
}

// Config aggregates all sub-configs.
type Config struct {
	MainConfig      `toml:"mainConfig"`
	MysqlConfig     `toml:"mysqlConfig"`
	RedisConfig     `toml:"redisConfig"`
	LogConfig       `toml:"logConfig"`
	KafkaConfig     `toml:"kafkaConfig"`
	AuthConfig      `toml:"authConfig"`
	StorageConfig   `toml:"storageConfig"`
	LivekitConfig   `toml:"livekitConfig"`
	SnowflakeConfig `toml:"snowflakeConfig"`
}

var config *Config

// LoadConfig tries the candidate paths in order and stops at the first
// readable configuration file.
func LoadConfig() error {
	paths := []string{
		"configs/config_local.toml",
		"configs/config.toml",
		"../../configs/config_local.toml",
		"../../configs/config.toml",
	}

	for _, path := range paths {
		if _, err := toml.DecodeFile(path, config); err == nil {
			return nil
		}
	}

	return fmt.Errorf("could not find configuration file in any of the search paths")
}

// GetConfig returns the global configuration singleton, loading it on
// first use.
func GetConfig() *Config {
	if config == nil {
		config = new(Config)
		_ = LoadConfig() // fall back to zero values when no file is present
	}
	return config
}

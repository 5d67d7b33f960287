package config

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
)

// global configuration structure
type Config struct {
	Bot      BotConfig      `mapstructure:"bot"`
	Channels ChannelConfig  `mapstructure:"channels"`
	Throttle ThrottleConfig `mapstructure:"throttle"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
}

// Telegram bot configuration
type BotConfig struct {
	Token          string        `mapstructure:"token"`
	MasterAdminIDs []int64       `mapstructure:"master_admin_ids"`
	CommandPrefix  string        `mapstructure:"command_prefix"`
	Webhook        WebhookConfig `mapstructure:"webhook"`
}

// webhook server configuration
type WebhookConfig struct {
	Endpoint   string `mapstructure:"endpoint"`
	ListenPort string `mapstructure:"listen_port"`
	DebugPath  string `mapstructure:"debug_path"`
	CertFile   string `mapstructure:"cert_file"`
	KeyFile    string `mapstructure:"key_file"`
}

// audit log broadcast channels
type ChannelConfig struct {
	LogChannelID       int64 `mapstructure:"log_channel_id"`
	PublicLogChannelID int64 `mapstructure:"public_log_channel_id"`
}

// per-user command throttle
type ThrottleConfig struct {
	IntervalSeconds int `mapstructure:"interval_seconds"`
}

// logging configuration
type LoggerConfig struct {
	Directory  string            `mapstructure:"directory"`
	Rotation   LogRotationConfig `mapstructure:"rotation"`
	Timezone   string            `mapstructure:"timezone"`
	TimeFormat string            `mapstructure:"time_format"`
	Level      string            `mapstructure:"level"`
}

// log rotation settings
type LogRotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"`
	Compress   bool `mapstructure:"compress"`
}

// file-backed store settings, used when the database is disabled
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Charset  string `mapstructure:"charset"`
}

var cfg *Config

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return nil, fmt.Errorf("config file path is required")
	}

	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	log.Printf("Using config file: %s", v.ConfigFileUsed())

	// Unmarshal configuration
	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func Get() *Config {
	if cfg == nil {
		log.Fatal("Configuration not initialized, call Load() first")
	}
	return cfg
}

// Validate checks the fields the bot cannot run without.
func (c *Config) Validate() error {
	if c.Bot.Token == "" {
		return fmt.Errorf("bot token is required")
	}
	if len(c.Bot.MasterAdminIDs) == 0 {
		return fmt.Errorf("at least one master admin id is required")
	}
	// Channels are optional; zero means unset, positive ids are user ids.
	if c.Channels.LogChannelID > 0 || c.Channels.PublicLogChannelID > 0 {
		return fmt.Errorf("audit channel ids must be negative chat ids")
	}
	return nil
}

// IsMasterAdmin reports whether the user is in the configured master admin set.
func (c *Config) IsMasterAdmin(userID int64) bool {
	for _, id := range c.Bot.MasterAdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// AuditChannelIDs returns the configured broadcast channels in send order.
func (c *Config) AuditChannelIDs() []int64 {
	return []int64{c.Channels.LogChannelID, c.Channels.PublicLogChannelID}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("bot.command_prefix", ".")
	v.SetDefault("bot.webhook.listen_port", "8443")
	v.SetDefault("bot.webhook.debug_path", "/debug")
	v.SetDefault("bot.webhook.cert_file", "")
	v.SetDefault("bot.webhook.key_file", "")

	v.SetDefault("throttle.interval_seconds", 1)

	v.SetDefault("logger.directory", "logs")
	v.SetDefault("logger.rotation.max_size", 10)
	v.SetDefault("logger.rotation.max_backups", 30)
	v.SetDefault("logger.rotation.max_age", 90)
	v.SetDefault("logger.rotation.compress", true)
	v.SetDefault("logger.timezone", "Local")
	v.SetDefault("logger.time_format", "2006/01/02 15:04:05")
	v.SetDefault("logger.level", "INFO")

	v.SetDefault("storage.data_dir", "data")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.charset", "utf8mb4")
}

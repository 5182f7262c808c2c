package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultPath is read when present and no explicit file is given.
const DefaultPath = "config/config.yml"

type AppConfig struct {
	Port        int            `mapstructure:"port" yaml:"port"`
	Version     string         `mapstructure:"version" yaml:"version"`
	Environment string         `mapstructure:"environment" yaml:"environment"`
	Database    DatabaseConfig `mapstructure:"database" yaml:"database"`
	Redis       RedisConfig    `mapstructure:"redis" yaml:"redis"`
	Telegram    TelegramConfig `mapstructure:"telegram" yaml:"telegram"`
	Store       StoreConfig    `mapstructure:"store" yaml:"store"`
	Report      ReportConfig   `mapstructure:"report" yaml:"report"`
}

// DatabaseConfig configures the Postgres archive. An empty URL disables it.
type DatabaseConfig struct {
	URL            string `mapstructure:"url" yaml:"url"`
	MigrationsPath string `mapstructure:"migrations_path" yaml:"migrations_path"`
	ConnectRetries int    `mapstructure:"connect_retries" yaml:"connect_retries"`
}

// RedisConfig configures the rate limiter. An empty Address disables it.
type RedisConfig struct {
	Address      string `mapstructure:"address" yaml:"address"`
	Password     string `mapstructure:"password" yaml:"password"`
	Database     int    `mapstructure:"database" yaml:"database"`
	RateLimitQPS int    `mapstructure:"rate_limit_qps" yaml:"rate_limit_qps"`
}

type TelegramConfig struct {
	BotToken        string `mapstructure:"bot_token" yaml:"bot_token"`
	ClinicianChatID int64  `mapstructure:"clinician_chat_id" yaml:"clinician_chat_id"`
}

type StoreConfig struct {
	SessionTTL    time.Duration `mapstructure:"session_ttl" yaml:"session_ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval" yaml:"sweep_interval"`
}

type ReportConfig struct {
	FontPaths []string `mapstructure:"font_paths" yaml:"font_paths"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("version", "1.0.0")
	v.SetDefault("environment", "development")

	v.SetDefault("database.url", "")
	v.SetDefault("database.migrations_path", "file://migrations")
	v.SetDefault("database.connect_retries", 10)

	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.rate_limit_qps", 10)

	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.clinician_chat_id", 0)

	v.SetDefault("store.session_ttl", "24h")
	v.SetDefault("store.sweep_interval", "1h")

	v.SetDefault("report.font_paths", []string{})
}

// LoadConfig reads path (or DefaultPath when it exists) and then the
// environment, where "database.url" is DATABASE_URL.
func LoadConfig(path string) (*AppConfig, error) {
	var config AppConfig

	v := viper.New()
	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	file := path
	if file == "" {
		if _, err := os.Stat(DefaultPath); err == nil {
			file = DefaultPath
		}
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return &config, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	if err := v.Unmarshal(&config); err != nil {
		return &config, err
	}
	if err := config.validate(); err != nil {
		return &config, err
	}
	return &config, nil
}

func (c *AppConfig) validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.Store.SessionTTL <= 0 {
		errs = append(errs, errors.New("store.session_ttl must be positive"))
	}
	if c.Store.SweepInterval <= 0 {
		errs = append(errs, errors.New("store.sweep_interval must be positive"))
	}
	return errors.Join(errs...)
}

func (c *AppConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

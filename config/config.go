package config

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Email    EmailConfig    `mapstructure:"email"`
	AI       AIConfig       `mapstructure:"ai"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port    string `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
	BaseURL string `mapstructure:"base_url"`
}

// DatabaseConfig holds database settings. Driver selects the backend:
// "mysql" (default) or "sqlite". Path is only used by the sqlite driver.
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Charset  string `mapstructure:"charset"`
	Path     string `mapstructure:"path"`
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessExpireHours  int           `mapstructure:"access_expire_hours"`
	RefreshExpireHours int           `mapstructure:"refresh_expire_hours"`
	AccessExpire       time.Duration `mapstructure:"-"`
	RefreshExpire      time.Duration `mapstructure:"-"`
}

// EmailConfig holds SMTP settings for the budget alert sender.
type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// AIConfig holds settings for the Gemini text-generation backend used by the
// chatbot and forecast features. An empty APIKey disables both.
type AIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

var (
	// GlobalConfig is the process-wide configuration instance.
	GlobalConfig *Config
)

// LoadConfig loads configuration with the precedence:
// environment variables > external config file > embedded defaults.
// configPath optionally points at an external YAML file.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// Embedded defaults first.
	if err := v.ReadConfig(bytes.NewReader(DefaultConfigYAML)); err != nil {
		return nil, fmt.Errorf("read embedded config: %w", err)
	}

	// Optional external file overrides the defaults.
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			log.Printf("warning: cannot read config file %s: %v", configPath, err)
		} else {
			log.Printf("merged config file: %s", configPath)
		}
	} else {
		external := viper.New()
		external.SetConfigName("config")
		external.SetConfigType("yaml")
		external.AddConfigPath(".")
		external.AddConfigPath("./config")
		external.AddConfigPath("/etc/serenicash")
		external.AddConfigPath("$HOME/.serenicash")

		if err := external.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(external.AllSettings()); err != nil {
				log.Printf("warning: merge external config: %v", err)
			} else {
				log.Printf("merged config file: %s", external.ConfigFileUsed())
			}
		}
	}

	// SERENICASH_SERVER_PORT, SERENICASH_AI_API_KEY, and friends.
	v.SetEnvPrefix("SERENICASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.JWT.AccessExpireHours <= 0 {
		cfg.JWT.AccessExpireHours = 24
	}
	if cfg.JWT.RefreshExpireHours <= 0 {
		cfg.JWT.RefreshExpireHours = 24 * 7
	}
	cfg.JWT.AccessExpire = time.Duration(cfg.JWT.AccessExpireHours) * time.Hour
	cfg.JWT.RefreshExpire = time.Duration(cfg.JWT.RefreshExpireHours) * time.Hour

	GlobalConfig = &cfg

	return &cfg, nil
}

// MustLoadConfig loads the configuration or panics.
func MustLoadConfig(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		panic(fmt.Sprintf("load config: %v", err))
	}
	return cfg
}

// GetConfig returns the global configuration.
func GetConfig() *Config {
	if GlobalConfig == nil {
		panic("config not initialized, call LoadConfig first")
	}
	return GlobalConfig
}

// PrintConfig logs the effective configuration with secrets elided.
func PrintConfig() {
	if GlobalConfig == nil {
		return
	}
	log.Printf("configuration:")
	log.Printf("  server: %s (mode: %s)", GlobalConfig.Server.Port, GlobalConfig.Server.Mode)
	switch GlobalConfig.Database.Driver {
	case "sqlite":
		log.Printf("  database: sqlite %s", GlobalConfig.Database.Path)
	default:
		log.Printf("  database: mysql %s@%s:%s/%s",
			GlobalConfig.Database.Username,
			GlobalConfig.Database.Host,
			GlobalConfig.Database.Port,
			GlobalConfig.Database.DBName)
	}
	log.Printf("  email alerts: %v", GlobalConfig.Email.Enabled)
	log.Printf("  ai features: %v (model: %s)", GlobalConfig.AI.APIKey != "", GlobalConfig.AI.Model)
}

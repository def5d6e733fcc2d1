package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"modbot/model"
)

// Load reads the configuration from an optional .env file, an optional
// config.yaml in the working directory or ./config, and the environment.
// Environment variables use the upper-cased key, e.g. BOT_TOKEN.
func Load() (*model.Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Info(".env file not found, relying on environment variables")
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return decode(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("bot_token", "")
	v.SetDefault("log_channel_id", "")
	v.SetDefault("guild_id", "")
	v.SetDefault("database_path", "data/moderation.db")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("scheduler_retry_backoff", "30s")
	v.SetDefault("disable_command_unregister", false)
}

func decode(v *viper.Viper) (*model.Config, error) {
	var cfg model.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	if cfg.LogChannelID == "" {
		logrus.Warn("LOG_CHANNEL_ID not set, bot log channel will be disabled")
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func Validate(cfg *model.Config) error {
	if cfg.BotToken == "" {
		return errors.New("BOT_TOKEN is not set")
	}
	if cfg.DatabasePath == "" {
		return errors.New("database_path cannot be empty")
	}
	if cfg.SchedulerRetryBackoff <= 0 {
		return fmt.Errorf("scheduler_retry_backoff must be positive, got %s", cfg.SchedulerRetryBackoff)
	}
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q, expected text or json", cfg.LogFormat)
	}
	return nil
}

// SetupLogging applies the configured level and format to the standard
// logrus logger.
func SetupLogging(cfg *model.Config) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stdout)
	if cfg.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

package model

import "time"

// Config holds the application configuration.
type Config struct {
	BotToken                 string        `mapstructure:"bot_token"`
	LogChannelID             string        `mapstructure:"log_channel_id"`
	GuildID                  string        `mapstructure:"guild_id"` // optional, registers commands to a single guild
	DatabasePath             string        `mapstructure:"database_path"`
	LogLevel                 string        `mapstructure:"log_level"`
	LogFormat                string        `mapstructure:"log_format"`
	SchedulerRetryBackoff    time.Duration `mapstructure:"scheduler_retry_backoff"`
	DisableCommandUnregister bool          `mapstructure:"disable_command_unregister"`
}

package config

import (
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modbot/model"
)

func TestDecodeDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("bot_token", "token")

	cfg, err := decode(v)
	require.NoError(t, err)
	assert.Equal(t, "token", cfg.BotToken)
	assert.Equal(t, "data/moderation.db", cfg.DatabasePath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.SchedulerRetryBackoff)
	assert.False(t, cfg.DisableCommandUnregister)
}

func TestLoadFromEnvironment(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("BOT_TOKEN", "env-token")
	t.Setenv("LOG_CHANNEL_ID", "123")
	t.Setenv("SCHEDULER_RETRY_BACKOFF", "5s")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("DISABLE_COMMAND_UNREGISTER", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.BotToken)
	assert.Equal(t, "123", cfg.LogChannelID)
	assert.Equal(t, 5*time.Second, cfg.SchedulerRetryBackoff)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.True(t, cfg.DisableCommandUnregister)
}

func TestDecodeRequiresToken(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	_, err := decode(v)
	assert.ErrorContains(t, err, "BOT_TOKEN")
}

func TestValidate(t *testing.T) {
	valid := func() *model.Config {
		return &model.Config{
			BotToken:              "token",
			DatabasePath:          "data/moderation.db",
			LogLevel:              "debug",
			LogFormat:             "text",
			SchedulerRetryBackoff: time.Second,
		}
	}

	require.NoError(t, Validate(valid()))

	cases := map[string]func(*model.Config){
		"empty database path": func(c *model.Config) { c.DatabasePath = "" },
		"zero backoff":        func(c *model.Config) { c.SchedulerRetryBackoff = 0 },
		"bad level":           func(c *model.Config) { c.LogLevel = "loud" },
		"bad format":          func(c *model.Config) { c.LogFormat = "xml" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(cfg)
			assert.Error(t, Validate(cfg))
		})
	}
}

func TestSetupLogging(t *testing.T) {
	defer logrus.SetLevel(logrus.InfoLevel)
	defer logrus.SetFormatter(&logrus.TextFormatter{})

	SetupLogging(&model.Config{LogLevel: "warn", LogFormat: "json"})
	assert.Equal(t, logrus.WarnLevel, logrus.GetLevel())
	_, ok := logrus.StandardLogger().Formatter.(*logrus.JSONFormatter)
	assert.True(t, ok)
}

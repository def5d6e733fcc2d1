package bot

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v3/host"
	"golang.org/x/sync/errgroup"

	"modbot/commands"
	"modbot/utils"
)

// Run opens the gateway connection, registers commands and runs the
// background tasks until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}
	cfg := b.GetConfig()

	if !cfg.DisableCommandUnregister {
		b.log.Info("Unregistering stale commands...")
		b.UnregisterCommands(cfg.GuildID)
	}
	if err := b.RefreshCommands(cfg.GuildID, commands.GenerateCommands()); err != nil {
		return fmt.Errorf("cannot register commands: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return NewScheduler(b.Moderation.Scheduler, b.BotLog).Run(ctx)
	})

	b.log.Info("Bot is now running. Press CTRL-C to exit.")
	if err := utils.LogInfo(b.Session, cfg.LogChannelID, "System", "Startup", startupInfo()); err != nil {
		b.log.WithError(err).Warn("Failed to send startup log")
	}

	<-ctx.Done()
	if err := utils.LogWarn(b.Session, cfg.LogChannelID, "System", "Shutdown", "Bot is shutting down."); err != nil {
		b.log.WithError(err).Warn("Failed to send shutdown log")
	}
	return g.Wait()
}

func startupInfo() string {
	info := fmt.Sprintf("Bot has started successfully.\nGo %s", runtime.Version())
	if h, err := host.Info(); err == nil {
		info += fmt.Sprintf(" on %s %s (%s)", h.Platform, h.PlatformVersion, h.Hostname)
	}
	return info
}

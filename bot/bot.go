package bot

import (
	"sync/atomic"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"modbot/model"
	"modbot/moderation"
	"modbot/platform"
	"modbot/utils"
	"modbot/utils/database/infractions"
)

type Bot struct {
	Session            *discordgo.Session
	RegisteredCommands []*discordgo.ApplicationCommand
	config             atomic.Value // *model.Config
	CommandHandlers    map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)
	ComponentHandlers  map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)
	DB                 *sqlx.DB
	Store              *infractions.Store
	Moderation         *moderation.Service
	BotLog             *utils.BotLog
	log                *logrus.Entry
}

var _ model.Bot = (*Bot)(nil)

func (b *Bot) GetConfig() *model.Config {
	return b.config.Load().(*model.Config)
}

func (b *Bot) GetDB() *sqlx.DB {
	return b.DB
}

// New creates the session and wires the moderation service to the database.
func New(cfg *model.Config, db *sqlx.DB) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, err
	}
	// GuildMembers is privileged and must be enabled for the application;
	// rejoin reconciliation depends on GuildMemberAdd.
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers

	store := infractions.NewStore(db)
	svc := moderation.NewService(store, platform.NewDiscord(dg), cfg.SchedulerRetryBackoff)

	b := &Bot{
		Session:    dg,
		DB:         db,
		Store:      store,
		Moderation: svc,
		log:        logrus.WithField("module", "bot"),
	}
	if cfg.LogChannelID != "" {
		b.BotLog = utils.NewBotLog(dg, cfg.LogChannelID)
		svc.Events.Subscribe(b.BotLog)
	}
	b.config.Store(cfg)
	return b, nil
}

func (b *Bot) Close() {
	b.log.Info("Gracefully shutting down.")
	if err := b.Session.Close(); err != nil {
		b.log.WithError(err).Warn("Error closing Discord session")
	}
	if err := b.DB.Close(); err != nil {
		b.log.WithError(err).Warn("Error closing database")
	}
}

// RefreshCommands overwrites the application commands of guildID, or the
// global commands when guildID is empty.
func (b *Bot) RefreshCommands(guildID string, cmds []*discordgo.ApplicationCommand) error {
	b.log.Infof("Registering %d commands (guild %q)...", len(cmds), guildID)
	registered, err := b.Session.ApplicationCommandBulkOverwrite(b.Session.State.User.ID, guildID, cmds)
	if err != nil {
		return err
	}
	b.RegisteredCommands = append(b.RegisteredCommands, registered...)
	return nil
}

// UnregisterCommands removes every application command registered in guildID.
func (b *Bot) UnregisterCommands(guildID string) {
	cmds, err := b.Session.ApplicationCommands(b.Session.State.User.ID, guildID)
	if err != nil {
		b.log.WithError(err).WithField("guild_id", guildID).Warn("Could not fetch commands")
		return
	}
	for _, cmd := range cmds {
		if err := b.Session.ApplicationCommandDelete(b.Session.State.User.ID, guildID, cmd.ID); err != nil {
			b.log.WithError(err).WithField("command", cmd.Name).Warn("Cannot delete command")
		}
	}
}

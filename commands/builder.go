package commands

import (
	"github.com/bwmarrin/discordgo"

	"modbot/commands/defs"
)

// GenerateCommands returns every slash command the bot registers.
func GenerateCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		defs.Mute,
		defs.Unmute,
		defs.MuteRole,
		defs.Kick,
		defs.Ban,
		defs.Warn,
		defs.Note,
		defs.Purge,
		defs.Infraction,
		defs.BotInfo,
	}
}

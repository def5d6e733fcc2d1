package handlers

import (
	"strings"

	"github.com/bwmarrin/discordgo"

	"modbot/bot"
	"modbot/utils"
)

// requiredPermissions mirrors the default member permissions of each command,
// since guild admins can override those in the integration settings.
var requiredPermissions = map[string]int64{
	"mute":       discordgo.PermissionManageRoles,
	"unmute":     discordgo.PermissionManageRoles,
	"muterole":   discordgo.PermissionManageRoles,
	"kick":       discordgo.PermissionKickMembers,
	"ban":        discordgo.PermissionBanMembers,
	"warn":       discordgo.PermissionManageMessages,
	"note":       discordgo.PermissionManageMessages,
	"purge":      discordgo.PermissionManageMessages,
	"infraction": discordgo.PermissionManageMessages,
}

// subcommandPermissions overrides requiredPermissions for subcommands that
// rewrite or erase history. Deleting a mute infraction also lifts the mute.
var subcommandPermissions = map[string]int64{
	"infraction reason": discordgo.PermissionAdministrator,
	"infraction delete": discordgo.PermissionAdministrator,
}

func handleInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if i.GuildID == "" {
		if i.Type == discordgo.InteractionApplicationCommand {
			utils.SendErrorResponse(s, i, "This command can only be used in a server.")
		}
		return
	}

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		name := i.ApplicationCommandData().Name
		if !allowed(i, name) {
			utils.SendErrorResponse(s, i, "You do not have permission to use this command.")
			return
		}
		if h, ok := b.CommandHandlers[name]; ok {
			h(s, i)
		}
	case discordgo.InteractionMessageComponent:
		customID := i.MessageComponentData().CustomID
		prefix, _, _ := strings.Cut(customID, ":")
		if h, ok := b.ComponentHandlers[prefix]; ok {
			h(s, i)
		}
	}
}

func allowed(i *discordgo.InteractionCreate, command string) bool {
	perm, ok := requiredPermissions[command]
	if !ok {
		return true
	}
	if data, isCommand := i.Data.(discordgo.ApplicationCommandInteractionData); isCommand && len(data.Options) > 0 {
		if p, found := subcommandPermissions[command+" "+data.Options[0].Name]; found {
			perm = p
		}
	}
	if i.Member == nil || utils.CheckPermission(i.Member.Permissions) == utils.GuestPermission {
		return false
	}
	return utils.HasPermission(i, perm)
}

package defs

import "github.com/bwmarrin/discordgo"

var infractionKindChoices = []*discordgo.ApplicationCommandOptionChoice{
	{Name: "Kick", Value: "kick"},
	{Name: "Ban", Value: "ban"},
	{Name: "Mute", Value: "mute"},
	{Name: "Warning", Value: "warning"},
	{Name: "Note", Value: "note"},
}

func infractionIDOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "id",
		Description: "Infraction ID",
		Required:    true,
		MinValue:    new(float64),
	}
}

var Infraction = &discordgo.ApplicationCommand{
	Name:                     "infraction",
	Description:              "Manage the infraction history of this server",
	DefaultMemberPermissions: &manageMessagesPermission,
	DMPermission:             &dmPermission,
	NameLocalizations: &map[discordgo.Locale]string{
		discordgo.ChineseCN: "违规记录",
		discordgo.ChineseTW: "違規記錄",
	},
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "detail",
			Description: "Show a single infraction",
			Options:     []*discordgo.ApplicationCommandOption{infractionIDOption()},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "reason",
			Description: "Change the reason of an infraction (administrators only)",
			Options: []*discordgo.ApplicationCommandOption{
				infractionIDOption(),
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "reason",
					Description: "New reason",
					Required:    true,
					MaxLength:   maxReasonLength,
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "delete",
			Description: "Delete an infraction, lifting its mute if still active (administrators only)",
			Options:     []*discordgo.ApplicationCommandOption{infractionIDOption()},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "list",
			Description: "List recent infractions, optionally of one kind",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "kind",
					Description: "Only show infractions of this kind",
					Required:    false,
					Choices:     infractionKindChoices,
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "user",
			Description: "Show a user's infractions grouped by kind",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "User to look up",
					Required:    true,
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "stats",
			Description: "Rank moderators by the infractions they created",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "period",
					Description: "How far back to count, e.g. 7d or 1w (default 7d)",
					Required:    false,
				},
			},
		},
	},
}

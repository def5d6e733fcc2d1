package defs

import "github.com/bwmarrin/discordgo"

var (
	purgeMinAmount = 1.0
	purgeMaxAmount = 1000.0
)

func purgeAmountOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "amount",
		Description: description,
		Required:    true,
		MinValue:    &purgeMinAmount,
		MaxValue:    purgeMaxAmount,
	}
}

var Purge = &discordgo.ApplicationCommand{
	Name:                     "purge",
	Description:              "Delete recent messages in this channel",
	DefaultMemberPermissions: &manageMessagesPermission,
	DMPermission:             &dmPermission,
	NameLocalizations: &map[discordgo.Locale]string{
		discordgo.ChineseCN: "清理消息",
		discordgo.ChineseTW: "清理訊息",
	},
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "recent",
			Description: "Delete the most recent messages",
			Options: []*discordgo.ApplicationCommandOption{
				purgeAmountOption("How many messages to delete"),
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "user",
			Description: "Delete a member's messages among the most recent ones",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Member whose messages are deleted",
					Required:    true,
				},
				purgeAmountOption("How many recent messages to search"),
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "containing",
			Description: "Delete recent messages containing some text",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "text",
					Description: "Text the messages contain",
					Required:    true,
				},
				purgeAmountOption("How many recent messages to search"),
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "ids",
			Description: "Delete messages from users by ID, e.g. users that left (searches 1000 messages)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "ids",
					Description: "User IDs separated by spaces or commas",
					Required:    true,
				},
			},
		},
	},
}

package defs

import "github.com/bwmarrin/discordgo"

var (
	manageRolesPermission    int64 = discordgo.PermissionManageRoles
	kickMembersPermission    int64 = discordgo.PermissionKickMembers
	banMembersPermission     int64 = discordgo.PermissionBanMembers
	manageMessagesPermission int64 = discordgo.PermissionManageMessages
	dmPermission                   = false
)

// maxReasonLength keeps reasons within the audit log reason limit once the
// bot's prefix is added, and within embed field limits.
const maxReasonLength = 400

var Mute = &discordgo.ApplicationCommand{
	Name:                     "mute",
	Description:              "Mute a member for the given duration",
	DefaultMemberPermissions: &manageRolesPermission,
	DMPermission:             &dmPermission,
	NameLocalizations: &map[discordgo.Locale]string{
		discordgo.ChineseCN: "禁言",
		discordgo.ChineseTW: "禁言",
	},
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.ChineseCN: "在指定时长内禁言成员",
		discordgo.ChineseTW: "在指定時長內禁言成員",
	},
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "Member to mute",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "duration",
			Description: "How long the mute lasts, e.g. 30m, 12h, 3d, 1w2d",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "reason",
			Description: "Reason for the mute",
			Required:    false,
			MaxLength:   maxReasonLength,
		},
	},
}

var Unmute = &discordgo.ApplicationCommand{
	Name:                     "unmute",
	Description:              "Lift a member's active mute early",
	DefaultMemberPermissions: &manageRolesPermission,
	DMPermission:             &dmPermission,
	NameLocalizations: &map[discordgo.Locale]string{
		discordgo.ChineseCN: "解除禁言",
		discordgo.ChineseTW: "解除禁言",
	},
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "Member to unmute",
			Required:    true,
		},
	},
}

var MuteRole = &discordgo.ApplicationCommand{
	Name:                     "muterole",
	Description:              "Configure the role assigned by /mute",
	DefaultMemberPermissions: &manageRolesPermission,
	DMPermission:             &dmPermission,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "set",
			Description: "Set the mute role",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "role",
					Description: "Role to assign to muted members",
					Required:    true,
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "show",
			Description: "Show the configured mute role",
		},
	},
}

var Kick = &discordgo.ApplicationCommand{
	Name:                     "kick",
	Description:              "Kick a member and record the infraction",
	DefaultMemberPermissions: &kickMembersPermission,
	DMPermission:             &dmPermission,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "Member to kick",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "reason",
			Description: "Reason for the kick",
			Required:    false,
			MaxLength:   maxReasonLength,
		},
	},
}

var Ban = &discordgo.ApplicationCommand{
	Name:                     "ban",
	Description:              "Ban a user and record the infraction",
	DefaultMemberPermissions: &banMembersPermission,
	DMPermission:             &dmPermission,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "User to ban",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "reason",
			Description: "Reason for the ban",
			Required:    false,
			MaxLength:   maxReasonLength,
		},
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "delete_message_days",
			Description: "Days of messages to delete (0-7)",
			Required:    false,
			MinValue:    new(float64),
			MaxValue:    7,
		},
	},
}

var Warn = &discordgo.ApplicationCommand{
	Name:                     "warn",
	Description:              "Warn a user and record the infraction",
	DefaultMemberPermissions: &manageMessagesPermission,
	DMPermission:             &dmPermission,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "User to warn",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "reason",
			Description: "Reason for the warning",
			Required:    true,
			MaxLength:   maxReasonLength,
		},
	},
}

var Note = &discordgo.ApplicationCommand{
	Name:                     "note",
	Description:              "Attach a moderator note to a user",
	DefaultMemberPermissions: &manageMessagesPermission,
	DMPermission:             &dmPermission,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "User the note is about",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "note",
			Description: "Note content",
			Required:    true,
			MaxLength:   maxReasonLength,
		},
	},
}

package defs

import "github.com/bwmarrin/discordgo"

var BotInfo = &discordgo.ApplicationCommand{
	Name:        "botinfo",
	Description: "Show host and runtime information of the bot",
	NameLocalizations: &map[discordgo.Locale]string{
		discordgo.ChineseCN: "系统信息",
		discordgo.ChineseTW: "系統資訊",
	},
}

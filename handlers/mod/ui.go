package mod

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"modbot/model"
)

const (
	colorSuccess = 0x3498DB
	colorWarn    = 0xE67E22
	colorWarnDM  = 0xFFCC00
)

func actionEmbed(verb, userID string, inf *model.Infraction, extra ...*discordgo.MessageEmbedField) *discordgo.MessageEmbed {
	reason := inf.Reason
	if reason == "" {
		reason = "no reason specified"
	}
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s user `%s`", verb, userID),
		Color: colorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: fmt.Sprintf("<@%s>", userID), Inline: true},
			{Name: "Reason", Value: reason, Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Infraction created with ID %d | Authored by %s", inf.ID, inf.ModeratorID),
		},
	}
	embed.Fields = append(embed.Fields, extra...)
	return embed
}

var dmFailedField = &discordgo.MessageEmbedField{
	Name:  "Direct message",
	Value: "Warned user has direct messages disabled. The warning is still recorded.",
}

// warnDMEmbed is sent to a warned user.
func warnDMEmbed(guild string, inf *model.Infraction) *discordgo.MessageEmbed {
	reason := inf.Reason
	if reason == "" {
		reason = "no reason specified"
	}
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("You have been warned by a staff member on %s for the following reason:", guild),
		Description: reason,
		Color:       colorWarnDM,
		Timestamp:   inf.Created().UTC().Format(time.RFC3339),
	}
}

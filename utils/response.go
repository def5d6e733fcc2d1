package utils

import (
	"errors"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"modbot/moderation"
)

var responseLog = logrus.WithField("module", "response")

// SendErrorResponse sends an ephemeral error message.
func SendErrorResponse(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "❌ " + message,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		responseLog.WithError(err).Error("Error sending error response")
	}
}

// SendEmbedResponse responds with a single embed.
func SendEmbedResponse(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
	if err != nil {
		responseLog.WithError(err).Error("Error sending embed response")
	}
}

// UpdateEmbedResponse replaces the message a component belongs to.
func UpdateEmbedResponse(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
	if err != nil {
		responseLog.WithError(err).Error("Error updating embed response")
	}
}

// SendFollowUpEmbed edits the deferred response to show embed.
func SendFollowUpEmbed(s *discordgo.Session, i *discordgo.Interaction, embed *discordgo.MessageEmbed) {
	embeds := []*discordgo.MessageEmbed{embed}
	_, err := s.InteractionResponseEdit(i, &discordgo.WebhookEdit{
		Embeds: &embeds,
	})
	if err != nil {
		responseLog.WithError(err).Error("Error sending follow-up embed")
	}
}

// SendFollowUpError sends a follow-up error message to an interaction.
func SendFollowUpError(s *discordgo.Session, i *discordgo.Interaction, message string) {
	errorMsg := "❌ " + message
	_, err := s.InteractionResponseEdit(i, &discordgo.WebhookEdit{
		Content: &errorMsg,
	})
	if err != nil {
		responseLog.WithError(err).Error("Error sending follow-up error message")
	}
}

// DeferResponse defers an interaction response, optionally making it ephemeral.
func DeferResponse(s *discordgo.Session, i *discordgo.InteractionCreate, ephemeral bool) error {
	response := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}
	if ephemeral {
		response.Data = &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		}
	}
	return s.InteractionRespond(i.Interaction, response)
}

// DescribeError turns a moderation error into a message fit for a moderator.
func DescribeError(err error) string {
	var collabErr *moderation.CollaboratorError
	switch {
	case errors.Is(err, moderation.ErrNoMuteRole):
		return "No mute role is configured. Set one with `/muterole set` first."
	case errors.Is(err, moderation.ErrMuteRoleMissing):
		return "The configured mute role no longer exists. Reconfigure it with `/muterole set`."
	case errors.Is(err, moderation.ErrAlreadyHasRole):
		return "That member already has the mute role and is assumed to already be muted. Remove the role manually to mute them through the bot."
	case errors.Is(err, moderation.ErrConflict):
		return "This user is already muted."
	case errors.Is(err, moderation.ErrMemberNotFound):
		return "That user is not a member of this server."
	case errors.Is(err, moderation.ErrNotFound):
		return "No such infraction in this server."
	case errors.Is(err, moderation.ErrStoreUnavailable):
		return "The infraction database is unavailable, please try again later."
	case errors.As(err, &collabErr):
		return "Discord rejected the request (" + collabErr.Op + "). Check the bot's permissions and role position."
	default:
		return "An unexpected error occurred."
	}
}

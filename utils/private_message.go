package utils

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// DirectMessenger is the part of *discordgo.Session used to message users
// privately.
type DirectMessenger interface {
	EmbedSender
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
}

// SendPrivateEmbed sends an embed to a user's DM channel. Users that disabled
// direct messages make this fail with a 50007 REST error.
func SendPrivateEmbed(s DirectMessenger, userID string, embed *discordgo.MessageEmbed) error {
	channel, err := s.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("error creating private channel with user %s: %w", userID, err)
	}
	if _, err := s.ChannelMessageSendEmbed(channel.ID, embed); err != nil {
		return fmt.Errorf("error sending private embed to user %s: %w", userID, err)
	}
	return nil
}

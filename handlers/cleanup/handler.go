package cleanup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"modbot/purge"
	"modbot/utils"
)

const purgeTimeout = 2 * time.Minute

var log = logrus.WithField("module", "cleanup")

// HandlePurge handles /purge and its subcommands. The reply is ephemeral so
// it is never caught by a later purge.
func HandlePurge(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return
	}
	sub := data.Options[0]
	opts := utils.Options(sub.Options)

	var (
		match  purge.Filter
		limit  = int(opts.Int("amount", 100))
		detail string
	)
	switch sub.Name {
	case "recent":
		match = purge.All
	case "user":
		userID := opts.UserID("user")
		match = purge.ByAuthors(userID)
		detail = fmt.Sprintf("Affected user: <@%s> (`%s`)", userID, userID)
	case "containing":
		text := opts.String("text")
		match = purge.Containing(text)
		detail = fmt.Sprintf("Specified message content: `%s`.", text)
	case "ids":
		ids, err := purge.ParseIDs(opts.String("ids"))
		if err != nil {
			utils.SendErrorResponse(s, i, "Failed to purge by ID: "+err.Error())
			return
		}
		match = purge.ByAuthors(ids...)
		limit = purge.MaxScan
		detail = "Affected IDs: `" + strings.Join(ids, "`, `") + "`"
	default:
		return
	}

	if err := utils.DeferResponse(s, i, true); err != nil {
		log.WithError(err).Error("Failed to defer interaction")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), purgeTimeout)
	defer cancel()

	total, err := purge.Purge(ctx, s, i.ChannelID, limit, match)
	if err != nil {
		log.WithError(err).WithFields(logrus.Fields{
			"channel_id": i.ChannelID,
			"deleted":    total,
		}).Warn("Purge failed")
		utils.SendFollowUpError(s, i.Interaction, fmt.Sprintf(
			"Purge stopped after deleting %d messages. Check that the bot can manage and read messages here.", total))
		return
	}
	utils.SendFollowUpEmbed(s, i.Interaction, resultEmbed(total, detail, utils.InvokerID(i)))
}

func resultEmbed(total int, detail, invokerID string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Purged a total of `%d` messages.", total),
		Description: detail,
		Color:       0x2ECC71,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Purged by " + invokerID},
	}
}

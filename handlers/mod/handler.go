package mod

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"modbot/model"
	"modbot/moderation"
	"modbot/utils"
)

const requestTimeout = 20 * time.Second

var log = logrus.WithField("module", "mod")

// HandleMute handles /mute.
func HandleMute(s *discordgo.Session, i *discordgo.InteractionCreate, muter *moderation.Muter) {
	if err := utils.DeferResponse(s, i, false); err != nil {
		log.WithError(err).Error("Failed to defer interaction")
		return
	}
	opts := utils.Options(i.ApplicationCommandData().Options)
	userID := opts.UserID("user")

	expiry, err := utils.ParseExpiry(time.Now(), opts.String("duration"))
	if err != nil {
		utils.SendFollowUpError(s, i.Interaction, "Invalid duration: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	inf, _, err := muter.Mute(ctx, moderation.MuteRequest{
		GuildID:     i.GuildID,
		UserID:      userID,
		ModeratorID: utils.InvokerID(i),
		Reason:      opts.String("reason"),
		Expiry:      expiry,
	})
	if err != nil {
		if errors.Is(err, moderation.ErrConflict) {
			if active, aerr := muter.ActiveMute(ctx, i.GuildID, userID); aerr == nil {
				utils.SendFollowUpError(s, i.Interaction, fmt.Sprintf(
					"A mute is already active under infraction ID `%d`, expiring <t:%d:R>. Edit it to change the mute.",
					active.InfractionID, active.ExpiresAt().Unix()))
				return
			}
		}
		followUpError(s, i, "mute", err)
		return
	}

	utils.SendFollowUpEmbed(s, i.Interaction, actionEmbed("Muted", userID, inf, &discordgo.MessageEmbedField{
		Name: "Expiry", Value: fmt.Sprintf("<t:%d:f> (<t:%d:R>)", expiry.Unix(), expiry.Unix()), Inline: true,
	}))
}

// HandleUnmute handles /unmute.
func HandleUnmute(s *discordgo.Session, i *discordgo.InteractionCreate, muter *moderation.Muter) {
	if err := utils.DeferResponse(s, i, false); err != nil {
		log.WithError(err).Error("Failed to defer interaction")
		return
	}
	userID := utils.Options(i.ApplicationCommandData().Options).UserID("user")

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	mute, err := muter.Unmute(ctx, i.GuildID, userID, utils.InvokerID(i))
	if err != nil && mute == nil {
		if errors.Is(err, moderation.ErrNotFound) {
			utils.SendFollowUpError(s, i.Interaction, fmt.Sprintf("<@%s> is not muted.", userID))
			return
		}
		followUpError(s, i, "unmute", err)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Unmuted user",
		Description: fmt.Sprintf("<@%s> (`%s`), mute infraction `%d`", userID, userID, mute.InfractionID),
		Color:       colorSuccess,
	}
	if err != nil {
		embed.Color = colorWarn
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Warning",
			Value: "The mute was ended, but the mute role could not be removed: " + utils.DescribeError(err),
		})
	}
	utils.SendFollowUpEmbed(s, i.Interaction, embed)
}

// HandleMuteRole handles /muterole set and /muterole show.
func HandleMuteRole(s *discordgo.Session, i *discordgo.InteractionCreate, muter *moderation.Muter) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return
	}
	sub := data.Options[0]

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	switch sub.Name {
	case "set":
		roleID := utils.Options(sub.Options).RoleID("role")
		if err := muter.SetMuteRole(ctx, i.GuildID, roleID); err != nil {
			log.WithError(err).WithField("guild_id", i.GuildID).Warn("Failed to set mute role")
			utils.SendErrorResponse(s, i, utils.DescribeError(err))
			return
		}
		utils.SendEmbedResponse(s, i, &discordgo.MessageEmbed{
			Title:       "Mute role updated",
			Description: fmt.Sprintf("Muted members will now receive <@&%s>.", roleID),
			Color:       colorSuccess,
		}, nil)
	case "show":
		cfg, err := muter.MuteRole(ctx, i.GuildID)
		if err != nil {
			if errors.Is(err, moderation.ErrNotFound) {
				utils.SendErrorResponse(s, i, utils.DescribeError(moderation.ErrNoMuteRole))
				return
			}
			utils.SendErrorResponse(s, i, utils.DescribeError(err))
			return
		}
		utils.SendEmbedResponse(s, i, &discordgo.MessageEmbed{
			Title:       "Mute role",
			Description: fmt.Sprintf("<@&%s> (`%s`)", cfg.RoleID, cfg.RoleID),
			Color:       colorSuccess,
		}, nil)
	}
}

// HandleKick handles /kick.
func HandleKick(s *discordgo.Session, i *discordgo.InteractionCreate, actions *moderation.Actions) {
	runAction(s, i, "kick", "Kicked", func(ctx context.Context, userID string, opts utils.OptionMap) (*model.Infraction, []*discordgo.MessageEmbedField, error) {
		inf, err := actions.Kick(ctx, i.GuildID, userID, utils.InvokerID(i), opts.String("reason"))
		return inf, nil, err
	})
}

// HandleBan handles /ban.
func HandleBan(s *discordgo.Session, i *discordgo.InteractionCreate, actions *moderation.Actions) {
	runAction(s, i, "ban", "Banned", func(ctx context.Context, userID string, opts utils.OptionMap) (*model.Infraction, []*discordgo.MessageEmbedField, error) {
		days := int(opts.Int("delete_message_days", 0))
		inf, err := actions.Ban(ctx, i.GuildID, userID, utils.InvokerID(i), opts.String("reason"), days)
		return inf, nil, err
	})
}

// HandleWarn handles /warn. The warned user is told by direct message; if
// that fails the moderator is told instead.
func HandleWarn(s *discordgo.Session, i *discordgo.InteractionCreate, actions *moderation.Actions) {
	runAction(s, i, "warn", "Warned", func(ctx context.Context, userID string, opts utils.OptionMap) (*model.Infraction, []*discordgo.MessageEmbedField, error) {
		inf, err := actions.Warn(ctx, i.GuildID, userID, utils.InvokerID(i), opts.String("reason"))
		if err != nil {
			return nil, nil, err
		}
		if derr := utils.SendPrivateEmbed(s, userID, warnDMEmbed(guildName(s, i.GuildID), inf)); derr != nil {
			log.WithError(derr).WithField("user_id", userID).Info("Could not warn user by direct message")
			return inf, []*discordgo.MessageEmbedField{dmFailedField}, nil
		}
		return inf, nil, nil
	})
}

func guildName(s *discordgo.Session, guildID string) string {
	if g, err := s.State.Guild(guildID); err == nil && g.Name != "" {
		return g.Name
	}
	return "the server"
}

// HandleNote handles /note.
func HandleNote(s *discordgo.Session, i *discordgo.InteractionCreate, actions *moderation.Actions) {
	runAction(s, i, "note", "Added note for", func(ctx context.Context, userID string, opts utils.OptionMap) (*model.Infraction, []*discordgo.MessageEmbedField, error) {
		inf, err := actions.Note(ctx, i.GuildID, userID, utils.InvokerID(i), opts.String("note"))
		return inf, nil, err
	})
}

// actionFunc runs a moderation action and may return extra fields for the
// confirmation embed.
type actionFunc func(ctx context.Context, userID string, opts utils.OptionMap) (*model.Infraction, []*discordgo.MessageEmbedField, error)

func runAction(s *discordgo.Session, i *discordgo.InteractionCreate, name, verb string, action actionFunc) {
	if err := utils.DeferResponse(s, i, false); err != nil {
		log.WithError(err).Error("Failed to defer interaction")
		return
	}
	opts := utils.Options(i.ApplicationCommandData().Options)
	userID := opts.UserID("user")

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	inf, extra, err := action(ctx, userID, opts)
	if err != nil {
		followUpError(s, i, name, err)
		return
	}
	utils.SendFollowUpEmbed(s, i.Interaction, actionEmbed(verb, userID, inf, extra...))
}

func followUpError(s *discordgo.Session, i *discordgo.InteractionCreate, command string, err error) {
	log.WithError(err).WithFields(logrus.Fields{
		"command":  command,
		"guild_id": i.GuildID,
	}).Warn("Moderation command failed")
	utils.SendFollowUpError(s, i.Interaction, utils.DescribeError(err))
}

package handlers

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"modbot/bot"
	"modbot/handlers/infractions"
	"modbot/handlers/mod"
	"modbot/handlers/cleanup"
	"modbot/utils"
)

const memberJoinTimeout = 15 * time.Second

var log = logrus.WithField("module", "handlers")

func Register(b *bot.Bot) {
	b.CommandHandlers = commandHandlers(b)
	b.ComponentHandlers = componentHandlers(b)
	addHandlers(b)
}

func commandHandlers(b *bot.Bot) map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	svc := b.Moderation
	return map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate){
		"mute": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			mod.HandleMute(s, i, svc.Muter)
		},
		"unmute": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			mod.HandleUnmute(s, i, svc.Muter)
		},
		"muterole": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			mod.HandleMuteRole(s, i, svc.Muter)
		},
		"kick": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			mod.HandleKick(s, i, svc.Actions)
		},
		"ban": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			mod.HandleBan(s, i, svc.Actions)
		},
		"warn": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			mod.HandleWarn(s, i, svc.Actions)
		},
		"note": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			mod.HandleNote(s, i, svc.Actions)
		},
		"purge":      cleanup.HandlePurge,
		"infraction": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			infractions.HandleInfractionCommand(s, i, svc.Ledger)
		},
		"botinfo": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			SystemInfoHandler(s, i, b)
		},
	}
}

// componentHandlers is keyed by the custom ID prefix before the first colon.
func componentHandlers(b *bot.Bot) map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate){
		infractions.PagePrefix: func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			infractions.HandleListPage(s, i, b.Moderation.Ledger)
		},
	}
}

func addHandlers(b *bot.Bot) {
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Infof("Logged in as: %v#%v", s.State.User.Username, s.State.User.Discriminator)
	})
	b.Session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		handleInteractionCreate(s, i, b)
	})
	b.Session.AddHandler(func(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
		handleMemberAdd(s, m, b)
	})
}

// handleMemberAdd re-applies the mute role to members rejoining while muted.
func handleMemberAdd(s *discordgo.Session, m *discordgo.GuildMemberAdd, b *bot.Bot) {
	if m.Member == nil || m.User == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), memberJoinTimeout)
	defer cancel()

	if err := b.Moderation.Muter.OnMemberJoined(ctx, m.GuildID, m.User.ID); err != nil {
		log.WithError(err).WithFields(logrus.Fields{
			"guild_id": m.GuildID,
			"user_id":  m.User.ID,
		}).Error("Failed to re-apply mute role to rejoined member")
		if lerr := utils.LogError(s, b.GetConfig().LogChannelID, "Moderation", "Rejoin",
			"Could not re-apply the mute role to <@"+m.User.ID+">: "+err.Error()); lerr != nil {
			log.WithError(lerr).Warn("Failed to send bot log")
		}
	}
}

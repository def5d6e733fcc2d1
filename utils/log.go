package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"modbot/moderation"
)

type LogLevel string

const (
	Info  LogLevel = "INFO"
	Warn  LogLevel = "WARN"
	Error LogLevel = "ERROR"
)

// EmbedSender is the part of *discordgo.Session used to post log embeds.
type EmbedSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

func getColor(level LogLevel) int {
	switch level {
	case Info:
		return 3066993 // Green
	case Warn:
		return 15105570 // Orange
	case Error:
		return 15158332 // Red
	default:
		return 3447003 // Blue
	}
}

func logEmbed(level LogLevel, module, operation, extraInfo string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: string(level) + " Log",
		Color: getColor(level),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Module", Value: module},
			{Name: "Operation", Value: operation},
			{Name: "Details", Value: extraInfo},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func sendLog(s EmbedSender, channelID string, level LogLevel, module, operation, extraInfo string) error {
	if channelID == "" {
		return nil
	}
	if _, err := s.ChannelMessageSendEmbed(channelID, logEmbed(level, module, operation, extraInfo)); err != nil {
		return fmt.Errorf("failed to send log to channel %s: %w", channelID, err)
	}
	return nil
}

func LogInfo(s EmbedSender, channelID, module, operation, extraInfo string) error {
	return sendLog(s, channelID, Info, module, operation, extraInfo)
}

func LogWarn(s EmbedSender, channelID, module, operation, extraInfo string) error {
	return sendLog(s, channelID, Warn, module, operation, extraInfo)
}

func LogError(s EmbedSender, channelID, module, operation, extraInfo string) error {
	return sendLog(s, channelID, Error, module, operation, extraInfo)
}

const botLogQueueSize = 64

// BotLog posts moderation events to the bot log channel. Publish only queues
// the event; Run delivers them. Events are dropped when the queue is full.
type BotLog struct {
	sender    EmbedSender
	channelID string
	queue     chan moderation.Event
	log       *logrus.Entry
}

var _ moderation.EventSink = (*BotLog)(nil)

func NewBotLog(sender EmbedSender, channelID string) *BotLog {
	return &BotLog{
		sender:    sender,
		channelID: channelID,
		queue:     make(chan moderation.Event, botLogQueueSize),
		log:       logrus.WithField("module", "botlog"),
	}
}

func (b *BotLog) Publish(ev moderation.Event) {
	select {
	case b.queue <- ev:
	default:
		b.log.WithField("event", ev.Type).Warn("Bot log queue full, dropping event")
	}
}

// Run delivers queued events until ctx is cancelled.
func (b *BotLog) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-b.queue:
			level, operation, details := describeEvent(ev)
			if err := sendLog(b.sender, b.channelID, level, "Moderation", operation, details); err != nil {
				b.log.WithError(err).Warn("Failed to post event to bot log")
			}
		}
	}
}

func describeEvent(ev moderation.Event) (LogLevel, string, string) {
	switch ev.Type {
	case moderation.EventInfractionCreated:
		inf := ev.Infraction
		details := fmt.Sprintf("#%d %s for <@%s> by <@%s>: %s", inf.ID, inf.Kind, inf.UserID, ev.ActorID, orNone(inf.Reason))
		if ev.Mute != nil {
			details += fmt.Sprintf("\nExpires <t:%d:R>", ev.Mute.Expiry/1000)
		}
		return Info, "Infraction created", details
	case moderation.EventInfractionEdited:
		return Info, "Infraction edited", fmt.Sprintf("#%d edited by <@%s>, new reason: %s", ev.Infraction.ID, ev.ActorID, orNone(ev.Infraction.Reason))
	case moderation.EventInfractionDeleted:
		return Warn, "Infraction deleted", fmt.Sprintf("#%d (%s for <@%s>) deleted by <@%s>", ev.Infraction.ID, ev.Infraction.Kind, ev.Infraction.UserID, ev.ActorID)
	case moderation.EventMuteReversed:
		details := fmt.Sprintf("<@%s> unmuted (%s), mute infraction #%d", ev.UserID, ev.Trigger, ev.Mute.InfractionID)
		if ev.Err != nil {
			return Error, "Mute reversed with errors", details + "\nRole removal failed: " + ev.Err.Error()
		}
		return Info, "Mute reversed", details
	case moderation.EventMuteReapplied:
		return Info, "Mute re-applied", fmt.Sprintf("<@%s> rejoined while muted, mute infraction #%d", ev.UserID, ev.Mute.InfractionID)
	default:
		return Info, string(ev.Type), "guild " + ev.GuildID + ", user " + ev.UserID
	}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}


package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"modbot/model"
	"modbot/moderation"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	args := m.Called(channelID, embed)
	return nil, args.Error(0)
}

func TestSendLogSkipsEmptyChannel(t *testing.T) {
	sender := new(mockSender)
	require.NoError(t, LogInfo(sender, "", "System", "Startup", "ok"))
	sender.AssertNotCalled(t, "ChannelMessageSendEmbed", mock.Anything, mock.Anything)
}

func TestSendLogWrapsError(t *testing.T) {
	sender := new(mockSender)
	sender.On("ChannelMessageSendEmbed", "42", mock.Anything).Return(errors.New("boom"))

	err := LogError(sender, "42", "System", "Startup", "failed")
	assert.ErrorContains(t, err, "boom")
	sender.AssertExpectations(t)
}

func TestLogWarnSendsWarnEmbed(t *testing.T) {
	sender := new(mockSender)
	sender.On("ChannelMessageSendEmbed", "42", mock.MatchedBy(func(e *discordgo.MessageEmbed) bool {
		return e.Title == "WARN Log" && e.Color == getColor(Warn) && e.Fields[1].Value == "Shutdown"
	})).Return(nil)

	require.NoError(t, LogWarn(sender, "42", "System", "Shutdown", "Bot is shutting down."))
	sender.AssertExpectations(t)
}

func TestBotLogDeliversEvents(t *testing.T) {
	sender := new(mockSender)
	delivered := make(chan *discordgo.MessageEmbed, 1)
	sender.On("ChannelMessageSendEmbed", "42", mock.Anything).
		Run(func(args mock.Arguments) { delivered <- args.Get(1).(*discordgo.MessageEmbed) }).
		Return(nil)

	bl := NewBotLog(sender, "42")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go bl.Run(ctx)

	bl.Publish(moderation.Event{
		Type:    moderation.EventMuteReversed,
		GuildID: "g",
		UserID:  "u",
		Trigger: moderation.TriggerExpired,
		Mute:    &model.Mute{MuteRecord: model.MuteRecord{InfractionID: 7}},
		Err:     errors.New("missing permissions"),
	})

	select {
	case embed := <-delivered:
		assert.Equal(t, "ERROR Log", embed.Title)
		assert.Equal(t, "Mute reversed with errors", embed.Fields[1].Value)
		assert.Contains(t, embed.Fields[2].Value, "#7")
		assert.Contains(t, embed.Fields[2].Value, "missing permissions")
	case <-time.After(time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestBotLogPublishNeverBlocks(t *testing.T) {
	bl := NewBotLog(new(mockSender), "42")
	done := make(chan struct{})
	go func() {
		for i := 0; i < botLogQueueSize*2; i++ {
			bl.Publish(moderation.Event{Type: moderation.EventInfractionEdited})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full queue")
	}
}

func TestDescribeEventCreatedMute(t *testing.T) {
	level, op, details := describeEvent(moderation.Event{
		Type:       moderation.EventInfractionCreated,
		ActorID:    "mod",
		Infraction: &model.Infraction{ID: 3, Kind: model.KindMute, UserID: "u"},
		Mute:       &model.Mute{MuteRecord: model.MuteRecord{Expiry: 5_000}},
	})
	assert.Equal(t, Info, level)
	assert.Equal(t, "Infraction created", op)
	assert.Contains(t, details, "#3 mute for <@u> by <@mod>: (none)")
	assert.Contains(t, details, "<t:5:R>")
}

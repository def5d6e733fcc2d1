package mod

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modbot/model"
)

func TestActionEmbed(t *testing.T) {
	inf := &model.Infraction{ID: 11, ModeratorID: "mod", Kind: model.KindMute}
	embed := actionEmbed("Muted", "u", inf, &discordgo.MessageEmbedField{Name: "Expiry", Value: "soon"})

	assert.Equal(t, "Muted user `u`", embed.Title)
	require.Len(t, embed.Fields, 3)
	assert.Equal(t, "no reason specified", embed.Fields[1].Value)
	assert.Equal(t, "Expiry", embed.Fields[2].Name)
	assert.Contains(t, embed.Footer.Text, "ID 11")
}

func TestWarnDMEmbed(t *testing.T) {
	inf := &model.Infraction{ID: 3, Kind: model.KindWarning, Reason: "spam", CreatedAt: 1700000000000}
	embed := warnDMEmbed("Test Guild", inf)

	assert.Contains(t, embed.Title, "Test Guild")
	assert.Equal(t, "spam", embed.Description)
	assert.Equal(t, "2023-11-14T22:13:20Z", embed.Timestamp)
}

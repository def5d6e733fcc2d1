package handlers

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func interactionWith(perms int64) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Member: &discordgo.Member{Permissions: perms},
	}}
}

func TestAllowed(t *testing.T) {
	assert.True(t, allowed(interactionWith(0), "botinfo"))
	assert.False(t, allowed(interactionWith(0), "warn"))
	assert.True(t, allowed(interactionWith(discordgo.PermissionManageRoles), "mute"))
	assert.False(t, allowed(interactionWith(discordgo.PermissionManageRoles), "ban"))
	assert.True(t, allowed(interactionWith(discordgo.PermissionAdministrator), "ban"))
	assert.True(t, allowed(interactionWith(discordgo.PermissionManageMessages), "purge"))
	assert.False(t, allowed(&discordgo.InteractionCreate{Interaction: &discordgo.Interaction{}}, "kick"))
}

func infractionCommand(perms int64, sub string) *discordgo.InteractionCreate {
	i := interactionWith(perms)
	i.Data = discordgo.ApplicationCommandInteractionData{
		Name: "infraction",
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: sub, Type: discordgo.ApplicationCommandOptionSubCommand},
		},
	}
	return i
}

func TestAllowedInfractionSubcommands(t *testing.T) {
	for _, sub := range []string{"detail", "list", "user", "stats"} {
		assert.True(t, allowed(infractionCommand(discordgo.PermissionManageMessages, sub), "infraction"), sub)
	}
	for _, sub := range []string{"reason", "delete"} {
		assert.False(t, allowed(infractionCommand(discordgo.PermissionManageMessages, sub), "infraction"), sub)
		assert.False(t, allowed(infractionCommand(discordgo.PermissionManageMessages|discordgo.PermissionBanMembers, sub), "infraction"), sub)
		assert.True(t, allowed(infractionCommand(discordgo.PermissionAdministrator, sub), "infraction"), sub)
	}
}

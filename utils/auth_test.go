package utils

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

func TestCheckPermission(t *testing.T) {
	assert.Equal(t, AdminPermission, CheckPermission(discordgo.PermissionAdministrator))
	assert.Equal(t, ModeratorPermission, CheckPermission(discordgo.PermissionKickMembers))
	assert.Equal(t, ModeratorPermission, CheckPermission(discordgo.PermissionManageRoles|discordgo.PermissionSendMessages))
	assert.Equal(t, GuestPermission, CheckPermission(discordgo.PermissionSendMessages))
}

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(interactionWith(discordgo.PermissionManageRoles), discordgo.PermissionManageRoles))
	assert.True(t, HasPermission(interactionWith(discordgo.PermissionAdministrator), discordgo.PermissionBanMembers))
	assert.False(t, HasPermission(interactionWith(discordgo.PermissionKickMembers), discordgo.PermissionBanMembers))
	assert.False(t, HasPermission(&discordgo.InteractionCreate{Interaction: &discordgo.Interaction{}}, discordgo.PermissionKickMembers))
}

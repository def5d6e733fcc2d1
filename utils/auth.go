package utils

import "github.com/bwmarrin/discordgo"

// Permission levels
const (
	ModeratorPermission = "moderator"
	AdminPermission     = "admin"
	GuestPermission     = "guest"
)

// CheckPermission returns the highest permission level granted by the
// member's resolved guild permissions, as sent with an interaction.
func CheckPermission(permissions int64) string {
	if permissions&discordgo.PermissionAdministrator != 0 {
		return AdminPermission
	}
	if permissions&(discordgo.PermissionManageRoles|discordgo.PermissionKickMembers|discordgo.PermissionBanMembers|discordgo.PermissionManageMessages) != 0 {
		return ModeratorPermission
	}
	return GuestPermission
}

// HasPermission reports whether the invoking member holds perm, or is an
// administrator.
func HasPermission(i *discordgo.InteractionCreate, perm int64) bool {
	if i.Member == nil {
		return false
	}
	p := i.Member.Permissions
	return p&discordgo.PermissionAdministrator != 0 || p&perm == perm
}

package moderation_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modbot/model"
	"modbot/moderation"
)

func TestMuteAssignsRoleAndRecords(t *testing.T) {
	h := newHarness(t)
	expiry := time.Now().Add(time.Hour)

	inf, mute := h.mute(t, userID, expiry)

	assert.Equal(t, model.KindMute, inf.Kind)
	assert.Equal(t, "spam", inf.Reason)
	assert.Equal(t, inf.ID, mute.InfractionID)
	assert.Equal(t, expiry.UnixMilli(), mute.Expiry)
	assert.True(t, h.platform.hasRole(userID, muteRole))

	adds := h.platform.additions()
	require.Len(t, adds, 1)
	assert.True(t, strings.HasPrefix(adds[0].Reason, "Mute command invoked by "+modID))

	created := h.events.ofType(moderation.EventInfractionCreated)
	require.Len(t, created, 1)
	assert.Equal(t, mute.ID, created[0].Mute.ID)
}

func TestMuteRejectsActiveMute(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.mute(t, userID, time.Now().Add(time.Hour))

	_, _, err := h.svc.Muter.Mute(ctx, moderation.MuteRequest{
		GuildID: guildID, UserID: userID, ModeratorID: modID, Expiry: time.Now().Add(2 * time.Hour),
	})
	assert.ErrorIs(t, err, moderation.ErrConflict)

	infs, lerr := h.store.ListUserInfractions(ctx, guildID, userID)
	require.NoError(t, lerr)
	assert.Len(t, infs, 1, "no new infraction")
	assert.Equal(t, 1, h.activeCount(t))
	assert.Len(t, h.platform.additions(), 1, "role not added twice")
}

func TestMuteMemberAlreadyHoldingRole(t *testing.T) {
	h := newHarness(t)
	h.platform.members[userID][muteRole] = true

	_, _, err := h.svc.Muter.Mute(context.Background(), moderation.MuteRequest{
		GuildID: guildID, UserID: userID, ModeratorID: modID, Expiry: time.Now().Add(time.Hour),
	})
	assert.ErrorIs(t, err, moderation.ErrAlreadyHasRole)
	assert.NotErrorIs(t, err, moderation.ErrConflict)
	assert.Equal(t, 0, h.activeCount(t))
	assert.Empty(t, h.platform.additions())
}

func TestMuteCapsAuditLogReason(t *testing.T) {
	h := newHarness(t)
	long := strings.Repeat("ä", 2000)

	inf, _, err := h.svc.Muter.Mute(context.Background(), moderation.MuteRequest{
		GuildID: guildID, UserID: userID, ModeratorID: modID, Reason: long, Expiry: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, long, inf.Reason, "stored reason is kept in full")

	adds := h.platform.additions()
	require.Len(t, adds, 1)
	assert.Equal(t, 512, utf8.RuneCountInString(adds[0].Reason))
	assert.True(t, strings.HasPrefix(adds[0].Reason, "Mute command invoked by "+modID))
}

func TestMuteRequiresUsableRole(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	req := moderation.MuteRequest{GuildID: guildID, UserID: userID, ModeratorID: modID, Expiry: time.Now().Add(time.Hour)}

	h.platform.deleteRole(muteRole)
	_, _, err := h.svc.Muter.Mute(ctx, req)
	assert.ErrorIs(t, err, moderation.ErrMuteRoleMissing)

	require.NoError(t, h.store.DeleteMuteRole(ctx, guildID))
	_, _, err = h.svc.Muter.Mute(ctx, req)
	assert.ErrorIs(t, err, moderation.ErrNoMuteRole)

	assert.Equal(t, 0, h.activeCount(t))
	assert.Empty(t, h.platform.additions())
}

func TestMuteMemberNotInGuild(t *testing.T) {
	h := newHarness(t)
	_, _, err := h.svc.Muter.Mute(context.Background(), moderation.MuteRequest{
		GuildID: guildID, UserID: "stranger", ModeratorID: modID, Expiry: time.Now().Add(time.Hour),
	})
	assert.ErrorIs(t, err, moderation.ErrMemberNotFound)
	assert.Equal(t, 0, h.activeCount(t))
}

func TestMuteRoleAddFails(t *testing.T) {
	h := newHarness(t)
	h.platform.addErr = errPlatform

	_, _, err := h.svc.Muter.Mute(context.Background(), moderation.MuteRequest{
		GuildID: guildID, UserID: userID, ModeratorID: modID, Expiry: time.Now().Add(time.Hour),
	})
	var collabErr *moderation.CollaboratorError
	require.True(t, errors.As(err, &collabErr))
	assert.Equal(t, 0, h.activeCount(t), "nothing recorded when the role could not be added")
}

func TestUnmute(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	_, created := h.mute(t, userID, time.Now().Add(time.Hour))

	mute, err := h.svc.Muter.Unmute(ctx, guildID, userID, modID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, mute.ID)
	assert.False(t, mute.Active)
	assert.False(t, h.platform.hasRole(userID, muteRole))

	reversed := h.events.ofType(moderation.EventMuteReversed)
	require.Len(t, reversed, 1)
	assert.Equal(t, moderation.TriggerManual, reversed[0].Trigger)

	_, err = h.svc.Muter.Unmute(ctx, guildID, userID, modID)
	assert.ErrorIs(t, err, moderation.ErrNotFound)
}

func TestUnmuteSurfacesPlatformFailure(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.mute(t, userID, time.Now().Add(time.Hour))
	h.platform.removeErr = errPlatform

	mute, err := h.svc.Muter.Unmute(ctx, guildID, userID, modID)
	require.NotNil(t, mute)
	assert.ErrorIs(t, err, errPlatform)
	assert.Equal(t, 0, h.activeCount(t))

	_, err = h.svc.Muter.ActiveMute(ctx, guildID, userID)
	assert.ErrorIs(t, err, moderation.ErrNotFound)
}

func TestMuteAgainAfterReversal(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.mute(t, userID, time.Now().Add(time.Hour))
	_, err := h.svc.Muter.Unmute(ctx, guildID, userID, modID)
	require.NoError(t, err)

	h.mute(t, userID, time.Now().Add(time.Hour))
	var total int
	require.NoError(t, h.store.DB().Get(&total, "SELECT COUNT(*) FROM mutes"))
	assert.Equal(t, 2, total, "history is kept")
	assert.Equal(t, 1, h.activeCount(t))
}

func TestSetMuteRole(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	err := h.svc.Muter.SetMuteRole(ctx, guildID, "nonexistent")
	assert.ErrorIs(t, err, moderation.ErrMuteRoleMissing)

	h.platform.roles["silenced"] = true
	require.NoError(t, h.svc.Muter.SetMuteRole(ctx, guildID, "silenced"))
	cfg, err := h.svc.Muter.MuteRole(ctx, guildID)
	require.NoError(t, err)
	assert.Equal(t, "silenced", cfg.RoleID)
}

func TestMuteRoleChangeAppliesToActiveMutes(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.mute(t, userID, time.Now().Add(time.Hour))

	h.platform.roles["silenced"] = true
	require.NoError(t, h.svc.Muter.SetMuteRole(ctx, guildID, "silenced"))

	_, err := h.svc.Muter.Unmute(ctx, guildID, userID, modID)
	require.NoError(t, err)
	removals := h.platform.removals()
	require.Len(t, removals, 1)
	assert.Equal(t, "silenced", removals[0].RoleID, "reversal uses the role configured at reversal time")
}

func TestOnMemberJoinedReappliesRole(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	inf, _ := h.mute(t, userID, time.Now().Add(time.Hour))

	// The member leaves, loses their roles and comes back.
	h.platform.removeMember(userID)
	h.platform.addMember(userID)

	require.NoError(t, h.svc.Muter.OnMemberJoined(ctx, guildID, userID))
	assert.True(t, h.platform.hasRole(userID, muteRole))

	adds := h.platform.additions()
	require.Len(t, adds, 2)
	assert.Equal(t, "User rejoined while still being muted, mute infraction ID: "+itoa(inf.ID), adds[1].Reason)
	assert.Len(t, h.events.ofType(moderation.EventMuteReapplied), 1)
	assert.Equal(t, 1, h.activeCount(t), "no records created")

	infs, err := h.store.ListUserInfractions(ctx, guildID, userID)
	require.NoError(t, err)
	assert.Len(t, infs, 1, "no infractions created")
}

func TestOnMemberJoinedWithoutMute(t *testing.T) {
	h := newHarness(t)
	h.platform.addMember("newcomer")

	require.NoError(t, h.svc.Muter.OnMemberJoined(context.Background(), guildID, "newcomer"))
	assert.Empty(t, h.platform.additions())
}

func TestOnMemberJoinedRoleMissing(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.mute(t, userID, time.Now().Add(time.Hour))
	h.platform.deleteRole(muteRole)

	require.NoError(t, h.svc.Muter.OnMemberJoined(ctx, guildID, userID))
	assert.Len(t, h.platform.additions(), 1, "only the original mute")

	require.NoError(t, h.store.DeleteMuteRole(ctx, guildID))
	require.NoError(t, h.svc.Muter.OnMemberJoined(ctx, guildID, userID))
	assert.Len(t, h.platform.additions(), 1)
}

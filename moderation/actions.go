package moderation

import (
	"context"
	"fmt"

	"modbot/model"
)

// Actions issues the non-timed moderation actions. Kicks and bans are only
// recorded once the platform call succeeded.
type Actions struct {
	ledger  *Ledger
	members MemberActions
}

func NewActions(ledger *Ledger, members MemberActions) *Actions {
	return &Actions{ledger: ledger, members: members}
}

// Kick removes the member from the guild and records a kick infraction.
func (a *Actions) Kick(ctx context.Context, guildID, userID, moderatorID, reason string) (*model.Infraction, error) {
	auditReason := auditLogReason(fmt.Sprintf("Command invoked by %s, reason: %s", moderatorID, reasonOrDefault(reason)))
	if err := a.members.Kick(ctx, guildID, userID, auditReason); err != nil {
		return nil, collaboratorErr("kick member", err)
	}
	return a.ledger.Create(ctx, model.KindKick, guildID, userID, moderatorID, reason)
}

// Ban bans the user, deleting deleteMessageDays days of their messages, and
// records a ban infraction.
func (a *Actions) Ban(ctx context.Context, guildID, userID, moderatorID, reason string, deleteMessageDays int) (*model.Infraction, error) {
	auditReason := auditLogReason(fmt.Sprintf("Banned by command invocation from %s, reason: %s", moderatorID, reasonOrDefault(reason)))
	if err := a.members.Ban(ctx, guildID, userID, auditReason, deleteMessageDays); err != nil {
		return nil, collaboratorErr("ban member", err)
	}
	return a.ledger.Create(ctx, model.KindBan, guildID, userID, moderatorID, reason)
}

func (a *Actions) Warn(ctx context.Context, guildID, userID, moderatorID, reason string) (*model.Infraction, error) {
	return a.ledger.Create(ctx, model.KindWarning, guildID, userID, moderatorID, reason)
}

func (a *Actions) Note(ctx context.Context, guildID, userID, moderatorID, note string) (*model.Infraction, error) {
	return a.ledger.Create(ctx, model.KindNote, guildID, userID, moderatorID, note)
}

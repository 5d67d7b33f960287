package moderation

import (
	"context"
	"fmt"

	"tg-modsync/internal/logger"
	"tg-modsync/internal/platform"
)

// AuditLog renders completed actions and broadcasts them to the fixed
// audit channels. Sending is best-effort: a failure on one channel is
// logged and never stops the next channel or the moderation action.
type AuditLog struct {
	platform platform.Client
	groups   GroupStore
	channels []int64
}

func NewAuditLog(client platform.Client, groups GroupStore, channels []int64) *AuditLog {
	return &AuditLog{platform: client, groups: groups, channels: channels}
}

// Probe verifies channel access at startup by sending a marker message.
// Failures are logged only; the bot still starts.
func (a *AuditLog) Probe(ctx context.Context) {
	for _, channelID := range a.channels {
		if channelID == 0 {
			continue
		}
		if err := a.platform.SendMessage(ctx, channelID, "🔧 audit channel check"); err != nil {
			logger.Warningf("Audit channel %d is not reachable: %v", channelID, err)
		} else {
			logger.Infof("Audit channel %d reachable", channelID)
		}
	}
}

// RecordAction emits one audit entry for a completed moderation action.
// Suppressed entirely when the origin group is muted.
func (a *AuditLog) RecordAction(ctx context.Context, req *Request, succeeded []TargetResult) {
	if len(succeeded) == 0 {
		return
	}

	if a.originMuted(req.OriginChat) {
		logger.Infof("Audit log suppressed for muted origin chat %d", req.OriginChat)
		return
	}

	reason := req.Reason
	if reason == "" {
		reason = "none"
	}
	text := fmt.Sprintf("%s\n%s\n[%s]\n[%s]", req.Kind.Title(), userLines(succeeded), reason, req.OriginTitle)
	a.broadcast(ctx, text)
}

// RecordGroupAdded emits an audit entry for a group (re)registration.
func (a *AuditLog) RecordGroupAdded(ctx context.Context, title string, chatID, actorID int64, actorName string) {
	a.broadcast(ctx, fmt.Sprintf("➕ Group registered\n%s (%d)\nby @%s (%d)", title, chatID, actorName, actorID))
}

// RecordGroupRemoved emits an audit entry for a group removal.
func (a *AuditLog) RecordGroupRemoved(ctx context.Context, title string, chatID, actorID int64, actorName string) {
	a.broadcast(ctx, fmt.Sprintf("➖ Group removed\n%s (%d)\nby @%s (%d)", title, chatID, actorName, actorID))
}

// RecordAdminGranted emits an audit entry for an admin grant.
func (a *AuditLog) RecordAdminGranted(ctx context.Context, adminID, byID int64, byName string) {
	a.broadcast(ctx, fmt.Sprintf("🛡 Admin granted\n%d\nby @%s (%d)", adminID, byName, byID))
}

// RecordAdminRevoked emits an audit entry for an admin revocation.
func (a *AuditLog) RecordAdminRevoked(ctx context.Context, adminID, byID int64, byName string) {
	a.broadcast(ctx, fmt.Sprintf("🛡 Admin revoked\n%d\nby @%s (%d)", adminID, byName, byID))
}

// RecordBotAdded emits an audit entry when the bot joins a group.
func (a *AuditLog) RecordBotAdded(ctx context.Context, title string, chatID, inviterID int64, inviterName string, isAdmin bool, link string) {
	if link == "" {
		link = "private group"
	}
	a.broadcast(ctx, fmt.Sprintf("🤖 Bot added\n%s (%d)\nby @%s (%d)\nadmin: %v\n%s",
		title, chatID, inviterName, inviterID, isAdmin, link))
}

func (a *AuditLog) originMuted(chatID int64) bool {
	group, err := a.groups.GetGroup(chatID)
	if err != nil {
		logger.Warningf("Error reading group %d for audit mute check: %v", chatID, err)
		return false
	}
	return group != nil && group.Muted
}

func (a *AuditLog) broadcast(ctx context.Context, text string) {
	for _, channelID := range a.channels {
		if channelID == 0 {
			continue
		}
		if err := a.platform.SendMessage(ctx, channelID, text); err != nil {
			logger.Warningf("Error sending audit log to channel %d: %v", channelID, err)
		}
	}
}

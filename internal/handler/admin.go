package handler

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-modsync/internal/logger"
	"tg-modsync/internal/models"
)

// handleAdminGrantCommand adds a user to the bot admin roster.
func handleAdminGrantCommand(ctx *th.Context, message telego.Message, args []string) error {
	if !gate.AuthorizeGlobal(message.From.ID) {
		return reply(ctx, message, "You don't have permission to use this command.")
	}

	targets, _ := resolver.Resolve(buildInvocation(message, args))
	if len(targets) == 0 {
		return reply(ctx, message, "No valid target. Specify a user via reply, id or @username.")
	}

	granted := grantAdmins(ctx.Context(), message.From, targets)
	if granted == 0 {
		return reply(ctx, message, "No admins granted.")
	}
	return reply(ctx, message, fmt.Sprintf("Granted bot admin to %d user(s).", granted))
}

// grantAdmins records a grant per target and returns how many were
// written. The actor cannot grant themselves.
func grantAdmins(ctx context.Context, actor *telego.User, targets []int64) int {
	granted := 0
	for _, adminID := range targets {
		if adminID == actor.ID {
			continue
		}
		record := &models.AdminRecord{
			AdminID:         adminID,
			AddedByID:       actor.ID,
			AddedByUsername: actorName(actor),
		}
		if err := stores.Admins.CreateAdmin(record); err != nil {
			logger.Errorf("Error granting admin to user %d: %v", adminID, err)
			continue
		}
		auditLog.RecordAdminGranted(ctx, adminID, actor.ID, actorName(actor))
		logger.Infof("User %d granted bot admin by %d", adminID, actor.ID)
		granted++
	}
	return granted
}

// handleAdminRevokeCommand removes a user from the bot admin roster.
func handleAdminRevokeCommand(ctx *th.Context, message telego.Message, args []string) error {
	if !gate.AuthorizeGlobal(message.From.ID) {
		return reply(ctx, message, "You don't have permission to use this command.")
	}

	targets, _ := resolver.Resolve(buildInvocation(message, args))
	if len(targets) == 0 {
		return reply(ctx, message, "No valid target. Specify a user via reply, id or @username.")
	}

	for _, adminID := range targets {
		if err := stores.Admins.DeleteAdmin(adminID); err != nil {
			logger.Errorf("Error revoking admin from user %d: %v", adminID, err)
			return reply(ctx, message, "Failed to revoke admin, try again later.")
		}
		auditLog.RecordAdminRevoked(ctx.Context(), adminID, message.From.ID, actorName(message.From))
		logger.Infof("User %d revoked bot admin by %d", adminID, message.From.ID)
	}

	return reply(ctx, message, fmt.Sprintf("Revoked bot admin from %d user(s).", len(targets)))
}

package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-modsync/internal/logger"
	"tg-modsync/internal/models"
)

// handleReloadCommand registers or refreshes the invoking group in the
// synchronization registry.
func handleReloadCommand(ctx *th.Context, message telego.Message) error {
	if !isGroupChat(message) {
		return reply(ctx, message, "This command only works in groups.")
	}

	if !gate.Authorize(ctx.Context(), message.From.ID, message.Chat.ID) {
		return reply(ctx, message, "You don't have permission to use this command.")
	}

	existing, err := stores.Groups.GetGroup(message.Chat.ID)
	if err != nil {
		logger.Warningf("Error reading group %d: %v", message.Chat.ID, err)
	}

	group := &models.Group{
		ChatID:  message.Chat.ID,
		Title:   message.Chat.Title,
		AdminID: message.From.ID,
	}
	if existing != nil {
		group.Muted = existing.Muted
	}

	if err := stores.Groups.UpsertGroup(group); err != nil {
		logger.Errorf("Error registering group %d: %v", message.Chat.ID, err)
		return reply(ctx, message, "Failed to register this group, try again later.")
	}

	auditLog.RecordGroupAdded(ctx.Context(), message.Chat.Title, message.Chat.ID, message.From.ID, actorName(message.From))
	logger.Infof("Group %d (%s) registered by user %d", message.Chat.ID, message.Chat.Title, message.From.ID)
	return reply(ctx, message, fmt.Sprintf("Group registered: %s (%d)", message.Chat.Title, message.Chat.ID))
}

// handleGroupListCommand lists every registered group. Bot admins only.
func handleGroupListCommand(ctx *th.Context, message telego.Message) error {
	if !gate.AuthorizeGlobal(message.From.ID) {
		return reply(ctx, message, "You don't have permission to use this command.")
	}

	groups, err := stores.Groups.ListGroups()
	if err != nil {
		logger.Errorf("Error listing groups: %v", err)
		return reply(ctx, message, "Failed to list groups, try again later.")
	}
	if len(groups) == 0 {
		return reply(ctx, message, "No groups registered.")
	}

	lines := make([]string, 0, len(groups)+1)
	lines = append(lines, fmt.Sprintf("Registered groups (%d):", len(groups)))
	for _, g := range groups {
		line := fmt.Sprintf("%s (%d)", g.Title, g.ChatID)
		if g.Muted {
			line += " [muted]"
		}
		lines = append(lines, line)
	}

	return reply(ctx, message, strings.Join(lines, "\n"))
}

// handleGroupDeleteCommand unregisters a group by chat id. Bot admins only.
func handleGroupDeleteCommand(ctx *th.Context, message telego.Message, args []string) error {
	if !gate.AuthorizeGlobal(message.From.ID) {
		return reply(ctx, message, "You don't have permission to use this command.")
	}
	if len(args) == 0 {
		return reply(ctx, message, "Usage: groupdelete <chat id>")
	}

	chatID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return reply(ctx, message, "Invalid chat id.")
	}

	group, err := stores.Groups.GetGroup(chatID)
	if err != nil {
		logger.Errorf("Error reading group %d: %v", chatID, err)
		return reply(ctx, message, "Failed to remove the group, try again later.")
	}
	if group == nil {
		return reply(ctx, message, "That group is not registered.")
	}

	if err := stores.Groups.DeleteGroup(chatID); err != nil {
		logger.Errorf("Error removing group %d: %v", chatID, err)
		return reply(ctx, message, "Failed to remove the group, try again later.")
	}

	auditLog.RecordGroupRemoved(ctx.Context(), group.Title, chatID, message.From.ID, actorName(message.From))
	logger.Infof("Group %d (%s) removed by user %d", chatID, group.Title, message.From.ID)
	return reply(ctx, message, fmt.Sprintf("Group removed: %s (%d)", group.Title, chatID))
}

// handleMuteCommand toggles sync notifications for the invoking group.
func handleMuteCommand(ctx *th.Context, message telego.Message, muted bool) error {
	if !isGroupChat(message) {
		return reply(ctx, message, "This command only works in groups.")
	}

	if !gate.Authorize(ctx.Context(), message.From.ID, message.Chat.ID) {
		return reply(ctx, message, "You don't have permission to use this command.")
	}

	group, err := stores.Groups.GetGroup(message.Chat.ID)
	if err != nil {
		logger.Warningf("Error reading group %d: %v", message.Chat.ID, err)
		return reply(ctx, message, "Failed to update this group, try again later.")
	}
	if group == nil {
		return reply(ctx, message, "This group is not registered. Run the reload command first.")
	}

	if err := stores.Groups.SetMuted(message.Chat.ID, muted); err != nil {
		logger.Warningf("Error setting mute=%v for group %d: %v", muted, message.Chat.ID, err)
		return reply(ctx, message, "Failed to update this group, try again later.")
	}

	if muted {
		return reply(ctx, message, "Sync notifications muted for this group. Moderation actions still apply.")
	}
	return reply(ctx, message, "Sync notifications restored for this group.")
}

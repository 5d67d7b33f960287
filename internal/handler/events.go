package handler

import (
	"fmt"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-modsync/internal/logger"
)

// handleMyChatMemberUpdate processes updates to the bot's own chat
// member status, mainly the bot being added to a group.
func handleMyChatMemberUpdate(ctx *th.Context, update telego.Update) error {
	if update.MyChatMember == nil {
		return nil
	}

	chat := update.MyChatMember.Chat
	if chat.Type != "group" && chat.Type != "supergroup" {
		return nil
	}

	oldStatus := update.MyChatMember.OldChatMember.MemberStatus()
	newStatus := update.MyChatMember.NewChatMember.MemberStatus()

	joined := (oldStatus == telego.MemberStatusLeft || oldStatus == telego.MemberStatusBanned) &&
		(newStatus == telego.MemberStatusMember || newStatus == telego.MemberStatusAdministrator)
	if !joined {
		return nil
	}

	inviter := update.MyChatMember.From
	isAdmin := newStatus == telego.MemberStatusAdministrator
	logger.Infof("Bot added to chat %d (%s) by user %d, admin=%v", chat.ID, chat.Title, inviter.ID, isAdmin)

	// Best effort: private groups without invite permission just log a
	// placeholder in the audit entry.
	link, err := client.CreateInviteLink(ctx.Context(), chat.ID)
	if err != nil {
		logger.Warningf("Error creating invite link for chat %d: %v", chat.ID, err)
		link = ""
	}

	auditLog.RecordBotAdded(ctx.Context(), chat.Title, chat.ID, inviter.ID, actorName(&inviter), isAdmin, link)

	if !globalConfig.IsMasterAdmin(inviter.ID) {
		warnMasterAdmins(ctx, chat, inviter)
	}

	return nil
}

// warnMasterAdmins notifies every master admin that someone else added
// the bot to a group.
func warnMasterAdmins(ctx *th.Context, chat telego.Chat, inviter telego.User) {
	text := fmt.Sprintf("⚠️ Bot was added to %s (%d) by @%s (%d)",
		chat.Title, chat.ID, actorName(&inviter), inviter.ID)
	for _, adminID := range globalConfig.Bot.MasterAdminIDs {
		if err := client.SendMessage(ctx.Context(), adminID, text); err != nil {
			logger.Warningf("Error warning master admin %d: %v", adminID, err)
		}
	}
}

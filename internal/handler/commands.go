package handler

import (
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-modsync/internal/logger"
	"tg-modsync/internal/moderation"
	"tg-modsync/internal/platform"
)

const helpText = `Moderation commands (group admins):
.ban [id|@user|reply] [reason] - ban in every registered group
.kick [id|@user|reply] [reason] - kick in every registered group
.unban [id|@user|reply] - lift a ban in every registered group
.reload - register this group for synchronization
.mute / .unmute - silence or restore sync notifications here

Bot admin commands:
.grouplist - list registered groups
.groupdelete <chat id> - unregister a group
.ad / .unad [id|reply] - grant or revoke bot admin`

// parseCommand splits a command message into the command word and its
// arguments. ok is false when the text does not start with the prefix.
func parseCommand(text, prefix string) (string, []string, bool) {
	if prefix == "" || !strings.HasPrefix(text, prefix) {
		return "", nil, false
	}
	fields := strings.Fields(strings.TrimPrefix(text, prefix))
	if len(fields) == 0 || fields[0] == "" {
		return "", nil, false
	}
	return strings.ToLower(fields[0]), fields[1:], true
}

// handleCommand routes one incoming message to its command handler.
// Non-command messages pass through untouched.
func handleCommand(ctx *th.Context, message telego.Message) error {
	if message.From == nil {
		return nil
	}

	cmd, args, ok := parseCommand(message.Text, globalConfig.Bot.CommandPrefix)
	if !ok {
		return nil
	}

	if !throttle.Allow(message.From.ID) {
		logger.Debugf("Throttled command %q from user %d", cmd, message.From.ID)
		return nil
	}

	switch cmd {
	case "ban":
		return handleModerationCommand(ctx, message, moderation.ActionBan, args)
	case "kick":
		return handleModerationCommand(ctx, message, moderation.ActionKick, args)
	case "unban":
		return handleModerationCommand(ctx, message, moderation.ActionUnban, args)
	case "reload":
		return handleReloadCommand(ctx, message)
	case "grouplist":
		return handleGroupListCommand(ctx, message)
	case "groupdelete":
		return handleGroupDeleteCommand(ctx, message, args)
	case "ad":
		return handleAdminGrantCommand(ctx, message, args)
	case "unad":
		return handleAdminRevokeCommand(ctx, message, args)
	case "mute":
		return handleMuteCommand(ctx, message, true)
	case "unmute":
		return handleMuteCommand(ctx, message, false)
	case "start", "help":
		return client.SendMessage(ctx.Context(), message.Chat.ID, helpText)
	}

	return nil
}

// handleModerationCommand runs ban, kick and unban through the engine.
func handleModerationCommand(ctx *th.Context, message telego.Message, kind moderation.ActionKind, args []string) error {
	if !isGroupChat(message) {
		return reply(ctx, message, "This command only works in groups.")
	}

	if !gate.Authorize(ctx.Context(), message.From.ID, message.Chat.ID) {
		logger.Infof("Unauthorized %s attempt by user %d in chat %d", kind, message.From.ID, message.Chat.ID)
		return reply(ctx, message, "You don't have permission to use this command.")
	}

	targets, reason := resolver.Resolve(buildInvocation(message, args))

	req := &moderation.Request{
		Kind:        kind,
		Targets:     targets,
		Reason:      reason,
		OriginChat:  message.Chat.ID,
		OriginTitle: message.Chat.Title,
		ActorID:     message.From.ID,
		ActorName:   actorName(message.From),
	}

	report := engine.Execute(ctx.Context(), req)
	return reply(ctx, message, report.Text())
}

// buildInvocation translates a telego message into a resolver input.
func buildInvocation(message telego.Message, args []string) moderation.Invocation {
	inv := moderation.Invocation{Args: args}
	if message.ReplyToMessage != nil && message.ReplyToMessage.From != nil {
		from := message.ReplyToMessage.From
		inv.ReplyTo = &platform.Member{
			UserID:    from.ID,
			Username:  from.Username,
			FirstName: from.FirstName,
			LastName:  from.LastName,
		}
	}
	return inv
}

func actorName(user *telego.User) string {
	if user.Username != "" {
		return user.Username
	}
	return strings.TrimSpace(user.FirstName + " " + user.LastName)
}

func isGroupChat(message telego.Message) bool {
	return message.Chat.Type == "group" || message.Chat.Type == "supergroup"
}

func reply(ctx *th.Context, message telego.Message, text string) error {
	return client.ReplyMessage(ctx.Context(), message.Chat.ID, message.MessageID, text)
}

package moderation

import (
	"context"

	"tg-modsync/internal/config"
	"tg-modsync/internal/logger"
	"tg-modsync/internal/platform"
)

// Gate decides whether an actor may issue moderation commands.
type Gate struct {
	cfg      *config.Config
	admins   AdminStore
	platform platform.Client
}

// NewGate creates a permission gate backed by the configured master
// admin set, the stored admin roster and live chat-role queries.
func NewGate(cfg *config.Config, admins AdminStore, client platform.Client) *Gate {
	return &Gate{cfg: cfg, admins: admins, platform: client}
}

// AuthorizeGlobal reports whether the actor is a master admin or holds
// a stored admin record. Store failures log and fail closed.
func (g *Gate) AuthorizeGlobal(actorID int64) bool {
	if g.cfg.IsMasterAdmin(actorID) {
		return true
	}

	isAdmin, err := g.admins.IsAdmin(actorID)
	if err != nil {
		logger.Warningf("Error checking admin roster for user %d: %v", actorID, err)
		return false
	}
	return isAdmin
}

// Authorize reports whether the actor may issue a moderation action in
// the chat: global admin, or owner/administrator of the chat per a live
// platform query. A failed live query is treated as "not a chat admin".
func (g *Gate) Authorize(ctx context.Context, actorID, chatID int64) bool {
	if g.AuthorizeGlobal(actorID) {
		return true
	}

	member, err := g.platform.GetChatMember(ctx, chatID, actorID)
	if err != nil {
		logger.Warningf("Error checking chat admin role for user %d in chat %d: %v", actorID, chatID, err)
		return false
	}
	return member.IsPrivileged()
}

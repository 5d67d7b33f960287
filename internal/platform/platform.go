package platform

import (
	"context"
	"strings"
)

// Chat member roles as reported by the platform.
const (
	StatusCreator       = "creator"
	StatusAdministrator = "administrator"
)

// Member is a chat member snapshot returned by a live role query.
type Member struct {
	UserID    int64
	Username  string
	FirstName string
	LastName  string
	Status    string
}

// IsPrivileged reports whether the member holds owner or administrator role.
func (m Member) IsPrivileged() bool {
	return m.Status == StatusCreator || m.Status == StatusAdministrator
}

// DisplayName returns the member's username, a composed "first last" name,
// or the literal placeholder when neither is available.
func (m Member) DisplayName() string {
	if m.Username != "" {
		return m.Username
	}
	if full := strings.TrimSpace(m.FirstName + " " + m.LastName); full != "" {
		return full
	}
	return "Nickname"
}

// Chat is the subset of chat metadata the bot reads.
type Chat struct {
	ID       int64
	Title    string
	Username string
	Type     string
}

// Client is the platform capability the moderation layer consumes.
// Ban/unban are idempotent from the caller's perspective: banning an
// already-banned id or unbanning a non-member is not a fatal error.
type Client interface {
	BotID() int64
	GetChatMember(ctx context.Context, chatID, userID int64) (Member, error)
	BanChatMember(ctx context.Context, chatID, userID int64) error
	UnbanChatMember(ctx context.Context, chatID, userID int64) error
	SendMessage(ctx context.Context, chatID int64, text string) error
	ReplyMessage(ctx context.Context, chatID int64, replyToMessageID int, text string) error
	CreateInviteLink(ctx context.Context, chatID int64) (string, error)
	GetChat(ctx context.Context, chatID int64) (Chat, error)
}

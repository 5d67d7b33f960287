package platform

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
)

// Telegram implements Client on top of a telego bot.
type Telegram struct {
	bot *telego.Bot
}

// NewTelegram wraps an initialized telego bot.
func NewTelegram(bot *telego.Bot) *Telegram {
	return &Telegram{bot: bot}
}

func (t *Telegram) BotID() int64 {
	return t.bot.ID()
}

func (t *Telegram) GetChatMember(ctx context.Context, chatID, userID int64) (Member, error) {
	member, err := t.bot.GetChatMember(ctx, &telego.GetChatMemberParams{
		ChatID: telego.ChatID{ID: chatID},
		UserID: userID,
	})
	if err != nil {
		return Member{}, fmt.Errorf("get chat member %d in %d: %w", userID, chatID, err)
	}

	user := member.MemberUser()
	return Member{
		UserID:    user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Status:    member.MemberStatus(),
	}, nil
}

func (t *Telegram) BanChatMember(ctx context.Context, chatID, userID int64) error {
	return t.bot.BanChatMember(ctx, &telego.BanChatMemberParams{
		ChatID: telego.ChatID{ID: chatID},
		UserID: userID,
	})
}

func (t *Telegram) UnbanChatMember(ctx context.Context, chatID, userID int64) error {
	return t.bot.UnbanChatMember(ctx, &telego.UnbanChatMemberParams{
		ChatID: telego.ChatID{ID: chatID},
		UserID: userID,
	})
}

func (t *Telegram) SendMessage(ctx context.Context, chatID int64, text string) error {
	_, err := t.bot.SendMessage(ctx, &telego.SendMessageParams{
		ChatID:    telego.ChatID{ID: chatID},
		Text:      text,
		ParseMode: "HTML",
	})
	return err
}

func (t *Telegram) ReplyMessage(ctx context.Context, chatID int64, replyToMessageID int, text string) error {
	_, err := t.bot.SendMessage(ctx, &telego.SendMessageParams{
		ChatID:          telego.ChatID{ID: chatID},
		Text:            text,
		ParseMode:       "HTML",
		ReplyParameters: &telego.ReplyParameters{MessageID: replyToMessageID},
	})
	return err
}

func (t *Telegram) CreateInviteLink(ctx context.Context, chatID int64) (string, error) {
	link, err := t.bot.CreateChatInviteLink(ctx, &telego.CreateChatInviteLinkParams{
		ChatID:      telego.ChatID{ID: chatID},
		MemberLimit: 1,
	})
	if err != nil {
		return "", fmt.Errorf("create invite link for %d: %w", chatID, err)
	}
	return link.InviteLink, nil
}

func (t *Telegram) GetChat(ctx context.Context, chatID int64) (Chat, error) {
	chatInfo, err := t.bot.GetChat(ctx, &telego.GetChatParams{
		ChatID: telego.ChatID{ID: chatID},
	})
	if err != nil {
		return Chat{}, fmt.Errorf("get chat %d: %w", chatID, err)
	}

	return Chat{
		ID:       chatInfo.ID,
		Title:    chatInfo.Title,
		Username: chatInfo.Username,
		Type:     chatInfo.Type,
	}, nil
}

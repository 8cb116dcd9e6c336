package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// AdminChecker проверяет права администратора в чате
type AdminChecker interface {
	IsAdmin(ctx context.Context, chatID, userID int64) (bool, error)
}

// ChatAdmins проверка через getChatMember
type ChatAdmins struct {
	bot *bot.Bot
}

func NewChatAdmins(b *bot.Bot) *ChatAdmins {
	return &ChatAdmins{bot: b}
}

func (a *ChatAdmins) IsAdmin(ctx context.Context, chatID, userID int64) (bool, error) {
	member, err := a.bot.GetChatMember(ctx, &bot.GetChatMemberParams{
		ChatID: chatID,
		UserID: userID,
	})
	if err != nil {
		return false, fmt.Errorf("get chat member: %w", err)
	}
	return isAdminMember(member), nil
}

func isAdminMember(member *models.ChatMember) bool {
	if member == nil {
		return false
	}
	return member.Type == models.ChatMemberTypeOwner || member.Type == models.ChatMemberTypeAdministrator
}

package handlers

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/Freeeeeet/headsup_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/headsup_bot/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ephemeralDelay время жизни служебных ответов в топиках
const ephemeralDelay = 3 * time.Second

// groupHandler обработчик команды администратора с уже определённой группой
type groupHandler func(ctx context.Context, b *bot.Bot, msg *models.Message, group, args string)

// parseCommand разбирает "/cmd@bot args" в ("cmd", "args")
func parseCommand(text string) (string, string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}

	head, args := text[1:], ""
	if i := strings.IndexFunc(head, unicode.IsSpace); i >= 0 {
		head, args = head[:i], head[i+1:]
	}
	name, _, _ := strings.Cut(head, "@")
	if name == "" {
		return "", "", false
	}
	return strings.ToLower(name), strings.TrimSpace(args), true
}

// privateOnly пропускает команду только в личном чате
func (h *Handlers) privateOnly(next commandFunc) commandFunc {
	return func(ctx context.Context, b *bot.Bot, msg *models.Message, args string) {
		if msg.Chat.Type != models.ChatTypePrivate {
			return
		}
		next(ctx, b, msg, args)
	}
}

// groupCommand проверяет права администратора и топик группы.
// Команда удаляется всегда, у не-администратора молча.
func (h *Handlers) groupCommand(next groupHandler) commandFunc {
	return func(ctx context.Context, b *bot.Bot, msg *models.Message, args string) {
		if msg.Chat.Type == models.ChatTypePrivate {
			h.sendMessage(ctx, b, msg.Chat.ID, "This command works only in the class group.")
			return
		}

		chatID := msg.Chat.ID
		isAdmin, err := h.admins.IsAdmin(ctx, chatID, msg.From.ID)
		if err != nil {
			h.logger.Error("Failed to check admin rights",
				zap.Int64("chat_id", chatID),
				zap.Int64("user_id", msg.From.ID),
				zap.Error(err),
			)
		}
		if err != nil || !isAdmin {
			common.Delete(ctx, b, h.logger, chatID, msg.ID)
			return
		}

		group, ok := h.topics.Group(msg.MessageThreadID)
		if !ok {
			h.ephemeral(ctx, b, msg, common.ErrorMessage(common.ErrWrongTopic))
			common.DeleteLater(b, h.logger, chatID, msg.ID, ephemeralDelay)
			return
		}

		common.Delete(ctx, b, h.logger, chatID, msg.ID)
		next(ctx, b, msg, group, args)
	}
}

// keyOf ключ состояния автора сообщения
func keyOf(msg *models.Message) state.Key {
	return state.Key{ChatID: msg.Chat.ID, UserID: msg.From.ID}
}

// sendMessage отправляет сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) *models.Message {
	return common.Send(ctx, b, h.logger, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
}

// sendToThread отправляет сообщение в топик исходного сообщения
func (h *Handlers) sendToThread(ctx context.Context, b *bot.Bot, msg *models.Message, text string) *models.Message {
	return common.Send(ctx, b, h.logger, &bot.SendMessageParams{
		ChatID:          msg.Chat.ID,
		MessageThreadID: msg.MessageThreadID,
		Text:            text,
		ParseMode:       models.ParseModeHTML,
	})
}

// reply отвечает на сообщение в том же топике
func (h *Handlers) reply(ctx context.Context, b *bot.Bot, msg *models.Message, text string) {
	common.Send(ctx, b, h.logger, &bot.SendMessageParams{
		ChatID:          msg.Chat.ID,
		MessageThreadID: msg.MessageThreadID,
		Text:            text,
		ReplyParameters: &models.ReplyParameters{MessageID: msg.ID},
	})
}

// ephemeral служебный ответ в топике, удаляется через ephemeralDelay
func (h *Handlers) ephemeral(ctx context.Context, b *bot.Bot, msg *models.Message, text string) {
	sent := h.sendToThread(ctx, b, msg, text)
	if sent != nil {
		common.DeleteLater(b, h.logger, msg.Chat.ID, sent.ID, ephemeralDelay)
	}
}

// sendDirect личное сообщение администратору. Если бот не может написать, сообщаем в топике.
func (h *Handlers) sendDirect(ctx context.Context, b *bot.Bot, msg *models.Message, text string) {
	if sent := h.sendMessage(ctx, b, msg.From.ID, text); sent == nil {
		h.ephemeral(ctx, b, msg, "Could not send you a private message. Start a chat with the bot first.")
	}
}

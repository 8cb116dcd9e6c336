package common

import (
	"context"
	"strings"

	"github.com/Freeeeeet/headsup_bot/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// HandlerContext содержит общие данные для обработки callback
type HandlerContext struct {
	Ctx      context.Context
	Bot      *bot.Bot
	Callback *models.CallbackQuery
	Message  *models.Message
	UserID   int64
	ChatID   int64
}

// NewHandlerContext создаёт новый контекст обработчика
func NewHandlerContext(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) *HandlerContext {
	msg := GetMessageFromCallback(callback)
	var chatID int64
	if msg != nil {
		chatID = msg.Chat.ID
	}

	return &HandlerContext{
		Ctx:      ctx,
		Bot:      b,
		Callback: callback,
		Message:  msg,
		UserID:   callback.From.ID,
		ChatID:   chatID,
	}
}

// Key ключ состояния нажавшего пользователя
func (hc *HandlerContext) Key() state.Key {
	return state.Key{ChatID: hc.ChatID, UserID: hc.UserID}
}

// RequireMessage проверяет что сообщение с клавиатурой доступно
func (hc *HandlerContext) RequireMessage() error {
	if hc.Message == nil {
		return ErrNoMessage
	}
	return nil
}

// Answer отвечает на callback без alert
func (hc *HandlerContext) Answer(text string) {
	AnswerCallback(hc.Ctx, hc.Bot, hc.Callback.ID, text)
}

// Alert отвечает на callback всплывающим окном
func (hc *HandlerContext) Alert(text string) {
	AnswerCallbackAlert(hc.Ctx, hc.Bot, hc.Callback.ID, text)
}

// EditMessage редактирует сообщение с клавиатурой
func (hc *HandlerContext) EditMessage(text string, keyboard *models.InlineKeyboardMarkup) error {
	if err := hc.RequireMessage(); err != nil {
		return err
	}

	params := &bot.EditMessageTextParams{
		ChatID:    hc.ChatID,
		MessageID: hc.Message.ID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}

	_, err := hc.Bot.EditMessageText(hc.Ctx, params)
	if IsMessageNotModified(err) {
		return nil
	}
	return err
}

// EditKeyboard заменяет только клавиатуру
func (hc *HandlerContext) EditKeyboard(keyboard *models.InlineKeyboardMarkup) error {
	if err := hc.RequireMessage(); err != nil {
		return err
	}

	_, err := hc.Bot.EditMessageReplyMarkup(hc.Ctx, &bot.EditMessageReplyMarkupParams{
		ChatID:      hc.ChatID,
		MessageID:   hc.Message.ID,
		ReplyMarkup: keyboard,
	})
	if IsMessageNotModified(err) {
		return nil
	}
	return err
}

// DeleteMessage удаляет сообщение с клавиатурой
func (hc *HandlerContext) DeleteMessage() error {
	if err := hc.RequireMessage(); err != nil {
		return err
	}

	_, err := hc.Bot.DeleteMessage(hc.Ctx, &bot.DeleteMessageParams{
		ChatID:    hc.ChatID,
		MessageID: hc.Message.ID,
	})
	return err
}

// IsMessageNotModified Telegram отвечает ошибкой, если текст и клавиатура не изменились
func IsMessageNotModified(err error) bool {
	return err != nil && strings.Contains(err.Error(), "message is not modified")
}

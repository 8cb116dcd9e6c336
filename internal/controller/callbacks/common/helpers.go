package common

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Helper functions для всех обработчиков

// AnswerCallback отвечает на callback query (без alert)
func AnswerCallback(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       false,
	})
}

// AnswerCallbackAlert отвечает на callback query с alert (всплывающее окно)
func AnswerCallbackAlert(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       true,
	})
}

// GetMessageFromCallback извлекает сообщение из callback query
func GetMessageFromCallback(callback *models.CallbackQuery) *models.Message {
	if callback.Message.Message != nil {
		return callback.Message.Message
	}
	return nil
}

// PayloadFromCallback возвращает часть после префикса
// Например: "reg_school:AIT" -> "AIT"
func PayloadFromCallback(data, prefix string) (string, error) {
	payload, ok := strings.CutPrefix(data, prefix)
	if !ok || payload == "" {
		return "", ErrInvalidFormat
	}
	return payload, nil
}

// ParseIDFromCallback извлекает числовой ID после префикса
// Например: "reg_name:123" -> 123
func ParseIDFromCallback(data, prefix string) (int64, error) {
	payload, err := PayloadFromCallback(data, prefix)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(payload, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidFormat, data)
	}
	return id, nil
}

// Send отправляет сообщение в топик и логирует если не удалось
func Send(ctx context.Context, b *bot.Bot, logger *zap.Logger, params *bot.SendMessageParams) *models.Message {
	msg, err := b.SendMessage(ctx, params)
	if err != nil {
		logger.Error("Failed to send message",
			zap.Any("chat_id", params.ChatID),
			zap.Int("thread_id", params.MessageThreadID),
			zap.Error(err),
		)
		return nil
	}
	return msg
}

// Delete удаляет сообщение, ошибка только логируется
func Delete(ctx context.Context, b *bot.Bot, logger *zap.Logger, chatID int64, messageID int) {
	_, err := b.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    chatID,
		MessageID: messageID,
	})
	if err != nil {
		logger.Debug("Failed to delete message",
			zap.Int64("chat_id", chatID),
			zap.Int("message_id", messageID),
			zap.Error(err),
		)
	}
}

// DeleteLater удаляет сообщение после задержки
func DeleteLater(b *bot.Bot, logger *zap.Logger, chatID int64, messageID int, delay time.Duration) {
	time.AfterFunc(delay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		Delete(ctx, b, logger, chatID, messageID)
	})
}

package common

import (
	"bytes"
	"context"
	"fmt"

	"github.com/Freeeeeet/headsup_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// PostSession публикует результат активности в топике группы: текст и карточку
func PostSession(ctx context.Context, b *bot.Bot, logger *zap.Logger, chatID int64, threadID int, s *model.Session) {
	Send(ctx, b, logger, &bot.SendMessageParams{
		ChatID:          chatID,
		MessageThreadID: threadID,
		Text:            FormatSession(s),
		ParseMode:       models.ParseModeHTML,
	})

	imageData, err := GenerateRosterImage(s)
	if err != nil {
		logger.Error("Failed to render roster image", zap.String("session_id", s.ID), zap.Error(err))
		return
	}

	_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:          chatID,
		MessageThreadID: threadID,
		Photo:           &models.InputFileUpload{Filename: "roster.png", Data: bytes.NewReader(imageData)},
		Caption:         fmt.Sprintf("%s - %s", SessionTitle(s.Type), s.Group),
	})
	if err != nil {
		logger.Error("Failed to send roster image",
			zap.Int64("chat_id", chatID),
			zap.String("session_id", s.ID),
			zap.Error(err),
		)
	}
}

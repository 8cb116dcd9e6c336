package handlers

import (
	"context"
	"errors"

	"github.com/Freeeeeet/headsup_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/headsup_bot/internal/headsup"
	"github.com/Freeeeeet/headsup_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const saveErrorText = "❌ Error saving heads-up submission."

// handleHeadsUp проверяет сообщение и отвечает автору только при проблеме
func (h *Handlers) handleHeadsUp(ctx context.Context, b *bot.Bot, msg *models.Message) {
	text := h.headsUpReply(ctx, msg)
	if text != "" {
		h.reply(ctx, b, msg, text)
	}
}

// headsUpReply текст ответа на heads-up, пустая строка если ответ не нужен
func (h *Handlers) headsUpReply(ctx context.Context, msg *models.Message) string {
	outcome, err := h.headsUp.Process(ctx, msg.From.ID, msg.Text)
	switch {
	case err == nil && outcome.Accepted:
		h.logger.Info("Heads-up accepted",
			zap.Int64("user_id", msg.From.ID),
			zap.String("submission_id", outcome.Reconciliation.Submission.ID),
			zap.Bool("updated", outcome.Reconciliation.Updated),
		)
		return ""
	case err == nil:
		return outcome.Feedback
	case headsup.IsRejection(err), errors.Is(err, service.ErrUnreadableHeadsUp):
		h.logger.Info("Heads-up rejected", zap.Int64("user_id", msg.From.ID), zap.Error(err))
		return common.ErrorMessage(err)
	default:
		h.logger.Error("Failed to process heads-up", zap.Int64("user_id", msg.From.ID), zap.Error(err))
		return saveErrorText
	}
}

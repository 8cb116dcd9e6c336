package callbacks

import (
	"context"
	"strings"

	"github.com/Freeeeeet/headsup_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/headsup_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/headsup_bot/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Noop кнопка без действия
const Noop = "noop"

// Route распределяет callback query по соответствующим обработчикам
func (h *Handler) Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	hc := common.NewHandlerContext(ctx, b, callback)
	data := callback.Data

	switch {
	// ===== Регистрация =====
	case strings.HasPrefix(data, keyboard.RegSchool):
		h.handleRegSchool(hc)
	case strings.HasPrefix(data, keyboard.RegGroup):
		h.handleRegGroup(hc)
	case strings.HasPrefix(data, keyboard.RegName):
		h.handleRegName(hc)
	case data == keyboard.RegConfirm:
		h.handleRegConfirm(hc)
	case data == keyboard.RegCancel:
		h.handleRegCancel(hc)

	// ===== Клавиатуры выбора =====
	case strings.HasPrefix(data, keyboard.SelectToggle):
		h.handleSelectToggle(hc)
	case data == keyboard.SelectConfirm:
		h.handleSelectConfirm(hc)
	case data == keyboard.SelectCancel:
		h.handleSelectCancel(hc)

	case data == Noop:
		hc.Answer("")
	default:
		h.logger.Warn("Unknown callback", zap.String("data", data), zap.Int64("user_id", hc.UserID))
		hc.Answer("")
	}
}

// loadPending состояние нажавшего пользователя для этой клавиатуры.
// Чужая, устаревшая или истёкшая клавиатура даёт ErrNotYourSelection.
func (h *Handler) loadPending(hc *common.HandlerContext, flows ...state.Flow) (*state.Pending, error) {
	if err := hc.RequireMessage(); err != nil {
		return nil, err
	}

	p, err := h.stateStore.Get(hc.Ctx, hc.Key())
	if err != nil {
		return nil, err
	}
	if p == nil || !p.OwnedBy(hc.UserID) || p.MessageID != hc.Message.ID {
		return nil, common.ErrNotYourSelection
	}
	for _, f := range flows {
		if p.Flow == f {
			return p, nil
		}
	}
	return nil, common.ErrNotYourSelection
}

func (h *Handler) savePending(hc *common.HandlerContext, p *state.Pending) {
	if err := h.stateStore.Set(hc.Ctx, hc.Key(), p); err != nil {
		h.logger.Error("Failed to save pending state",
			zap.Int64("user_id", hc.UserID),
			zap.String("flow", string(p.Flow)),
			zap.Error(err),
		)
	}
}

func (h *Handler) clearPending(hc *common.HandlerContext) {
	if err := h.stateStore.Delete(hc.Ctx, hc.Key()); err != nil {
		h.logger.Error("Failed to clear pending state", zap.Int64("user_id", hc.UserID), zap.Error(err))
	}
}

// fail отвечает всплывающим сообщением, неожиданные ошибки логируются
func (h *Handler) fail(hc *common.HandlerContext, err error) {
	if !common.IsKnown(err) {
		h.logger.Error("Callback failed",
			zap.String("data", hc.Callback.Data),
			zap.Int64("user_id", hc.UserID),
			zap.Error(err),
		)
	}
	hc.Alert(common.ErrorMessage(err))
}

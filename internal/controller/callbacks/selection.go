package callbacks

import (
	"strings"

	"github.com/Freeeeeet/headsup_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/headsup_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/headsup_bot/internal/controller/state"
	"github.com/Freeeeeet/headsup_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// selectionFlows диалоги с клавиатурой выбора студентов
var selectionFlows = []state.Flow{
	state.FlowGrouping,
	state.FlowAbsentee,
	state.FlowAttendee,
	state.FlowAttendance,
}

// handleSelectToggle отмечает или снимает отметку с пункта
func (h *Handler) handleSelectToggle(hc *common.HandlerContext) {
	p, err := h.loadPending(hc, selectionFlows...)
	if err != nil {
		h.fail(hc, err)
		return
	}

	id, err := common.PayloadFromCallback(hc.Callback.Data, keyboard.SelectToggle)
	if err != nil {
		h.fail(hc, err)
		return
	}

	if !p.Toggle(id) {
		hc.Answer("")
		return
	}

	if err := hc.EditKeyboard(keyboard.Selection(p).Build()); err != nil {
		h.fail(hc, err)
		return
	}

	h.savePending(hc, p)
	hc.Answer("")
}

// handleSelectCancel убирает клавиатуру без действий
func (h *Handler) handleSelectCancel(hc *common.HandlerContext) {
	if _, err := h.loadPending(hc, selectionFlows...); err != nil {
		h.fail(hc, err)
		return
	}

	h.clearPending(hc)
	if err := hc.DeleteMessage(); err != nil {
		h.logger.Warn("Failed to delete selection message", zap.Error(err))
	}
	hc.Answer("Cancelled.")
}

// handleSelectConfirm выполняет действие диалога над выбранными пунктами
func (h *Handler) handleSelectConfirm(hc *common.HandlerContext) {
	p, err := h.loadPending(hc, selectionFlows...)
	if err != nil {
		h.fail(hc, err)
		return
	}
	if len(p.Selected) == 0 {
		hc.Alert(common.ErrorMessage(service.ErrNothingSelected))
		return
	}

	h.clearPending(hc)
	if err := hc.DeleteMessage(); err != nil {
		h.logger.Warn("Failed to delete selection message", zap.Error(err))
	}
	hc.Answer("")

	switch p.Flow {
	case state.FlowGrouping:
		h.confirmGrouping(hc, p)
	case state.FlowAbsentee:
		h.confirmAbsentee(hc, p)
	case state.FlowAttendee:
		h.confirmAttendee(hc, p)
	case state.FlowAttendance:
		h.confirmAttendance(hc, p)
	}
}

func (h *Handler) confirmGrouping(hc *common.HandlerContext, p *state.Pending) {
	session, err := h.sessions.Grouping(hc.Ctx, p.Group, p.SelectedInt64())
	if err != nil {
		h.report(hc, p, err)
		return
	}
	common.PostSession(hc.Ctx, hc.Bot, h.logger, hc.ChatID, p.ThreadID, session)
}

func (h *Handler) confirmAbsentee(hc *common.HandlerContext, p *state.Pending) {
	marks, err := h.attendance.MarkAbsent(hc.Ctx, p.Group, p.SelectedInt64())
	if err != nil {
		h.report(hc, p, err)
		return
	}
	h.sendDirect(hc, p, common.FormatAbsentees(p.Group, marks))
}

func (h *Handler) confirmAttendee(hc *common.HandlerContext, p *state.Pending) {
	updated, err := h.attendance.MarkPresent(hc.Ctx, p.Selected)
	if err != nil {
		h.report(hc, p, err)
		return
	}

	h.logger.Info("Attendees checked out",
		zap.String("group", p.Group),
		zap.Int("selected", len(p.Selected)),
		zap.Int64("updated", updated),
	)
	h.sendDirect(hc, p, common.FormatAttendees(p.Group, selectedLabels(p)))
}

func (h *Handler) confirmAttendance(hc *common.HandlerContext, p *state.Pending) {
	history, err := h.attendance.History(hc.Ctx, p.Group, p.SelectedInt64())
	if err != nil {
		h.report(hc, p, err)
		return
	}
	h.sendDirect(hc, p, common.FormatHistory(history, h.attendance.Location()))
}

// report сообщение об ошибке в топике группы
func (h *Handler) report(hc *common.HandlerContext, p *state.Pending, err error) {
	if !common.IsKnown(err) {
		h.logger.Error("Selection action failed",
			zap.String("flow", string(p.Flow)),
			zap.String("group", p.Group),
			zap.Error(err),
		)
	}
	common.Send(hc.Ctx, hc.Bot, h.logger, &bot.SendMessageParams{
		ChatID:          hc.ChatID,
		MessageThreadID: p.ThreadID,
		Text:            common.ErrorMessage(err),
	})
}

// sendDirect итог в личные сообщения администратору, при неудаче подсказка в топике
func (h *Handler) sendDirect(hc *common.HandlerContext, p *state.Pending, text string) {
	for _, chunk := range splitMessage(text, maxMessageLength) {
		sent := common.Send(hc.Ctx, hc.Bot, h.logger, &bot.SendMessageParams{
			ChatID:    hc.UserID,
			Text:      chunk,
			ParseMode: models.ParseModeHTML,
		})
		if sent != nil {
			continue
		}
		common.Send(hc.Ctx, hc.Bot, h.logger, &bot.SendMessageParams{
			ChatID:          hc.ChatID,
			MessageThreadID: p.ThreadID,
			Text:            "Could not send you a private message. Start a chat with the bot first.",
		})
		return
	}
}

func selectedLabels(p *state.Pending) []string {
	labels := make([]string, 0, len(p.Selected))
	for _, o := range p.Options {
		if p.IsSelected(o.ID) {
			labels = append(labels, o.Label)
		}
	}
	return labels
}

// maxMessageLength ограничение Telegram на длину текста
const maxMessageLength = 4096

// splitMessage режет текст по строкам на части не длиннее limit байт
func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		if current.Len()+len(line) > limit && current.Len() > 0 {
			chunks = append(chunks, strings.TrimRight(current.String(), "\n"))
			current.Reset()
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		chunks = append(chunks, strings.TrimRight(current.String(), "\n"))
	}
	return chunks
}

package callbacks

import (
	"fmt"
	"html"

	"github.com/Freeeeeet/headsup_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/headsup_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/headsup_bot/internal/controller/state"
	"github.com/Freeeeeet/headsup_bot/internal/service"
	"go.uber.org/zap"
)

// handleRegSchool выбрана школа, показываем её группы
func (h *Handler) handleRegSchool(hc *common.HandlerContext) {
	p, err := h.loadPending(hc, state.FlowRegistration)
	if err != nil {
		h.fail(hc, err)
		return
	}

	name, err := common.PayloadFromCallback(hc.Callback.Data, keyboard.RegSchool)
	if err != nil {
		h.fail(hc, err)
		return
	}

	school, err := h.registration.School(name)
	if err != nil {
		h.fail(hc, err)
		return
	}

	p.School = school.Name
	p.Group = ""
	p.StudentID = 0

	text := fmt.Sprintf("School: <b>%s</b>\n\nSelect your group:", html.EscapeString(school.Name))
	if err := hc.EditMessage(text, keyboard.Groups(school.Groups).Build()); err != nil {
		h.fail(hc, err)
		return
	}

	h.savePending(hc, p)
	hc.Answer("")
}

// handleRegGroup выбрана группа, показываем незарегистрированных студентов
func (h *Handler) handleRegGroup(hc *common.HandlerContext) {
	p, err := h.loadPending(hc, state.FlowRegistration)
	if err != nil {
		h.fail(hc, err)
		return
	}

	group, err := common.PayloadFromCallback(hc.Callback.Data, keyboard.RegGroup)
	if err != nil {
		h.fail(hc, err)
		return
	}

	candidates, err := h.registration.Candidates(hc.Ctx, p.School, group)
	if err != nil {
		h.fail(hc, err)
		return
	}

	if len(candidates) == 0 {
		h.clearPending(hc)
		if err := hc.EditMessage("No registration candidates found for your selection.", nil); err != nil {
			h.logger.Warn("Failed to edit registration message", zap.Error(err))
		}
		hc.Answer("")
		return
	}

	p.Group = group
	p.StudentID = 0

	text := fmt.Sprintf("School: <b>%s</b>\nGroup: <b>%s</b>\n\nSelect your name:",
		html.EscapeString(p.School), html.EscapeString(group))
	if err := hc.EditMessage(text, keyboard.Candidates(candidates).Build()); err != nil {
		h.fail(hc, err)
		return
	}

	h.savePending(hc, p)
	hc.Answer("")
}

// handleRegName выбрано имя, просим подтвердить
func (h *Handler) handleRegName(hc *common.HandlerContext) {
	p, err := h.loadPending(hc, state.FlowRegistration)
	if err != nil {
		h.fail(hc, err)
		return
	}

	studentID, err := common.ParseIDFromCallback(hc.Callback.Data, keyboard.RegName)
	if err != nil {
		h.fail(hc, err)
		return
	}

	student, err := h.registration.Student(hc.Ctx, studentID)
	if err != nil {
		h.fail(hc, err)
		return
	}
	if student.Group != p.Group {
		h.fail(hc, service.ErrStudentNotFound)
		return
	}
	if student.IsRegistered {
		h.fail(hc, service.ErrNameTaken)
		return
	}

	p.StudentID = student.ID

	text := fmt.Sprintf("You selected <b>%s</b> from %s, %s.\n\nIs this you?",
		html.EscapeString(student.Name), html.EscapeString(student.Group), html.EscapeString(p.School))
	if err := hc.EditMessage(text, keyboard.ConfirmRegistration().Build()); err != nil {
		h.fail(hc, err)
		return
	}

	h.savePending(hc, p)
	hc.Answer("")
}

// handleRegConfirm привязывает аккаунт к выбранному студенту
func (h *Handler) handleRegConfirm(hc *common.HandlerContext) {
	p, err := h.loadPending(hc, state.FlowRegistration)
	if err != nil {
		h.fail(hc, err)
		return
	}
	if p.StudentID == 0 {
		h.fail(hc, common.ErrInvalidFormat)
		return
	}

	h.clearPending(hc)

	text := "Registration complete. Thank you!"
	student, err := h.registration.Register(hc.Ctx, p.StudentID, hc.UserID)
	if err != nil {
		if !common.IsKnown(err) {
			h.logger.Error("Failed to register student",
				zap.Int64("student_id", p.StudentID),
				zap.Int64("user_id", hc.UserID),
				zap.Error(err),
			)
		}
		text = common.ErrorMessage(err)
	} else {
		h.logger.Info("Registration confirmed",
			zap.Int64("student_id", student.ID),
			zap.Int64("user_id", hc.UserID),
		)
	}

	if err := hc.EditMessage(text, nil); err != nil {
		h.logger.Warn("Failed to edit registration message", zap.Error(err))
	}
	hc.Answer("")
}

// handleRegCancel прерывает регистрацию
func (h *Handler) handleRegCancel(hc *common.HandlerContext) {
	if _, err := h.loadPending(hc, state.FlowRegistration); err != nil {
		h.fail(hc, err)
		return
	}

	h.clearPending(hc)
	if err := hc.EditMessage("Registration cancelled. Send /register to start again.", nil); err != nil {
		h.logger.Warn("Failed to edit registration message", zap.Error(err))
	}
	hc.Answer("")
}

package common

import (
	"errors"

	"github.com/Freeeeeet/headsup_bot/internal/grouping"
	"github.com/Freeeeeet/headsup_bot/internal/headsup"
	"github.com/Freeeeeet/headsup_bot/internal/service"
)

// Общие ошибки для обработчиков
var (
	ErrNoMessage        = errors.New("no message in callback")
	ErrInvalidFormat    = errors.New("invalid callback format")
	ErrNotYourSelection = errors.New("selection belongs to another user or expired")
	ErrWrongTopic       = errors.New("command used outside a group topic")
)

const unexpectedErrorText = "❌ Something went wrong. Please try again later."

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	switch {
	// heads-up
	case errors.Is(err, headsup.ErrUnregisteredSender):
		return "⚠️ You are not registered. Send /register to the bot in a private chat first."
	case errors.Is(err, headsup.ErrNameMismatch):
		return "⚠️ The name in your heads-up does not match your registered name. Please edit your heads up."
	case errors.Is(err, headsup.ErrGroupMismatch):
		return "⚠️ The group in your heads-up does not match your registered group. Please edit your heads up."
	case errors.Is(err, service.ErrUnreadableHeadsUp):
		return "⚠️ Could not read your name and group. Please rewrite your heads up as: \"This is <name> from <group>\"."

	// регистрация
	case errors.Is(err, service.ErrAlreadyRegistered):
		return "You are already registered."
	case errors.Is(err, service.ErrNameTaken):
		return "❌ This name has already been registered by someone else."
	case errors.Is(err, service.ErrStudentNotFound):
		return "❌ Invalid candidate selected."
	case errors.Is(err, service.ErrUnknownSchool):
		return "❌ Invalid school selected."
	case errors.Is(err, service.ErrUnknownGroup):
		return "❌ Invalid group selected."

	// активности
	case errors.Is(err, service.ErrNoActiveStudents):
		return "No active students found for this group."
	case errors.Is(err, service.ErrNoQuestions):
		return "❌ No question links found. Send comma separated links."
	case errors.Is(err, service.ErrNothingSelected):
		return "Nothing was selected."
	case errors.Is(err, grouping.ErrNoLeaders):
		return "No group leaders were selected."
	case errors.Is(err, grouping.ErrInsufficientStudents):
		return "❌ Not enough active students to give every leader two members."

	// controller
	case errors.Is(err, ErrNotYourSelection):
		return "Unauthorized."
	case errors.Is(err, ErrWrongTopic):
		return "This command cannot be used here check where you are!"
	case errors.Is(err, ErrNoMessage):
		return "❌ Message is no longer available"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Invalid data"
	default:
		return unexpectedErrorText
	}
}

// IsKnown есть ли для ошибки понятный пользователю текст. Остальные ошибки логируются.
func IsKnown(err error) bool {
	return ErrorMessage(err) != unexpectedErrorText
}

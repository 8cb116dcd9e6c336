package handlers

import (
	"context"

	"github.com/Freeeeeet/headsup_bot/internal/controller/state"
	"github.com/Freeeeeet/headsup_bot/internal/metrics"
	"github.com/Freeeeeet/headsup_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// commandFunc обработчик команды, args текст после имени команды
type commandFunc func(ctx context.Context, b *bot.Bot, msg *models.Message, args string)

// Handlers содержит все зависимости для обработки сообщений
type Handlers struct {
	headsUp      *service.HeadsUpService
	attendance   *service.AttendanceService
	sessions     *service.SessionService
	registration *service.RegistrationService
	stateStore   state.Store
	topics       *TopicRouter
	admins       AdminChecker
	metrics      *metrics.Metrics
	logger       *zap.Logger
	commands     map[string]commandFunc
}

// NewHandlers создаёт новый обработчик сообщений
func NewHandlers(
	headsUp *service.HeadsUpService,
	attendance *service.AttendanceService,
	sessions *service.SessionService,
	registration *service.RegistrationService,
	stateStore state.Store,
	topics *TopicRouter,
	admins AdminChecker,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Handlers {
	h := &Handlers{
		headsUp:      headsUp,
		attendance:   attendance,
		sessions:     sessions,
		registration: registration,
		stateStore:   stateStore,
		topics:       topics,
		admins:       admins,
		metrics:      m,
		logger:       logger,
	}

	h.commands = map[string]commandFunc{
		"start":    h.privateOnly(h.handleRegister),
		"register": h.privateOnly(h.handleRegister),
		"help":     h.handleHelp,
		"cancel":   h.handleCancel,

		// Команды администратора в топике группы
		"moon_walk":        h.groupCommand(h.handleMoonWalk),
		"pair_programming": h.groupCommand(h.handlePairProgramming),
		"grouping":         h.groupCommand(h.handleGrouping),
		"triad_contest":    h.groupCommand(h.handleTriadContest),
		"absentee":         h.groupCommand(h.handleAbsentee),
		"attendee":         h.groupCommand(h.handleAttendee),
		"attendance":       h.groupCommand(h.handleAttendance),
		"excused":          h.groupCommand(h.handleExcused),
	}

	return h
}

package controller

import (
	"context"

	"github.com/Freeeeeet/headsup_bot/internal/controller/callbacks"
	"github.com/Freeeeeet/headsup_bot/internal/controller/handlers"
	"github.com/Freeeeeet/headsup_bot/internal/controller/state"
	"github.com/Freeeeeet/headsup_bot/internal/metrics"
	"github.com/Freeeeeet/headsup_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Services сервисы, которые использует бот
type Services struct {
	HeadsUp      *service.HeadsUpService
	Attendance   *service.AttendanceService
	Sessions     *service.SessionService
	Registration *service.RegistrationService
}

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	services Services,
	stateStore state.Store,
	topics map[int]string,
	m *metrics.Metrics,
	logger *zap.Logger,
) *BotController {
	// Создаём обработчики сообщений
	cmdHandlers := handlers.NewHandlers(
		services.HeadsUp,
		services.Attendance,
		services.Sessions,
		services.Registration,
		stateStore,
		handlers.NewTopicRouter(topics),
		handlers.NewChatAdmins(botInstance),
		m,
		logger,
	)

	// Создаём callback handler с зависимостями
	callbackHandler := callbacks.NewHandler(
		services.Registration,
		services.Attendance,
		services.Sessions,
		stateStore,
		m,
		logger,
	)

	return &BotController{
		bot:             botInstance,
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		logger:          logger,
	}
}

// RegisterHandlers регистрирует все обработчики
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	// Все текстовые сообщения идут в один обработчик, команды разбираются внутри
	c.bot.RegisterHandlerMatchFunc(isMessage, c.handlers.HandleMessage)
	c.bot.RegisterHandlerMatchFunc(isEditedMessage, c.handlers.HandleEditedMessage)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

func isMessage(update *models.Update) bool {
	return update.Message != nil && update.Message.Text != ""
}

func isEditedMessage(update *models.Update) bool {
	return update.EditedMessage != nil && update.EditedMessage.Text != ""
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	private := []models.BotCommand{
		{Command: "register", Description: "📝 Link your Telegram account"},
		{Command: "help", Description: "❓ Commands"},
	}
	group := []models.BotCommand{
		{Command: "moon_walk", Description: "🌙 Conversation pairs"},
		{Command: "pair_programming", Description: "🧑‍💻 Pairs with LeetCode questions"},
		{Command: "grouping", Description: "👥 Groups around leaders"},
		{Command: "triad_contest", Description: "🔺 Groups of three"},
		{Command: "absentee", Description: "🔴 Mark absent"},
		{Command: "attendee", Description: "✅ Mark present"},
		{Command: "attendance", Description: "📋 Heads-up history"},
		{Command: "excused", Description: "🟢 Today's report"},
		{Command: "cancel", Description: "✖️ Cancel selection"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: private,
		Scope:    &models.BotCommandScopeAllPrivateChats{},
	})
	if err != nil {
		c.logger.Error("Failed to set private commands", zap.Error(err))
		return err
	}

	_, err = c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: group,
		Scope:    &models.BotCommandScopeAllChatAdministrators{},
	})
	if err != nil {
		c.logger.Error("Failed to set admin commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}

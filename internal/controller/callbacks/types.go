package callbacks

import (
	"context"

	"github.com/Freeeeeet/headsup_bot/internal/controller/state"
	"github.com/Freeeeeet/headsup_bot/internal/metrics"
	"github.com/Freeeeeet/headsup_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Handler обработчик нажатий на inline кнопки
type Handler struct {
	registration *service.RegistrationService
	attendance   *service.AttendanceService
	sessions     *service.SessionService
	stateStore   state.Store
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

// NewHandler создаёт новый обработчик callbacks с зависимостями
func NewHandler(
	registration *service.RegistrationService,
	attendance *service.AttendanceService,
	sessions *service.SessionService,
	stateStore state.Store,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		registration: registration,
		attendance:   attendance,
		sessions:     sessions,
		stateStore:   stateStore,
		metrics:      m,
		logger:       logger,
	}
}

// HandleCallbackQuery - главный обработчик callback queries
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}

	callback := update.CallbackQuery
	h.metrics.IncUpdate("callback_query")

	h.logger.Debug("Callback received",
		zap.String("data", callback.Data),
		zap.Int64("user_id", callback.From.ID),
	)

	h.Route(ctx, b, callback)
}

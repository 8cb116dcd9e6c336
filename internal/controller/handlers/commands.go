package handlers

import (
	"context"

	"github.com/Freeeeeet/headsup_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/headsup_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/headsup_bot/internal/controller/state"
	"github.com/Freeeeeet/headsup_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleMessage точка входа для новых сообщений: команды, ожидаемые ответы, heads-up
func (h *Handlers) HandleMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Text == "" {
		return
	}
	h.metrics.IncUpdate("message")

	if name, args, ok := parseCommand(msg.Text); ok {
		if cmd, found := h.commands[name]; found {
			cmd(ctx, b, msg, args)
		}
		return
	}

	// В группе бот слушает только настроенные топики
	if msg.Chat.Type != models.ChatTypePrivate && !h.topics.Known(msg.MessageThreadID) {
		return
	}

	if h.handlePending(ctx, b, msg) {
		return
	}

	if msg.Chat.Type != models.ChatTypePrivate && h.topics.IsHeadsUp(msg.MessageThreadID) {
		h.handleHeadsUp(ctx, b, msg)
	}
}

// HandleEditedMessage исправленный heads-up проходит проверку заново
func (h *Handlers) HandleEditedMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.EditedMessage
	if msg == nil || msg.From == nil || msg.Text == "" {
		return
	}
	h.metrics.IncUpdate("edited_message")

	if _, _, isCommand := parseCommand(msg.Text); isCommand {
		return
	}
	if msg.Chat.Type != models.ChatTypePrivate && h.topics.IsHeadsUp(msg.MessageThreadID) {
		h.handleHeadsUp(ctx, b, msg)
	}
}

// handleRegister начинает регистрацию с выбора школы
func (h *Handlers) handleRegister(ctx context.Context, b *bot.Bot, msg *models.Message, _ string) {
	existing, err := h.registration.RegisteredStudent(ctx, msg.From.ID)
	if err != nil {
		h.logger.Error("Failed to check registration", zap.Int64("user_id", msg.From.ID), zap.Error(err))
		h.sendMessage(ctx, b, msg.Chat.ID, common.ErrorMessage(err))
		return
	}
	if existing != nil {
		h.sendMessage(ctx, b, msg.Chat.ID, common.ErrorMessage(service.ErrAlreadyRegistered))
		return
	}

	sent := common.Send(ctx, b, h.logger, &bot.SendMessageParams{
		ChatID:      msg.Chat.ID,
		Text:        "Welcome! Select your school:",
		ReplyMarkup: keyboard.Schools(h.registration.Schools()).Build(),
	})
	if sent == nil {
		return
	}

	h.setPending(ctx, keyOf(msg), &state.Pending{
		Flow:      state.FlowRegistration,
		OwnerID:   msg.From.ID,
		MessageID: sent.ID,
	})
}

// handleHelp обрабатывает команду /help
func (h *Handlers) handleHelp(ctx context.Context, b *bot.Bot, msg *models.Message, _ string) {
	helpText := "📚 <b>Commands</b>\n\n" +
		"<b>Students</b> (private chat):\n" +
		"/register - Link your Telegram account to your name\n" +
		"Post your heads up in the Heads Up topic: \"This is <i>name</i> from <i>group</i>\" with the reason and time.\n\n" +
		"<b>Admins</b> (group topic):\n" +
		"/moon_walk - Random pairs for English conversation\n" +
		"/pair_programming - Random pairs with LeetCode questions\n" +
		"/grouping - Split the class around selected leaders\n" +
		"/triad_contest <i>Name, Name</i> - Groups of three around named leaders\n" +
		"/absentee - Mark students absent without a heads up\n" +
		"/attendee - Mark heads-up submitters as present\n" +
		"/attendance - Heads-up history for selected students\n" +
		"/excused - Today's excused and unexcused report\n" +
		"/cancel - Cancel the current selection"

	if msg.Chat.Type == models.ChatTypePrivate {
		h.sendMessage(ctx, b, msg.Chat.ID, helpText)
		return
	}
	common.Delete(ctx, b, h.logger, msg.Chat.ID, msg.ID)
	h.sendDirect(ctx, b, msg, helpText)
}

// handleCancel отменяет текущий диалог пользователя в этом чате
func (h *Handlers) handleCancel(ctx context.Context, b *bot.Bot, msg *models.Message, _ string) {
	key := keyOf(msg)
	pending, err := h.stateStore.Get(ctx, key)
	if err != nil {
		h.logger.Error("Failed to load pending state", zap.Int64("user_id", key.UserID), zap.Error(err))
	}

	text := "Nothing to cancel."
	if pending != nil {
		h.clearPending(ctx, key)
		if pending.MessageID != 0 {
			common.Delete(ctx, b, h.logger, msg.Chat.ID, pending.MessageID)
		}
		text = "✅ Cancelled."
	}

	if msg.Chat.Type == models.ChatTypePrivate {
		h.sendMessage(ctx, b, msg.Chat.ID, text)
		return
	}
	common.Delete(ctx, b, h.logger, msg.Chat.ID, msg.ID)
	h.ephemeral(ctx, b, msg, text)
}

// handlePending обрабатывает текст, которого ждёт незавершённый диалог автора
func (h *Handlers) handlePending(ctx context.Context, b *bot.Bot, msg *models.Message) bool {
	key := keyOf(msg)
	pending, err := h.stateStore.Get(ctx, key)
	if err != nil {
		h.logger.Error("Failed to load pending state", zap.Int64("user_id", key.UserID), zap.Error(err))
		return false
	}
	if pending == nil || !pending.OwnedBy(msg.From.ID) {
		return false
	}

	switch pending.Flow {
	case state.FlowPairProgramming:
		if pending.ThreadID != msg.MessageThreadID {
			return false
		}
		h.completePairProgramming(ctx, b, msg, pending)
		return true
	default:
		return false
	}
}

func (h *Handlers) setPending(ctx context.Context, key state.Key, p *state.Pending) {
	if err := h.stateStore.Set(ctx, key, p); err != nil {
		h.logger.Error("Failed to save pending state",
			zap.Int64("chat_id", key.ChatID),
			zap.Int64("user_id", key.UserID),
			zap.String("flow", string(p.Flow)),
			zap.Error(err),
		)
	}
}

func (h *Handlers) clearPending(ctx context.Context, key state.Key) {
	if err := h.stateStore.Delete(ctx, key); err != nil {
		h.logger.Error("Failed to clear pending state",
			zap.Int64("chat_id", key.ChatID),
			zap.Int64("user_id", key.UserID),
			zap.Error(err),
		)
	}
}

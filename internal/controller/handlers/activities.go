package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/headsup_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/headsup_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/headsup_bot/internal/controller/state"
	"github.com/Freeeeeet/headsup_bot/internal/model"
	"github.com/Freeeeeet/headsup_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const (
	pairProgrammingPrompt = "Please send the LeetCode question links separated by commas.\n" +
		"Add |Easy, |Medium or |Hard after a link to set its difficulty."
	triadUsage = "Usage: /triad_contest Leader One, Leader Two"
)

// handleMoonWalk пары для разговорной практики
func (h *Handlers) handleMoonWalk(ctx context.Context, b *bot.Bot, msg *models.Message, group, _ string) {
	session, err := h.sessions.MoonWalk(ctx, group)
	if err != nil {
		h.activityError(ctx, b, msg, group, err)
		return
	}
	common.PostSession(ctx, b, h.logger, msg.Chat.ID, msg.MessageThreadID, session)
}

// handlePairProgramming запрашивает ссылки, пары формируются после ответа
func (h *Handlers) handlePairProgramming(ctx context.Context, b *bot.Bot, msg *models.Message, group, _ string) {
	prompt := h.sendToThread(ctx, b, msg, pairProgrammingPrompt)
	if prompt == nil {
		return
	}

	h.replacePending(ctx, b, keyOf(msg), &state.Pending{
		Flow:      state.FlowPairProgramming,
		OwnerID:   msg.From.ID,
		Group:     group,
		ThreadID:  msg.MessageThreadID,
		MessageID: prompt.ID,
	})
}

// completePairProgramming ответ администратора со ссылками на задачи
func (h *Handlers) completePairProgramming(ctx context.Context, b *bot.Bot, msg *models.Message, pending *state.Pending) {
	h.clearPending(ctx, keyOf(msg))
	common.Delete(ctx, b, h.logger, msg.Chat.ID, msg.ID)
	common.Delete(ctx, b, h.logger, msg.Chat.ID, pending.MessageID)

	session, err := h.sessions.PairProgramming(ctx, pending.Group, service.ParseQuestions(msg.Text))
	if err != nil {
		h.activityError(ctx, b, msg, pending.Group, err)
		return
	}
	common.PostSession(ctx, b, h.logger, msg.Chat.ID, pending.ThreadID, session)
}

// handleGrouping выбор лидеров среди присутствующих
func (h *Handlers) handleGrouping(ctx context.Context, b *bot.Bot, msg *models.Message, group, _ string) {
	active, err := h.attendance.ActiveStudents(ctx, group)
	if err != nil || len(active) == 0 {
		h.activityError(ctx, b, msg, group, orNoActive(err))
		return
	}

	h.startSelection(ctx, b, msg, group, state.FlowGrouping, "Select the group leaders:", studentOptions(active))
}

// handleTriadContest лидеры перечислены через запятую после команды
func (h *Handlers) handleTriadContest(ctx context.Context, b *bot.Bot, msg *models.Message, group, args string) {
	names := splitNames(args)
	if len(names) == 0 {
		h.notice(ctx, b, msg, triadUsage)
		return
	}

	result, err := h.sessions.TriadContest(ctx, group, names)
	if result != nil && len(result.Unmatched) > 0 {
		h.sendToThread(ctx, b, msg, common.FormatUnmatchedLeaders(result.Unmatched))
	}
	if err != nil {
		h.activityError(ctx, b, msg, group, err)
		return
	}
	common.PostSession(ctx, b, h.logger, msg.Chat.ID, msg.MessageThreadID, result.Session)
}

// handleAbsentee выбор отсутствующих без heads-up
func (h *Handlers) handleAbsentee(ctx context.Context, b *bot.Bot, msg *models.Message, group, _ string) {
	active, err := h.attendance.ActiveStudents(ctx, group)
	if err != nil || len(active) == 0 {
		h.activityError(ctx, b, msg, group, orNoActive(err))
		return
	}

	h.startSelection(ctx, b, msg, group, state.FlowAbsentee, "Select the absent students:", studentOptions(active))
}

// handleAttendee выбор пришедших среди отправивших heads-up сегодня
func (h *Handlers) handleAttendee(ctx context.Context, b *bot.Bot, msg *models.Message, group, _ string) {
	pending, err := h.attendance.PendingSubmissions(ctx, group)
	if err != nil {
		h.activityError(ctx, b, msg, group, err)
		return
	}
	if len(pending) == 0 {
		h.notice(ctx, b, msg, fmt.Sprintf("No absentees found for %s.", group))
		return
	}

	loc := h.attendance.Location()
	options := make([]state.Option, 0, len(pending))
	for _, sub := range pending {
		options = append(options, state.Option{
			ID:    sub.ID,
			Label: fmt.Sprintf("%s [%s]", sub.StudentName, sub.SubmittedAt.In(loc).Format("15:04")),
		})
	}

	h.startSelection(ctx, b, msg, group, state.FlowAttendee, "Select the students who are now present:", options)
}

// handleAttendance выбор студентов для истории heads-up
func (h *Handlers) handleAttendance(ctx context.Context, b *bot.Bot, msg *models.Message, group, _ string) {
	roster, err := h.attendance.Roster(ctx, group)
	if err != nil {
		h.activityError(ctx, b, msg, group, err)
		return
	}
	if len(roster) == 0 {
		h.notice(ctx, b, msg, fmt.Sprintf("No students found for %s.", group))
		return
	}

	options := make([]state.Option, 0, len(roster))
	for _, st := range roster {
		options = append(options, studentOption(st))
	}

	h.startSelection(ctx, b, msg, group, state.FlowAttendance, "Select students to see their attendance:", options)
}

// handleExcused сводка за сегодня в личные сообщения
func (h *Handlers) handleExcused(ctx context.Context, b *bot.Bot, msg *models.Message, group, _ string) {
	report, err := h.attendance.ExcusedReport(ctx, group)
	if err != nil {
		h.activityError(ctx, b, msg, group, err)
		return
	}
	if report.Total() == 0 {
		h.sendDirect(ctx, b, msg, fmt.Sprintf("No Heads-Up submissions for %s today.", group))
		return
	}
	h.sendDirect(ctx, b, msg, common.FormatExcusedReport(report, h.attendance.Location()))
}

// startSelection публикует клавиатуру выбора и запоминает её за администратором
func (h *Handlers) startSelection(
	ctx context.Context,
	b *bot.Bot,
	msg *models.Message,
	group string,
	flow state.Flow,
	title string,
	options []state.Option,
) {
	pending := &state.Pending{
		Flow:     flow,
		OwnerID:  msg.From.ID,
		Group:    group,
		ThreadID: msg.MessageThreadID,
		Options:  options,
	}

	sent := common.Send(ctx, b, h.logger, &bot.SendMessageParams{
		ChatID:          msg.Chat.ID,
		MessageThreadID: msg.MessageThreadID,
		Text:            title,
		ReplyMarkup:     keyboard.Selection(pending).Build(),
	})
	if sent == nil {
		return
	}

	pending.MessageID = sent.ID
	h.replacePending(ctx, b, keyOf(msg), pending)
}

// replacePending сохраняет новое состояние, клавиатура прошлого диалога удаляется
func (h *Handlers) replacePending(ctx context.Context, b *bot.Bot, key state.Key, p *state.Pending) {
	previous, err := h.stateStore.Get(ctx, key)
	if err != nil {
		h.logger.Warn("Failed to load previous pending state", zap.Int64("user_id", key.UserID), zap.Error(err))
	}
	if previous != nil && previous.MessageID != 0 && previous.MessageID != p.MessageID {
		common.Delete(ctx, b, h.logger, key.ChatID, previous.MessageID)
	}
	h.setPending(ctx, key, p)
}

// activityError сообщает администратору в топике, сбои логируются
func (h *Handlers) activityError(ctx context.Context, b *bot.Bot, msg *models.Message, group string, err error) {
	if !common.IsKnown(err) {
		h.logger.Error("Activity failed",
			zap.Int64("chat_id", msg.Chat.ID),
			zap.String("group", group),
			zap.Error(err),
		)
	}
	h.notice(ctx, b, msg, common.ErrorMessage(err))
}

// notice простой текст в топике без разметки
func (h *Handlers) notice(ctx context.Context, b *bot.Bot, msg *models.Message, text string) {
	common.Send(ctx, b, h.logger, &bot.SendMessageParams{
		ChatID:          msg.Chat.ID,
		MessageThreadID: msg.MessageThreadID,
		Text:            text,
	})
}

func orNoActive(err error) error {
	if err != nil {
		return err
	}
	return service.ErrNoActiveStudents
}

// splitNames имена через запятую, пустые отбрасываются
func splitNames(args string) []string {
	var names []string
	for _, part := range strings.Split(args, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func studentOptions(students []model.Student) []state.Option {
	options := make([]state.Option, 0, len(students))
	for i := range students {
		options = append(options, studentOption(&students[i]))
	}
	return options
}

func studentOption(st *model.Student) state.Option {
	return state.Option{ID: strconv.FormatInt(st.ID, 10), Label: st.Name}
}

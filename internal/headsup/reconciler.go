package headsup

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Freeeeeet/headsup_bot/internal/metrics"
	"github.com/Freeeeeet/headsup_bot/internal/model"
	"go.uber.org/zap"
)

// DefaultWindow повторная отправка в пределах окна обновляет запись, а не создаёт новую
const DefaultWindow = 10 * time.Minute

var (
	ErrUnregisteredSender = errors.New("sender is not a registered student")
	ErrNameMismatch       = errors.New("name does not match the roster")
	ErrGroupMismatch      = errors.New("group does not match the roster")
)

// IsRejection сообщает, что ошибка это ожидаемый отказ сверки, а не сбой
func IsRejection(err error) bool {
	return errors.Is(err, ErrUnregisteredSender) ||
		errors.Is(err, ErrNameMismatch) ||
		errors.Is(err, ErrGroupMismatch)
}

type RosterStore interface {
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.Student, error)
}

type SubmissionStore interface {
	FindRecentByTelegramID(ctx context.Context, telegramID int64, since time.Time) (*model.HeadsUpSubmission, error)
	Upsert(ctx context.Context, submission *model.HeadsUpSubmission) error
}

type NameMatcher interface {
	Matches(a, b string) bool
}

// Reconciliation сохранённая запись и признак обновления существующей
type Reconciliation struct {
	Submission *model.HeadsUpSubmission
	Updated    bool
}

// Reconciler сверяет извлечённые данные с реестром и сохраняет heads-up
type Reconciler struct {
	roster      RosterStore
	submissions SubmissionStore
	matcher     NameMatcher
	window      time.Duration
	now         func() time.Time
	metrics     *metrics.Metrics
	logger      *zap.Logger

	locks *senderLocks
}

func NewReconciler(
	roster RosterStore,
	submissions SubmissionStore,
	matcher NameMatcher,
	window time.Duration,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Reconciler {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Reconciler{
		roster:      roster,
		submissions: submissions,
		matcher:     matcher,
		window:      window,
		now:         time.Now,
		metrics:     m,
		logger:      logger,
		locks:       newSenderLocks(),
	}
}

// WithClock подменяет источник времени
func (r *Reconciler) WithClock(now func() time.Time) *Reconciler {
	r.now = now
	return r
}

// Reconcile проверяет отправителя по реестру и сохраняет сообщение.
// Отказы возвращаются как ErrUnregisteredSender, ErrNameMismatch, ErrGroupMismatch
// и ничего не записывают.
func (r *Reconciler) Reconcile(ctx context.Context, telegramID int64, name, group, message string) (*Reconciliation, error) {
	student, err := r.roster.GetByTelegramID(ctx, telegramID)
	if err != nil {
		r.metrics.ObserveReconcile("error")
		return nil, fmt.Errorf("get student by telegram id: %w", err)
	}
	if student == nil || !student.IsRegistered {
		r.metrics.ObserveReconcile("unregistered")
		return nil, ErrUnregisteredSender
	}

	if !r.matcher.Matches(name, student.Name) {
		r.metrics.ObserveReconcile("name_mismatch")
		r.logger.Info("Heads-up name mismatch",
			zap.Int64("telegram_id", telegramID),
			zap.String("extracted", name),
			zap.String("roster", student.Name),
		)
		return nil, ErrNameMismatch
	}

	if !r.matcher.Matches(group, student.Group) {
		r.metrics.ObserveReconcile("group_mismatch")
		r.logger.Info("Heads-up group mismatch",
			zap.Int64("telegram_id", telegramID),
			zap.String("extracted", group),
			zap.String("roster", student.Group),
		)
		return nil, ErrGroupMismatch
	}

	// Поиск и запись для одного отправителя только под его блокировкой
	unlock := r.locks.lock(telegramID)
	defer unlock()

	now := r.now()
	recent, err := r.submissions.FindRecentByTelegramID(ctx, telegramID, now.Add(-r.window))
	if err != nil {
		r.metrics.ObserveReconcile("error")
		return nil, fmt.Errorf("find recent submission: %w", err)
	}

	submission := recent
	updated := submission != nil
	if submission == nil {
		id := telegramID
		submission = &model.HeadsUpSubmission{TelegramID: &id}
	}
	submission.StudentName = student.Name
	submission.Group = student.Group
	submission.Message = message
	submission.SubmittedAt = now
	submission.IsExcused = true

	if err := r.submissions.Upsert(ctx, submission); err != nil {
		r.metrics.ObserveReconcile("error")
		return nil, fmt.Errorf("save submission: %w", err)
	}

	outcome := "accepted"
	if updated {
		outcome = "updated"
	}
	r.metrics.ObserveReconcile(outcome)

	r.logger.Info("Heads-up saved",
		zap.Int64("telegram_id", telegramID),
		zap.String("submission_id", submission.ID),
		zap.String("group", submission.Group),
		zap.Bool("updated", updated),
	)

	return &Reconciliation{Submission: submission, Updated: updated}, nil
}

// senderLocks мьютексы по telegram id, запись удаляется когда её никто не держит
type senderLocks struct {
	mu    sync.Mutex
	locks map[int64]*senderLock
}

type senderLock struct {
	mu   sync.Mutex
	refs int
}

func newSenderLocks() *senderLocks {
	return &senderLocks{locks: make(map[int64]*senderLock)}
}

func (l *senderLocks) lock(telegramID int64) func() {
	l.mu.Lock()
	sl, ok := l.locks[telegramID]
	if !ok {
		sl = &senderLock{}
		l.locks[telegramID] = sl
	}
	sl.refs++
	l.mu.Unlock()

	sl.mu.Lock()
	return func() {
		sl.mu.Unlock()

		l.mu.Lock()
		sl.refs--
		if sl.refs == 0 {
			delete(l.locks, telegramID)
		}
		l.mu.Unlock()
	}
}

func (l *senderLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

package service

import (
	"context"
	"errors"

	"github.com/Freeeeeet/headsup_bot/internal/headsup"
	"go.uber.org/zap"
)

// ErrUnreadableHeadsUp не удалось извлечь имя и группу из сообщения
var ErrUnreadableHeadsUp = errors.New("could not read name and group from heads-up")

// HeadsUpOutcome итог обработки сообщения. Feedback заполнен, если сообщение не прошло проверку.
type HeadsUpOutcome struct {
	Accepted       bool
	Feedback       string
	Reconciliation *headsup.Reconciliation
}

type messageValidator interface {
	Validate(ctx context.Context, message string) headsup.Result
}

type dataExtractor interface {
	Extract(ctx context.Context, message string) headsup.ExtractedData
}

type rosterReconciler interface {
	Reconcile(ctx context.Context, telegramID int64, name, group, message string) (*headsup.Reconciliation, error)
}

// HeadsUpService проверка, извлечение данных и сверка с реестром
type HeadsUpService struct {
	validator  messageValidator
	extractor  dataExtractor
	reconciler rosterReconciler
	logger     *zap.Logger
}

func NewHeadsUpService(v messageValidator, e dataExtractor, r rosterReconciler, logger *zap.Logger) *HeadsUpService {
	return &HeadsUpService{
		validator:  v,
		extractor:  e,
		reconciler: r,
		logger:     logger,
	}
}

// Process возвращает ErrUnreadableHeadsUp, отказы сверки из пакета headsup
// или ошибку сохранения. Некорректное сообщение это не ошибка, а Feedback.
func (s *HeadsUpService) Process(ctx context.Context, telegramID int64, message string) (*HeadsUpOutcome, error) {
	result := s.validator.Validate(ctx, message)
	if !result.Valid {
		s.logger.Debug("Heads-up rejected by validator",
			zap.Int64("telegram_id", telegramID),
			zap.String("strategy", result.Strategy),
		)
		return &HeadsUpOutcome{Feedback: result.Feedback}, nil
	}

	data := s.extractor.Extract(ctx, message)
	if !data.OK() {
		return nil, ErrUnreadableHeadsUp
	}

	rec, err := s.reconciler.Reconcile(ctx, telegramID, data.StudentName, data.Group, message)
	if err != nil {
		return nil, err
	}

	return &HeadsUpOutcome{Accepted: true, Reconciliation: rec}, nil
}

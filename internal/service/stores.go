package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/headsup_bot/internal/model"
)

// StudentStore реестр студентов
type StudentStore interface {
	GetByID(ctx context.Context, id int64) (*model.Student, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.Student, error)
	ListByGroup(ctx context.Context, group string) ([]*model.Student, error)
	ListUnregisteredByGroup(ctx context.Context, group string) ([]*model.Student, error)
	Register(ctx context.Context, studentID, telegramID int64) error
}

// SubmissionStore хранилище heads-up
type SubmissionStore interface {
	CreateMany(ctx context.Context, submissions []*model.HeadsUpSubmission) error
	ListByGroupAndRange(ctx context.Context, group string, start, end time.Time) ([]*model.HeadsUpSubmission, error)
	ListByGroupAndNames(ctx context.Context, group string, names []string) ([]*model.HeadsUpSubmission, error)
	MarkPresent(ctx context.Context, ids []string) (int64, error)
}

// SessionStore журнал проведённых активностей
type SessionStore interface {
	Save(ctx context.Context, session *model.Session) error
}

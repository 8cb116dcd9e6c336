package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/headsup_bot/internal/model"
	"github.com/Freeeeeet/headsup_bot/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const submissionColumns = `id::text, student_name, group_code, message, telegram_id, submitted_at, is_excused, checked_out, created_at, updated_at`

type SubmissionRepository struct {
	*base.Repository
}

func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{Repository: base.NewRepository(pool)}
}

// FindRecentByTelegramID возвращает последний heads-up студента, отправленный не раньше since
func (r *SubmissionRepository) FindRecentByTelegramID(ctx context.Context, telegramID int64, since time.Time) (*model.HeadsUpSubmission, error) {
	query := `
		SELECT ` + submissionColumns + `
		FROM headsup_submissions
		WHERE telegram_id = $1 AND submitted_at >= $2
		ORDER BY submitted_at DESC
		LIMIT 1
	`

	s, err := scanSubmission(r.QueryRow(ctx, query, telegramID, since))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find recent submission: %w", err)
	}

	return s, nil
}

// Upsert создаёт запись, если у неё нет ID, иначе обновляет существующую
func (r *SubmissionRepository) Upsert(ctx context.Context, s *model.HeadsUpSubmission) error {
	if s.ID == "" {
		return insertSubmission(ctx, r.Pool(), s)
	}

	id, err := uuid.Parse(s.ID)
	if err != nil {
		return fmt.Errorf("parse submission id: %w", err)
	}

	query := `
		UPDATE headsup_submissions
		SET student_name = $2, group_code = $3, message = $4, submitted_at = $5,
		    is_excused = $6, checked_out = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err = r.QueryRow(ctx, query, id, s.StudentName, s.Group, s.Message, s.SubmittedAt, s.IsExcused, s.CheckedOut).
		Scan(&s.UpdatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return fmt.Errorf("update submission %s: not found", s.ID)
		}
		return fmt.Errorf("update submission: %w", err)
	}

	return nil
}

// CreateMany создаёт несколько записей в одной транзакции
func (r *SubmissionRepository) CreateMany(ctx context.Context, submissions []*model.HeadsUpSubmission) error {
	return r.InTx(ctx, func(tx pgx.Tx) error {
		for _, s := range submissions {
			if err := insertSubmission(ctx, tx, s); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListByGroupAndRange возвращает heads-up группы за период [start, end)
func (r *SubmissionRepository) ListByGroupAndRange(ctx context.Context, group string, start, end time.Time) ([]*model.HeadsUpSubmission, error) {
	query := `
		SELECT ` + submissionColumns + `
		FROM headsup_submissions
		WHERE group_code = $1 AND submitted_at >= $2 AND submitted_at < $3
		ORDER BY submitted_at
	`
	return r.list(ctx, "list submissions by group", query, group, start, end)
}

// ListByGroupAndNames возвращает все heads-up указанных студентов группы, новые первыми
func (r *SubmissionRepository) ListByGroupAndNames(ctx context.Context, group string, names []string) ([]*model.HeadsUpSubmission, error) {
	query := `
		SELECT ` + submissionColumns + `
		FROM headsup_submissions
		WHERE group_code = $1 AND student_name = ANY($2)
		ORDER BY submitted_at DESC
	`
	return r.list(ctx, "list submissions by names", query, group, names)
}

// MarkPresent отмечает heads-up как уважительные и обработанные
func (r *SubmissionRepository) MarkPresent(ctx context.Context, ids []string) (int64, error) {
	query := `
		UPDATE headsup_submissions
		SET is_excused = TRUE, checked_out = TRUE, updated_at = NOW()
		WHERE id::text = ANY($1)
	`

	affected, err := r.ExecAffected(ctx, query, ids)
	if err != nil {
		return 0, fmt.Errorf("mark submissions present: %w", err)
	}
	return affected, nil
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertSubmission(ctx context.Context, db queryRower, s *model.HeadsUpSubmission) error {
	id := uuid.New()
	query := `
		INSERT INTO headsup_submissions (id, student_name, group_code, message, telegram_id, submitted_at, is_excused, checked_out)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := db.QueryRow(ctx, query, id, s.StudentName, s.Group, s.Message, s.TelegramID, s.SubmittedAt, s.IsExcused, s.CheckedOut).
		Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create submission: %w", err)
	}

	s.ID = id.String()
	return nil
}

func (r *SubmissionRepository) list(ctx context.Context, op, query string, args ...any) ([]*model.HeadsUpSubmission, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var submissions []*model.HeadsUpSubmission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		submissions = append(submissions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}

	return submissions, nil
}

func scanSubmission(row pgx.Row) (*model.HeadsUpSubmission, error) {
	var s model.HeadsUpSubmission
	err := row.Scan(
		&s.ID,
		&s.StudentName,
		&s.Group,
		&s.Message,
		&s.TelegramID,
		&s.SubmittedAt,
		&s.IsExcused,
		&s.CheckedOut,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

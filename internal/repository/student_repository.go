package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/headsup_bot/internal/model"
	"github.com/Freeeeeet/headsup_bot/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrStudentAlreadyRegistered = errors.New("student already registered")
	ErrTelegramAlreadyLinked    = errors.New("telegram account already linked to another student")
)

const studentColumns = `id, name, school, group_code, telegram_id, is_registered, created_at`

type StudentRepository struct {
	*base.Repository
}

func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{Repository: base.NewRepository(pool)}
}

// Upsert создаёт студента или обновляет школу существующего (имя + группа уникальны)
func (r *StudentRepository) Upsert(ctx context.Context, student *model.Student) error {
	query := `
		INSERT INTO students (name, school, group_code)
		VALUES ($1, $2, $3)
		ON CONFLICT (name, group_code) DO UPDATE SET school = EXCLUDED.school
		RETURNING id, telegram_id, is_registered, created_at
	`

	err := r.QueryRow(ctx, query, student.Name, student.School, student.Group).
		Scan(&student.ID, &student.TelegramID, &student.IsRegistered, &student.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert student: %w", err)
	}

	return nil
}

// GetByID получает студента по ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*model.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`

	student, err := scanStudent(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get student by id: %w", err)
	}

	return student, nil
}

// GetByTelegramID получает зарегистрированного студента по Telegram ID
func (r *StudentRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*model.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE telegram_id = $1 AND is_registered`

	student, err := scanStudent(r.QueryRow(ctx, query, telegramID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get student by telegram id: %w", err)
	}

	return student, nil
}

// ListByGroup возвращает всех студентов группы по алфавиту
func (r *StudentRepository) ListByGroup(ctx context.Context, group string) ([]*model.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE group_code = $1 ORDER BY name`
	return r.list(ctx, "list students by group", query, group)
}

// ListUnregisteredByGroup возвращает студентов группы, ещё не привязавших Telegram
func (r *StudentRepository) ListUnregisteredByGroup(ctx context.Context, group string) ([]*model.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE group_code = $1 AND NOT is_registered ORDER BY name`
	return r.list(ctx, "list unregistered students", query, group)
}

// Register привязывает Telegram-аккаунт к студенту. Повторная регистрация запрещена.
func (r *StudentRepository) Register(ctx context.Context, studentID, telegramID int64) error {
	query := `
		UPDATE students
		SET telegram_id = $2, is_registered = TRUE
		WHERE id = $1 AND NOT is_registered
	`

	affected, err := r.ExecAffected(ctx, query, studentID, telegramID)
	if err != nil {
		if base.IsUniqueViolation(err) {
			return ErrTelegramAlreadyLinked
		}
		return fmt.Errorf("register student: %w", err)
	}

	if affected == 0 {
		return ErrStudentAlreadyRegistered
	}

	return nil
}

func (r *StudentRepository) list(ctx context.Context, op, query string, args ...any) ([]*model.Student, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var students []*model.Student
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate students: %w", err)
	}

	return students, nil
}

func scanStudent(row pgx.Row) (*model.Student, error) {
	var s model.Student
	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.School,
		&s.Group,
		&s.TelegramID,
		&s.IsRegistered,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

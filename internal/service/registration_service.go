package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/headsup_bot/internal/model"
	"github.com/Freeeeeet/headsup_bot/internal/repository"
	"go.uber.org/zap"
)

var (
	ErrAlreadyRegistered = errors.New("telegram account already registered")
	ErrStudentNotFound   = errors.New("student not found")
	ErrNameTaken         = errors.New("student already claimed by another account")
	ErrUnknownSchool     = errors.New("unknown school")
	ErrUnknownGroup      = errors.New("unknown group")
)

// RegistrationService привязывает Telegram-аккаунты к студентам из реестра
type RegistrationService struct {
	students StudentStore
	schools  []model.School
	logger   *zap.Logger
}

func NewRegistrationService(students StudentStore, schools []model.School, logger *zap.Logger) *RegistrationService {
	return &RegistrationService{
		students: students,
		schools:  schools,
		logger:   logger,
	}
}

// Schools список школ для выбора
func (s *RegistrationService) Schools() []model.School {
	return s.schools
}

// School возвращает школу по названию
func (s *RegistrationService) School(name string) (model.School, error) {
	for _, school := range s.schools {
		if school.Name == name {
			return school, nil
		}
	}
	return model.School{}, ErrUnknownSchool
}

// RegisteredStudent возвращает студента, уже привязанного к аккаунту, или nil
func (s *RegistrationService) RegisteredStudent(ctx context.Context, telegramID int64) (*model.Student, error) {
	student, err := s.students.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("get student by telegram id: %w", err)
	}
	return student, nil
}

// Candidates незарегистрированные студенты группы выбранной школы
func (s *RegistrationService) Candidates(ctx context.Context, schoolName, group string) ([]*model.Student, error) {
	school, err := s.School(schoolName)
	if err != nil {
		return nil, err
	}
	if !school.HasGroup(group) {
		return nil, ErrUnknownGroup
	}

	students, err := s.students.ListUnregisteredByGroup(ctx, group)
	if err != nil {
		return nil, fmt.Errorf("list unregistered students: %w", err)
	}
	return students, nil
}

// Student возвращает студента по ID
func (s *RegistrationService) Student(ctx context.Context, id int64) (*model.Student, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}
	return student, nil
}

// Register подтверждает выбор: студент получает Telegram ID и статус зарегистрированного
func (s *RegistrationService) Register(ctx context.Context, studentID, telegramID int64) (*model.Student, error) {
	existing, err := s.RegisteredStudent(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyRegistered
	}

	student, err := s.Student(ctx, studentID)
	if err != nil {
		return nil, err
	}

	if err := s.students.Register(ctx, studentID, telegramID); err != nil {
		switch {
		case errors.Is(err, repository.ErrStudentAlreadyRegistered):
			return nil, ErrNameTaken
		case errors.Is(err, repository.ErrTelegramAlreadyLinked):
			return nil, ErrAlreadyRegistered
		default:
			return nil, fmt.Errorf("register student: %w", err)
		}
	}

	id := telegramID
	student.TelegramID = &id
	student.IsRegistered = true

	s.logger.Info("Student registered",
		zap.Int64("student_id", student.ID),
		zap.Int64("telegram_id", telegramID),
		zap.String("group", student.Group),
	)

	return student, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/headsup_bot/internal/headsup"
	"github.com/Freeeeeet/headsup_bot/internal/model"
	"go.uber.org/zap"
)

var ErrNothingSelected = errors.New("nothing selected")

// ExcusedReport heads-up группы за день, разделённые по уважительности
type ExcusedReport struct {
	Group     string
	Day       time.Time
	Excused   []*model.HeadsUpSubmission
	Unexcused []*model.HeadsUpSubmission
}

// Total общее количество записей
func (r *ExcusedReport) Total() int {
	return len(r.Excused) + len(r.Unexcused)
}

// StudentHistory все heads-up одного студента, новые первыми
type StudentHistory struct {
	Student     *model.Student
	Submissions []*model.HeadsUpSubmission
}

// AttendanceService отвечает за присутствие студентов за текущий день
type AttendanceService struct {
	students    StudentStore
	submissions SubmissionStore
	matcher     headsup.NameMatcher
	location    *time.Location
	now         func() time.Time
	logger      *zap.Logger
}

func NewAttendanceService(
	students StudentStore,
	submissions SubmissionStore,
	matcher headsup.NameMatcher,
	location *time.Location,
	logger *zap.Logger,
) *AttendanceService {
	if location == nil {
		location = time.UTC
	}
	return &AttendanceService{
		students:    students,
		submissions: submissions,
		matcher:     matcher,
		location:    location,
		now:         time.Now,
		logger:      logger,
	}
}

// WithClock подменяет источник времени
func (s *AttendanceService) WithClock(now func() time.Time) *AttendanceService {
	s.now = now
	return s
}

// Today границы текущего дня в часовом поясе класса
func (s *AttendanceService) Today() (time.Time, time.Time) {
	now := s.now().In(s.location)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
	return start, start.AddDate(0, 0, 1)
}

// TodaySubmissions heads-up группы за сегодня
func (s *AttendanceService) TodaySubmissions(ctx context.Context, group string) ([]*model.HeadsUpSubmission, error) {
	start, end := s.Today()
	submissions, err := s.submissions.ListByGroupAndRange(ctx, group, start, end)
	if err != nil {
		return nil, fmt.Errorf("list today submissions: %w", err)
	}
	return submissions, nil
}

// PendingSubmissions сегодняшние heads-up, ещё не обработанные админом
func (s *AttendanceService) PendingSubmissions(ctx context.Context, group string) ([]*model.HeadsUpSubmission, error) {
	submissions, err := s.TodaySubmissions(ctx, group)
	if err != nil {
		return nil, err
	}

	pending := make([]*model.HeadsUpSubmission, 0, len(submissions))
	for _, sub := range submissions {
		if !sub.CheckedOut {
			pending = append(pending, sub)
		}
	}
	return pending, nil
}

// Roster все студенты группы
func (s *AttendanceService) Roster(ctx context.Context, group string) ([]*model.Student, error) {
	roster, err := s.students.ListByGroup(ctx, group)
	if err != nil {
		return nil, fmt.Errorf("list group students: %w", err)
	}
	return roster, nil
}

// ActiveStudents студенты группы без необработанного heads-up за сегодня
func (s *AttendanceService) ActiveStudents(ctx context.Context, group string) ([]model.Student, error) {
	roster, err := s.Roster(ctx, group)
	if err != nil {
		return nil, err
	}

	pending, err := s.PendingSubmissions(ctx, group)
	if err != nil {
		return nil, err
	}

	active := make([]model.Student, 0, len(roster))
	for _, student := range roster {
		if !s.hasSubmission(student, pending) {
			active = append(active, *student)
		}
	}
	return active, nil
}

// hasSubmission сравнивает по Telegram ID, если он есть у обоих, иначе по имени
func (s *AttendanceService) hasSubmission(student *model.Student, submissions []*model.HeadsUpSubmission) bool {
	for _, sub := range submissions {
		if student.HasTelegramID() && sub.TelegramID != nil {
			if *student.TelegramID == *sub.TelegramID {
				return true
			}
			continue
		}
		if s.matcher.Matches(student.Name, sub.StudentName) {
			return true
		}
	}
	return false
}

// MarkAbsent создаёт неуважительные отметки для выбранных студентов группы
func (s *AttendanceService) MarkAbsent(ctx context.Context, group string, studentIDs []int64) ([]*model.HeadsUpSubmission, error) {
	if len(studentIDs) == 0 {
		return nil, ErrNothingSelected
	}

	roster, err := s.students.ListByGroup(ctx, group)
	if err != nil {
		return nil, fmt.Errorf("list group students: %w", err)
	}

	selected := make(map[int64]bool, len(studentIDs))
	for _, id := range studentIDs {
		selected[id] = true
	}

	now := s.now()
	var marks []*model.HeadsUpSubmission
	for _, student := range roster {
		if !selected[student.ID] {
			continue
		}
		marks = append(marks, &model.HeadsUpSubmission{
			StudentName: student.Name,
			Group:       student.Group,
			Message:     model.AbsentWithoutHeadsUp,
			TelegramID:  student.TelegramID,
			SubmittedAt: now,
			IsExcused:   false,
		})
	}

	if len(marks) == 0 {
		return nil, ErrNothingSelected
	}

	if err := s.submissions.CreateMany(ctx, marks); err != nil {
		return nil, fmt.Errorf("create absentee marks: %w", err)
	}

	s.logger.Info("Absentees marked",
		zap.String("group", group),
		zap.Int("count", len(marks)),
	)

	return marks, nil
}

// MarkPresent подтверждает выбранные heads-up: уважительная причина и обработано
func (s *AttendanceService) MarkPresent(ctx context.Context, submissionIDs []string) (int64, error) {
	if len(submissionIDs) == 0 {
		return 0, ErrNothingSelected
	}

	affected, err := s.submissions.MarkPresent(ctx, submissionIDs)
	if err != nil {
		return 0, err
	}

	s.logger.Info("Attendees checked out", zap.Int64("count", affected))
	return affected, nil
}

// History все heads-up выбранных студентов группы
func (s *AttendanceService) History(ctx context.Context, group string, studentIDs []int64) ([]StudentHistory, error) {
	if len(studentIDs) == 0 {
		return nil, ErrNothingSelected
	}

	var students []*model.Student
	var names []string
	for _, id := range studentIDs {
		student, err := s.students.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get student: %w", err)
		}
		if student == nil || student.Group != group {
			continue
		}
		students = append(students, student)
		names = append(names, student.Name)
	}

	if len(students) == 0 {
		return nil, ErrNothingSelected
	}

	submissions, err := s.submissions.ListByGroupAndNames(ctx, group, names)
	if err != nil {
		return nil, fmt.Errorf("list student submissions: %w", err)
	}

	history := make([]StudentHistory, 0, len(students))
	for _, student := range students {
		h := StudentHistory{Student: student}
		for _, sub := range submissions {
			if sub.StudentName == student.Name {
				h.Submissions = append(h.Submissions, sub)
			}
		}
		history = append(history, h)
	}
	return history, nil
}

// ExcusedReport сегодняшние heads-up группы по категориям
func (s *AttendanceService) ExcusedReport(ctx context.Context, group string) (*ExcusedReport, error) {
	submissions, err := s.TodaySubmissions(ctx, group)
	if err != nil {
		return nil, err
	}

	start, _ := s.Today()
	report := &ExcusedReport{Group: group, Day: start}
	for _, sub := range submissions {
		if sub.IsExcused {
			report.Excused = append(report.Excused, sub)
		} else {
			report.Unexcused = append(report.Unexcused, sub)
		}
	}
	return report, nil
}

// Location часовой пояс, в котором считается "сегодня"
func (s *AttendanceService) Location() *time.Location {
	return s.location
}

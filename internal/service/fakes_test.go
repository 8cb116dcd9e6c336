package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/headsup_bot/internal/model"
	"github.com/Freeeeeet/headsup_bot/internal/repository"
)

type mockStudentRepo struct {
	mu          sync.Mutex
	students    []*model.Student
	registerErr error
}

func (m *mockStudentRepo) GetByID(_ context.Context, id int64) (*model.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.students {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockStudentRepo) GetByTelegramID(_ context.Context, telegramID int64) (*model.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.students {
		if s.IsRegistered && s.TelegramID != nil && *s.TelegramID == telegramID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockStudentRepo) ListByGroup(_ context.Context, group string) ([]*model.Student, error) {
	return m.filter(func(s *model.Student) bool { return s.Group == group }), nil
}

func (m *mockStudentRepo) ListUnregisteredByGroup(_ context.Context, group string) ([]*model.Student, error) {
	return m.filter(func(s *model.Student) bool { return s.Group == group && !s.IsRegistered }), nil
}

func (m *mockStudentRepo) Register(_ context.Context, studentID, telegramID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.registerErr != nil {
		return m.registerErr
	}
	for _, s := range m.students {
		if s.ID == studentID {
			if s.IsRegistered {
				return repository.ErrStudentAlreadyRegistered
			}
			id := telegramID
			s.TelegramID = &id
			s.IsRegistered = true
			return nil
		}
	}
	return fmt.Errorf("student %d not found", studentID)
}

func (m *mockStudentRepo) filter(keep func(*model.Student) bool) []*model.Student {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Student
	for _, s := range m.students {
		if keep(s) {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out
}

type mockSubmissionRepo struct {
	mu    sync.Mutex
	items []*model.HeadsUpSubmission
	err   error
}

func (m *mockSubmissionRepo) CreateMany(_ context.Context, submissions []*model.HeadsUpSubmission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, s := range submissions {
		s.ID = fmt.Sprintf("sub-%d", len(m.items)+1)
		cp := *s
		m.items = append(m.items, &cp)
	}
	return nil
}

func (m *mockSubmissionRepo) ListByGroupAndRange(_ context.Context, group string, start, end time.Time) ([]*model.HeadsUpSubmission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []*model.HeadsUpSubmission
	for _, s := range m.items {
		if s.Group == group && !s.SubmittedAt.Before(start) && s.SubmittedAt.Before(end) {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockSubmissionRepo) ListByGroupAndNames(_ context.Context, group string, names []string) ([]*model.HeadsUpSubmission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wanted := make(map[string]bool)
	for _, n := range names {
		wanted[n] = true
	}
	var out []*model.HeadsUpSubmission
	for _, s := range m.items {
		if s.Group == group && wanted[s.StudentName] {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

func (m *mockSubmissionRepo) MarkPresent(_ context.Context, ids []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wanted := make(map[string]bool)
	for _, id := range ids {
		wanted[id] = true
	}
	var n int64
	for _, s := range m.items {
		if wanted[s.ID] {
			s.IsExcused = true
			s.CheckedOut = true
			n++
		}
	}
	return n, nil
}

type mockSessionRepo struct {
	saved []*model.Session
	err   error
}

func (m *mockSessionRepo) Save(_ context.Context, session *model.Session) error {
	if m.err != nil {
		return m.err
	}
	session.ID = fmt.Sprintf("session-%d", len(m.saved)+1)
	m.saved = append(m.saved, session)
	return nil
}

func int64Ptr(v int64) *int64 { return &v }

// fixedNow 10:00 по Аддис-Абебе
var fixedNow = time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC)

func addis() *time.Location {
	return time.FixedZone("EAT", 3*60*60)
}

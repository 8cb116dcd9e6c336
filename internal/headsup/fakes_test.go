package headsup

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Freeeeeet/headsup_bot/internal/model"
)

type fakeCompleter struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeRoster struct {
	byTelegramID map[int64]*model.Student
	err          error
}

func (f *fakeRoster) GetByTelegramID(_ context.Context, telegramID int64) (*model.Student, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byTelegramID[telegramID], nil
}

type fakeSubmissions struct {
	mu        sync.Mutex
	items     []*model.HeadsUpSubmission
	upsertErr error
	nextID    int
	findDelay time.Duration
}

func (f *fakeSubmissions) FindRecentByTelegramID(_ context.Context, telegramID int64, since time.Time) (*model.HeadsUpSubmission, error) {
	if f.findDelay > 0 {
		time.Sleep(f.findDelay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var found *model.HeadsUpSubmission
	for _, s := range f.items {
		if s.TelegramID == nil || *s.TelegramID != telegramID || s.SubmittedAt.Before(since) {
			continue
		}
		if found == nil || s.SubmittedAt.After(found.SubmittedAt) {
			found = s
		}
	}
	if found == nil {
		return nil, nil
	}
	cp := *found
	return &cp, nil
}

func (f *fakeSubmissions) Upsert(_ context.Context, s *model.HeadsUpSubmission) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.upsertErr != nil {
		return f.upsertErr
	}
	if s.ID == "" {
		f.nextID++
		s.ID = fmt.Sprintf("sub-%d", f.nextID)
		cp := *s
		f.items = append(f.items, &cp)
		return nil
	}
	for i, existing := range f.items {
		if existing.ID == s.ID {
			cp := *s
			f.items[i] = &cp
			return nil
		}
	}
	return fmt.Errorf("submission %s not found", s.ID)
}

func (f *fakeSubmissions) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

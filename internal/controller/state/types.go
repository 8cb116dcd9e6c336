package state

import (
	"context"
	"slices"
	"strconv"
	"time"
)

// Flow вид незавершённого диалога
type Flow string

const (
	FlowNone Flow = "" // Нет активного диалога

	// Регистрация в личном чате
	FlowRegistration Flow = "registration"

	// Ожидание ссылок на задачи после /pair_programming
	FlowPairProgramming Flow = "pair_programming"

	// Клавиатуры выбора студентов
	FlowGrouping   Flow = "grouping"
	FlowAbsentee   Flow = "absentee"
	FlowAttendee   Flow = "attendee"
	FlowAttendance Flow = "attendance"
)

// Key владелец состояния: пользователь в конкретном чате
type Key struct {
	ChatID int64
	UserID int64
}

// Option пункт клавиатуры выбора
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Pending временные данные пользователя во время диалога
type Pending struct {
	Flow      Flow      `json:"flow"`
	OwnerID   int64     `json:"owner_id"`
	Group     string    `json:"group,omitempty"`
	ThreadID  int       `json:"thread_id,omitempty"`
	MessageID int       `json:"message_id,omitempty"`
	School    string    `json:"school,omitempty"`
	StudentID int64     `json:"student_id,omitempty"`
	Options   []Option  `json:"options,omitempty"`
	Selected  []string  `json:"selected,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store хранилище состояний с TTL. Get возвращает nil, если записи нет или она истекла.
type Store interface {
	Get(ctx context.Context, key Key) (*Pending, error)
	Set(ctx context.Context, key Key, p *Pending) error
	Delete(ctx context.Context, key Key) error
}

// OwnedBy проверяет, что состояние принадлежит пользователю
func (p *Pending) OwnedBy(userID int64) bool {
	return p != nil && p.OwnerID == userID
}

// IsSelected отмечен ли пункт
func (p *Pending) IsSelected(id string) bool {
	return slices.Contains(p.Selected, id)
}

// HasOption есть ли пункт среди предложенных
func (p *Pending) HasOption(id string) bool {
	for _, o := range p.Options {
		if o.ID == id {
			return true
		}
	}
	return false
}

// Toggle переключает отметку пункта, неизвестные пункты игнорируются
func (p *Pending) Toggle(id string) bool {
	if !p.HasOption(id) {
		return false
	}
	if i := slices.Index(p.Selected, id); i >= 0 {
		p.Selected = slices.Delete(p.Selected, i, i+1)
		return true
	}
	p.Selected = append(p.Selected, id)
	return true
}

// SelectedInt64 выбранные пункты как числовые ID, нечисловые пропускаются
func (p *Pending) SelectedInt64() []int64 {
	ids := make([]int64, 0, len(p.Selected))
	for _, s := range p.Selected {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func (p *Pending) clone() *Pending {
	cp := *p
	cp.Options = slices.Clone(p.Options)
	cp.Selected = slices.Clone(p.Selected)
	return &cp
}

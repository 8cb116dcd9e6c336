package state

import (
	"context"
	"sync"
	"time"
)

// Manager хранит состояния пользователей в памяти
type Manager struct {
	mu     sync.RWMutex
	states map[Key]*Pending
	ttl    time.Duration
	now    func() time.Time
}

// NewManager создаёт новый менеджер состояний
func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		states: make(map[Key]*Pending),
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock подменяет источник времени
func (sm *Manager) WithClock(now func() time.Time) *Manager {
	sm.now = now
	return sm
}

// Get возвращает копию состояния, чтобы избежать race condition
func (sm *Manager) Get(_ context.Context, key Key) (*Pending, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	p, exists := sm.states[key]
	if !exists || !sm.now().Before(p.ExpiresAt) {
		return nil, nil
	}
	return p.clone(), nil
}

// Set сохраняет состояние и продлевает срок жизни
func (sm *Manager) Set(_ context.Context, key Key, p *Pending) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if p == nil || p.Flow == FlowNone {
		// Пустое состояние равносильно удалению
		delete(sm.states, key)
		return nil
	}

	p.ExpiresAt = sm.now().Add(sm.ttl)
	sm.states[key] = p.clone()
	return nil
}

// Delete очищает состояние пользователя
func (sm *Manager) Delete(_ context.Context, key Key) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.states, key)
	return nil
}

// Sweep удаляет истёкшие записи и возвращает их количество
func (sm *Manager) Sweep() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	now := sm.now()
	removed := 0
	for key, p := range sm.states {
		if !now.Before(p.ExpiresAt) {
			delete(sm.states, key)
			removed++
		}
	}
	return removed
}

// Len количество хранимых записей, включая истёкшие
func (sm *Manager) Len() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.states)
}

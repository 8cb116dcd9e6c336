package model

import "time"

type Student struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	School       string    `json:"school"`
	Group        string    `json:"group"`
	TelegramID   *int64    `json:"telegram_id"` // заполняется при подтверждении регистрации
	IsRegistered bool      `json:"is_registered"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasTelegramID сообщает, привязан ли студент к аккаунту Telegram
func (s *Student) HasTelegramID() bool {
	return s.TelegramID != nil && *s.TelegramID != 0
}

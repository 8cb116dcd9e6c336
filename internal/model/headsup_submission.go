package model

import "time"

// AbsentWithoutHeadsUp текст, с которым сохраняется отметка об отсутствии без heads-up
const AbsentWithoutHeadsUp = "did not write any headsup"

type HeadsUpSubmission struct {
	ID          string    `json:"id"`
	StudentName string    `json:"student_name"` // официальное имя из реестра
	Group       string    `json:"group"`
	Message     string    `json:"message"`
	TelegramID  *int64    `json:"telegram_id"`
	SubmittedAt time.Time `json:"submitted_at"`
	IsExcused   bool      `json:"is_excused"`
	CheckedOut  bool      `json:"checked_out"` // обработано админом через /attendee
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

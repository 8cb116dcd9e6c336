package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Freeeeeet/headsup_bot/internal/model"
	"github.com/Freeeeeet/headsup_bot/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SessionRepository struct {
	*base.Repository
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{Repository: base.NewRepository(pool)}
}

// Save сохраняет сессию вместе со снимком пар и вопросов
func (r *SessionRepository) Save(ctx context.Context, session *model.Session) error {
	pairs, err := json.Marshal(nonNil(session.Pairs))
	if err != nil {
		return fmt.Errorf("marshal session pairs: %w", err)
	}
	questions, err := json.Marshal(nonNil(session.Questions))
	if err != nil {
		return fmt.Errorf("marshal session questions: %w", err)
	}

	id := uuid.New()
	query := `
		INSERT INTO sessions (id, type, group_code, pairs, questions)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err = r.QueryRow(ctx, query, id, string(session.Type), session.Group, pairs, questions).
		Scan(&session.CreatedAt)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	session.ID = id.String()
	return nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

package callbacks

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/headsup_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/headsup_bot/internal/controller/state"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	groupChatID = int64(-100500)
	adminID     = int64(42)
	keyboardID  = 77
)

func newTestHandler(t *testing.T) (*Handler, *state.Manager) {
	t.Helper()
	store := state.NewManager(time.Minute)
	return NewHandler(nil, nil, nil, store, nil, zap.NewNop()), store
}

func pressedBy(userID int64, messageID int) *common.HandlerContext {
	return &common.HandlerContext{
		Ctx:      context.Background(),
		Callback: &models.CallbackQuery{ID: "cb", From: models.User{ID: userID}, Data: "sel_confirm"},
		Message:  &models.Message{ID: messageID, Chat: models.Chat{ID: groupChatID}},
		UserID:   userID,
		ChatID:   groupChatID,
	}
}

func TestLoadPending(t *testing.T) {
	h, store := newTestHandler(t)
	require.NoError(t, store.Set(context.Background(), state.Key{ChatID: groupChatID, UserID: adminID}, &state.Pending{
		Flow:      state.FlowGrouping,
		OwnerID:   adminID,
		Group:     "G61",
		MessageID: keyboardID,
	}))

	t.Run("owner on own keyboard", func(t *testing.T) {
		p, err := h.loadPending(pressedBy(adminID, keyboardID), selectionFlows...)
		require.NoError(t, err)
		assert.Equal(t, "G61", p.Group)
	})

	t.Run("another user", func(t *testing.T) {
		_, err := h.loadPending(pressedBy(7, keyboardID), selectionFlows...)
		assert.ErrorIs(t, err, common.ErrNotYourSelection)
	})

	t.Run("stale keyboard", func(t *testing.T) {
		_, err := h.loadPending(pressedBy(adminID, keyboardID-1), selectionFlows...)
		assert.ErrorIs(t, err, common.ErrNotYourSelection)
	})

	t.Run("wrong flow", func(t *testing.T) {
		_, err := h.loadPending(pressedBy(adminID, keyboardID), state.FlowRegistration)
		assert.ErrorIs(t, err, common.ErrNotYourSelection)
	})

	t.Run("no message", func(t *testing.T) {
		hc := pressedBy(adminID, keyboardID)
		hc.Message = nil
		_, err := h.loadPending(hc, selectionFlows...)
		assert.ErrorIs(t, err, common.ErrNoMessage)
	})
}

func TestLoadPending_Expired(t *testing.T) {
	h, store := newTestHandler(t)
	now := time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC)
	store.WithClock(func() time.Time { return now })

	require.NoError(t, store.Set(context.Background(), state.Key{ChatID: groupChatID, UserID: adminID}, &state.Pending{
		Flow:      state.FlowAbsentee,
		OwnerID:   adminID,
		MessageID: keyboardID,
	}))

	now = now.Add(2 * time.Minute)
	_, err := h.loadPending(pressedBy(adminID, keyboardID), selectionFlows...)
	assert.ErrorIs(t, err, common.ErrNotYourSelection)
}

package state

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	sm := NewManager(time.Minute)
	key := Key{ChatID: -100, UserID: 7}

	got, err := sm.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, sm.Set(ctx, key, &Pending{Flow: FlowAbsentee, OwnerID: 7, Group: "G61"}))

	got, err = sm.Get(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "G61", got.Group)
	assert.True(t, got.OwnedBy(7))

	require.NoError(t, sm.Delete(ctx, key))
	got, err = sm.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestManager_UsersInSameChatAreIsolated(t *testing.T) {
	ctx := context.Background()
	sm := NewManager(time.Minute)

	require.NoError(t, sm.Set(ctx, Key{ChatID: -100, UserID: 1}, &Pending{Flow: FlowGrouping, OwnerID: 1}))

	other, err := sm.Get(ctx, Key{ChatID: -100, UserID: 2})
	require.NoError(t, err)
	assert.Nil(t, other)

	otherChat, err := sm.Get(ctx, Key{ChatID: -200, UserID: 1})
	require.NoError(t, err)
	assert.Nil(t, otherChat)
}

func TestManager_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC)
	sm := NewManager(15 * time.Minute).WithClock(func() time.Time { return now })

	require.NoError(t, sm.Set(ctx, Key{ChatID: 1, UserID: 1}, &Pending{Flow: FlowAttendee, OwnerID: 1}))
	now = now.Add(10 * time.Minute)
	require.NoError(t, sm.Set(ctx, Key{ChatID: 1, UserID: 2}, &Pending{Flow: FlowAttendee, OwnerID: 2}))

	now = now.Add(6 * time.Minute)
	first, err := sm.Get(ctx, Key{ChatID: 1, UserID: 1})
	require.NoError(t, err)
	assert.Nil(t, first)

	second, err := sm.Get(ctx, Key{ChatID: 1, UserID: 2})
	require.NoError(t, err)
	assert.NotNil(t, second)

	assert.Equal(t, 1, sm.Sweep())
	assert.Equal(t, 1, sm.Len())
}

func TestManager_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	sm := NewManager(time.Minute)
	key := Key{ChatID: 1, UserID: 1}

	require.NoError(t, sm.Set(ctx, key, &Pending{
		Flow:    FlowAbsentee,
		OwnerID: 1,
		Options: []Option{{ID: "1", Label: "Abebe"}},
	}))

	got, err := sm.Get(ctx, key)
	require.NoError(t, err)
	got.Toggle("1")

	again, err := sm.Get(ctx, key)
	require.NoError(t, err)
	assert.Empty(t, again.Selected)
}

func TestManager_SetNoneDeletes(t *testing.T) {
	ctx := context.Background()
	sm := NewManager(time.Minute)
	key := Key{ChatID: 1, UserID: 1}

	require.NoError(t, sm.Set(ctx, key, &Pending{Flow: FlowGrouping, OwnerID: 1}))
	require.NoError(t, sm.Set(ctx, key, &Pending{}))
	assert.Zero(t, sm.Len())
}

func TestPending_Toggle(t *testing.T) {
	p := &Pending{Options: []Option{{ID: "1"}, {ID: "2"}, {ID: "x"}}}

	assert.True(t, p.Toggle("1"))
	assert.True(t, p.Toggle("2"))
	assert.True(t, p.Toggle("x"))
	assert.False(t, p.Toggle("99"))
	assert.True(t, p.IsSelected("2"))

	assert.True(t, p.Toggle("2"))
	assert.False(t, p.IsSelected("2"))
	assert.Equal(t, []int64{1}, p.SelectedInt64())
}

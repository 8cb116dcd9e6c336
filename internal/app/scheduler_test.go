package app

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type countingSweeper struct {
	calls    atomic.Int32
	lenCalls atomic.Int32
}

func (c *countingSweeper) Sweep() int {
	c.calls.Add(1)
	return 1
}

func (c *countingSweeper) Len() int {
	c.lenCalls.Add(1)
	return 0
}

func TestScheduler_SweepsUntilStopped(t *testing.T) {
	sweeper := &countingSweeper{}
	s := NewScheduler(sweeper, 5*time.Millisecond, zap.NewNop())

	s.Start(context.Background())
	assert.Eventually(t, func() bool { return sweeper.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	s.Stop()
	assert.Positive(t, sweeper.lenCalls.Load(), "remaining count is reported after a sweep")

	stopped := sweeper.calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, sweeper.calls.Load())
}

func TestScheduler_ContextCancel(t *testing.T) {
	sweeper := &countingSweeper{}
	s := NewScheduler(sweeper, time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	cancel()

	select {
	case <-s.done:
	case <-time.After(time.Second):
		t.Fatal("sweep task did not stop on context cancel")
	}
}

func TestScheduler_NilSweeper(t *testing.T) {
	s := NewScheduler(nil, time.Millisecond, zap.NewNop())
	s.Start(context.Background())
	s.Stop()
}

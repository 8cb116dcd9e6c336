package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper удаляет истёкшие записи и возвращает их количество
type Sweeper interface {
	Sweep() int
	Len() int
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	sweeper  Sweeper
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
	done     chan struct{}
}

// NewScheduler создаёт новый планировщик. При nil sweeper задача не запускается.
func NewScheduler(sweeper Sweeper, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		sweeper:  sweeper,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	if s.sweeper == nil {
		close(s.done)
		return
	}

	s.logger.Info("Starting background scheduler", zap.Duration("interval", s.interval))
	go s.runSweepTask(ctx)
}

// Stop останавливает фоновые задачи и ждёт их завершения
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
	<-s.done
}

// runSweepTask периодически чистит истёкшие состояния диалогов
func (s *Scheduler) runSweepTask(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopChan:
			s.logger.Info("State sweep task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("State sweep task cancelled")
			return
		}
	}
}

func (s *Scheduler) sweep() {
	if removed := s.sweeper.Sweep(); removed > 0 {
		s.logger.Debug("Expired pending states removed",
			zap.Int("count", removed),
			zap.Int("remaining", s.sweeper.Len()),
		)
	}
}

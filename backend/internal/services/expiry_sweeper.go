package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// sweepTimeout сколько может длиться один проход
const sweepTimeout = time.Minute

// ExpirySweeper периодически закрывает вакансии с истекшим сроком
type ExpirySweeper struct {
	jobs   *JobPostingService
	cron   *cron.Cron
	logger *zap.Logger
	clock  Clock

	mu      sync.Mutex
	entryID cron.EntryID
	started bool
}

// NewExpirySweeper создает планировщик. Расписание с секундами: "0 */5 * * * *".
func NewExpirySweeper(jobs *JobPostingService, logger *zap.Logger) *ExpirySweeper {
	return &ExpirySweeper{
		jobs:   jobs,
		cron:   cron.New(cron.WithSeconds()),
		logger: logger,
	}
}

// Start планирует проход по расписанию и запускает cron
func (e *ExpirySweeper) Start(spec string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return fmt.Errorf("expiry sweeper already started")
	}

	entryID, err := e.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()

		if _, err := e.RunOnce(ctx); err != nil {
			e.logger.Error("Expiry sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule expiry sweep: %w", err)
	}

	e.entryID = entryID
	e.started = true
	e.cron.Start()

	e.logger.Info("Expiry sweeper started", zap.String("cron", spec))
	return nil
}

// RunOnce один проход
func (e *ExpirySweeper) RunOnce(ctx context.Context) (int, error) {
	return e.jobs.ExpireOverdue(ctx, e.clock.now())
}

// Stop останавливает cron и ждет завершения текущего прохода
func (e *ExpirySweeper) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return
	}

	e.cron.Remove(e.entryID)
	<-e.cron.Stop().Done()
	e.started = false

	e.logger.Info("Expiry sweeper stopped")
}

package workers

import (
	"context"
	"time"

	"wedding_backend/internal/logger"

	"gorm.io/gorm"
)

// AutoReminderRunner - сервис напоминаний с точки зрения воркера
type AutoReminderRunner interface {
	RunAutoReminders(ctx context.Context, db *gorm.DB, now time.Time) (int, error)
}

type ReminderWorker struct {
	db       *gorm.DB
	runner   AutoReminderRunner
	interval time.Duration
}

func NewReminderWorker(db *gorm.DB, runner AutoReminderRunner, interval time.Duration) *ReminderWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &ReminderWorker{db: db, runner: runner, interval: interval}
}

// Start запускает ежечасную рассылку автоматических напоминаний
func (w *ReminderWorker) Start(ctx context.Context) {
	go w.loop(ctx)
}

func (w *ReminderWorker) loop(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Reminder worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce - один проход (используется и командой send-reminders)
func (w *ReminderWorker) RunOnce(ctx context.Context) int {
	sent, err := w.runner.RunAutoReminders(ctx, w.db, time.Now())
	logger.WorkerLog("reminder_worker", "auto_reminders", err)
	if sent > 0 {
		logger.Info("Auto reminders sent", "count", sent)
	}
	return sent
}

// Package reminder - фоновый сканер напоминаний о предстоящих записях.
//
// Несколько экземпляров воркера координируются через распределённую блокировку:
// скан выполняет только держатель. Флаг reminded_* на записи - единственная
// гарантия идемпотентности: выставляется после успешной отправки, поэтому при
// падении между отправкой и отметкой напоминание может прийти дважды, но
// никогда не потеряется.
package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Config настройки воркера
type Config struct {
	Interval  time.Duration // период между сканами
	Tolerance time.Duration // ширина окна срабатывания после lead
}

// Worker периодически рассылает напоминания за 24 часа и за 1 час до записи
type Worker struct {
	repo         AppointmentRepository
	notifier     Notifier
	lock         Lock
	cfg          Config
	timeProvider TimeProvider
	logger       Logger
}

// NewWorker создает новый воркер напоминаний
func NewWorker(repo AppointmentRepository, notifier Notifier, lock Lock, cfg Config, logger Logger) *Worker {
	return &Worker{
		repo:         repo,
		notifier:     notifier,
		lock:         lock,
		cfg:          cfg,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Run крутит цикл сканирования до отмены контекста
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("reminder worker started, interval=%s, tolerance=%s", w.cfg.Interval, w.cfg.Tolerance)

	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("reminder worker stopped")
			return ctx.Err()
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce выполняет один скан под блокировкой. Если блокировку держит другой
// экземпляр, тик пропускается.
func (w *Worker) RunOnce(ctx context.Context) {
	acquired, err := w.lock.TryAcquire(ctx)
	if err != nil {
		w.logger.Error("reminder: failed to acquire lock: %v", err)
		return
	}
	if !acquired {
		w.logger.Debug("reminder: lock held by another instance, skipping tick")
		return
	}
	defer func() {
		if err := w.lock.Release(ctx); err != nil {
			w.logger.Warn("reminder: failed to release lock: %v", err)
		}
	}()

	for _, kind := range domain.ReminderKinds {
		if err := w.scanKind(ctx, kind); err != nil {
			w.logger.Error("reminder: scan %s failed: %v", kind, err)
		}
	}
}

// scanKind обрабатывает одно окно: записи, начинающиеся в
// [now+lead, now+lead+tolerance), без выставленного флага kind
func (w *Worker) scanKind(ctx context.Context, kind domain.ReminderKind) error {
	now := w.timeProvider.Now()
	from := now.Add(kind.Lead())
	to := from.Add(w.cfg.Tolerance)

	due, err := w.repo.ListDueReminders(ctx, kind, from, to)
	if err != nil {
		return fmt.Errorf("list due reminders: %w", err)
	}
	if len(due) == 0 {
		return nil
	}

	w.logger.Info("reminder: %d appointments due for %s reminder", len(due), kind)

	for _, appt := range due {
		text := reminderText(kind, appt)

		if err := w.notifier.Send(ctx, appt.UserID, text); err != nil {
			// Флаг не трогаем - запись попадёт в следующий скан
			w.logger.Error("reminder: failed to notify user=%d, appointment=%d: %v",
				appt.UserID, appt.ID, err)
			continue
		}

		if err := w.repo.MarkReminded(ctx, appt.ID, kind); err != nil {
			w.logger.Error("reminder: failed to mark appointment=%d reminded (%s): %v",
				appt.ID, kind, err)
			continue
		}

		w.logger.Info("reminder: sent %s reminder for appointment=%d to user=%d",
			kind, appt.ID, appt.UserID)
	}

	return nil
}

func reminderText(kind domain.ReminderKind, appt *domain.UpcomingAppointment) string {
	switch kind {
	case domain.Reminder24h:
		return fmt.Sprintf("Напоминаем: завтра в %s у вас запись к мастеру %s (%s).",
			appt.StartsAt.Format(domain.TimeFormat), appt.MasterName, appt.ServiceName)
	default:
		return fmt.Sprintf("Через час, в %s, у вас запись к мастеру %s (%s).",
			appt.StartsAt.Format(domain.TimeFormat), appt.MasterName, appt.ServiceName)
	}
}

// internal/app/system/workers/reminders.go
package workers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dalemusser/carehub/internal/app/store/docstore"
	"github.com/dalemusser/carehub/internal/app/system/metrics"
	"github.com/dalemusser/carehub/internal/app/system/realtime"
	"github.com/dalemusser/carehub/internal/app/system/timeouts"
	"github.com/dalemusser/carehub/internal/domain/models"
	"go.uber.org/zap"
)

// Notifier is the part of notify.Notifier the scanner uses.
type Notifier interface {
	Notify(ctx context.Context, note models.Notification, recipients ...string) (models.Notification, error)
}

// ReminderConfig controls the reminder scanner.
type ReminderConfig struct {
	// Interval between scans.
	Interval time.Duration
	// Window is how far ahead of now an appointment becomes due:
	// appointments with time in (now, now+Window] are reminded.
	Window time.Duration
	// Dedup suppresses a second reminder for the same appointment within
	// this duration. Zero disables it, so an appointment still inside the
	// window on the next tick is reminded again.
	Dedup time.Duration
}

// Reminders is a background worker that turns near-term appointments into
// reminder notifications.
type Reminders struct {
	store    docstore.Store
	pub      realtime.Publisher
	notifier Notifier
	log      *zap.Logger
	cfg      ReminderConfig

	mu       sync.Mutex
	reminded map[string]time.Time

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewReminders creates a reminder scanner.
//
// Parameters:
//   - store: the document store
//   - pub: realtime publisher for appointmentReminder events
//   - notifier: persists and pushes the reminder notification
//   - logger: zap logger for logging
//   - cfg: interval, window and dedup settings
func NewReminders(store docstore.Store, pub realtime.Publisher, notifier Notifier, logger *zap.Logger, cfg ReminderConfig) *Reminders {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	return &Reminders{
		store:    store,
		pub:      pub,
		notifier: notifier,
		log:      logger,
		cfg:      cfg,
		reminded: make(map[string]time.Time),
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background scan loop.
func (w *Reminders) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("reminder worker started",
		zap.Duration("interval", w.cfg.Interval),
		zap.Duration("window", w.cfg.Window),
		zap.Duration("dedup", w.cfg.Dedup))
}

// Stop signals the worker to stop and waits for it to finish. It is safe to
// call more than once.
func (w *Reminders) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("reminder worker stopped")
	})
}

func (w *Reminders) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), timeouts.Scan())
			if _, err := w.Scan(ctx, time.Now()); err != nil {
				w.log.Error("reminder scan failed", zap.Error(err))
			}
			cancel()
		}
	}
}

// Scan reminds every appointment due in (now, now+Window] and returns how
// many reminders were emitted.
func (w *Reminders) Scan(ctx context.Context, now time.Time) (int, error) {
	doc, err := w.store.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load document: %w", err)
	}

	nowMs := now.UnixMilli()
	until := nowMs + w.cfg.Window.Milliseconds()

	w.pruneReminded(now)

	count := 0
	for _, appt := range doc.Appointments {
		if appt.Time <= nowMs || appt.Time > until {
			continue
		}
		if !w.claim(appt.ID, now) {
			continue
		}
		if err := w.remind(ctx, appt); err != nil {
			w.release(appt.ID)
			w.log.Error("appointment reminder failed",
				zap.String("appointment_id", appt.ID),
				zap.Error(err))
			continue
		}
		count++
	}

	if count > 0 {
		w.log.Info("appointment reminders sent", zap.Int("count", count))
	}
	return count, nil
}

func (w *Reminders) remind(ctx context.Context, appt models.Appointment) error {
	var recipients []string
	if appt.ForUser != "" {
		recipients = []string{appt.ForUser}
	}

	w.pub.Publish(realtime.Message{
		Event:      realtime.EventAppointmentReminder,
		Data:       realtime.AppointmentEvent{Appointment: appt},
		Recipients: recipients,
	})

	a := appt
	_, err := w.notifier.Notify(ctx, models.Notification{
		Type:        models.NotificationAppointment,
		Message:     "Reminder: " + appt.Title,
		Appointment: &a,
	}, recipients...)
	if err != nil {
		return err
	}
	metrics.Reminders.Inc()
	return nil
}

// claim records that id is being reminded at now. It returns false when
// dedup is on and id was reminded within the dedup window.
func (w *Reminders) claim(id string, now time.Time) bool {
	if w.cfg.Dedup <= 0 {
		return true
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if last, ok := w.reminded[id]; ok && now.Sub(last) < w.cfg.Dedup {
		return false
	}
	w.reminded[id] = now
	return true
}

// release drops a claim so a failed reminder is retried on the next scan.
func (w *Reminders) release(id string) {
	if w.cfg.Dedup <= 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.reminded, id)
}

func (w *Reminders) pruneReminded(now time.Time) {
	if w.cfg.Dedup <= 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for id, at := range w.reminded {
		if now.Sub(at) >= w.cfg.Dedup {
			delete(w.reminded, id)
		}
	}
}

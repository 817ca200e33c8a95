package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ReminderTicker is satisfied by app.ReminderService.
type ReminderTicker interface {
	Tick(ctx context.Context, now time.Time) (bool, error)
}

type ReminderScheduler struct {
	cronEngine            *cron.Cron
	reminders             ReminderTicker
	logger                *logrus.Entry
	cronSpecReminderCheck string
	tickTimeout           time.Duration
	now                   func() time.Time
}

func NewReminderScheduler(
	reminders ReminderTicker,
	logger *logrus.Entry,
	cronSpecReminderCheck string, // e.g., "@every 1m"
) *ReminderScheduler {
	return &ReminderScheduler{
		cronEngine:            cron.New(cron.WithLocation(time.UTC)),
		reminders:             reminders,
		logger:                logger,
		cronSpecReminderCheck: cronSpecReminderCheck,
		tickTimeout:           30 * time.Second,
		now:                   time.Now,
	}
}

// Start runs one check immediately and then registers the periodic job.
func (s *ReminderScheduler) Start() error {
	s.logger.Info("Starting reminder scheduler...")

	s.runReminderCheck()

	_, err := s.cronEngine.AddFunc(s.cronSpecReminderCheck, s.runReminderCheck)
	if err != nil {
		return fmt.Errorf("could not add reminder check cron job %q: %w", s.cronSpecReminderCheck, err)
	}

	s.cronEngine.Start()
	s.logger.WithField("spec", s.cronSpecReminderCheck).Info("Reminder scheduler started.")
	return nil
}

func (s *ReminderScheduler) runReminderCheck() {
	ctx, cancel := context.WithTimeout(context.Background(), s.tickTimeout)
	defer cancel()

	sent, err := s.reminders.Tick(ctx, s.now())
	if err != nil {
		s.logger.WithError(err).Error("Error during reminder check")
		return
	}
	if sent {
		s.logger.Info("Daily reminder sent.")
	}
}

func (s *ReminderScheduler) Stop() {
	s.logger.Info("Stopping reminder scheduler...")
	ctx := s.cronEngine.Stop() // Waits for running jobs.
	<-ctx.Done()
	s.logger.Info("Reminder scheduler gracefully stopped.")
}

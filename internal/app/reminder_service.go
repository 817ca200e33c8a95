// internal/app/reminder_service.go
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sirupsen/logrus"

	"daily_report_bot/internal/domain/calendar"
	"daily_report_bot/internal/domain/chat"
	"daily_report_bot/internal/domain/reminder"
)

var ErrNotAuthorized = errors.New("caller is not allowed to send reminders")
var ErrReminderChannelNotConfigured = errors.New("reminder channel is not configured")

type ReminderService struct {
	chatClient chat.Client
	state      reminder.StateRepository
	schedule   reminder.Schedule
	channelID  snowflake.ID
	logger     *logrus.Entry
}

func NewReminderService(
	chatClient chat.Client,
	state reminder.StateRepository,
	schedule reminder.Schedule,
	channelID snowflake.ID, // Zero disables reminders
	logger *logrus.Entry,
) *ReminderService {
	return &ReminderService{
		chatClient: chatClient,
		state:      state,
		schedule:   schedule,
		channelID:  channelID,
		logger:     logger,
	}
}

// Enabled reports whether a reminder channel is configured.
func (s *ReminderService) Enabled() bool {
	return s.channelID != 0
}

// Tick sends the daily reminder if now is the scheduled minute and no reminder
// has been recorded for today's date key yet. The marker is written before
// sending so a failed send is not repeated on the same day.
func (s *ReminderService) Tick(ctx context.Context, now time.Time) (bool, error) {
	if !s.Enabled() || !s.schedule.Due(now) {
		return false, nil
	}

	dateKey := calendar.DateKey(now)
	channel := s.channelID.String()
	logCtx := s.logger.WithFields(logrus.Fields{
		"channel_id": channel,
		"date_key":   dateKey,
	})

	lastSent, err := s.state.LastSentDate(ctx, channel)
	if err != nil {
		return false, fmt.Errorf("failed to read reminder state: %w", err)
	}
	if lastSent == dateKey {
		logCtx.Debug("Reminder already sent today. Skipping.")
		return false, nil
	}

	if err := s.state.MarkSent(ctx, channel, dateKey); err != nil {
		return false, fmt.Errorf("failed to record reminder for %s: %w", dateKey, err)
	}

	if err := s.chatClient.SendReminder(ctx, s.channelID, dateKey); err != nil {
		return false, fmt.Errorf("failed to send reminder for %s: %w", dateKey, err)
	}
	logCtx.Info("Reminder sent")
	return true, nil
}

// SendManual sends the reminder right away on behalf of an administrator.
// It does not affect the automatic reminder's daily marker.
func (s *ReminderService) SendManual(ctx context.Context, callerIsAdmin bool, now time.Time) (string, error) {
	if !s.Enabled() {
		return "", ErrReminderChannelNotConfigured
	}
	if !callerIsAdmin {
		return "", ErrNotAuthorized
	}

	dateKey := calendar.DateKey(now)
	if err := s.chatClient.SendReminder(ctx, s.channelID, dateKey); err != nil {
		return "", fmt.Errorf("failed to send manual reminder: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"channel_id": s.channelID.String(),
		"date_key":   dateKey,
	}).Info("Manual reminder sent")
	return dateKey, nil
}

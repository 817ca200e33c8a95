package reminder

import (
	"context"
	"time"

	"daily_report_bot/internal/domain/calendar"
)

// Schedule is the JST time of day the automatic reminder goes out.
type Schedule struct {
	Hour   int
	Minute int
}

// Due reports whether now falls in the scheduled minute.
func (s Schedule) Due(now time.Time) bool {
	t := now.In(calendar.JST)
	return t.Hour() == s.Hour && t.Minute() == s.Minute
}

// StateRepository remembers the last date key a reminder was sent for, per channel.
type StateRepository interface {
	// LastSentDate returns "" if no reminder has been recorded for the channel.
	LastSentDate(ctx context.Context, channelID string) (string, error)
	MarkSent(ctx context.Context, channelID string, dateKey string) error
}

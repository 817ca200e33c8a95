package chat

import (
	"context"

	"github.com/disgoorg/snowflake/v2"

	"daily_report_bot/internal/domain/report"
)

// Client defines the outbound channel messages the application sends.
// This keeps the services independent of the Discord library.
type Client interface {
	// SendReminder posts the daily reminder with a button that opens the report flow.
	SendReminder(ctx context.Context, channelID snowflake.ID, dateKey string) error
	// PostReport posts a formatted summary of a submitted report.
	PostReport(ctx context.Context, channelID snowflake.ID, r *report.Report) error
}

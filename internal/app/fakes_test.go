package app

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sirupsen/logrus"

	"daily_report_bot/internal/domain/report"
)

type fakeReportRepo struct {
	mu      sync.Mutex
	err     error
	reports []*report.Report
}

func (f *fakeReportRepo) Append(_ context.Context, r *report.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.reports = append(f.reports, r)
	return nil
}

type sentReminder struct {
	channelID snowflake.ID
	dateKey   string
}

type fakeChatClient struct {
	mu          sync.Mutex
	reminderErr error
	postErr     error
	reminders   []sentReminder
	posts       []*report.Report
}

func (f *fakeChatClient) SendReminder(_ context.Context, channelID snowflake.ID, dateKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reminderErr != nil {
		return f.reminderErr
	}
	f.reminders = append(f.reminders, sentReminder{channelID: channelID, dateKey: dateKey})
	return nil
}

func (f *fakeChatClient) PostReport(_ context.Context, _ snowflake.ID, r *report.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.postErr != nil {
		return f.postErr
	}
	f.posts = append(f.posts, r)
	return nil
}

type failingState struct{}

func (failingState) LastSentDate(context.Context, string) (string, error) { return "", nil }
func (failingState) MarkSent(context.Context, string, string) error {
	return errors.New("database is down")
}

func discardLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}
